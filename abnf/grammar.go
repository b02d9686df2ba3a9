package abnf

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/dpotapov/textscan"
)

const (
	alphaChars    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	digitChars    = "0123456789"
	hexDigitChars = digitChars + "ABCDEFabcdef"
)

// A Grammar lexes an ABNF grammar definition into a Definition tree.
// It follows RFC 5234 with the char-val update of RFC 7405, with a few
// deliberate leniencies: a bare \n is accepted wherever CRLF is
// required, and | is a synonym for the / alternation separator.
//
// Backtracking productions run inside scanner transactions, so a
// failed sub-parse always restores the cursor before the error
// propagates.
type Grammar struct {
	*textscan.Scanner

	// Logger receives debug records as rules are scanned. Nil disables
	// logging.
	Logger *slog.Logger
}

// NewGrammar returns a Grammar over the given ABNF source.
func NewGrammar(src string) *Grammar {
	return &Grammar{Scanner: textscan.NewScanner(src)}
}

func (g *Grammar) debug(msg string, args ...any) {
	if g.Logger != nil {
		g.Logger.Debug(msg, args...)
	}
}

// Rules parses the grammar and returns its rule definitions in
// declaration order. Content that cannot be parsed as a rule list is
// reported as the error from the failing production.
func (g *Grammar) Rules() ([]*Definition, error) {
	g.SeekTo(0)
	rulelist, err := g.scanRulelist()
	if err != nil {
		return nil, err
	}
	var rules []*Definition
	for _, v := range rulelist.Values {
		if d, ok := v.(*Definition); ok && d.Is(KindRule) {
			rules = append(rules, d)
		}
	}
	return rules, nil
}

func (g *Grammar) newDef(kind Kind, values []any, start, stop int) *Definition {
	return &Definition{
		Kind:    kind,
		Values:  values,
		Start:   start,
		Stop:    stop,
		grammar: g,
	}
}

// optional attempts scan inside a transaction and swallows its error,
// returning nil when the production did not match.
func (g *Grammar) optional(scan func() (*Definition, error)) *Definition {
	var d *Definition
	_ = g.Transaction(func() error {
		v, err := scan()
		if err != nil {
			return err
		}
		d = v
		return nil
	})
	return d
}

// scanRulelist
//
//	rulelist = 1*( rule / (*c-wsp c-nl) )
func (g *Grammar) scanRulelist() (*Definition, error) {
	start := g.Tell()
	var values []any
	var lastErr error

	for {
		var rule *Definition
		err := g.Transaction(func() error {
			d, err := g.scanRule()
			if err != nil {
				return err
			}
			rule = d
			return nil
		})
		if err == nil {
			values = append(values, rule)
			continue
		}
		lastErr = err

		if cwsp := g.optional(g.scanCwsp); cwsp != nil {
			values = append(values, cwsp)
		}
		cnl, err := g.scanCnlTx()
		if err != nil {
			break
		}
		values = append(values, cnl)
	}

	if g.More() {
		return nil, lastErr
	}
	return g.newDef(KindRulelist, values, start, g.Tell()), nil
}

func (g *Grammar) scanCnlTx() (*Definition, error) {
	var cnl *Definition
	err := g.Transaction(func() error {
		d, err := g.scanCnl()
		if err != nil {
			return err
		}
		cnl = d
		return nil
	})
	return cnl, err
}

// scanRule
//
//	rule = rulename defined-as elements c-nl
//	        ; continues if next line starts with white space
func (g *Grammar) scanRule() (*Definition, error) {
	rulename, err := g.scanRulename()
	if err != nil {
		return nil, err
	}
	g.debug("parsing rule", "name", rulename.Values[0], "offset", rulename.Start)

	definedAs, err := g.scanDefinedAs()
	if err != nil {
		return nil, err
	}
	elements, err := g.scanElements()
	if err != nil {
		return nil, err
	}
	cnl, err := g.scanCnl()
	if err != nil {
		return nil, err
	}

	return g.newDef(
		KindRule,
		[]any{rulename, definedAs, elements, cnl},
		rulename.Start,
		cnl.Stop,
	), nil
}

// scanRulename
//
//	rulename = ALPHA *(ALPHA / DIGIT / "-")
func (g *Grammar) scanRulename() (*Definition, error) {
	start := g.Tell()
	ch := g.Peek()
	if ch == "" || !strings.Contains(alphaChars, ch) {
		return nil, syntaxErrorf(start, "[%s] was not an ALPHA character", ch)
	}
	rulename := g.ReadThru(alphaChars + digitChars + "-")
	return g.newDef(KindRulename, []any{rulename}, start, g.Tell()), nil
}

// scanDefinedAs
//
//	defined-as = *c-wsp ("=" / "=/") *c-wsp
//	        ; basic rules definition and incremental alternatives
func (g *Grammar) scanDefinedAs() (*Definition, error) {
	start := g.Tell()
	var values []any

	if cwsp := g.optional(g.scanCwsp); cwsp != nil {
		values = append(values, cwsp)
	}

	signStart := g.Tell()
	sign := g.ReadThru("=/")
	if sign != "=" && sign != "=/" {
		return nil, syntaxErrorf(signStart, "%q is not = or =/", sign)
	}
	values = append(values, sign)

	if cwsp := g.optional(g.scanCwsp); cwsp != nil {
		values = append(values, cwsp)
	}

	d := g.newDef(KindDefinedAs, values, start, g.Tell())
	d.Sign = sign
	return d, nil
}

// scanCwsp
//
//	c-wsp = WSP / (c-nl WSP)
func (g *Grammar) scanCwsp() (*Definition, error) {
	start := g.Tell()
	if space := g.ReadThruHspace(); space != "" {
		return g.newDef(KindCWsp, []any{space}, start, g.Tell()), nil
	}

	comment, err := g.scanCnl()
	if err != nil {
		return nil, err
	}
	start = g.Tell()
	space := g.ReadThruHspace()
	if space == "" {
		return nil, syntaxErrorf(g.Tell(), "(c-nl WSP) missing WSP")
	}
	return g.newDef(KindCWsp, []any{comment, space}, start, g.Tell()), nil
}

// scanCnl
//
//	c-nl = comment / CRLF
//	        ; comment or newline
func (g *Grammar) scanCnl() (*Definition, error) {
	switch ch := g.Peek(); ch {
	case ";":
		comment, err := g.scanComment()
		if err != nil {
			return nil, err
		}
		return g.newDef(KindCNl, []any{comment}, comment.Start, comment.Stop), nil
	case "\r", "\n":
		// restrictions are loosened a bit here: \r\n or a bare \n
		start := g.Tell()
		newline := g.ReadUntilNewline()
		crlf := g.newDef(KindCRLF, []any{newline}, start, g.Tell())
		return g.newDef(KindCNl, []any{crlf}, crlf.Start, crlf.Stop), nil
	default:
		return nil, syntaxErrorf(g.Tell(), "c-nl rule failed")
	}
}

// scanComment
//
//	comment = ";" *(WSP / VCHAR) CRLF
func (g *Grammar) scanComment() (*Definition, error) {
	start := g.Tell()
	if g.Read(1) != ";" {
		return nil, syntaxErrorf(start, "comment must start with ;")
	}
	comment := g.ReadUntilNewline()
	if !strings.HasSuffix(comment, "\n") {
		return nil, syntaxErrorf(g.Tell(), "comment must end with a newline")
	}
	return g.newDef(
		KindComment,
		[]any{strings.TrimSpace(comment)},
		start,
		g.Tell(),
	), nil
}

// scanElements
//
//	elements = alternation *c-wsp
func (g *Grammar) scanElements() (*Definition, error) {
	start := g.Tell()
	var values []any

	alternation, err := g.scanAlternation()
	if err != nil {
		return nil, err
	}
	values = append(values, alternation)

	if cwsp := g.optional(g.scanCwsp); cwsp != nil {
		values = append(values, cwsp)
	}

	return g.newDef(KindElements, values, start, g.Tell()), nil
}

// scanAlternation
//
//	alternation = concatenation *(*c-wsp ("/" | "|") *c-wsp concatenation)
func (g *Grammar) scanAlternation() (*Definition, error) {
	start := g.Tell()
	var values []any

	concatenation, err := g.scanConcatenation()
	if err != nil {
		return nil, err
	}
	values = append(values, concatenation)

	for {
		if cwsp := g.optional(g.scanCwsp); cwsp != nil {
			values = append(values, cwsp)
		}

		ch := g.Peek()
		if ch != "/" && ch != "|" {
			break
		}
		values = append(values, g.Read(1))

		if cwsp := g.optional(g.scanCwsp); cwsp != nil {
			values = append(values, cwsp)
		}

		concatenation, err := g.scanConcatenation()
		if err != nil {
			return nil, err
		}
		values = append(values, concatenation)
	}

	return g.newDef(KindAlternation, values, start, g.Tell()), nil
}

// scanConcatenation
//
//	concatenation = repetition *(1*c-wsp repetition)
func (g *Grammar) scanConcatenation() (*Definition, error) {
	start := g.Tell()
	var values []any

	repetition, err := g.scanRepetition()
	if err != nil {
		return nil, err
	}
	values = append(values, repetition)

	for {
		var cwsp, rep *Definition
		err := g.Transaction(func() error {
			d, err := g.scanCwsp()
			if err != nil {
				return err
			}
			cwsp = d
			r, err := g.scanRepetition()
			if err != nil {
				return err
			}
			rep = r
			return nil
		})
		if err != nil {
			break
		}
		values = append(values, cwsp, rep)
	}

	return g.newDef(KindConcatenation, values, start, g.Tell()), nil
}

// scanRepetition
//
//	repetition = [repeat] element
func (g *Grammar) scanRepetition() (*Definition, error) {
	repeat, err := g.scanRepeat()
	if err != nil {
		return nil, err
	}
	element, err := g.scanElement()
	if err != nil {
		return nil, err
	}
	return g.newDef(
		KindRepetition,
		[]any{repeat, element},
		repeat.Start,
		element.Stop,
	), nil
}

// scanRepeat
//
//	repeat = 1*DIGIT / (*DIGIT "*" *DIGIT)
//
// The produced node's Values are always [min, max], with max == 0
// meaning unlimited. A bare number n yields [n, n].
func (g *Grammar) scanRepeat() (*Definition, error) {
	start := g.Tell()

	minRepeat := 0
	if digits := g.ReadThru(digitChars); digits != "" {
		minRepeat, _ = strconv.Atoi(digits)
	}

	maxRepeat := minRepeat
	if g.Peek() == "*" {
		g.Read(1)
		maxRepeat = 0
		if digits := g.ReadThru(digitChars); digits != "" {
			maxRepeat, _ = strconv.Atoi(digits)
		}
	}

	return g.newDef(
		KindRepeat,
		[]any{minRepeat, maxRepeat},
		start,
		g.Tell(),
	), nil
}

// scanElement
//
//	element = rulename / group / option / char-val / num-val / prose-val
func (g *Grammar) scanElement() (*Definition, error) {
	start := g.Tell()
	var value *Definition
	var err error

	switch ch := g.Peek(); {
	case ch != "" && strings.Contains(alphaChars, ch):
		value, err = g.scanRulename()
	case ch == `"`:
		var qs *Definition
		qs, err = g.scanQuotedString(false)
		if err == nil {
			// wrapped in a char-val to be rfc7405 consistent
			value = g.newDef(KindCharVal, []any{qs}, qs.Start, qs.Stop)
		}
	case ch == "(":
		value, err = g.scanGroup("(", ")")
	case ch == "[":
		value, err = g.scanOption()
	case ch == "%":
		value, err = g.scanVal()
	case ch == "<":
		value, err = g.scanProseVal()
	default:
		return nil, syntaxErrorf(start, "unknown element starting with [%s]", ch)
	}
	if err != nil {
		return nil, err
	}

	return g.newDef(KindElement, []any{value}, start, g.Tell()), nil
}

// scanQuotedString
//
//	quoted-string = DQUOTE *(%x20-21 / %x23-7E) DQUOTE
//	        ; quoted string of SP and VCHAR without DQUOTE
func (g *Grammar) scanQuotedString(caseSensitive bool) (*Definition, error) {
	if g.Peek() != `"` {
		return nil, syntaxErrorf(g.Tell(), "char value begins with double-quote")
	}
	start := g.Tell()
	charval := strings.Trim(g.ReadUntilDelimCount(`"`, 2), `"`)
	d := g.newDef(KindQuotedString, []any{charval}, start, g.Tell())
	d.CaseSensitive = caseSensitive
	return d, nil
}

// scanVal scans a terminal value.
//
//	num-val = "%" (bin-val / dec-val / hex-val)
//	bin-val = "b" 1*BIT [ 1*("." 1*BIT) / ("-" 1*BIT) ]
//	dec-val = "d" 1*DIGIT [ 1*("." 1*DIGIT) / ("-" 1*DIGIT) ]
//	hex-val = "x" 1*HEXDIG [ 1*("." 1*HEXDIG) / ("-" 1*HEXDIG) ]
//	char-val = case-insensitive-string / case-sensitive-string
//	case-insensitive-string = [ "%i" ] quoted-string
//	case-sensitive-string = "%s" quoted-string
func (g *Grammar) scanVal() (*Definition, error) {
	start := g.Tell()
	var values []any

	if ch := g.Read(1); ch != "%" {
		return nil, syntaxErrorf(start, "num-val starts with %%")
	}
	values = append(values, "%")

	marker := g.Read(1)
	values = append(values, marker)

	switch marker {
	case "b", "d", "x":
		var numChars string
		var kind Kind
		switch marker {
		case "b":
			numChars, kind = "01", KindBinVal
		case "d":
			numChars, kind = digitChars, KindDecVal
		case "x":
			numChars, kind = hexDigitChars, KindHexVal
		}

		v := g.ReadThru(numChars)
		if v == "" {
			return nil, syntaxErrorf(g.Tell(), "num-val with no number values")
		}
		values = append(values, v)

		// one "-" range tail, or one or more "." concatenation tails
		if ch := g.Peek(); ch == "." || ch == "-" {
			for {
				values = append(values, g.Read(1))
				v = g.ReadThru(numChars)
				if v == "" {
					return nil, syntaxErrorf(g.Tell(), "num-val %s with no number values after", ch)
				}
				values = append(values, v)
				if ch == "-" || g.Peek() != "." {
					break
				}
			}
		}

		return g.newDef(kind, values, start, g.Tell()), nil

	case "s", "i":
		qs, err := g.scanQuotedString(marker == "s")
		if err != nil {
			return nil, err
		}
		values = append(values, qs)
		d := g.newDef(KindCharVal, values, start, g.Tell())
		d.CaseSensitive = marker == "s"
		return d, nil

	default:
		return nil, syntaxErrorf(g.Tell(), "terminal value %q failed", marker)
	}
}

// scanProseVal
//
//	prose-val = "<" *(%x20-3D / %x3F-7E) ">"
//	        ; bracketed string of SP and VCHAR without angles
//	        ; prose description, to be used as last resort
func (g *Grammar) scanProseVal() (*Definition, error) {
	start := g.Tell()
	if g.Read(1) != "<" {
		return nil, syntaxErrorf(start, "prose-val begins with <")
	}
	val := strings.TrimSuffix(g.ReadUntilDelim(">"), ">")
	return g.newDef(KindProseVal, []any{val}, start, g.Tell()), nil
}

// scanGroup
//
//	group = "(" *c-wsp alternation *c-wsp ")"
func (g *Grammar) scanGroup(openChar, closeChar string) (*Definition, error) {
	start := g.Tell()
	var values []any

	if ch := g.Read(1); ch != openChar {
		return nil, syntaxErrorf(start, "group must start with %s", openChar)
	}
	values = append(values, openChar)

	if cwsp := g.optional(g.scanCwsp); cwsp != nil {
		values = append(values, cwsp)
	}

	alternation, err := g.scanAlternation()
	if err != nil {
		return nil, err
	}
	values = append(values, alternation)

	if cwsp := g.optional(g.scanCwsp); cwsp != nil {
		values = append(values, cwsp)
	}

	if ch := g.Read(1); ch != closeChar {
		return nil, syntaxErrorf(g.Tell(), "group must end with %s", closeChar)
	}
	values = append(values, closeChar)

	return g.newDef(KindGroup, values, start, g.Tell()), nil
}

// scanOption
//
//	option = "[" *c-wsp alternation *c-wsp "]"
func (g *Grammar) scanOption() (*Definition, error) {
	group, err := g.scanGroup("[", "]")
	if err != nil {
		return nil, err
	}
	return g.newDef(KindOption, group.Values, group.Start, group.Stop), nil
}
