package textscan

import (
	"io"
	"strings"
)

// defaultDelims is the delimiter set used when a WordTokenizer is not
// given one: all ASCII whitespace plus ASCII punctuation.
const defaultDelims = Whitespace + Punctuation

// A WordToken is a word together with pointers to the delimiter runs on
// either side of it.
//
// LDelim and RDelim are themselves tokens carrying the delimiter text;
// they are leaves and have no delimiters of their own. Either may be
// nil when the word sits at a buffer boundary.
type WordToken struct {
	Span
	Text   string
	LDelim *WordToken
	RDelim *WordToken

	tokenizer *WordTokenizer
}

func (t *WordToken) String() string {
	return t.Text
}

// WordOption configures a WordTokenizer.
type WordOption func(*WordTokenizer)

// WithDelimChars makes every character in chars a delimiter.
func WithDelimChars(chars string) WordOption {
	return func(t *WordTokenizer) {
		t.isDelim = func(ch rune) bool {
			return strings.ContainsRune(chars, ch)
		}
	}
}

// WithDelimFunc uses fn as the delimiter predicate: a character is a
// delimiter iff fn returns true for it.
func WithDelimFunc(fn func(rune) bool) WordOption {
	return func(t *WordTokenizer) {
		t.isDelim = fn
	}
}

// A WordTokenizer segments text into words separated by a delimiter
// predicate. Each produced token carries the delimiter runs adjacent to
// it, so concatenating ldelim + text + rdelim over all tokens (counting
// the shared run between two neighbors once) reconstructs the buffer
// exactly.
type WordTokenizer struct {
	Stream[*WordToken]
	isDelim func(rune) bool
}

// NewWordTokenizer returns a tokenizer over buffer. Without options the
// default delimiter set is used.
func NewWordTokenizer(buffer string, opts ...WordOption) *WordTokenizer {
	t := &WordTokenizer{}
	t.init(NewScanner(buffer), opts...)
	return t
}

func (t *WordTokenizer) init(scan *Scanner, opts ...WordOption) {
	t.Stream = NewStream(scan, t.nextToken, t.prevToken)
	for _, opt := range opts {
		opt(t)
	}
	if t.isDelim == nil {
		t.isDelim = func(ch rune) bool {
			return strings.ContainsRune(defaultDelims, ch)
		}
	}
}

// tellLDelim locates the start of the current token's left delimiter
// region by walking backward from the cursor. It returns -1 when the
// token has no delimiter region to its left, and io.EOF when the
// stream is exhausted.
func (t *WordTokenizer) tellLDelim() (int, error) {
	scan := t.Scanner()

	pos := scan.Tell()
	ch, ok := scan.ReadRune()
	if !ok {
		return 0, io.EOF
	}

	if t.isDelim(ch) {
		p := pos
		for t.isDelim(ch) {
			p--
			if p < 0 {
				break
			}
			scan.SeekTo(p)
			ch, _ = scan.ReadRune()
		}
		if p >= 0 {
			p++
		} else {
			p = 0
		}
		return p, nil
	}

	p := pos
	for !t.isDelim(ch) {
		p--
		if p < 0 {
			break
		}
		scan.SeekTo(p)
		ch, _ = scan.ReadRune()
	}
	if p >= 0 {
		scan.SeekTo(p)
		return t.tellLDelim()
	}
	return -1, nil
}

func (t *WordTokenizer) nextToken() (*WordToken, error) {
	scan := t.Scanner()
	var ldelim, token, rdelim *WordToken

	start, err := t.tellLDelim()
	if err != nil {
		return nil, err
	}

	var ch rune
	var ok bool

	// consume the left delimiter run
	if start >= 0 {
		var text strings.Builder
		scan.SeekTo(start)
		ch, ok = scan.ReadRune()
		for ok && t.isDelim(ch) {
			text.WriteRune(ch)
			ch, ok = scan.ReadRune()
		}
		stop := scan.Tell() - 1
		ldelim = &WordToken{
			Span:      Span{Start: start, Stop: stop},
			Text:      text.String(),
			tokenizer: t,
		}
		start = stop
	} else {
		start = 0
		scan.SeekTo(0)
		ch, ok = scan.ReadRune()
	}

	// consume the token body
	if ok {
		var text strings.Builder
		for ok && !t.isDelim(ch) {
			text.WriteRune(ch)
			ch, ok = scan.ReadRune()
		}
		stop := scan.Tell()
		if ok {
			// one character was read past the body
			stop--
		}
		token = &WordToken{
			Span:      Span{Start: start, Stop: stop},
			Text:      text.String(),
			tokenizer: t,
		}
		start = stop
	}

	// consume the right delimiter run
	if ok {
		var text strings.Builder
		for ok && t.isDelim(ch) {
			text.WriteRune(ch)
			ch, ok = scan.ReadRune()
		}
		stop := scan.Tell()
		if ok {
			stop--
		}

		// step back one character: off the word read past the run, or
		// onto the run's last character at EOF
		scan.SeekTo(scan.Tell() - 1)

		rdelim = &WordToken{
			Span:      Span{Start: start, Stop: stop},
			Text:      text.String(),
			tokenizer: t,
		}
	}

	if token == nil {
		return nil, io.EOF
	}

	token.LDelim = ldelim
	token.RDelim = rdelim
	return token, nil
}

func (t *WordTokenizer) prevToken() (*WordToken, error) {
	scan := t.Scanner()
	var token *WordToken

	start, err := t.tellLDelim()
	if err != nil {
		// the cursor is past the last token, step back onto it
		scan.SeekTo(scan.Tell() - 1)
		start, err = t.tellLDelim()
		if err != nil {
			return nil, io.EOF
		}
		token, err = t.nextToken()
		if err == io.EOF && start > 0 {
			// only a trailing delimiter run was left; the word precedes it
			scan.SeekTo(start - 1)
			if _, err = t.tellLDelim(); err != nil {
				return nil, err
			}
			token, err = t.nextToken()
		}
		if err != nil {
			return nil, err
		}
	} else if start > 0 {
		scan.SeekTo(start - 1)
		if _, err := t.tellLDelim(); err != nil {
			return nil, err
		}
		token, err = t.nextToken()
		if err != nil {
			return nil, err
		}
	}

	if token == nil {
		return nil, io.EOF
	}

	start = token.Start
	if token.LDelim != nil {
		start = token.LDelim.Start
	}
	scan.SeekTo(start)

	return token, nil
}
