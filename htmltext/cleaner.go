package htmltext

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultBlockSep is appended after a stripped block-level tag when
// CleanerOptions.BlockSep is left empty.
const DefaultBlockSep = "\n"

// CleanerOptions configures a Cleaner.
type CleanerOptions struct {
	// IgnoreTagnames lists tags whose markup is preserved verbatim.
	// Entries may carry tag.class / tag#id selectors. The special entry
	// "all" preserves every tag that is not stripped.
	IgnoreTagnames []string

	// StripTagnames lists tags whose entire subtree (opening tag, body
	// and closing tag) is removed. Entries may carry selectors.
	StripTagnames []string

	// BlockSep is appended after a stripped block-level tag. Empty
	// means DefaultBlockSep.
	BlockSep string

	// InlineSep is appended after a stripped inline tag.
	InlineSep string

	// KeepImgSrc emits a stripped img tag's src attribute, surrounded
	// by BlockSep, in place of the tag.
	KeepImgSrc bool
}

// A Cleaner streams HTML through a tokenizer and emits cleaned output:
// plain-text extraction, selective tag stripping, or both.
//
//	// convert html to plain text
//	text := NewCleaner(CleanerOptions{}).Clean("this is <b>some html</b>")
//	// text == "this is some html"
//
//	// remove only certain tags, keep the rest of the markup
//	text = NewCleaner(CleanerOptions{
//		IgnoreTagnames: []string{"all"},
//		StripTagnames:  []string{"span"},
//	}).Clean(`<p>this is <span>fancy</span> stuff</p>`)
//	// text == "<p>this is  stuff</p>"
type Cleaner struct {
	ignore     selectorSet
	ignoreAll  bool
	strip      selectorSet
	blockSep   string
	inlineSep  string
	keepImgSrc bool
}

// NewCleaner returns a Cleaner for the given options.
func NewCleaner(opts CleanerOptions) *Cleaner {
	c := &Cleaner{
		strip:      newSelectorSet(opts.StripTagnames),
		blockSep:   opts.BlockSep,
		inlineSep:  opts.InlineSep,
		keepImgSrc: opts.KeepImgSrc,
	}
	var ignore []string
	for _, n := range opts.IgnoreTagnames {
		if strings.EqualFold(n, "all") {
			c.ignoreAll = true
			continue
		}
		ignore = append(ignore, n)
	}
	c.ignore = newSelectorSet(ignore)
	if c.blockSep == "" {
		c.blockSep = DefaultBlockSep
	}
	return c
}

// Clean processes src and returns the cleaned output.
func (c *Cleaner) Clean(src string) string {
	out, _ := c.CleanReader(strings.NewReader(src))
	return out
}

// CleanReader processes r and returns the cleaned output. Text and
// preserved opening tags are emitted from the tokenizer's raw bytes, so
// entity references pass through in their source &name; form;
// preserved closing tags are re-rendered as </name>.
func (c *Cleaner) CleanReader(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var b strings.Builder

	// nesting depth per stripped tag name; character data is discarded
	// while any counter is positive
	stripping := make(map[string]int)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return b.String(), err
			}
			return b.String(), nil

		case html.TextToken:
			if len(stripping) == 0 {
				b.Write(z.Raw())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			raw := string(z.Raw())
			tok := z.Token()
			name := tok.Data
			attrs := convertAttrs(tok.Attr)

			// void and self-closing tags never open a subtree
			closes := tt == html.SelfClosingTagToken ||
				voidElements.contains(tok.DataAtom, name)

			switch {
			case c.strip.match(name, attrs) || stripping[name] > 0:
				if !closes {
					stripping[name]++
				}
			case len(stripping) > 0:
				// inside a stripped subtree
			case c.isIgnored(name, attrs):
				b.WriteString(raw)
			default:
				if name == "img" && c.keepImgSrc {
					for _, a := range attrs {
						if a.Key == "src" {
							b.WriteString(c.blockSep)
							b.WriteString(a.Val)
							break
						}
					}
				}
				if closes {
					c.closeTag(tok.DataAtom, name, stripping, &b)
				}
			}

		case html.EndTagToken:
			tok := z.Token()
			c.closeTag(tok.DataAtom, tok.Data, stripping, &b)
		}
	}
}

func (c *Cleaner) isIgnored(name string, attrs []Attr) bool {
	return c.ignoreAll || c.ignore.match(name, attrs)
}

func (c *Cleaner) closeTag(a atom.Atom, name string, stripping map[string]int, b *strings.Builder) {
	if len(stripping) > 0 {
		if stripping[name] > 0 {
			stripping[name]--
			if stripping[name] == 0 {
				delete(stripping, name)
			}
		}
		return
	}
	if c.isIgnored(name, nil) {
		b.WriteString("</" + name + ">")
		return
	}
	if blockElements.contains(a, name) {
		b.WriteString(c.blockSep)
		return
	}
	if name == "img" && c.keepImgSrc {
		b.WriteString(c.blockSep)
		return
	}
	b.WriteString(c.inlineSep)
}
