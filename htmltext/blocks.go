package htmltext

import (
	"io"
	"strings"

	"github.com/dpotapov/textscan"
)

// A Block is one step of a BlockTokenizer: a run of markup followed by
// the plain text up to the next tag.
type Block struct {
	Markup string
	Text   string
}

// A BlockTokenizer splits HTML into (markup, text) pairs whose
// concatenation reproduces the input exactly.
//
//	bt := NewBlockTokenizer(
//		`before <p>x <a href="#">y</a> z</p> after`, "a")
//	// Block{"", "before "}
//	// Block{"<p>", "x "}
//	// Block{`<a href="#">y</a>`, " z"}
//	// Block{"</p>", " after"}
//
// Markup is normally a single opening or closing tag. A tag named in
// the ignore set is consumed through its matching closing tag and the
// whole span, nested markup included, is returned as one opaque markup
// unit. This makes it safe to transform only the textual spans, for
// example auto-linking URLs without re-linking text that is already
// inside an anchor.
type BlockTokenizer struct {
	scan *textscan.Scanner

	ignoreStart []string
	ignoreStop  []string

	primed bool
	cur    Block
}

// NewBlockTokenizer returns a block tokenizer over src. Tags named in
// ignore (for example "a" or "pre") are treated as opaque units.
func NewBlockTokenizer(src string, ignore ...string) *BlockTokenizer {
	bt := &BlockTokenizer{scan: textscan.NewScanner(src)}
	for _, tagname := range ignore {
		bt.ignoreStart = append(bt.ignoreStart, "<"+tagname+">", "<"+tagname+" ")
		bt.ignoreStop = append(bt.ignoreStop, "</"+tagname+">")
	}
	return bt
}

// Next returns the next block, or io.EOF when the input is exhausted.
// A final partial block is still returned if it is non-empty.
func (bt *BlockTokenizer) Next() (Block, error) {
	if !bt.primed {
		bt.primed = true
		bt.cur = Block{Markup: "", Text: bt.scan.ReadToDelim("<")}
	}

	for {
		cur := bt.cur

		markup := bt.readTag()
		if markup == "" {
			bt.cur = Block{}
			if cur != (Block{}) {
				return cur, nil
			}
			return Block{}, io.EOF
		}

		text := bt.scan.ReadToDelim("<")
		if bt.startsIgnored(markup) {
			for !bt.endsIgnored(markup) {
				markup += text
				h := bt.readTag()
				text = bt.scan.ReadToDelim("<")
				if h == "" && text == "" {
					break
				}
				markup += h
			}
		}
		bt.cur = Block{Markup: markup, Text: text}

		if cur != (Block{}) {
			return cur, nil
		}
		// nothing buffered yet, keep scanning
	}
}

// ReadAll returns all remaining blocks.
func (bt *BlockTokenizer) ReadAll() []Block {
	var out []Block
	for {
		b, err := bt.Next()
		if err != nil {
			return out
		}
		out = append(out, b)
	}
}

// readTag consumes one tag through its closing angle bracket. A > that
// sits inside a quoted attribute value does not close the tag.
func (bt *BlockTokenizer) readTag() string {
	var b strings.Builder
	for {
		ch, ok := bt.scan.ReadRune()
		if !ok {
			break
		}
		b.WriteRune(ch)
		if ch == '"' || ch == '\'' {
			b.WriteString(bt.scan.ReadUntilDelim(string(ch)))
			continue
		}
		if ch == '>' {
			break
		}
	}
	return b.String()
}

func (bt *BlockTokenizer) startsIgnored(markup string) bool {
	for _, tag := range bt.ignoreStart {
		if strings.HasPrefix(markup, tag) {
			return true
		}
	}
	return false
}

func (bt *BlockTokenizer) endsIgnored(markup string) bool {
	for _, tag := range bt.ignoreStop {
		if strings.HasSuffix(markup, tag) {
			return true
		}
	}
	return false
}
