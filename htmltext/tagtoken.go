package htmltext

import (
	"fmt"
	"strings"

	"github.com/dpotapov/textscan"
)

// A BodyNode is an element of a tag body: either a nested *TagToken or
// a *TextNode.
type BodyNode interface {
	bodyNode()
}

// A TextNode is a run of character data inside a tag body, kept
// verbatim from the source.
type TextNode struct {
	textscan.Span
	Text string
}

func (*TextNode) bodyNode() {}

// A TagToken is a matched HTML tag: its name, attributes in source
// order, and body. Start and Stop are rune offsets into the input; a
// void element has Start == Stop and an empty body.
type TagToken struct {
	textscan.Span
	Tagname string
	Attrs   []Attr
	Body    []BodyNode

	tokenizer *TagTokenizer
}

func (*TagToken) bodyNode() {}

// Text returns the recursive rendering of the body: nested tags are
// re-rendered, text is kept verbatim.
func (t *TagToken) Text() string {
	var b strings.Builder
	for _, n := range t.Body {
		switch n := n.(type) {
		case *TagToken:
			b.WriteString(n.String())
		case *TextNode:
			b.WriteString(n.Text)
		}
	}
	return b.String()
}

// String renders the tag canonically: <tag attrs>body</tag> with
// attributes in source order.
func (t *TagToken) String() string {
	var b strings.Builder
	b.WriteString("<" + t.Tagname)
	for _, a := range t.Attrs {
		fmt.Fprintf(&b, ` %s="%s"`, a.Key, a.Val)
	}
	b.WriteString(">")
	b.WriteString(t.Text())
	b.WriteString("</" + t.Tagname + ">")
	return b.String()
}

// Attr returns the named attribute's value. Both foo-bar and foo_bar
// spellings resolve to the same attribute.
func (t *TagToken) Attr(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Key == name {
			return a.Val, true
		}
	}
	for _, alt := range []string{
		strings.ReplaceAll(name, "_", "-"),
		strings.ReplaceAll(name, "-", "_"),
	} {
		for _, a := range t.Attrs {
			if a.Key == alt {
				return a.Val, true
			}
		}
	}
	return "", false
}

// Tags returns the descendant tags matching tagnames, in document
// order. With no names, every descendant tag is returned.
func (t *TagToken) Tags(tagnames ...string) []*TagToken {
	sel := newSelectorSet(tagnames)
	var out []*TagToken
	t.appendTags(sel, &out)
	return out
}

func (t *TagToken) appendTags(sel selectorSet, out *[]*TagToken) {
	for _, n := range t.Body {
		child, ok := n.(*TagToken)
		if !ok {
			continue
		}
		if sel.empty() || sel.match(child.Tagname, child.Attrs) {
			*out = append(*out, child)
		}
		child.appendTags(sel, out)
	}
}
