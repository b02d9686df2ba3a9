package htmltext

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/dpotapov/textscan"
)

// A TagTokenizer yields TagToken records for the tags matched by a
// selector set. Tags nested inside a matched tag land in its body
// regardless of the selector; text inside is retained as text nodes.
//
// The tokenizer is forward-only: the underlying parser state cannot be
// rewound, so Prev reports errors.ErrUnsupported.
type TagTokenizer struct {
	z         *html.Tokenizer
	selectors selectorSet

	// open tags collect their body here until the matching close
	stack []*TagToken
	// closed top-level tags wait here to be drained by Next
	queue []*TagToken

	// offset is the rune offset of the next unread token
	offset int
	err    error
}

// NewTagTokenizer returns a tokenizer over src yielding the named tags.
// With no names, every top-level tag is yielded. Names may carry
// tag.class / tag#id selectors.
func NewTagTokenizer(src string, tagnames ...string) *TagTokenizer {
	return NewTagTokenizerReader(strings.NewReader(src), tagnames...)
}

// NewTagTokenizerReader is like NewTagTokenizer for a reader source.
func NewTagTokenizerReader(r io.Reader, tagnames ...string) *TagTokenizer {
	return &TagTokenizer{
		z:         html.NewTokenizer(r),
		selectors: newSelectorSet(tagnames),
	}
}

// Next returns the next matched tag, or io.EOF when the input is
// exhausted. Tags left open at EOF are force-closed with the EOF
// position as their stop offset.
func (t *TagTokenizer) Next() (*TagToken, error) {
	if err := t.fill(); err != nil {
		return nil, err
	}
	tag := t.queue[0]
	t.queue = t.queue[1:]
	return tag, nil
}

// Peek returns the next matched tag without consuming it.
func (t *TagTokenizer) Peek() (*TagToken, bool) {
	if err := t.fill(); err != nil {
		return nil, false
	}
	return t.queue[0], true
}

// Prev is unsupported: the tag stream cannot be stepped backward.
func (t *TagTokenizer) Prev() (*TagToken, error) {
	return nil, errors.ErrUnsupported
}

// Read returns up to count tags; count < 0 reads everything remaining.
func (t *TagTokenizer) Read(count int) []*TagToken {
	var out []*TagToken
	for count != 0 {
		tag, err := t.Next()
		if err != nil {
			break
		}
		out = append(out, tag)
		if count > 0 {
			count--
		}
	}
	return out
}

// ReadAll returns all remaining matched tags.
func (t *TagTokenizer) ReadAll() []*TagToken {
	return t.Read(-1)
}

// fill pumps the underlying tokenizer until at least one closed tag is
// queued or the input is exhausted.
func (t *TagTokenizer) fill() error {
	for len(t.queue) == 0 {
		if t.err != nil {
			return t.err
		}

		tt := t.z.Next()
		if tt == html.ErrorToken {
			err := t.z.Err()
			if err == io.EOF {
				t.closeDangling()
				t.err = io.EOF
				continue
			}
			t.err = err
			return err
		}

		raw := t.z.Raw()
		start := t.offset
		t.offset += utf8.RuneCount(raw)

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := t.z.Token()
			name := tok.Data
			attrs := convertAttrs(tok.Attr)

			if len(t.stack) == 0 && !t.include(name, attrs) {
				continue
			}

			tag := &TagToken{
				Span:      textscan.Span{Start: start, Stop: start},
				Tagname:   name,
				Attrs:     attrs,
				tokenizer: t,
			}
			if tt == html.SelfClosingTagToken || voidElements.contains(tok.DataAtom, name) {
				t.add(tag)
			} else {
				t.stack = append(t.stack, tag)
			}

		case html.TextToken:
			if len(t.stack) > 0 {
				top := t.stack[len(t.stack)-1]
				top.Body = append(top.Body, &TextNode{
					Span: textscan.Span{Start: start, Stop: t.offset},
					Text: string(raw),
				})
			}

		case html.EndTagToken:
			tok := t.z.Token()
			if len(t.stack) == 0 || t.stack[len(t.stack)-1].Tagname != tok.Data {
				continue
			}
			tag := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			tag.Stop = start
			t.add(tag)
		}
	}
	return nil
}

func (t *TagTokenizer) include(name string, attrs []Attr) bool {
	return t.selectors.empty() || t.selectors.match(name, attrs)
}

func (t *TagTokenizer) add(tag *TagToken) {
	if len(t.stack) > 0 {
		top := t.stack[len(t.stack)-1]
		top.Body = append(top.Body, tag)
	} else {
		t.queue = append(t.queue, tag)
	}
}

func (t *TagTokenizer) closeDangling() {
	for len(t.stack) > 0 {
		tag := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		tag.Stop = t.offset
		t.add(tag)
	}
}
