package htmltext

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagTokenizer_Selected(t *testing.T) {
	src := `<html><body>` +
		`<p>one</p>` +
		`<a href="#" data-foo="x">two</a>` +
		`<img src="i.png">` +
		`</body></html>`

	tags := NewTagTokenizer(src, "a").ReadAll()
	require.Len(t, tags, 1)

	tag := tags[0]
	require.Equal(t, "a", tag.Tagname)
	require.Equal(t, []Attr{{"href", "#"}, {"data-foo", "x"}}, tag.Attrs)
	require.Equal(t, "two", tag.Text())
	require.Equal(t, `<a href="#" data-foo="x">two</a>`, tag.String())
}

func TestTagTokenizer_AttrSpellings(t *testing.T) {
	tags := NewTagTokenizer(`<a data-foo="x">y</a>`, "a").ReadAll()
	require.Len(t, tags, 1)

	for _, name := range []string{"data-foo", "data_foo"} {
		val, ok := tags[0].Attr(name)
		require.True(t, ok, name)
		require.Equal(t, "x", val)
	}
	_, ok := tags[0].Attr("missing")
	require.False(t, ok)
}

func TestTagTokenizer_NestedBody(t *testing.T) {
	src := `<div id="out"><span>in <i>deep</i></span> tail</div>`
	tags := NewTagTokenizer(src, "div").ReadAll()
	require.Len(t, tags, 1)

	div := tags[0]
	require.Equal(t, `<span>in <i>deep</i></span> tail`, div.Text())

	// nested tags are retained as tag tokens in the body
	span, ok := div.Body[0].(*TagToken)
	require.True(t, ok)
	require.Equal(t, "span", span.Tagname)

	sub := div.Tags()
	require.Len(t, sub, 2)
	require.Equal(t, "span", sub[0].Tagname)
	require.Equal(t, "i", sub[1].Tagname)

	require.Len(t, div.Tags("i"), 1)
}

func TestTagTokenizer_VoidTag(t *testing.T) {
	tags := NewTagTokenizer(`<img src="a.png">`, "img").ReadAll()
	require.Len(t, tags, 1)
	require.Equal(t, tags[0].Start, tags[0].Stop)
	require.Empty(t, tags[0].Body)
}

func TestTagTokenizer_Offsets(t *testing.T) {
	tags := NewTagTokenizer(`ab<p>cd</p>`, "p").ReadAll()
	require.Len(t, tags, 1)
	require.Equal(t, 2, tags[0].Start)
	require.Equal(t, 7, tags[0].Stop)
}

func TestTagTokenizer_UnterminatedAtEOF(t *testing.T) {
	tok := NewTagTokenizer(`<div><p>x`, "div")

	tag, err := tok.Next()
	require.NoError(t, err)
	require.Equal(t, "div", tag.Tagname)
	require.Equal(t, 9, tag.Stop)

	_, err = tok.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestTagTokenizer_Selector(t *testing.T) {
	src := `<div class="foo">x</div><div>y</div>`
	tags := NewTagTokenizer(src, "div.foo").ReadAll()
	require.Len(t, tags, 1)
	require.Equal(t, "x", tags[0].Text())
}

func TestTagTokenizer_AllTags(t *testing.T) {
	// with no selector every top-level tag is yielded
	tags := NewTagTokenizer(`<p>a</p><p>b</p>`).ReadAll()
	require.Len(t, tags, 2)
}

func TestTagTokenizer_PeekAndRead(t *testing.T) {
	tok := NewTagTokenizer(`<p>a</p><p>b</p><p>c</p>`, "p")

	peeked, ok := tok.Peek()
	require.True(t, ok)
	require.Equal(t, "a", peeked.Text())

	tags := tok.Read(2)
	require.Len(t, tags, 2)
	require.Equal(t, "a", tags[0].Text())
	require.Equal(t, "b", tags[1].Text())

	require.Len(t, tok.ReadAll(), 1)
}

func TestTagTokenizer_PrevUnsupported(t *testing.T) {
	_, err := NewTagTokenizer("<p>a</p>", "p").Prev()
	require.ErrorIs(t, err, errors.ErrUnsupported)
}
