package htmltext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleaner_PlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"voidBlockTag", "foo<br />bar", "foo\nbar"},
		{"inlineTag", "this is <b>some html</b>", "this is some html"},
		{"blockClose", "<p>foo bar</p>", "foo bar\n"},
		{"nestedMarkup", "<div><p>a <em>b</em> c</p></div>", "a b c\n\n"},
		{"noMarkup", "plain text stays put", "plain text stays put"},
		{"comment", "a<!-- hidden -->b", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NewCleaner(CleanerOptions{}).Clean(tt.input))
		})
	}
}

func TestCleaner_StripSubtree(t *testing.T) {
	input := `<div class="foo">1<div>2</div>3</div><div>4</div><p>5</p>`
	out := NewCleaner(CleanerOptions{
		StripTagnames: []string{"div.foo"},
	}).Clean(input)

	require.Equal(t, "4\n5\n", out)
}

func TestCleaner_StripKeepsOtherMarkup(t *testing.T) {
	input := `<p>this is <span>fancy</span> stuff</p>`
	out := NewCleaner(CleanerOptions{
		IgnoreTagnames: []string{"all"},
		StripTagnames:  []string{"span"},
	}).Clean(input)

	require.Equal(t, "<p>this is  stuff</p>", out)
}

func TestCleaner_IgnoreTagnames(t *testing.T) {
	input := `x <a href="#">link</a> y <b>bold</b>`
	out := NewCleaner(CleanerOptions{
		IgnoreTagnames: []string{"a"},
	}).Clean(input)

	// the anchor markup survives verbatim, the b tag is stripped to text
	require.Equal(t, `x <a href="#">link</a> y bold`, out)
}

func TestCleaner_IdSelector(t *testing.T) {
	input := `<span id="keep">a</span><span>b</span>`
	out := NewCleaner(CleanerOptions{
		StripTagnames: []string{"span#keep"},
	}).Clean(input)

	require.Equal(t, "b", out)
}

func TestCleaner_EntityRefsPreserved(t *testing.T) {
	input := "a &amp; b &copy; c"
	require.Equal(t, input, NewCleaner(CleanerOptions{}).Clean(input))
}

func TestCleaner_Idempotence(t *testing.T) {
	c := NewCleaner(CleanerOptions{})
	out := c.Clean("<p>one &amp; two</p><div>three</div>")
	require.NotContains(t, out, "<")

	// output with no angle brackets passes through unchanged
	require.Equal(t, out, c.Clean(out))
}

func TestCleaner_KeepImgSrc(t *testing.T) {
	input := `x<img src="pic.png" alt="p">y`
	out := NewCleaner(CleanerOptions{KeepImgSrc: true}).Clean(input)
	require.Equal(t, "x\npic.png\ny", out)
}

func TestCleaner_Separators(t *testing.T) {
	out := NewCleaner(CleanerOptions{
		BlockSep:  " | ",
		InlineSep: "_",
	}).Clean("<p>a</p><b>c</b>")
	require.Equal(t, "a | c_", out)
}

func TestCleaner_StripVoidTag(t *testing.T) {
	// a stripped void tag must not open a strip region
	out := NewCleaner(CleanerOptions{
		StripTagnames: []string{"img"},
	}).Clean(`a<img src="x.png">b`)
	require.Equal(t, "ab", out)
}

func TestCleaner_StripNestedSameName(t *testing.T) {
	out := NewCleaner(CleanerOptions{
		StripTagnames: []string{"div"},
	}).Clean("<div>a<div>b</div>c</div>d")
	require.Equal(t, "d", out)
}

func TestCleaner_Reader(t *testing.T) {
	out, err := NewCleaner(CleanerOptions{}).CleanReader(
		strings.NewReader("a<b>c</b>"))
	require.NoError(t, err)
	require.Equal(t, "ac", out)
}
