// Package htmltext tokenizes and cleans HTML: plain-text extraction,
// selector-filtered tag streams and concatenation-faithful block
// iteration. It is not an HTML5 parser; the tag stream comes from
// golang.org/x/net/html's tokenizer and no tree-construction rules are
// applied beyond simple open/close matching.
package htmltext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML adds HTML-specific helpers on top of a plain string.
type HTML string

// Plain strips all markup and returns the text content. Block-level
// closes turn into newlines.
func (h HTML) Plain() string {
	return NewCleaner(CleanerOptions{}).Clean(string(h))
}

// StripTags removes the named tags (and their entire subtrees) while
// leaving all other markup intact.
func (h HTML) StripTags(tagnames ...string) string {
	return NewCleaner(CleanerOptions{
		IgnoreTagnames: []string{"all"},
		StripTagnames:  tagnames,
	}).Clean(string(h))
}

// Tags returns a tokenizer over the named tags. With no names, every
// top-level tag is yielded.
func (h HTML) Tags(tagnames ...string) *TagTokenizer {
	return NewTagTokenizer(string(h), tagnames...)
}

// Blocks returns a block tokenizer; tags named in ignore are treated
// as opaque markup units.
func (h HTML) Blocks(ignore ...string) *BlockTokenizer {
	return NewBlockTokenizer(string(h), ignore...)
}

var (
	headCloseRe = regexp.MustCompile(`(?i)(\s*)(</head>)`)
	bodyCloseRe = regexp.MustCompile(`(?i)(\s*)(</body>)`)
)

// InjectIntoHead inserts markup just before the closing head tag.
func (h HTML) InjectIntoHead(markup string) HTML {
	return injectBefore(headCloseRe, h, markup)
}

// InjectIntoBody inserts markup just before the closing body tag.
func (h HTML) InjectIntoBody(markup string) HTML {
	return injectBefore(bodyCloseRe, h, markup)
}

func injectBefore(re *regexp.Regexp, h HTML, markup string) HTML {
	out := re.ReplaceAllStringFunc(string(h), func(m string) string {
		sub := re.FindStringSubmatch(m)
		return sub[1] + markup + m
	})
	return HTML(out)
}

// An Attr is a single tag attribute. Attribute order from the source
// is preserved wherever []Attr appears.
type Attr struct {
	Key string
	Val string
}

func convertAttrs(attrs []html.Attribute) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(attrs))
	for i, a := range attrs {
		out[i] = Attr{Key: a.Key, Val: a.Val}
	}
	return out
}

// A tagSet is a fixed set of tag names, interned to atoms where the
// atom table knows them.
type tagSet struct {
	atoms map[atom.Atom]bool
	names map[string]bool
}

func newTagSet(names ...string) tagSet {
	s := tagSet{atoms: make(map[atom.Atom]bool), names: make(map[string]bool)}
	for _, n := range names {
		if a := atom.Lookup([]byte(n)); a != 0 {
			s.atoms[a] = true
		}
		s.names[n] = true
	}
	return s
}

func (s tagSet) contains(a atom.Atom, name string) bool {
	if a != 0 && s.atoms[a] {
		return true
	}
	return s.names[name]
}

// voidElements have no closing tag and no body.
// https://developer.mozilla.org/en-US/docs/Glossary/Void_element
var voidElements = newTagSet(
	"area", "base", "br", "col", "embed", "hr", "img", "input", "keygen",
	"link", "meta", "param", "source", "track", "wbr",
)

// blockElements get a block separator when their close is stripped.
// https://developer.mozilla.org/en-US/docs/Web/HTML/Block-level_elements
var blockElements = newTagSet(
	"article", "aside", "blockquote", "body", "br", "button", "canvas",
	"caption", "col", "colgroup", "dd", "div", "dl", "dt", "embed",
	"fieldset", "figcaption", "figure", "footer", "form", "h1", "h2", "h3",
	"h4", "h5", "h6", "header", "hgroup", "hr", "li", "map", "object", "ol",
	"output", "p", "pre", "progress", "section", "table", "tbody",
	"textarea", "tfoot", "th", "thead", "tr", "ul", "video",
)

// inlineElements lists inline-level tag names. It overlaps
// blockElements on map, object and output, and the Cleaner does not
// consult it: any close that is not a block element gets InlineSep.
// NOTE: an inline element cannot contain a block-level element.
var inlineElements = newTagSet(
	"a", "abbr", "acronym", "b", "bdo", "big", "cite", "code", "dfn", "em",
	"i", "img", "input", "kbd", "label", "map", "object", "output", "q",
	"samp", "script", "select", "small", "span", "strong", "sub", "sup",
	"time", "tt", "var",
)

// A selectorSet matches tag names with optional tag.class / tag#id
// selectors. The composite selectors are only consulted when the tag
// actually carries the attribute.
type selectorSet struct {
	names map[string]bool
}

func newSelectorSet(tagnames []string) selectorSet {
	s := selectorSet{names: make(map[string]bool, len(tagnames))}
	for _, n := range tagnames {
		s.names[strings.ToLower(n)] = true
	}
	return s
}

func (s selectorSet) empty() bool {
	return len(s.names) == 0
}

func (s selectorSet) match(tagname string, attrs []Attr) bool {
	if s.names[tagname] {
		return true
	}
	for _, a := range attrs {
		switch a.Key {
		case "class":
			if s.names[tagname+"."+a.Val] {
				return true
			}
		case "id":
			if s.names[tagname+"#"+a.Val] {
				return true
			}
		}
	}
	return false
}
