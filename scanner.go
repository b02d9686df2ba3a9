// Package textscan provides seekable character scanning and bidirectional
// token cursors for building tokenizers and parsers over in-memory text.
//
// The layers build on each other: Scanner is a character-level cursor,
// Stream turns any Tokenizer into an IO-style token cursor, and
// WordTokenizer / StopWordTokenizer are concrete delimiter-driven
// tokenizers. The htmltext and abnf subpackages build their lexers on
// top of these primitives.
package textscan

import (
	"io"
	"strings"
)

// Whitespace is the set of ASCII whitespace characters.
const Whitespace = " \t\n\r\v\f"

// HorizontalSpace is the set of horizontal whitespace characters
// (space and tab).
const HorizontalSpace = " \t"

// Punctuation is the set of ASCII punctuation characters.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// A Scanner is a character-level cursor over an immutable in-memory
// buffer. All positions are rune offsets, so indexing is stable for any
// UTF-8 input.
//
// Scanner never fails at EOF: every read operation returns whatever it
// could consume, possibly nothing. Callers that need "could not make
// progress" to be an error translate short reads themselves.
type Scanner struct {
	buf []rune
	pos int
}

// NewScanner returns a Scanner positioned at the start of buffer.
// Invalid UTF-8 sequences are decoded as U+FFFD.
func NewScanner(buffer string) *Scanner {
	return &Scanner{buf: []rune(buffer)}
}

// NewScannerAt returns a Scanner positioned at the given rune offset.
func NewScannerAt(buffer string, offset int) *Scanner {
	s := NewScanner(buffer)
	s.SeekTo(offset)
	return s
}

// NewScannerReader reads r to EOF and returns a Scanner over the
// decoded contents.
func NewScannerReader(r io.Reader) (*Scanner, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewScanner(string(b)), nil
}

// Text returns the full underlying buffer.
func (s *Scanner) Text() string {
	return string(s.buf)
}

// Len returns the total buffer length in runes.
func (s *Scanner) Len() int {
	return len(s.buf)
}

// Tell returns the current cursor offset.
func (s *Scanner) Tell() int {
	return s.pos
}

// SeekTo moves the cursor to pos, clamped to [0, Len()], and returns
// the new offset.
func (s *Scanner) SeekTo(pos int) int {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.buf) {
		pos = len(s.buf)
	}
	s.pos = pos
	return s.pos
}

// More reports whether any input remains at the cursor.
func (s *Scanner) More() bool {
	return s.pos < len(s.buf)
}

// Peek returns the character at the cursor without advancing, or ""
// at EOF.
func (s *Scanner) Peek() string {
	if s.pos >= len(s.buf) {
		return ""
	}
	return string(s.buf[s.pos])
}

// PeekRune returns the rune at the cursor without advancing. The second
// return value is false at EOF.
func (s *Scanner) PeekRune() (rune, bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	return s.buf[s.pos], true
}

// ReadRune consumes and returns the rune at the cursor. The second
// return value is false at EOF.
func (s *Scanner) ReadRune() (rune, bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	ch := s.buf[s.pos]
	s.pos++
	return ch, true
}

// Read consumes up to n characters and returns them.
func (s *Scanner) Read(n int) string {
	if n < 0 {
		n = len(s.buf) - s.pos
	}
	stop := s.pos + n
	if stop > len(s.buf) {
		stop = len(s.buf)
	}
	out := string(s.buf[s.pos:stop])
	s.pos = stop
	return out
}

// ReadThru consumes a maximal run of characters that are members of
// chars and returns it.
func (s *Scanner) ReadThru(chars string) string {
	return s.ReadThruFunc(func(ch rune) bool {
		return strings.ContainsRune(chars, ch)
	})
}

// ReadThruFunc consumes a maximal run of characters for which match
// returns true.
func (s *Scanner) ReadThruFunc(match func(rune) bool) string {
	start := s.pos
	for s.pos < len(s.buf) && match(s.buf[s.pos]) {
		s.pos++
	}
	return string(s.buf[start:s.pos])
}

// ReadThruWhitespace consumes a run of whitespace characters.
func (s *Scanner) ReadThruWhitespace() string {
	return s.ReadThru(Whitespace)
}

// ReadThruHspace consumes a run of horizontal whitespace (space, tab).
func (s *Scanner) ReadThruHspace() string {
	return s.ReadThru(HorizontalSpace)
}

// readTo is the shared scan loop behind the ReadTo/ReadUntil family.
// It stops before the first occurrence of delim (when non-empty) or of
// any character for which stop returns true. A backslash always
// consumes itself plus the following character verbatim into the
// result and never counts toward a sentinel match.
func (s *Scanner) readTo(delim []rune, stop func(rune) bool) string {
	var b strings.Builder
	for s.pos < len(s.buf) {
		ch := s.buf[s.pos]

		// escaped characters don't count against the sentinel
		if ch == '\\' {
			b.WriteRune(ch)
			s.pos++
			if s.pos < len(s.buf) {
				b.WriteRune(s.buf[s.pos])
				s.pos++
			}
			continue
		}

		if len(delim) > 0 && ch == delim[0] && s.hasPrefix(delim) {
			break
		}
		if stop != nil && stop(ch) {
			break
		}

		b.WriteRune(ch)
		s.pos++
	}
	return b.String()
}

func (s *Scanner) hasPrefix(delim []rune) bool {
	if s.pos+len(delim) > len(s.buf) {
		return false
	}
	for i, ch := range delim {
		if s.buf[s.pos+i] != ch {
			return false
		}
	}
	return true
}

// ReadTo consumes characters up to, but not including, the first
// character that is a member of chars.
func (s *Scanner) ReadTo(chars string) string {
	return s.readTo(nil, func(ch rune) bool {
		return strings.ContainsRune(chars, ch)
	})
}

// ReadToDelim consumes characters up to, but not including, the first
// occurrence of the delimiter substring.
func (s *Scanner) ReadToDelim(delim string) string {
	return s.readTo([]rune(delim), nil)
}

// ReadToRange consumes characters up to, but not including, the first
// character in the inclusive range [lo, hi].
func (s *Scanner) ReadToRange(lo, hi rune) string {
	return s.readTo(nil, func(ch rune) bool {
		return ch >= lo && ch <= hi
	})
}

// ReadUntil is like ReadTo but also consumes the matched character.
func (s *Scanner) ReadUntil(chars string) string {
	return s.ReadTo(chars) + s.Read(1)
}

// ReadUntilDelim is like ReadToDelim but also consumes the delimiter.
func (s *Scanner) ReadUntilDelim(delim string) string {
	return s.ReadToDelim(delim) + s.Read(len([]rune(delim)))
}

// ReadUntilDelimCount repeats ReadUntilDelim count times, concatenating
// the results.
func (s *Scanner) ReadUntilDelimCount(delim string, count int) string {
	var b strings.Builder
	for i := 0; i < count; i++ {
		b.WriteString(s.ReadUntilDelim(delim))
	}
	return b.String()
}

// ReadToNewline consumes characters up to, but not including, the next
// newline.
func (s *Scanner) ReadToNewline() string {
	return s.ReadTo("\n")
}

// ReadUntilNewline consumes characters through the next newline.
func (s *Scanner) ReadUntilNewline() string {
	return s.ReadUntil("\n")
}

// ReadLine reads a single line including its trailing newline, with no
// escape handling.
func (s *Scanner) ReadLine() string {
	start := s.pos
	for s.pos < len(s.buf) {
		ch := s.buf[s.pos]
		s.pos++
		if ch == '\n' {
			break
		}
	}
	return string(s.buf[start:s.pos])
}

// Transaction runs fn and restores the cursor position if fn returns an
// error. The error is returned unchanged. Transactions nest: an inner
// rollback does not disturb an outer transaction unless the outer fn
// also fails.
func (s *Scanner) Transaction(fn func() error) error {
	pos := s.pos
	if err := fn(); err != nil {
		s.pos = pos
		return err
	}
	return nil
}

// Temporary runs fn and always restores the cursor position afterwards,
// whether or not fn fails. It is used to look ahead ephemerally.
func (s *Scanner) Temporary(fn func() error) error {
	pos := s.pos
	defer func() { s.pos = pos }()
	return fn()
}
