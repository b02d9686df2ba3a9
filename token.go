package textscan

// A Token is a span produced by a Tokenizer. Start and Stop are rune
// offsets into the buffer the producing tokenizer is reading. Tokens
// are lightweight views: they hold a reference to their tokenizer and
// are valid only as long as it (and its buffer) outlives them.
type Token interface {
	// Bounds returns the token's start and stop offsets in the
	// underlying buffer.
	Bounds() (start, stop int)
}

// Span is the region of the source buffer a token covers. Concrete
// token types embed it to satisfy Token.
type Span struct {
	Start int
	Stop  int
}

// Bounds returns the span's offsets.
func (s Span) Bounds() (start, stop int) {
	return s.Start, s.Stop
}

// A Tokenizer produces tokens from a buffer in both directions.
//
// Next returns the next token, or io.EOF when the stream is exhausted
// forward. Prev returns the token immediately before the cursor, or
// io.EOF at the start of the stream. Tokenizers that only support one
// direction return errors.ErrUnsupported for the other.
type Tokenizer interface {
	Next() (Token, error)
	Prev() (Token, error)
}
