package abnf

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownRule is returned when a rule name is looked up that the
	// grammar never defines.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrDuplicateRule is returned when a rule is defined a second time
	// with = instead of the incremental =/.
	ErrDuplicateRule = errors.New("duplicate rule definition")
)

// A SyntaxError reports a syntactic violation in the grammar source.
// Offset is the rune offset at which the violation was detected.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("abnf: %s at offset %d", e.Msg, e.Offset)
}

func syntaxErrorf(offset int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
