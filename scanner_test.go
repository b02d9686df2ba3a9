package textscan

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanner_DelimitedReads(t *testing.T) {
	s := NewScanner("before [[che baz]] middle [[foo]] after")

	require.Equal(t, "before ", s.ReadToDelim("[["))
	require.Equal(t, "[[che baz]]", s.ReadUntilDelim("]]"))
	require.Equal(t, " middle ", s.ReadToDelim("[["))
	require.Equal(t, "[[foo]]", s.ReadUntilDelim("]]"))
	require.Equal(t, " after", s.ReadLine())
	require.False(t, s.More())
}

func TestScanner_ReadThru(t *testing.T) {
	s := NewScanner("12345 foo bar")
	require.Equal(t, "12345", s.ReadThru("1234567890"))
	require.Equal(t, " ", s.ReadThruWhitespace())
	require.Equal(t, "foo", s.ReadTo(Whitespace))

	// a non-matching cursor yields an empty run
	require.Equal(t, "", s.ReadThru("1234567890"))
}

func TestScanner_ReadToChars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		chars string
		want  string
		pos   int
	}{
		{"stopsAtChar", "foo,bar", ",", "foo", 3},
		{"noMatchReadsAll", "foobar", ",", "foobar", 6},
		{"emptyInput", "", ",", "", 0},
		{"matchAtStart", ",foo", ",", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner(tt.input)
			require.Equal(t, tt.want, s.ReadTo(tt.chars))
			require.Equal(t, tt.pos, s.Tell())
		})
	}
}

func TestScanner_EscapeHandling(t *testing.T) {
	// an escaped delimiter is consumed verbatim and does not end the scan
	s := NewScanner(`foo\>bar>baz`)
	require.Equal(t, `foo\>bar`, s.ReadToDelim(">"))
	require.Equal(t, ">", s.Peek())

	// same for character classes
	s = NewScanner(`a\ b c`)
	require.Equal(t, `a\ b`, s.ReadTo(" "))

	// a trailing backslash at EOF is consumed alone
	s = NewScanner(`ab\`)
	require.Equal(t, `ab\`, s.ReadToDelim(">"))
	require.False(t, s.More())
}

func TestScanner_ReadUntilCount(t *testing.T) {
	s := NewScanner(`"che" and "baz" trailing`)
	require.Equal(t, `"che" and "baz"`, s.ReadUntilDelimCount(`"`, 4))
	require.Equal(t, " trailing", s.Read(-1))
}

func TestScanner_RoundTrip(t *testing.T) {
	buffer := "the quick brown fox jumps over the lazy dog"
	s := NewScanner(buffer)

	for i := 0; i <= len(buffer); i += 3 {
		for j := i; j <= len(buffer); j += 5 {
			s.SeekTo(i)
			require.Equal(t, buffer[i:j], s.Read(j-i), "seek(%d) read(%d)", i, j-i)
		}
	}
}

func TestScanner_Transaction(t *testing.T) {
	errBoom := errors.New("boom")
	s := NewScanner("foo bar baz")

	// a failed transaction restores the cursor
	err := s.Transaction(func() error {
		s.Read(7)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, 0, s.Tell())

	// a successful transaction keeps the advancement
	err = s.Transaction(func() error {
		s.Read(4)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 4, s.Tell())
}

func TestScanner_TransactionNested(t *testing.T) {
	errBoom := errors.New("boom")
	s := NewScanner("foo bar baz")

	err := s.Transaction(func() error {
		s.Read(4)

		// the inner rollback must not disturb the outer transaction
		inner := s.Transaction(func() error {
			s.Read(4)
			return errBoom
		})
		require.ErrorIs(t, inner, errBoom)
		require.Equal(t, 4, s.Tell())
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 4, s.Tell())
}

func TestScanner_Temporary(t *testing.T) {
	s := NewScanner("foo bar")
	s.Read(2)

	_ = s.Temporary(func() error {
		require.Equal(t, "o bar", s.Read(-1))
		return nil
	})
	require.Equal(t, 2, s.Tell())
}

func TestScanner_EmptyBuffer(t *testing.T) {
	s := NewScanner("")
	require.Equal(t, "", s.Peek())
	require.Equal(t, 0, s.Len())
	require.False(t, s.More())
	require.Equal(t, "", s.Read(10))
}

func TestScanner_Reader(t *testing.T) {
	s, err := NewScannerReader(strings.NewReader("foo bar"))
	require.NoError(t, err)
	require.Equal(t, "foo", s.ReadTo(" "))
}

func TestScanner_RuneAddressing(t *testing.T) {
	// positions are rune offsets, not byte offsets
	s := NewScanner("héllo wörld")
	require.Equal(t, 11, s.Len())
	s.SeekTo(1)
	require.Equal(t, "é", s.Peek())
	require.Equal(t, "héllo", "h"+s.ReadTo(" "))
}

func TestScanner_ReadToRange(t *testing.T) {
	s := NewScanner("abc123def")
	require.Equal(t, "abc", s.ReadToRange('0', '9'))
	require.Equal(t, "123", s.ReadThru("0123456789"))
}
