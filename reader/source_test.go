package reader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, src string) string {
	t.Helper()
	s, err := New(strings.NewReader(src))
	require.NoError(t, err)

	var out []byte
	for {
		ch, eof := s.Ch()
		if eof {
			break
		}
		out = append(out, ch)
		require.NoError(t, s.Advance())
	}
	return string(out)
}

func TestAdvance_StripsCR(t *testing.T) {
	require.Equal(t, "ab", readAll(t, "a\r\nb"))
}

func TestAdvance_LineCommentConsumedToLF(t *testing.T) {
	require.Equal(t, "axb", readAll(t, "ax-- this is a comment\nb"))
}

func TestAdvance_SingleDashIsNotAComment(t *testing.T) {
	require.Equal(t, "a-b", readAll(t, "a-b"))
}

func TestAdvance_CommentAtEOF(t *testing.T) {
	require.Equal(t, "a", readAll(t, "a-- trailing comment, no newline"))
}

func TestAdvance_DashAtEOF(t *testing.T) {
	require.Equal(t, "a-", readAll(t, "a-"))
}

func TestPos_TracksLineAndColumn(t *testing.T) {
	s, err := New(strings.NewReader("ab\ncd"))
	require.NoError(t, err)

	line, col := s.Pos()
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	require.NoError(t, s.Advance())
	line, col = s.Pos()
	require.Equal(t, 1, line)
	require.Equal(t, 2, col)

	require.NoError(t, s.Advance())
	line, col = s.Pos()
	require.Equal(t, 2, line)
	require.Equal(t, 1, col)
}

func TestPutback_ReplaysInOrder(t *testing.T) {
	s, err := New(strings.NewReader("xyz"))
	require.NoError(t, err)

	ch, _ := s.Ch()
	require.Equal(t, byte('x'), ch)

	s.PutbackAll([]byte("TOKEN"))
	require.NoError(t, s.Advance())

	var replayed []byte
	for i := 0; i < 5; i++ {
		ch, eof := s.Ch()
		require.False(t, eof)
		replayed = append(replayed, ch)
		require.NoError(t, s.Advance())
	}
	require.Equal(t, "TOKEN", string(replayed))
}

func TestPutback_SingleCharThenResume(t *testing.T) {
	s, err := New(strings.NewReader("bcd"))
	require.NoError(t, err)

	ch, _ := s.Ch()
	require.Equal(t, byte('b'), ch)
	require.NoError(t, s.Advance())

	s.Putback('b')
	require.NoError(t, s.Advance())
	ch, _ = s.Ch()
	require.Equal(t, byte('b'), ch)

	// The look-ahead 'c' that the putback replaced is not replayed; the
	// underlying stream resumes after it.
	require.NoError(t, s.Advance())
	ch, _ = s.Ch()
	require.Equal(t, byte('d'), ch)
}

func TestRingContext_CapturesRecentChars(t *testing.T) {
	s, err := New(strings.NewReader("hello"))
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Advance())
	}
	require.Equal(t, "hello", s.RingContext())
}

func TestRingContext_WrapsAt64Bytes(t *testing.T) {
	long := strings.Repeat("a", 70) + "b"
	s, err := New(strings.NewReader(long))
	require.NoError(t, err)
	for i := 0; i < len(long)-1; i++ {
		require.NoError(t, s.Advance())
	}
	ctx := s.RingContext()
	require.Len(t, ctx, 64)
	require.Equal(t, byte('b'), ctx[len(ctx)-1])
}

func TestErrorf_FormatsPositionalDiagnostic(t *testing.T) {
	s, err := New(strings.NewReader("ab"))
	require.NoError(t, err)
	require.NoError(t, s.Advance())

	d := s.Errorf(errors.New("unexpected end of file"))
	require.Contains(t, d.Error(), "? unexpected end of file")
	require.Contains(t, d.Error(), "line 1")
}
