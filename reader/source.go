// Package reader implements the character source: a single-character
// look-ahead reader over a byte stream, with line/column
// tracking, a 64-byte ring buffer of recently read characters for error
// context, a bounded putback stack, and transparent handling of carriage
// returns, line comments, and EOF.
package reader

import (
	"bufio"
	"io"

	"github.com/ebnfcomp/ebnfcomp/errorx"
)

const (
	ringSize    = 64
	maxPutback  = 256
	commentDash = '-'
)

// Source is the only suspension point in the pipeline: Advance may block
// reading from the underlying io.Reader.
type Source struct {
	r   *bufio.Reader
	ch  byte
	eof bool

	line, col int

	ring   [ringSize]byte
	ringAt int
	ringN  int

	putback []byte
}

// New creates a Source over r and primes the look-ahead by reading the
// first character.
func New(r io.Reader) (*Source, error) {
	s := &Source{
		r:    bufio.NewReader(r),
		line: 1,
	}
	if err := s.Advance(); err != nil {
		return nil, err
	}
	return s, nil
}

// Ch returns the current look-ahead character and whether the source is at
// EOF (in which case the byte value is meaningless).
func (s *Source) Ch() (byte, bool) {
	return s.ch, s.eof
}

// Pos returns the position of the current look-ahead character.
func (s *Source) Pos() (line, col int) {
	return s.line, s.col
}

// Putback pushes c onto the bounded putback stack; the next call to
// Advance will yield c (and subsequent pushed characters, most-recently-
// pushed first) before resuming the underlying stream.
func (s *Source) Putback(c byte) {
	if len(s.putback) >= maxPutback {
		panic("reader: putback stack overflow")
	}
	s.putback = append(s.putback, c)
}

// PutbackAll pushes every byte of text onto the putback stack in reverse
// order, so that the next Advance calls replay text in its original order.
// This is how the parser ungets a whole trial prefix (e.g. a mismatched
// TOKEN/BYTE/WORD/DWORD/QWORD keyword) to retry it as an identifier.
func (s *Source) PutbackAll(text []byte) {
	for i := len(text) - 1; i >= 0; i-- {
		s.Putback(text[i])
	}
}

// Advance reads the next logical character into the look-ahead.
func (s *Source) Advance() error {
	if len(s.putback) > 0 {
		last := len(s.putback) - 1
		s.ch = s.putback[last]
		s.putback = s.putback[:last]
		s.eof = false
		s.accept()
		return nil
	}

	for {
		b, err := s.r.ReadByte()
		if err == io.EOF {
			s.eof = true
			s.ch = 0
			return nil
		}
		if err != nil {
			return err
		}

		switch b {
		case '\r':
			continue
		case '\n':
			s.line++
			s.col = 0
			continue
		case commentDash:
			next, err := s.r.ReadByte()
			if err == io.EOF {
				s.ch = commentDash
				s.eof = false
				s.accept()
				return nil
			}
			if err != nil {
				return err
			}
			if next != commentDash {
				if err := s.r.UnreadByte(); err != nil {
					return err
				}
				s.ch = commentDash
				s.eof = false
				s.accept()
				return nil
			}
			// "--" starts a line comment, consumed up to and including LF.
			for {
				c, err := s.r.ReadByte()
				if err == io.EOF {
					s.eof = true
					s.ch = 0
					return nil
				}
				if err != nil {
					return err
				}
				if c == '\n' {
					s.line++
					s.col = 0
					break
				}
			}
			continue
		default:
			s.ch = b
			s.eof = false
			s.accept()
			return nil
		}
	}
}

// accept records the just-read character: the column counter is
// incremented and the character is appended to the ring buffer.
func (s *Source) accept() {
	s.col++
	s.ring[s.ringAt] = s.ch
	s.ringAt = (s.ringAt + 1) % ringSize
	if s.ringN < ringSize {
		s.ringN++
	}
}

// RingContext returns the recently-read characters (oldest first) captured
// in the ring buffer, for inclusion in a fatal diagnostic.
func (s *Source) RingContext() string {
	buf := make([]byte, 0, s.ringN)
	start := (s.ringAt - s.ringN + ringSize) % ringSize
	for i := 0; i < s.ringN; i++ {
		buf = append(buf, s.ring[(start+i)%ringSize])
	}
	return string(buf)
}

// Errorf builds a fatal diagnostic positioned at the source's current
// location, with the ring buffer flushed into it as context.
func (s *Source) Errorf(cause error) *errorx.Diag {
	return errorx.New(cause, s.line, s.col).WithRing(s.RingContext())
}
