package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedInput is returned when the problem input cannot be parsed
var ErrMalformedInput = errors.New("malformed input")

// ErrProtocol is returned when a peer breaks the query/response exchange
var ErrProtocol = errors.New("protocol violation")

// lineReader reads whitespace-separated integer lines
type lineReader struct {
	r    *bufio.Reader
	line int
}

func newLineReader(r io.Reader) *lineReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &lineReader{r: br}
	}
	return &lineReader{r: bufio.NewReader(r)}
}

// next returns the fields of the next non-empty line
func (lr *lineReader) next() ([]string, error) {
	for {
		s, err := lr.r.ReadString('\n')
		if len(s) == 0 && err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		lr.line++
		fields := strings.Fields(s)
		if len(fields) > 0 {
			return fields, nil
		}
		if err != nil {
			return nil, io.ErrUnexpectedEOF
		}
	}
}

// ints reads the next line as integers. want < 0 accepts any count.
func (lr *lineReader) ints(want int) ([]int, error) {
	fields, err := lr.next()
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", lr.line+1, err)
	}
	if want >= 0 && len(fields) < want {
		return nil, fmt.Errorf("line %d: expected %d integers, got %d", lr.line, want, len(fields))
	}
	if want < 0 {
		want = len(fields)
	}
	out := make([]int, want)
	for i := 0; i < want; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad integer %q", lr.line, fields[i])
		}
		out[i] = v
	}
	return out, nil
}
