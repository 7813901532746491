package judge

import (
	"bufio"
	"fmt"
	"io"

	"city-group-router/internal/protocol"
)

// ReadCase reads an instance followed by n lines of true "x y" locations
func ReadCase(r io.Reader) (*Case, error) {
	br := bufio.NewReader(r)
	in, err := protocol.ReadInstance(br)
	if err != nil {
		return nil, err
	}
	truth, err := protocol.ReadPoints(br, in.N)
	if err != nil {
		return nil, err
	}
	for i, p := range truth {
		if !in.Rects[i].Contains(p.X, p.Y) {
			return nil, fmt.Errorf("city %d at (%d, %d) lies outside its rectangle: %w", i, p.X, p.Y, protocol.ErrMalformedInput)
		}
	}
	return &Case{Instance: in, Truth: truth}, nil
}

// WriteCase writes what ReadCase reads
func WriteCase(w io.Writer, c *Case) error {
	if err := protocol.WriteInstance(w, c.Instance); err != nil {
		return err
	}
	return protocol.WritePoints(w, c.Truth)
}
