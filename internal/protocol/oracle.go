package protocol

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"city-group-router/internal/models"
)

// Oracle reveals the true connectivity of a small set of cities
type Oracle interface {
	// Query sends the cities (in path order) and returns exactly len(cities)-1 edges.
	Query(ctx context.Context, cities []int) ([]models.Edge, error)
}

// StreamOracle talks to an external judge over two text streams. Queries are
// strictly turn-based: every response line of a query is consumed before the
// next query is written.
type StreamOracle struct {
	w       *bufio.Writer
	lr      *lineReader
	queries int
}

// NewStreamOracle wraps the judge's input (w) and output (r) streams.
// A *bufio.Reader is used as is, so the reader that parsed the problem
// input can be shared without losing buffered lines.
func NewStreamOracle(r io.Reader, w io.Writer) *StreamOracle {
	return &StreamOracle{
		w:  bufio.NewWriter(w),
		lr: newLineReader(r),
	}
}

// Query writes "? k c_1 ... c_k" and blocks until k-1 edge lines are read.
// The context is only checked before the query is written; a judge that
// never answers blocks the read indefinitely.
func (o *StreamOracle) Query(ctx context.Context, cities []int) ([]models.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(cities) < 2 {
		return nil, fmt.Errorf("query of %d cities: %w", len(cities), ErrProtocol)
	}

	fmt.Fprintf(o.w, "? %d", len(cities))
	for _, c := range cities {
		fmt.Fprintf(o.w, " %d", c)
	}
	o.w.WriteByte('\n')
	if err := o.w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write query: %w", err)
	}
	o.queries++

	edges := make([]models.Edge, 0, len(cities)-1)
	for i := 0; i < len(cities)-1; i++ {
		v, err := o.lr.ints(2)
		if err != nil {
			return nil, fmt.Errorf("query %d response %d: %v: %w", o.queries, i, err, ErrProtocol)
		}
		edges = append(edges, models.Edge{A: v[0], B: v[1]})
	}
	return edges, nil
}

// Queries returns how many queries were sent
func (o *StreamOracle) Queries() int {
	return o.queries
}

// Answer writes the final answer on the same stream
func (o *StreamOracle) Answer(ans *models.Answer) error {
	if err := writeAnswer(o.w, ans); err != nil {
		return err
	}
	return o.w.Flush()
}
