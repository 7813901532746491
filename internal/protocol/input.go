package protocol

import (
	"bufio"
	"fmt"
	"io"

	"city-group-router/internal/models"
)

// ReadInstance parses one problem:
//
//	n m q l w
//	g_1 ... g_m
//	lx rx ly ry   (n lines)
func ReadInstance(r io.Reader) (*models.Instance, error) {
	return readInstance(newLineReader(r))
}

func readInstance(lr *lineReader) (*models.Instance, error) {
	head, err := lr.ints(5)
	if err != nil {
		return nil, fmt.Errorf("header: %v: %w", err, ErrMalformedInput)
	}
	in := &models.Instance{N: head[0], M: head[1], Q: head[2], L: head[3], W: head[4]}
	if in.N <= 0 {
		return nil, fmt.Errorf("city count %d: %w", in.N, ErrMalformedInput)
	}

	sizes, err := lr.ints(-1)
	if err != nil {
		return nil, fmt.Errorf("group sizes: %v: %w", err, ErrMalformedInput)
	}
	if in.M > 0 && len(sizes) < in.M {
		return nil, fmt.Errorf("expected %d group sizes, got %d: %w", in.M, len(sizes), ErrMalformedInput)
	}
	if in.M > 0 {
		sizes = sizes[:in.M]
	}
	in.Sizes = sizes

	in.Rects = make([]models.Rect, in.N)
	for i := 0; i < in.N; i++ {
		v, err := lr.ints(4)
		if err != nil {
			return nil, fmt.Errorf("rectangle %d: %v: %w", i, err, ErrMalformedInput)
		}
		in.Rects[i] = models.Rect{LX: v[0], RX: v[1], LY: v[2], RY: v[3]}
	}
	return in, nil
}

// WriteInstance writes an instance in the format ReadInstance accepts
func WriteInstance(w io.Writer, in *models.Instance) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d %d %d\n", in.N, in.M, in.Q, in.L, in.W)
	writeInts(bw, in.Sizes)
	for _, r := range in.Rects {
		fmt.Fprintf(bw, "%d %d %d %d\n", r.LX, r.RX, r.LY, r.RY)
	}
	return bw.Flush()
}

func writeInts(bw *bufio.Writer, vals []int) {
	for i, v := range vals {
		if i > 0 {
			bw.WriteByte(' ')
		}
		fmt.Fprintf(bw, "%d", v)
	}
	bw.WriteByte('\n')
}

// ReadPoints reads n lines of "x y" following an instance on the same reader
func ReadPoints(r *bufio.Reader, n int) ([]models.Point, error) {
	lr := &lineReader{r: r}
	pts := make([]models.Point, n)
	for i := 0; i < n; i++ {
		v, err := lr.ints(2)
		if err != nil {
			return nil, fmt.Errorf("point %d: %v: %w", i, err, ErrMalformedInput)
		}
		pts[i] = models.Point{X: v[0], Y: v[1]}
	}
	return pts, nil
}

// WritePoints writes one "x y" line per point
func WritePoints(w io.Writer, pts []models.Point) error {
	bw := bufio.NewWriter(w)
	for _, p := range pts {
		fmt.Fprintf(bw, "%d %d\n", p.X, p.Y)
	}
	return bw.Flush()
}
