package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"city-group-router/internal/models"
)

// WriteAnswer emits "!" and, per group, its city line followed by one "a b" line per edge
func WriteAnswer(w io.Writer, ans *models.Answer) error {
	bw := bufio.NewWriter(w)
	if err := writeAnswer(bw, ans); err != nil {
		return err
	}
	return bw.Flush()
}

func writeAnswer(bw *bufio.Writer, ans *models.Answer) error {
	if len(ans.Edges) != len(ans.Groups) {
		return fmt.Errorf("answer has %d groups but %d edge sets", len(ans.Groups), len(ans.Edges))
	}
	bw.WriteString("!\n")
	for k, g := range ans.Groups {
		writeInts(bw, g)
		for _, e := range ans.Edges[k] {
			fmt.Fprintf(bw, "%d %d\n", e.A, e.B)
		}
	}
	return nil
}

// TurnKind tells the judge what the solver just sent
type TurnKind int

const (
	TurnQuery TurnKind = iota
	TurnAnswer
)

// Turn is one solver message as read by the judge
type Turn struct {
	Kind   TurnKind
	Cities []int
}

// JudgeConn is the judge's side of the exchange
type JudgeConn struct {
	lr *lineReader
	w  *bufio.Writer
}

// NewJudgeConn reads solver output from r and writes responses to w
func NewJudgeConn(r io.Reader, w io.Writer) *JudgeConn {
	return &JudgeConn{lr: newLineReader(r), w: bufio.NewWriter(w)}
}

// ReadTurn reads a "? k ..." query or the "!" that starts the answer
func (j *JudgeConn) ReadTurn() (*Turn, error) {
	fields, err := j.lr.next()
	if err != nil {
		return nil, fmt.Errorf("reading solver output: %v: %w", err, ErrProtocol)
	}
	switch fields[0] {
	case "!":
		return &Turn{Kind: TurnAnswer}, nil
	case "?":
		if len(fields) < 2 {
			return nil, fmt.Errorf("query without size: %w", ErrProtocol)
		}
		k, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("bad query size %q: %w", fields[1], ErrProtocol)
		}
		if len(fields)-2 != k {
			return nil, fmt.Errorf("query announces %d cities, sent %d: %w", k, len(fields)-2, ErrProtocol)
		}
		cities := make([]int, k)
		for i := 0; i < k; i++ {
			if cities[i], err = strconv.Atoi(fields[i+2]); err != nil {
				return nil, fmt.Errorf("bad city id %q: %w", fields[i+2], ErrProtocol)
			}
		}
		return &Turn{Kind: TurnQuery, Cities: cities}, nil
	default:
		return nil, fmt.Errorf("unexpected solver line %q: %w", fields[0], ErrProtocol)
	}
}

// Respond writes one "a b" line per edge
func (j *JudgeConn) Respond(edges []models.Edge) error {
	for _, e := range edges {
		fmt.Fprintf(j.w, "%d %d\n", e.A, e.B)
	}
	return j.w.Flush()
}

// ReadAnswerBody reads the group lines following "!". Each group line must
// hold sizes[k] cities and is followed by sizes[k]-1 edge lines.
func (j *JudgeConn) ReadAnswerBody(sizes []int) (*models.Answer, error) {
	ans := &models.Answer{
		Groups: make([]models.Group, len(sizes)),
		Edges:  make([][]models.Edge, len(sizes)),
	}
	for k, size := range sizes {
		cities, err := j.lr.ints(-1)
		if err != nil {
			return nil, fmt.Errorf("group %d: %v: %w", k, err, ErrProtocol)
		}
		if len(cities) != size {
			return nil, fmt.Errorf("group %d has %d cities, want %d: %w", k, len(cities), size, ErrProtocol)
		}
		ans.Groups[k] = cities

		edges := make([]models.Edge, 0, size-1)
		for e := 0; e < size-1; e++ {
			v, err := j.lr.ints(2)
			if err != nil {
				return nil, fmt.Errorf("group %d edge %d: %v: %w", k, e, err, ErrProtocol)
			}
			edges = append(edges, models.Edge{A: v[0], B: v[1]})
		}
		ans.Edges[k] = edges
	}
	return ans, nil
}
