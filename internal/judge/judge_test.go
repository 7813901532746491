package judge

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city-group-router/internal/models"
	"city-group-router/internal/protocol"
)

// squareCase is a 10x10 square split into two groups of two
func squareCase() *Case {
	truth := []models.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	in := &models.Instance{N: 4, M: 2, Q: 2, L: 3, W: 10, Sizes: []int{2, 2}}
	for _, p := range truth {
		in.Rects = append(in.Rects, models.Rect{LX: p.X, RX: p.X, LY: p.Y, RY: p.Y})
	}
	return &Case{Instance: in, Truth: truth}
}

func TestJudge_Query(t *testing.T) {
	j := New(squareCase())

	tree, err := j.Query(context.Background(), []int{2, 0, 1})

	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Edge{{A: 0, B: 1}, {A: 1, B: 2}}, tree)
	assert.Equal(t, 1, j.Queries())
}

func TestJudge_QueryRules(t *testing.T) {
	tests := []struct {
		name   string
		cities []int
	}{
		{"too small", []int{0}},
		{"too large", []int{0, 1, 2, 3}},
		{"out of range", []int{0, 4}},
		{"negative", []int{-1, 0}},
		{"repeated", []int{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := New(squareCase())
			_, err := j.Query(context.Background(), tt.cities)
			assert.True(t, errors.Is(err, ErrInvalidQuery))
			assert.Equal(t, 0, j.Queries())
		})
	}
}

func TestJudge_QueryBudget(t *testing.T) {
	j := New(squareCase())
	ctx := context.Background()

	_, err := j.Query(ctx, []int{0, 1})
	require.NoError(t, err)
	_, err = j.Query(ctx, []int{2, 3})
	require.NoError(t, err)
	_, err = j.Query(ctx, []int{0, 3})

	assert.True(t, errors.Is(err, ErrInvalidQuery))
}

func TestJudge_Evaluate(t *testing.T) {
	j := New(squareCase())

	t.Run("optimal answer", func(t *testing.T) {
		s, err := j.Evaluate(&models.Answer{
			Groups: []models.Group{{0, 1}, {2, 3}},
			Edges:  [][]models.Edge{{{A: 1, B: 0}}, {{A: 2, B: 3}}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1000000), s.Score)
		assert.InDelta(t, 20.0, s.Cost, 1e-9)
		assert.InDelta(t, 20.0, s.Reference, 1e-9)
	})

	t.Run("diagonal groups", func(t *testing.T) {
		s, err := j.Evaluate(&models.Answer{
			Groups: []models.Group{{0, 2}, {1, 3}},
			Edges:  [][]models.Edge{{{A: 0, B: 2}}, {{A: 1, B: 3}}},
		})
		require.NoError(t, err)
		// reference and cost are the same diagonals
		assert.Equal(t, int64(1000000), s.Score)
	})
}

func TestJudge_EvaluateSuboptimalEdges(t *testing.T) {
	truth := []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	in := &models.Instance{N: 3, M: 1, Q: 1, L: 3, W: 1, Sizes: []int{3}}
	for _, p := range truth {
		in.Rects = append(in.Rects, models.Rect{LX: p.X, RX: p.X, LY: p.Y, RY: p.Y})
	}
	j := New(&Case{Instance: in, Truth: truth})

	s, err := j.Evaluate(&models.Answer{
		Groups: []models.Group{{0, 1, 2}},
		Edges:  [][]models.Edge{{{A: 0, B: 2}, {A: 0, B: 1}}},
	})

	require.NoError(t, err)
	assert.InDelta(t, 3.0, s.Cost, 1e-9)
	assert.InDelta(t, 2.0, s.Reference, 1e-9)
	assert.Equal(t, int64(666667), s.Score)
}

func TestJudge_EvaluateRejects(t *testing.T) {
	tests := []struct {
		name string
		ans  *models.Answer
	}{
		{"group count", &models.Answer{
			Groups: []models.Group{{0, 1, 2, 3}},
			Edges:  [][]models.Edge{{{A: 0, B: 1}, {A: 1, B: 2}, {A: 2, B: 3}}},
		}},
		{"wrong size", &models.Answer{
			Groups: []models.Group{{0, 1, 2}, {3}},
			Edges:  [][]models.Edge{{{A: 0, B: 1}, {A: 1, B: 2}}, {}},
		}},
		{"duplicate city", &models.Answer{
			Groups: []models.Group{{0, 1}, {1, 3}},
			Edges:  [][]models.Edge{{{A: 0, B: 1}}, {{A: 1, B: 3}}},
		}},
		{"city out of range", &models.Answer{
			Groups: []models.Group{{0, 1}, {2, 7}},
			Edges:  [][]models.Edge{{{A: 0, B: 1}}, {{A: 2, B: 7}}},
		}},
		{"edge leaves group", &models.Answer{
			Groups: []models.Group{{0, 1}, {2, 3}},
			Edges:  [][]models.Edge{{{A: 0, B: 2}}, {{A: 2, B: 3}}},
		}},
		{"self loop", &models.Answer{
			Groups: []models.Group{{0, 1}, {2, 3}},
			Edges:  [][]models.Edge{{{A: 0, B: 0}}, {{A: 2, B: 3}}},
		}},
		{"missing edge", &models.Answer{
			Groups: []models.Group{{0, 1}, {2, 3}},
			Edges:  [][]models.Edge{{}, {{A: 2, B: 3}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(squareCase()).Evaluate(tt.ans)
			assert.True(t, errors.Is(err, ErrInvalidAnswer), "got %v", err)
		})
	}
}

func TestJudge_Serve(t *testing.T) {
	solverOut := "? 2 0 1\n!\n0 1\n0 1\n2 3\n3 2\n"
	var toSolver bytes.Buffer
	j := New(squareCase())

	out, err := j.Serve(context.Background(), protocol.NewJudgeConn(strings.NewReader(solverOut), &toSolver))

	require.NoError(t, err)
	assert.Equal(t, "0 1\n", toSolver.String())
	assert.Equal(t, 1, out.Queries)
	assert.Equal(t, int64(1000000), out.Score.Score)
}

func TestJudge_ServeFailures(t *testing.T) {
	tests := []struct {
		name   string
		output string
		reason string
	}{
		{"garbage", "hello\n", "unreadable solver output"},
		{"illegal query", "? 4 0 1 2 3\n", "illegal query"},
		{"truncated answer", "!\n0 1\n", "unreadable answer"},
		{"illegal answer", "!\n0 1\n0 2\n2 3\n2 3\n", "illegal answer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(squareCase()).Serve(context.Background(),
				protocol.NewJudgeConn(strings.NewReader(tt.output), io.Discard))
			var jf *ErrJudgeFailed
			require.True(t, errors.As(err, &jf))
			assert.Equal(t, tt.reason, jf.Reason)
			assert.NotEmpty(t, Reason(err))
		})
	}
}

func TestReason(t *testing.T) {
	assert.Equal(t, "boom", Reason(errors.New("boom")))
	assert.Equal(t, "illegal query: bad", Reason(&ErrJudgeFailed{Reason: "illegal query", Cause: errors.New("bad")}))
	assert.Equal(t, "cancelled", Reason(&ErrJudgeFailed{Reason: "cancelled"}))
}
