package judge

import (
	"context"
	"errors"
	"log"

	"city-group-router/internal/models"
	"city-group-router/internal/protocol"
)

// Failure reasons that mean the solver's output stream broke off
const (
	reasonUnreadableOutput = "unreadable solver output"
	reasonUnreadableAnswer = "unreadable answer"
)

// Outcome is the result of serving one solver session
type Outcome struct {
	Answer  *models.Answer
	Score   *Score
	Queries int
}

// Serve answers queries on conn until the solver sends its answer, then
// scores it. Any rule violation ends the session with *ErrJudgeFailed.
func (j *Judge) Serve(ctx context.Context, conn *protocol.JudgeConn) (*Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, &ErrJudgeFailed{Reason: "cancelled", Cause: err}
		}
		turn, err := conn.ReadTurn()
		if err != nil {
			return nil, &ErrJudgeFailed{Reason: reasonUnreadableOutput, Cause: err}
		}
		if turn.Kind == protocol.TurnAnswer {
			break
		}
		tree, err := j.Query(ctx, turn.Cities)
		if err != nil {
			return nil, &ErrJudgeFailed{Reason: "illegal query", Cause: err}
		}
		if err := conn.Respond(tree); err != nil {
			return nil, &ErrJudgeFailed{Reason: "solver stopped reading", Cause: err}
		}
	}

	ans, err := conn.ReadAnswerBody(j.c.Instance.Sizes)
	if err != nil {
		return nil, &ErrJudgeFailed{Reason: reasonUnreadableAnswer, Cause: err}
	}
	score, err := j.Evaluate(ans)
	if err != nil {
		return nil, &ErrJudgeFailed{Reason: "illegal answer", Cause: err}
	}
	log.Printf("[JUDGE] Session complete: queries=%d score=%d", j.queries, score.Score)
	return &Outcome{Answer: ans, Score: score, Queries: j.queries}, nil
}

// Reason extracts the failure reason of a judge error, or the error text
func Reason(err error) string {
	var jf *ErrJudgeFailed
	if errors.As(err, &jf) {
		if jf.Cause != nil {
			return jf.Reason + ": " + jf.Cause.Error()
		}
		return jf.Reason
	}
	return err.Error()
}
