package judge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"time"

	"city-group-router/internal/protocol"
)

// Play sends the case's instance to a solver and judges the session that follows
func Play(ctx context.Context, c *Case, fromSolver io.Reader, toSolver io.Writer) (*Outcome, error) {
	if err := protocol.WriteInstance(toSolver, c.Instance); err != nil {
		return nil, &ErrJudgeFailed{Reason: "solver did not read its input", Cause: err}
	}
	return New(c).Serve(ctx, protocol.NewJudgeConn(fromSolver, toSolver))
}

// RunCommand starts the solver command, plays one session against it and
// waits for it to exit. The solver's stderr is forwarded to stderr.
func RunCommand(ctx context.Context, c *Case, argv []string, stderr io.Writer) (*Outcome, time.Duration, error) {
	if len(argv) == 0 {
		return nil, 0, fmt.Errorf("no solver command given")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open solver stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open solver stdout: %w", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, 0, fmt.Errorf("failed to execute %q: %w", strings.Join(argv, " "), err)
	}
	log.Printf("[JUDGE] Started solver: pid=%d cmd=%q", cmd.Process.Pid, strings.Join(argv, " "))

	out, playErr := Play(ctx, c, stdout, stdin)
	stdin.Close()
	if playErr != nil {
		err := stopSolver(cmd, playErr)
		if ctx.Err() != nil {
			err = &ErrJudgeFailed{Reason: "cancelled", Cause: ctx.Err()}
		}
		return nil, time.Since(start), err
	}

	// Drain anything the solver prints after its answer so it can exit.
	_, _ = io.Copy(io.Discard, stdout)
	if err := cmd.Wait(); err != nil {
		return nil, time.Since(start), &ErrJudgeFailed{Reason: "solver exited abnormally", Cause: err}
	}
	return out, time.Since(start), nil
}

// exitGrace is how long a solver that stopped talking gets to exit on its own
const exitGrace = 500 * time.Millisecond

// stopSolver reaps the solver after a failed session. When its output broke
// off and it exited with a failure status, that status becomes the reason.
func stopSolver(cmd *exec.Cmd, playErr error) error {
	var jf *ErrJudgeFailed
	readFailure := errors.As(playErr, &jf) &&
		(jf.Reason == reasonUnreadableOutput || jf.Reason == reasonUnreadableAnswer)
	if !readFailure {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return playErr
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			log.Printf("[JUDGE] Solver exited before answering: %s", cmd.ProcessState)
			return &ErrJudgeFailed{Reason: "solver exited abnormally (" + cmd.ProcessState.String() + ")", Cause: playErr}
		}
		return playErr
	case <-time.After(exitGrace):
		_ = cmd.Process.Kill()
		<-done
		return playErr
	}
}
