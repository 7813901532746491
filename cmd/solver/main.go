package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"city-group-router/internal/protocol"
	"city-group-router/internal/routing"
)

func main() {
	// stdout carries the protocol; everything else goes to stderr.
	log.SetOutput(os.Stderr)
	if err := run(os.Args[1:], os.Getenv, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(args []string, getenv func(string) string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := parseConfig(args, getenv)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	br := bufio.NewReader(stdin)
	in, err := protocol.ReadInstance(br)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	oracle := protocol.NewStreamOracle(br, stdout)
	res, err := routing.NewEngine(cfg).Solve(ctx, &routing.Request{Instance: in, Oracle: oracle})
	if err != nil {
		return err
	}

	if err := oracle.Answer(res.Answer); err != nil {
		return fmt.Errorf("failed to write answer: %w", err)
	}
	log.Printf("[SOLVER] Answer sent: groups=%d queries=%d tour=%s", len(res.Answer.Groups), oracle.Queries(), res.Chosen)
	return nil
}
