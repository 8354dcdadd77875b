package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Decision is the outcome of the post-apply confirmation window.
type Decision string

const (
	// DecisionConfirmed means the operator typed CONFIRM in time.
	DecisionConfirmed Decision = "confirmed"
	// DecisionDeclined means the operator answered something else (or closed
	// stdin).
	DecisionDeclined Decision = "declined"
	// DecisionTimedOut means the window elapsed without an answer.
	DecisionTimedOut Decision = "timed_out"
	// DecisionInterrupted means the wait was cancelled, typically by a
	// signal.
	DecisionInterrupted Decision = "interrupted"
)

// Gate collects the operator's post-apply decision. The engine rolls back on
// every decision except DecisionConfirmed.
type Gate interface {
	Await(ctx context.Context, timeout time.Duration) Decision
}

// StdinGate asks the operator to type CONFIRM on the terminal. If the new
// ruleset cut off the operator's session they cannot answer, so the timeout
// doubles as a dead-man's switch.
type StdinGate struct {
	In  io.Reader
	Out io.Writer
}

// Await prompts and waits for a line, the deadline, or cancellation,
// whichever comes first. The reader goroutine stays blocked on stdin after a
// timeout; it dies with the process.
func (g *StdinGate) Await(ctx context.Context, timeout time.Duration) Decision {
	fmt.Fprintf(g.Out, "Type CONFIRM within %s to keep the new firewall rules: ", timeout)

	lines := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(g.In)
		if scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
			return
		}
		// EOF without a line: nobody is there to confirm.
		lines <- ""
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line := <-lines:
		if line == "CONFIRM" {
			return DecisionConfirmed
		}
		return DecisionDeclined
	case <-timer.C:
		fmt.Fprintln(g.Out)
		return DecisionTimedOut
	case <-ctx.Done():
		fmt.Fprintln(g.Out)
		return DecisionInterrupted
	}
}
