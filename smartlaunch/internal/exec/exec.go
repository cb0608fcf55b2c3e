// Package exec provides an abstraction around a child process with a writable
// standard input for easier testing.
package exec

import (
	"fmt"
	"io"
)

// Process describes a command process.
type Process interface {
	PID() int
	// Stdin returns the write end of the process' standard input.
	Stdin() io.WriteCloser
	// TryWait checks whether the process has exited without blocking. The
	// returned boolean is true if it has.
	TryWait() (ExitStatus, bool, error)
	// Wait blocks until the process exits.
	Wait() ExitStatus
}

// ExitStatus is a process' exit status.
type ExitStatus struct {
	PID   int
	Code  int // -1 if killed by a signal
	Error error
}

// String formats the exit status similarly to os.ProcessState.
func (s ExitStatus) String() string {
	switch {
	case s.Error != nil:
		return fmt.Sprintf("wait error: %v", s.Error)
	case s.Code == -1:
		return "killed by signal"
	default:
		return fmt.Sprintf("exit status %d", s.Code)
	}
}
