//go:build !unix

package exec

import (
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// process is reaped by a goroutine blocked in Wait, since there is no
// non-blocking wait on this platform.
type process struct {
	pid   int
	stdin io.WriteCloser

	done   chan struct{}
	status ExitStatus
}

var _ Process = (*process)(nil)

// StartProcess starts argv in dir with its standard input piped from us and
// its standard output and error inherited.
func StartProcess(argv []string, dir string) (Process, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty argv")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create stdin pipe")
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, err
	}

	proc := &process{
		pid:   cmd.Process.Pid,
		stdin: stdin,
		done:  make(chan struct{}),
	}

	go func() {
		// Wait also closes the stdin pipe.
		err := cmd.Wait()
		proc.status = exitStatus(proc.pid, cmd.ProcessState, err)
		close(proc.done)
	}()

	return proc, nil
}

func exitStatus(pid int, state *os.ProcessState, err error) ExitStatus {
	if state == nil {
		return ExitStatus{PID: pid, Code: -1, Error: errors.Wrap(err, "wait")}
	}

	// A non-zero exit is reported through the code, not as an error.
	return ExitStatus{PID: pid, Code: state.ExitCode()}
}

func (proc *process) PID() int { return proc.pid }

func (proc *process) Stdin() io.WriteCloser { return proc.stdin }

func (proc *process) TryWait() (ExitStatus, bool, error) {
	select {
	case <-proc.done:
		return proc.status, true, nil
	default:
		return ExitStatus{}, false, nil
	}
}

func (proc *process) Wait() ExitStatus {
	<-proc.done
	return proc.status
}
