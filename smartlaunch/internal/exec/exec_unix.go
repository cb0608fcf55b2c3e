//go:build unix

package exec

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type process struct {
	pid   int
	stdin io.WriteCloser

	mu     sync.Mutex
	status *ExitStatus
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
	// Put the child into its own process group so that a terminal ^C only
	// reaches us. We stop the child ourselves with a save-all and stop.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create stdin pipe")
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, err
	}

	pid := cmd.Process.Pid
	// The child is reaped with wait4 directly, so the os.Process handle is
	// never used again.
	cmd.Process.Release()

	return &process{pid: pid, stdin: stdin}, nil
}

func (proc *process) PID() int { return proc.pid }

func (proc *process) Stdin() io.WriteCloser { return proc.stdin }

// TryWait polls the process with WNOHANG.
func (proc *process) TryWait() (ExitStatus, bool, error) {
	proc.mu.Lock()
	defer proc.mu.Unlock()

	if proc.status != nil {
		return *proc.status, true, nil
	}

	var ws unix.WaitStatus

	for {
		wpid, err := unix.Wait4(proc.pid, &ws, unix.WNOHANG, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return ExitStatus{}, false, errors.Wrap(err, "wait4")
		}
		if wpid == 0 {
			return ExitStatus{}, false, nil
		}

		return proc.reaped(ws), true, nil
	}
}

// Wait blocks until the process exits. The stdin pipe is closed afterwards.
func (proc *process) Wait() ExitStatus {
	proc.mu.Lock()
	defer proc.mu.Unlock()

	if proc.status != nil {
		return *proc.status
	}

	var ws unix.WaitStatus

	for {
		_, err := unix.Wait4(proc.pid, &ws, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return ExitStatus{PID: proc.pid, Code: -1, Error: errors.Wrap(err, "wait4")}
		}

		return proc.reaped(ws)
	}
}

func (proc *process) reaped(ws unix.WaitStatus) ExitStatus {
	status := ExitStatus{PID: proc.pid, Code: ws.ExitStatus()}
	if ws.Signaled() {
		status.Code = -1
	}

	proc.status = &status
	proc.stdin.Close()

	return status
}
