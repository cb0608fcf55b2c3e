package exec

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// FakeProcess is a process that only records what is written into its
// standard input. It is used for testing. It exits either when Exit is called
// or when a line equal to its exit command is written.
type FakeProcess struct {
	mutex  sync.Mutex
	done   chan struct{}
	buf    bytes.Buffer
	lines  []string
	exitOn string

	pid    int
	status *ExitStatus
}

var _ Process = (*FakeProcess)(nil)

// NewFakeProcess creates a fake process. If exitOn is not empty, the process
// exits with code 0 once that line is written into its standard input.
func NewFakeProcess(pid int, exitOn string) *FakeProcess {
	return &FakeProcess{
		done:   make(chan struct{}),
		exitOn: exitOn,
		pid:    pid,
	}
}

func (mock *FakeProcess) PID() int { return mock.pid }

// Stdin returns the fake standard input.
func (mock *FakeProcess) Stdin() io.WriteCloser { return fakeStdin{mock} }

// Exit makes the process exit with the given code. Calling it again is a no-op.
func (mock *FakeProcess) Exit(code int) {
	mock.mutex.Lock()
	defer mock.mutex.Unlock()

	mock.exit(code)
}

func (mock *FakeProcess) exit(code int) {
	if mock.status != nil {
		return
	}

	mock.status = &ExitStatus{PID: mock.pid, Code: code}
	close(mock.done)
}

// Lines returns all complete lines written so far.
func (mock *FakeProcess) Lines() []string {
	mock.mutex.Lock()
	defer mock.mutex.Unlock()

	return append([]string(nil), mock.lines...)
}

func (mock *FakeProcess) TryWait() (ExitStatus, bool, error) {
	mock.mutex.Lock()
	defer mock.mutex.Unlock()

	if mock.status == nil {
		return ExitStatus{}, false, nil
	}

	return *mock.status, true, nil
}

func (mock *FakeProcess) Wait() ExitStatus {
	<-mock.done

	mock.mutex.Lock()
	defer mock.mutex.Unlock()

	return *mock.status
}

type fakeStdin struct{ mock *FakeProcess }

func (in fakeStdin) Write(b []byte) (int, error) {
	in.mock.mutex.Lock()
	defer in.mock.mutex.Unlock()

	if in.mock.status != nil {
		return 0, io.ErrClosedPipe
	}

	in.mock.buf.Write(b)

	for {
		line, err := in.mock.buf.ReadString('\n')
		if err != nil {
			// Put the partial line back.
			in.mock.buf.WriteString(line)
			break
		}

		line = strings.TrimSuffix(line, "\n")
		in.mock.lines = append(in.mock.lines, line)

		if in.mock.exitOn != "" && line == in.mock.exitOn {
			in.mock.exit(0)
		}
	}

	return len(b), nil
}

func (in fakeStdin) Close() error {
	in.mock.mutex.Lock()
	defer in.mock.mutex.Unlock()

	in.mock.exit(0)
	return nil
}
