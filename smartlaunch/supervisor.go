package smartlaunch

import (
	"context"
	"time"

	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch/internal/exec"
	"github.com/pkg/errors"
)

// PollInterval is how often the supervisor checks on the server and the
// clock.
var PollInterval = time.Second

// GracePeriod is the delay between each command of the stop sequence, giving
// players time to read the announcement and the server time to save.
var GracePeriod = 5 * time.Second

// Messages announced when the stop sequence begins.
const (
	TimesUpMessage     = "Time's Up!"
	InterruptedMessage = "Server is stopping!"
)

// Releaser releases the server lock. A failure to release is fatal.
type Releaser interface {
	Release() error
}

// Notifier is told once the server has shut down. Notifiers handle their own
// failures.
type Notifier interface {
	Shutdown(ctx context.Context)
}

// Supervisor runs the server process until it exits on its own or until the
// schedule is reached, at which point it stops the server.
type Supervisor struct {
	PollInterval time.Duration
	GracePeriod  time.Duration

	// Now returns the current time. It defaults to time.Now.
	Now func() time.Time
	// Sleep pauses the loop, returning early if ctx is done. It defaults to a
	// timer.
	Sleep func(ctx context.Context, d time.Duration)

	j Journaler

	schedule  Schedule
	argv      []string
	lock      Releaser
	notifier  Notifier
	startProc func() (exec.Process, error)

	// states
	proc      exec.Process
	console   Console
	reminders Reminders
}

// NewSupervisor creates a supervisor that starts argv in dir and shuts it down
// at the given schedule. The lock is released and the notifier told once the
// server is gone.
func NewSupervisor(
	at Schedule, argv []string, dir string, lock Releaser, n Notifier, j Journaler) *Supervisor {

	return &Supervisor{
		PollInterval: PollInterval,
		GracePeriod:  GracePeriod,
		Now:          time.Now,
		Sleep:        sleepContext,

		j:        j,
		schedule: at,
		argv:     argv,
		lock:     lock,
		notifier: n,

		startProc: func() (exec.Process, error) {
			return exec.StartProcess(argv, dir)
		},
	}
}

// Schedule returns the supervisor's schedule.
func (s *Supervisor) Schedule() Schedule {
	return s.schedule
}

// Reminders returns a copy of the reminder state.
func (s *Supervisor) Reminders() Reminders {
	return s.reminders
}

// Run starts the server and supervises it until it exits. An error is only
// returned if the server cannot be started or if the lock cannot be released.
//
// Canceling ctx starts the stop sequence early. Once the stop sequence has
// begun, it runs to completion regardless of ctx.
func (s *Supervisor) Run(ctx context.Context) error {
	p, err := s.startProc()
	if err != nil {
		s.j.Write(&EventProcessSpawnError{
			Argv:   s.argv,
			Reason: err.Error(),
		})

		// Nothing was started, so the lock would only be left behind stale.
		if err := s.lock.Release(); err != nil {
			warn(s.j, "lock", err)
		}

		return errors.Wrap(err, "failed to start server process")
	}

	s.proc = p
	s.console = NewConsole(p.Stdin())

	s.j.Write(&EventProcessSpawned{
		PID:  p.PID(),
		Argv: s.argv,
	})

	for {
		if s.poll(ctx) {
			return s.exited(ctx)
		}

		s.Sleep(ctx, s.PollInterval)
	}
}

// poll runs a single iteration of the loop. It returns true once the server
// is gone.
func (s *Supervisor) poll(ctx context.Context) bool {
	status, exited, err := s.proc.TryWait()
	if err != nil {
		warn(s.j, "supervisor", errors.Wrap(err, "failed to check on server process"))
		return false
	}

	if exited {
		// The server went away on its own; nothing to announce.
		s.j.Write(exitedEvent(status, false))
		return true
	}

	remaining := s.schedule.Remaining(s.Now())
	if remaining <= 0 {
		s.stop(TimesUpMessage)
		return true
	}

	if ctx.Err() != nil {
		s.stop(InterruptedMessage)
		return true
	}

	if t, ok := s.reminders.Next(remaining); ok {
		s.j.Write(&EventReminder{
			Minutes: t.Minutes(),
			Message: t.Message,
		})
		announce(s.console, t.Message, s.schedule)
	}

	return false
}

// stop runs the stop sequence and blocks until the server exits. There is no
// timeout: the server is trusted to exit after a stop command.
func (s *Supervisor) stop(message string) {
	s.j.Write(&EventStopping{Message: message})

	// The stop sequence is not cancelable.
	ctx := context.Background()

	announce(s.console, message, s.schedule)
	s.Sleep(ctx, s.GracePeriod)

	_ = s.console.Send(CommandSave)
	s.Sleep(ctx, s.GracePeriod)

	_ = s.console.Send(CommandStop)

	status := s.proc.Wait()
	if status.Error != nil {
		warn(s.j, "supervisor", errors.Wrap(status.Error, "failed to wait for server process"))
	}

	s.j.Write(exitedEvent(status, true))
}

// exited releases the lock and sends the shutdown notification.
func (s *Supervisor) exited(ctx context.Context) error {
	if err := s.lock.Release(); err != nil {
		return errors.Wrap(err, "failed to release server lock")
	}

	// Notify even if ctx was canceled, since that's how we got here.
	s.notifier.Shutdown(context.WithoutCancel(ctx))
	return nil
}

func exitedEvent(status exec.ExitStatus, scheduled bool) *EventProcessExited {
	ev := &EventProcessExited{
		PID:       status.PID,
		ExitCode:  status.Code,
		Scheduled: scheduled,
	}

	if status.Error != nil {
		ev.Error = status.Error.Error()
	}

	return ev
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
