package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch"
	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch/journal"
	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch/lock"
	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch/notify"
	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch/properties"
	"github.com/pkg/errors"
)

// errLocked is returned by launch if another launcher owns the server.
var errLocked = errors.New("server not started")

// launcher launches and supervises the server once.
type launcher struct {
	cfg Config
	in  io.Reader
	out io.Writer

	now    func() time.Time
	client *http.Client
	// interruptible returns a context canceled by SIGINT or SIGTERM. It is
	// only installed once the lock is held, so that a ^C at the prompt still
	// kills the launcher outright.
	interruptible func(context.Context) (context.Context, context.CancelFunc)
}

func newLauncher(cfg Config, in io.Reader, out io.Writer) *launcher {
	return &launcher{
		cfg: cfg,
		in:  in,
		out: out,
		now: time.Now,

		interruptible: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		},
	}
}

// journaler returns the console journal, plus the journal file if one is
// configured. The returned function closes the file.
func (l *launcher) journaler() (smartlaunch.Journaler, func()) {
	human := journal.NewHumanWriter(l.out)

	if l.cfg.Journal == "" {
		return human, func() {}
	}

	f := journal.NewFileJournaler(l.cfg.Journal)
	return journal.MultiWriter(f, human), func() { f.Close() }
}

// launch runs the whole launch sequence. It returns once the server has been
// shut down, or with an error if it could not be launched. An interrupt after
// the lock is taken but before the server is started releases the lock and
// aborts the launch.
func (l *launcher) launch(ctx context.Context) error {
	fmt.Fprintf(l.out, "%s\n\n\n", strings.ToUpper(l.cfg.AppName))

	webhookURL, err := notify.ReadWebhookURL(l.cfg.WebhookFile)
	if err != nil {
		return err
	}

	at, err := l.schedule()
	if err != nil {
		return errors.Wrap(err, "failed to schedule shutdown")
	}

	j, closeJournal := l.journaler()
	defer closeJournal()

	j.Write(&smartlaunch.EventScheduled{At: at.At})

	fields, err := properties.ApplyShutdownBanner(l.cfg.Properties, l.cfg.Banner, at.String())
	if err != nil {
		var writeErr *properties.WriteError
		if !errors.As(err, &writeErr) {
			return err
		}

		j.Write(&smartlaunch.EventWarning{Component: "properties", Error: err.Error()})
	} else {
		j.Write(&smartlaunch.EventBannerUpdated{Path: l.cfg.Properties})
	}

	identity := lock.CurrentIdentity()

	lk, err := lock.TryAcquire(l.cfg.Lock, identity)
	if err != nil {
		var locked *lock.AlreadyLockedError
		if errors.As(err, &locked) {
			fmt.Fprintf(l.out, "[WARN] Found %s file!\n", l.cfg.Lock)
			fmt.Fprintln(l.out, "[WARN] Server is currently being run by another user or shutdown did not clear the lock file.")
			j.Write(&smartlaunch.EventWarning{Component: "lock", Error: err.Error()})
			return errLocked
		}
		return err
	}

	j.Write(&smartlaunch.EventLockAcquired{Path: lk.Path, Identity: identity})

	ctx, cancel := l.interruptible(ctx)
	defer cancel()

	if err := lk.Watch(func(err error) {
		j.Write(&smartlaunch.EventWarning{Component: "lock", Error: err.Error()})
	}); err != nil {
		j.Write(&smartlaunch.EventWarning{Component: "lock", Error: err.Error()})
	}

	held := &journaledLock{lk, j}

	// Nothing is running yet, so don't leave the lock behind.
	abort := func(err error) error {
		if rerr := held.Release(); rerr != nil {
			j.Write(&smartlaunch.EventWarning{Component: "lock", Error: rerr.Error()})
		}
		return err
	}

	if err := copyJar(l.cfg.Jars, fields.ServerVersion, l.cfg.ServerJar); err != nil {
		return abort(err)
	}

	if err := ctx.Err(); err != nil {
		return abort(errors.Wrap(err, "launch interrupted"))
	}

	webhook := &notify.Webhook{
		URL:       webhookURL,
		AppName:   l.cfg.AppName,
		AvatarURL: l.cfg.AvatarURL,
		Client:    l.client,
		Warn: func(err error) {
			j.Write(&smartlaunch.EventWarning{Component: "webhook", Error: err.Error()})
		},
		Sent: func(kind string) {
			j.Write(&smartlaunch.EventNotificationSent{Kind: kind})
		},
	}

	webhook.Launched(ctx, notify.Launch{
		LevelName:  fields.LevelName,
		Version:    fields.ServerVersion,
		Host:       identity,
		ShutdownAt: at.String(),
	})

	j.Write(&smartlaunch.EventLaunching{
		LevelName: fields.LevelName,
		Version:   fields.ServerVersion,
	})

	s := smartlaunch.NewSupervisor(at, l.cfg.Argv(), "", held, webhook, j)
	s.Now = l.now

	return s.Run(ctx)
}

// schedule resolves the shutdown time from the config, or prompts for it.
func (l *launcher) schedule() (smartlaunch.Schedule, error) {
	now := l.now()

	if l.cfg.At == "" {
		return smartlaunch.Prompt(l.in, l.out, now)
	}

	hour, minute, err := smartlaunch.ParseClock(l.cfg.At)
	if err != nil {
		return smartlaunch.Schedule{}, err
	}

	return smartlaunch.Resolve(hour, minute, now)
}

// journaledLock journals the release of the lock.
type journaledLock struct {
	*lock.Lock
	j smartlaunch.Journaler
}

func (l *journaledLock) Release() error {
	if err := l.Lock.Release(); err != nil {
		return err
	}

	l.j.Write(&smartlaunch.EventLockReleased{Path: l.Path})
	return nil
}
