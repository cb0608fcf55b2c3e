// Package lock implements the server lock: a marker file containing the name
// of the operator running the server.
//
// The marker is advisory. Its existence alone means the server directory is
// taken, and it is never overwritten or removed by anyone but the launcher
// that created it, even if it looks stale. While a launcher holds the marker,
// it also holds a flock on it, which lets others tell a running launcher apart
// from a marker left behind by a crash.
package lock

import (
	"os"
	"os/user"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// ErrAlreadyLocked is matched by AlreadyLockedError.
var ErrAlreadyLocked = errors.New("server is already locked")

// AlreadyLockedError is returned by TryAcquire if the marker already exists.
type AlreadyLockedError struct {
	Path string
	// Holder is the content of the marker, which is usually the name of the
	// user running the server. It is empty if the marker can't be read.
	Holder string
	// Live is true if a running launcher still holds the marker. A marker that
	// isn't live was probably left behind by a crash, but it is never cleared
	// automatically.
	Live bool
}

func (err *AlreadyLockedError) Error() string {
	state := "possibly stale"
	if err.Live {
		state = "held by a running launcher"
	}
	return "server is already locked by '" + err.Holder + "' (" + state + ")"
}

// Is returns true if target is ErrAlreadyLocked.
func (err *AlreadyLockedError) Is(target error) bool {
	return target == ErrAlreadyLocked
}

// Lock is an acquired server lock.
type Lock struct {
	Path     string
	Identity string

	fl *flock.Flock

	watchMu   sync.Mutex
	watcher   *fsnotify.Watcher
	watchDone chan struct{}
}

// CurrentIdentity returns the name of the user running this process.
func CurrentIdentity() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}

	for _, env := range []string{"USER", "USERNAME"} {
		if name := os.Getenv(env); name != "" {
			return name
		}
	}

	return "unknown"
}

// TryAcquire creates the marker at path containing identity. If the marker
// already exists, an *AlreadyLockedError is returned and the marker is left
// untouched.
func TryAcquire(path, identity string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, Inspect(path)
		}
		return nil, errors.Wrap(err, "failed to create lock file")
	}

	_, err = f.WriteString(identity)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		// We created it, so it's ours to remove.
		os.Remove(path)
		return nil, errors.Wrap(err, "failed to write lock file")
	}

	l := &Lock{
		Path:     path,
		Identity: identity,
	}

	// The flock only tells other launchers that we're alive. Failing to take
	// it does not weaken the marker itself.
	fl := newFlock(path)
	if ok, err := fl.TryLock(); err == nil && ok {
		l.fl = fl
	}

	return l, nil
}

// Inspect reads the marker at path. It returns nil if there is no marker, or
// an *AlreadyLockedError describing it.
func Inspect(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		// The marker exists but can't be read; it still counts.
		return &AlreadyLockedError{Path: path, Live: isLive(path)}
	}

	return &AlreadyLockedError{
		Path:   path,
		Holder: strings.TrimSpace(string(b)),
		Live:   isLive(path),
	}
}

// newFlock returns a flock on the marker that never creates it. The marker
// may be deleted by its owner at any time, and a probe must not bring it back.
func newFlock(path string) *flock.Flock {
	return flock.New(path, flock.SetFlag(os.O_RDONLY))
}

// isLive checks whether anyone holds the flock on an existing marker. A
// missing marker is not live.
func isLive(path string) bool {
	fl := newFlock(path)

	ok, err := fl.TryLock()
	if err != nil {
		return false
	}
	if !ok {
		return true
	}

	fl.Unlock()
	return false
}

// Release deletes the marker. An error is returned if it cannot be deleted,
// in which case the server directory stays locked.
func (l *Lock) Release() error {
	l.stopWatching()

	if err := os.Remove(l.Path); err != nil {
		return errors.Wrap(err, "failed to delete lock file")
	}

	if l.fl != nil {
		l.fl.Unlock()
		l.fl = nil
	}

	return nil
}
