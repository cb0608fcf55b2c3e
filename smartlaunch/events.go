package smartlaunch

import "time"

// eventType describes an event type.
type eventType = string

const (
	eventWarning           eventType = "warning"
	eventScheduled         eventType = "shutdown scheduled"
	eventBannerUpdated     eventType = "banner updated"
	eventLockAcquired      eventType = "acquired lock"
	eventLockReleased      eventType = "released lock"
	eventLaunching         eventType = "launching"
	eventProcessSpawnError eventType = "process spawn error"
	eventProcessSpawned    eventType = "process spawned"
	eventProcessExited     eventType = "process exited"
	eventReminder          eventType = "reminder"
	eventStopping          eventType = "stopping"
	eventNotificationSent  eventType = "notification sent"
)

// Event is an interface describing known events.
type Event interface {
	Type() string
	event()
}

// NewEvent creates a new event from the given event type. It is used primarily
// for decoding events from its type. Nil is returned if the event type is
// unknown.
func NewEvent(eventType string) Event {
	switch eventType {
	case eventWarning:
		return &EventWarning{}
	case eventScheduled:
		return &EventScheduled{}
	case eventBannerUpdated:
		return &EventBannerUpdated{}
	case eventLockAcquired:
		return &EventLockAcquired{}
	case eventLockReleased:
		return &EventLockReleased{}
	case eventLaunching:
		return &EventLaunching{}
	case eventProcessSpawnError:
		return &EventProcessSpawnError{}
	case eventProcessSpawned:
		return &EventProcessSpawned{}
	case eventProcessExited:
		return &EventProcessExited{}
	case eventReminder:
		return &EventReminder{}
	case eventStopping:
		return &EventStopping{}
	case eventNotificationSent:
		return &EventNotificationSent{}
	default:
		return nil
	}
}

// EventWarning is emitted when a non-fatal error occurs.
type EventWarning struct {
	Component string `json:"component"`
	Error     string `json:"error"`
}

func (ev *EventWarning) Type() string { return eventWarning }
func (ev *EventWarning) event()       {}

// EventScheduled is emitted once the shutdown time is resolved. It marks the
// beginning of a run in the journal.
type EventScheduled struct {
	At time.Time `json:"at"`
}

func (ev *EventScheduled) Type() string { return eventScheduled }
func (ev *EventScheduled) event()       {}

// EventBannerUpdated is emitted when the server's motd has been rewritten.
type EventBannerUpdated struct {
	Path string `json:"path"`
}

func (ev *EventBannerUpdated) Type() string { return eventBannerUpdated }
func (ev *EventBannerUpdated) event()       {}

// EventLockAcquired is emitted when the server lock is acquired.
type EventLockAcquired struct {
	Path     string `json:"path"`
	Identity string `json:"identity"`
}

func (ev *EventLockAcquired) Type() string { return eventLockAcquired }
func (ev *EventLockAcquired) event()       {}

// EventLockReleased is emitted when the server lock is released.
type EventLockReleased struct {
	Path string `json:"path"`
}

func (ev *EventLockReleased) Type() string { return eventLockReleased }
func (ev *EventLockReleased) event()       {}

// EventLaunching is emitted right before the server jar is put in place.
type EventLaunching struct {
	LevelName string `json:"level_name"`
	Version   string `json:"version"`
}

func (ev *EventLaunching) Type() string { return eventLaunching }
func (ev *EventLaunching) event()       {}

// EventProcessSpawnError is emitted when the server process fails to start.
type EventProcessSpawnError struct {
	Argv   []string `json:"argv"`
	Reason string   `json:"reason"`
}

func (ev *EventProcessSpawnError) Type() string { return eventProcessSpawnError }
func (ev *EventProcessSpawnError) event()       {}

// EventProcessSpawned is emitted when the server process has been started.
type EventProcessSpawned struct {
	PID  int      `json:"pid"`
	Argv []string `json:"argv"`
}

func (ev *EventProcessSpawned) Type() string { return eventProcessSpawned }
func (ev *EventProcessSpawned) event()       {}

// EventProcessExited is emitted when the server process has exited for any
// reason. Scheduled is false if the process exited on its own before the
// scheduled shutdown.
type EventProcessExited struct {
	PID       int    `json:"pid"`
	Error     string `json:"error,omitempty"`
	ExitCode  int    `json:"exit_code"` // -1 if killed by a signal
	Scheduled bool   `json:"scheduled"`
}

func (ev *EventProcessExited) Type() string { return eventProcessExited }
func (ev *EventProcessExited) event()       {}

// EventReminder is emitted when a shutdown reminder is announced.
type EventReminder struct {
	Minutes int    `json:"minutes"`
	Message string `json:"message"`
}

func (ev *EventReminder) Type() string { return eventReminder }
func (ev *EventReminder) event()       {}

// EventStopping is emitted when the stop sequence begins.
type EventStopping struct {
	Message string `json:"message"`
}

func (ev *EventStopping) Type() string { return eventStopping }
func (ev *EventStopping) event()       {}

// EventNotificationSent is emitted when a webhook message was delivered.
type EventNotificationSent struct {
	Kind string `json:"kind"`
}

func (ev *EventNotificationSent) Type() string { return eventNotificationSent }
func (ev *EventNotificationSent) event()       {}
