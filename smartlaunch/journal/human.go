package journal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch"
)

// Severity tags prefixed to human readable lines.
const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityError = "ERROR"
)

// HumanWriter is a journaler that writes events as severity-tagged lines,
// such as "[INFO] Shutdown scheduled for ...".
type HumanWriter struct {
	mu sync.Mutex
	w  io.Writer
}

var _ smartlaunch.Journaler = (*HumanWriter)(nil)

// NewHumanWriter creates a new human readable journal writer.
func NewHumanWriter(w io.Writer) *HumanWriter {
	return &HumanWriter{w: w}
}

// Write writes the event as a single line.
func (h *HumanWriter) Write(ev smartlaunch.Event) error {
	severity, msg := Describe(ev)

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := fmt.Fprintf(h.w, "[%s] %s\n", severity, msg)
	return err
}

// Describe returns the severity and human readable description of an event.
func Describe(ev smartlaunch.Event) (severity, msg string) {
	switch ev := ev.(type) {
	case *smartlaunch.EventWarning:
		return SeverityWarn, fmt.Sprintf("%s: %s", ev.Component, ev.Error)
	case *smartlaunch.EventScheduled:
		return SeverityInfo, "Shutdown scheduled for " + smartlaunch.Schedule{At: ev.At}.String()
	case *smartlaunch.EventBannerUpdated:
		return SeverityInfo, "Server motd updated"
	case *smartlaunch.EventLockAcquired:
		return SeverityInfo, fmt.Sprintf("%s file created for '%s'", ev.Path, ev.Identity)
	case *smartlaunch.EventLockReleased:
		return SeverityInfo, fmt.Sprintf("%s file deleted", ev.Path)
	case *smartlaunch.EventLaunching:
		return SeverityInfo, fmt.Sprintf("Starting '%s' using Minecraft %s", ev.LevelName, ev.Version)
	case *smartlaunch.EventProcessSpawnError:
		return SeverityError, fmt.Sprintf("Failed to run '%s': %s", strings.Join(ev.Argv, " "), ev.Reason)
	case *smartlaunch.EventProcessSpawned:
		return SeverityInfo, fmt.Sprintf("Server process started (pid %d)", ev.PID)
	case *smartlaunch.EventProcessExited:
		status := fmt.Sprintf("exit status %d", ev.ExitCode)
		if ev.ExitCode == -1 {
			status = "killed by signal"
		}
		if ev.Error != "" {
			status = ev.Error
		}
		if !ev.Scheduled {
			return SeverityInfo, fmt.Sprintf("Server process has already exited! (%s)", status)
		}
		return SeverityInfo, fmt.Sprintf("Server process exited (%s)", status)
	case *smartlaunch.EventReminder:
		return SeverityInfo, ev.Message
	case *smartlaunch.EventStopping:
		return SeverityInfo, ev.Message
	case *smartlaunch.EventNotificationSent:
		return SeverityInfo, fmt.Sprintf("Sent %s message to Discord webhook", ev.Kind)
	default:
		return SeverityInfo, ev.Type()
	}
}
