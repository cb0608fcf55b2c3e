package smartlaunch

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Server console commands sent during the stop sequence.
const (
	CommandSave = "save-all"
	CommandStop = "stop"
)

// AnnounceColor is the color of announcements shown to players.
const AnnounceColor = "#FBA800"

// ErrConsoleClosed is returned when the server console can no longer be
// written to, usually because the server has exited.
var ErrConsoleClosed = errors.New("server console closed")

// Console is a write-only command channel into the server.
type Console interface {
	Send(command string) error
}

type pipeConsole struct {
	w io.Writer
}

// NewConsole creates a Console that writes newline-terminated commands into
// w.
func NewConsole(w io.Writer) Console {
	return pipeConsole{w}
}

func (c pipeConsole) Send(command string) error {
	if _, err := io.WriteString(c.w, command+"\n"); err != nil {
		return errors.Wrap(ErrConsoleClosed, err.Error())
	}
	return nil
}

// textComponent is a chat component as understood by the server's tellraw.
type textComponent struct {
	Text       string      `json:"text"`
	Color      string      `json:"color,omitempty"`
	HoverEvent *hoverEvent `json:"hoverEvent,omitempty"`
}

type hoverEvent struct {
	Action   string        `json:"action"`
	Contents textComponent `json:"contents"`
}

// TellrawCommand returns the tellraw command that shows message to every
// player, with the scheduled time in a tooltip.
func TellrawCommand(message string, at Schedule) (string, error) {
	b, err := json.Marshal(textComponent{
		Text:  message,
		Color: AnnounceColor,
		HoverEvent: &hoverEvent{
			Action:   "show_text",
			Contents: textComponent{Text: "Scheduled shutdown time: " + at.String()},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode tellraw component")
	}

	return "tellraw @a " + string(b), nil
}

// announce sends message to all players. Errors are dropped: the server may
// have exited between the liveness check and the write, which the next poll
// picks up.
func announce(c Console, message string, at Schedule) {
	cmd, err := TellrawCommand(message, at)
	if err != nil {
		return
	}

	_ = c.Send(cmd)
}
