package smartlaunch

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestTellrawCommand(t *testing.T) {
	at := Schedule{At: time.Date(2026, time.October, 15, 14, 30, 0, 0, time.FixedZone("", 2*60*60))}

	cmd, err := TellrawCommand("Time's Up!", at)
	if err != nil {
		t.Fatal("failed to encode:", err)
	}

	const expect = `tellraw @a {"text":"Time's Up!","color":"#FBA800","hoverEvent":` +
		`{"action":"show_text","contents":{"text":"Scheduled shutdown time: 2026-10-15 14:30:00 +02:00"}}}`

	if cmd != expect {
		t.Errorf("unexpected command\nexpected: %s\ngot:      %s", expect, cmd)
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer

	c := NewConsole(&buf)
	if err := c.Send(CommandSave); err != nil {
		t.Fatal("failed to send:", err)
	}
	if err := c.Send(CommandStop); err != nil {
		t.Fatal("failed to send:", err)
	}

	if buf.String() != "save-all\nstop\n" {
		t.Errorf("unexpected console input %q", buf.String())
	}

	r, w := io.Pipe()
	r.Close()

	if err := NewConsole(w).Send(CommandStop); !errors.Is(err, ErrConsoleClosed) {
		t.Errorf("expected ErrConsoleClosed, got %v", err)
	}
}
