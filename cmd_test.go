package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch"
	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch/journal"
)

func TestPrintStatus(t *testing.T) {
	dir := t.TempDir()

	cfg := defaultConfig()
	cfg.Lock = filepath.Join(dir, "server.lock")
	cfg.Journal = filepath.Join(dir, "smartlaunch.journal")

	var out bytes.Buffer
	if err := printStatus(&out, cfg); err != nil {
		t.Fatal("failed to print status:", err)
	}

	if out.String() != "Lock: not locked\nNo runs journaled.\n" {
		t.Errorf("unexpected status for an empty directory:\n%s", out.String())
	}

	if err := os.WriteFile(cfg.Lock, []byte("steve"), 0644); err != nil {
		t.Fatal(err)
	}

	f := journal.NewFileJournaler(cfg.Journal)
	f.Write(&smartlaunch.EventScheduled{At: time.Date(2026, 10, 14, 22, 0, 0, 0, time.UTC)})
	f.Write(&smartlaunch.EventProcessSpawned{PID: 1})
	f.Write(&smartlaunch.EventScheduled{At: time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC)})
	f.Write(&smartlaunch.EventLaunching{LevelName: "world", Version: "1.20.1"})
	f.Close()

	out.Reset()
	if err := printStatus(&out, cfg); err != nil {
		t.Fatal("failed to print status:", err)
	}

	status := out.String()

	if !strings.Contains(status, "Lock: server is already locked by 'steve' (possibly stale)") {
		t.Errorf("lock holder not shown:\n%s", status)
	}
	if !strings.Contains(status, "Shutdown scheduled for 2026-10-15 23:30:00") {
		t.Errorf("last run not shown:\n%s", status)
	}
	if !strings.Contains(status, "[INFO] Starting 'world' using Minecraft 1.20.1") {
		t.Errorf("last run events not shown:\n%s", status)
	}
	if strings.Contains(status, "2026-10-14 22:00:00") || strings.Contains(status, "pid 1") {
		t.Errorf("older run shown:\n%s", status)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer

	cmd := newVersionCommand(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	if out.String() != "smartlaunch "+Version+"\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}
