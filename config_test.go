package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := loadConfig(newViper(), "")
	if err != nil {
		t.Fatal("failed to load config:", err)
	}

	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("unexpected config:\n%+v\nexpected:\n%+v", cfg, defaultConfig())
	}

	argv := []string{"java", "-Xmx2048M", "-Xms1024M", "-jar", "./server.jar"}
	if got := cfg.Argv(); !reflect.DeepEqual(got, argv) {
		t.Errorf("unexpected argv %q", got)
	}
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := "lock: /srv/mc/server.lock\n" +
		"java-args: [-Xmx4G]\n" +
		"at: \"22:00\"\n" +
		"app-name: From File\n"

	if err := os.WriteFile(filepath.Join(dir, "smartlaunch.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SMARTLAUNCH_APP_NAME", "From Env")
	t.Setenv("SMARTLAUNCH_SERVER_JAR", "/srv/mc/server.jar")

	v := newViper()

	cmd := &cobra.Command{Use: "test"}
	if err := addConfigFlags(cmd, v); err != nil {
		t.Fatal("failed to add flags:", err)
	}
	if err := cmd.ParseFlags([]string{"--at", "23:30"}); err != nil {
		t.Fatal("failed to parse flags:", err)
	}

	cfg, err := loadConfig(v, "")
	if err != nil {
		t.Fatal("failed to load config:", err)
	}

	if cfg.Lock != "/srv/mc/server.lock" {
		t.Errorf("file value not used: lock = %q", cfg.Lock)
	}
	if !reflect.DeepEqual(cfg.JavaArgs, []string{"-Xmx4G"}) {
		t.Errorf("file value not used: java-args = %q", cfg.JavaArgs)
	}
	if cfg.AppName != "From Env" {
		t.Errorf("env does not override file: app-name = %q", cfg.AppName)
	}
	if cfg.ServerJar != "/srv/mc/server.jar" {
		t.Errorf("env value not used: server-jar = %q", cfg.ServerJar)
	}
	if cfg.At != "23:30" {
		t.Errorf("flag does not override file: at = %q", cfg.At)
	}
	if cfg.Properties != "./server.properties" {
		t.Errorf("unset flag overrides default: properties = %q", cfg.Properties)
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := loadConfig(newViper(), "missing.yaml"); err == nil {
		t.Error("expected error for a missing explicit config file")
	}

	path := filepath.Join(t.TempDir(), "launcher.yaml")
	if err := os.WriteFile(path, []byte("journal: \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(newViper(), path)
	if err != nil {
		t.Fatal("failed to load config:", err)
	}
	if cfg.Journal != "" {
		t.Errorf("journal not disabled: %q", cfg.Journal)
	}
}

// chdir changes the working directory for the duration of the test, like
// testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
