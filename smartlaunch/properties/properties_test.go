package properties

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

const testDocument = `#Minecraft server properties
enable-command-block=false
level-name=  Survival World
motd=A Minecraft Server
max-players=20
server-version=1.20.1
`

const testAt = "2026-10-15 14:30:00 +02:00"

func writeTestFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "server.properties")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplyShutdownBanner(t *testing.T) {
	path := writeTestFile(t, testDocument)

	fields, err := ApplyShutdownBanner(path, DefaultBanner, testAt)
	if err != nil {
		t.Fatal("failed to apply banner:", err)
	}

	if fields.LevelName != "Survival World" {
		t.Errorf("unexpected level name %q", fields.LevelName)
	}
	if fields.ServerVersion != "1.20.1" {
		t.Errorf("unexpected server version %q", fields.ServerVersion)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	expect := strings.Replace(testDocument,
		"motd=A Minecraft Server",
		`motd=\u00a73Um abrigo em tempos de pandemia...\u00a7r\n\u00a76Shutdown at `+testAt,
		1,
	)

	if string(b) != expect {
		t.Errorf("unexpected document:\n%s\nexpected:\n%s", b, expect)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}

	// Applying again keeps the other fields intact.
	fields2, err := ApplyShutdownBanner(path, DefaultBanner, "later")
	if err != nil {
		t.Fatal("failed to apply banner again:", err)
	}
	if fields2 != fields {
		t.Errorf("fields changed between rewrites: %+v -> %+v", fields, fields2)
	}
}

func TestRewrite(t *testing.T) {
	t.Run("replace all", func(t *testing.T) {
		doc := "motd=one\nlevel-name=a\nmotd=two\nserver-version=b\n"

		out, _, err := Rewrite(doc, "new")
		if err != nil {
			t.Fatal("failed to rewrite:", err)
		}

		if out != "motd=new\nlevel-name=a\nmotd=new\nserver-version=b\n" {
			t.Errorf("unexpected document %q", out)
		}
	})

	t.Run("crlf", func(t *testing.T) {
		doc := "motd=one\r\nlevel-name=a\r\nserver-version=b\r\n"

		out, fields, err := Rewrite(doc, "new")
		if err != nil {
			t.Fatal("failed to rewrite:", err)
		}

		if out != "motd=new\r\nlevel-name=a\r\nserver-version=b\r\n" {
			t.Errorf("unexpected document %q", out)
		}
		if fields.LevelName != "a" || fields.ServerVersion != "b" {
			t.Errorf("unexpected fields %+v", fields)
		}
	})

	t.Run("no motd", func(t *testing.T) {
		doc := "level-name=a\nserver-version=b\n"

		out, _, err := Rewrite(doc, "new")
		if err != nil {
			t.Fatal("failed to rewrite:", err)
		}
		if out != doc {
			t.Errorf("document changed without a motd: %q", out)
		}
	})

	t.Run("literal banner", func(t *testing.T) {
		out, _, err := Rewrite("motd=x\nlevel-name=a\nserver-version=b\n", "costs $1")
		if err != nil {
			t.Fatal("failed to rewrite:", err)
		}
		if !strings.HasPrefix(out, "motd=costs $1\n") {
			t.Errorf("banner was expanded: %q", out)
		}
	})

	t.Run("not line anchored", func(t *testing.T) {
		// old-level-name is a different key.
		_, _, err := Rewrite("old-level-name=a\nserver-version=b\n", "x")

		var missing *MissingFieldError
		if !errors.As(err, &missing) || missing.Field != FieldLevelName {
			t.Errorf("expected missing level-name, got %v", err)
		}
	})
}

func TestApplyShutdownBannerMissingField(t *testing.T) {
	for _, field := range []string{FieldLevelName, FieldServerVersion} {
		t.Run(field, func(t *testing.T) {
			var lines []string
			for _, line := range strings.Split(testDocument, "\n") {
				if !strings.HasPrefix(line, field+"=") {
					lines = append(lines, line)
				}
			}

			doc := strings.Join(lines, "\n")
			path := writeTestFile(t, doc)

			_, err := ApplyShutdownBanner(path, DefaultBanner, testAt)

			var missing *MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingFieldError, got %v", err)
			}
			if missing.Field != field || missing.Path != path {
				t.Errorf("unexpected error %+v", missing)
			}

			// Nothing is written if the document is unusable.
			b, _ := os.ReadFile(path)
			if string(b) != doc {
				t.Error("document was modified")
			}
		})
	}
}

func TestApplyShutdownBannerWriteError(t *testing.T) {
	path := writeTestFile(t, testDocument)

	// A directory in the way of the temporary file.
	if err := os.Mkdir(path+".tmp", 0755); err != nil {
		t.Fatal(err)
	}

	fields, err := ApplyShutdownBanner(path, DefaultBanner, testAt)

	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected WriteError, got %v", err)
	}

	if fields.LevelName != "Survival World" || fields.ServerVersion != "1.20.1" {
		t.Errorf("fields not returned alongside write error: %+v", fields)
	}

	b, _ := os.ReadFile(path)
	if string(b) != testDocument {
		t.Error("original document was modified")
	}
}

func TestApplyShutdownBannerMissingFile(t *testing.T) {
	_, err := ApplyShutdownBanner(filepath.Join(t.TempDir(), "nope"), DefaultBanner, testAt)
	if err == nil {
		t.Fatal("expected error")
	}

	var writeErr *WriteError
	if errors.As(err, &writeErr) {
		t.Error("read failure reported as a write error")
	}
}

func TestApplyShutdownBannerConcurrentReader(t *testing.T) {
	path := writeTestFile(t, testDocument)

	const rewrites = 50

	valid := map[string]bool{testDocument: true}
	for i := 0; i < rewrites; i++ {
		doc, _, err := Rewrite(testDocument, Banner(DefaultBanner, fmt.Sprint(i)))
		if err != nil {
			t.Fatal(err)
		}
		valid[doc] = true
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	var torn []string
	var reads int

	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case <-stop:
				return
			default:
			}

			b, err := os.ReadFile(path)
			if err != nil {
				torn = append(torn, "read error: "+err.Error())
				continue
			}

			reads++
			if !valid[string(b)] {
				torn = append(torn, string(b))
			}
		}
	}()

	for i := 0; i < rewrites; i++ {
		if _, err := ApplyShutdownBanner(path, DefaultBanner, fmt.Sprint(i)); err != nil {
			t.Fatal("failed to apply banner:", err)
		}
	}

	close(stop)
	wg.Wait()

	if len(torn) > 0 {
		t.Errorf("reader observed %d partial documents out of %d, first: %q", len(torn), reads, torn[0])
	}
}
