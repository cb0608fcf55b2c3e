// Package properties rewrites the server's server.properties file to announce
// the scheduled shutdown in the server list, and extracts the fields needed to
// launch the server.
package properties

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// DefaultBanner is the first line of the motd. The server expects Java-style
// escapes in server.properties, so they are kept as literal backslashes.
const DefaultBanner = `\u00a73Um abrigo em tempos de pandemia...`

// Field names read from server.properties.
const (
	FieldMOTD          = "motd"
	FieldLevelName     = "level-name"
	FieldServerVersion = "server-version"
)

var (
	motdRe          = fieldRegexp(FieldMOTD)
	levelNameRe     = fieldRegexp(FieldLevelName)
	serverVersionRe = fieldRegexp(FieldServerVersion)
)

func fieldRegexp(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(key) + `=([^\r\n]*)`)
}

// Fields are the values extracted from server.properties.
type Fields struct {
	LevelName     string
	ServerVersion string
}

// MissingFieldError is returned if a required field is absent.
type MissingFieldError struct {
	Path  string
	Field string
}

func (err *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is missing %q", err.Path, err.Field)
}

// WriteError is returned if the rewritten file could not be put in place. The
// original file is left untouched and the returned fields are still valid.
type WriteError struct {
	Path string
	Err  error
}

func (err *WriteError) Error() string {
	return fmt.Sprintf("failed to update %s: %v", err.Path, err.Err)
}

func (err *WriteError) Unwrap() error { return err.Err }

// Banner returns the motd value announcing a shutdown at the given time.
func Banner(prefix, at string) string {
	return prefix + `\u00a7r\n\u00a76Shutdown at ` + at
}

// Rewrite replaces every motd line in doc with the banner and extracts the
// required fields.
func Rewrite(doc, banner string) (string, Fields, error) {
	doc = motdRe.ReplaceAllLiteralString(doc, FieldMOTD+"="+banner)

	levelName, ok := find(levelNameRe, doc)
	if !ok {
		return "", Fields{}, &MissingFieldError{Field: FieldLevelName}
	}

	serverVersion, ok := find(serverVersionRe, doc)
	if !ok {
		return "", Fields{}, &MissingFieldError{Field: FieldServerVersion}
	}

	return doc, Fields{LevelName: levelName, ServerVersion: serverVersion}, nil
}

// find returns the trimmed value of the first match.
func find(re *regexp.Regexp, doc string) (string, bool) {
	m := re.FindStringSubmatch(doc)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ApplyShutdownBanner rewrites the motd of the file at path to announce a
// shutdown at the given time, and returns its level name and server version.
//
// The file is replaced atomically: the new content is written to a sibling
// temporary file which is then renamed over the original. If that fails, a
// *WriteError is returned alongside valid fields; the caller may carry on with
// the stale banner. Any other error means the fields are unusable.
func ApplyShutdownBanner(path, prefix, at string) (Fields, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Fields{}, errors.Wrapf(err, "failed to read %s", path)
	}

	doc, fields, err := Rewrite(string(b), Banner(prefix, at))
	if err != nil {
		var missing *MissingFieldError
		if errors.As(err, &missing) {
			missing.Path = path
		}
		return Fields{}, err
	}

	if err := replaceFile(path, []byte(doc)); err != nil {
		return fields, &WriteError{Path: path, Err: err}
	}

	return fields, nil
}

// replaceFile writes data to path+".tmp" and renames it over path, so readers
// only ever see the old or the new content.
func replaceFile(path string, data []byte) error {
	mode := os.FileMode(0644)
	if stat, err := os.Stat(path); err == nil {
		mode = stat.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(path), filepath.Base(path)+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "failed to write temporary file")
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "failed to replace file")
	}

	return nil
}
