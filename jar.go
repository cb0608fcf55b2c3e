package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// versionJar returns the path of the jar for the given server version.
func versionJar(jarsDir, version string) string {
	return filepath.Join(jarsDir, version+".jar")
}

// copyJar copies the jar for version out of jarsDir to dst, replacing it.
func copyJar(jarsDir, version, dst string) error {
	src := versionJar(jarsDir, version)

	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.Errorf("no server jar for Minecraft %s at %s", version, src)
		}
		return errors.Wrap(err, "failed to open server jar")
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "failed to create server jar")
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "failed to copy %s", src)
	}

	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "failed to copy %s", src)
	}

	return nil
}
