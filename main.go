package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	root, err := newRootCommand(os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalln(err)
	}

	if err := root.Execute(); err != nil {
		if errors.Is(err, errLocked) {
			// The reason was already printed.
			os.Exit(1)
		}

		log.Fatalln(err)
	}
}
