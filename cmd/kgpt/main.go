package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Chanakya-ux/KGPT-client/internal/cli"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// answer errors were already printed by the command
		if !errors.Is(err, cli.ErrAnswerFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
