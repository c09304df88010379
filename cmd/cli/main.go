package main

import (
	"log/slog"
	"os"
)

// exitCode is set by commands that follow the gate contract: 0 pass, 1 fail,
// 2 error. Cobra errors without an explicit code exit 2.
var exitCode int

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("cli failed to run", "error", err)
		if exitCode == 0 {
			exitCode = 2
		}
	}
	os.Exit(exitCode)
}
