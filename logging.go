package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// consoleFor picks where a command's log lines go besides the log file. The
// terminal storefront owns the screen, so it logs to the file only.
func consoleFor(cmd *cobra.Command) string {
	switch cmd.Name() {
	case "browse":
		return ""
	case "bookstall", "serve":
		return "stdout"
	default:
		return "stderr"
	}
}

// buildLogger creates the process logger. An existing log file is kept as
// <name>.old and a fresh one is started.
func buildLogger(console, logFile string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose || (cfg != nil && cfg.Debug) {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	var outputs []string
	if console != "" {
		outputs = append(outputs, console)
	}
	if logFile != "" {
		rotateLog(logFile)
		outputs = append(outputs, logFile)
	}
	if len(outputs) == 0 {
		return zap.NewNop(), nil
	}
	zc.OutputPaths = outputs
	zc.ErrorOutputPaths = outputs
	return zc.Build()
}

func rotateLog(path string) {
	oldPath := path + ".old"
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, oldPath); err != nil {
			fmt.Fprintf(os.Stderr, "could not rotate log file %s: %v\n", path, err)
		}
	} else if !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "could not check log file %s: %v\n", path, err)
	}
}
