package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logLevelEnv = "RANGETRIE_LOG_LEVEL"

var (
	log     = zerolog.Nop()
	logFile *lumberjack.Logger
)

func setupLogger(cmd *cobra.Command, args []string) error {
	lvName := *rootFlags.logLevel
	if !cmd.Flags().Changed("log-level") {
		if v, ok := os.LookupEnv(logLevelEnv); ok {
			lvName = v
		}
	}
	lv, err := zerolog.ParseLevel(lvName)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", lvName, err)
	}

	var w io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		TimeFormat: time.TimeOnly,
	}
	if *rootFlags.logFile != "" {
		logFile = &lumberjack.Logger{
			Filename:   *rootFlags.logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		w = zerolog.MultiLevelWriter(w, logFile)
	}
	log = zerolog.New(w).Level(lv).With().Timestamp().Str("cmd", cmd.Name()).Logger()

	return nil
}

func closeLogger() {
	if logFile == nil {
		return
	}
	logFile.Close()
}
