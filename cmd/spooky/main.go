// Command spooky runs the Spooky engine as a UMI protocol process over
// stdin/stdout, the same shape as the teacher's cmd/ucgi_cli/main.go:
// load config, wire a zerolog logger, hand off to the protocol loop.
package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/domino14/spooky/config"
	"github.com/domino14/spooky/protocol"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		panic(err)
	}

	var logger zerolog.Logger
	switch cfg.LogLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	logger.Info().Str("data_path", cfg.DataPath).Msg("loaded config")

	engine := protocol.NewEngine(cfg, logger)
	defer engine.Close()
	if isatty.IsTerminal(os.Stdin.Fd()) {
		if err := engine.InteractiveLoop(os.Stdout); err != nil {
			logger.Err(err).Msg("interactive loop exited with an error")
		}
	} else {
		engine.Loop(os.Stdin, os.Stdout)
	}

	logger.Info().Msg("bye")
}
