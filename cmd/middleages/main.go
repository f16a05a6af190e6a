// Command middleages is the game engine. It reads protocol commands on stdin,
// plays the automated side on stdout and exits with the game result:
// 0 win, 1 draw, 2 lose, 42 invalid command.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/middle-ages/internal/config"
	"github.com/freeeve/middle-ages/internal/logger"
	"github.com/freeeve/middle-ages/internal/session"
	"github.com/freeeve/middle-ages/pkg/middleages"
	"github.com/freeeve/middle-ages/pkg/protocol"
)

func main() {
	cfg := config.Load()
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace, debug, info, warn, error)")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also append logs to this file")
	flag.Parse()

	logger.Init(cfg)

	// Input reads block, so an interrupt ends the process directly.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Warn().Msg("Interrupted, abandoning game")
		os.Exit(middleages.ResultWrongCommand.ExitCode())
	}()

	res := run(context.Background(), os.Stdin, os.Stdout)
	log.Debug().Str("result", res.String()).Int("status", res.ExitCode()).Msg("Exiting")
	os.Exit(res.ExitCode())
}

// run plays one game over in and out and returns its final result. Input
// that ends before the game does counts as an invalid command.
func run(ctx context.Context, in io.Reader, out io.Writer) middleages.Result {
	r := protocol.NewReader(in)
	s := session.New(logger.WithGameID(ctx, logger.NewGameID()), protocol.NewWriter(out))
	defer s.Teardown()

	for {
		c, err := r.ReadCommand()
		if errors.Is(err, io.EOF) {
			log.Warn().Msg("Input ended before the game finished")
			return middleages.ResultWrongCommand
		}
		if err != nil {
			log.Warn().Err(err).Msg("Unreadable command")
			return middleages.ResultWrongCommand
		}

		res, err := s.Handle(c)
		if err != nil {
			return middleages.ResultWrongCommand
		}
		if res.Terminal() {
			return res
		}
	}
}
