// Command referee plays two engine binaries against each other and reports
// the winner.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/middle-ages/internal/config"
	"github.com/freeeve/middle-ages/internal/logger"
	"github.com/freeeve/middle-ages/internal/referee"
)

func main() {
	cfg := config.Load()

	var (
		matchFile string
		p1, p2    string
		rounds    int
		numGames  int
		jsonOut   bool
	)
	flag.StringVar(&matchFile, "match", "", "YAML match file (defaults apply when empty)")
	flag.StringVar(&p1, "p1", "", "Engine command for player 1 (overrides the match file)")
	flag.StringVar(&p2, "p2", "", "Engine command for player 2 (overrides the match file)")
	flag.IntVar(&rounds, "rounds", 0, "Round budget (overrides the match file)")
	flag.IntVar(&numGames, "n", 1, "Number of matches to play")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.Parse()

	logger.Init(cfg)

	m := config.DefaultMatch(cfg)
	if matchFile != "" {
		var err error
		if m, err = config.LoadMatch(matchFile, cfg); err != nil {
			log.Fatal().Err(err).Str("file", matchFile).Msg("Failed to load match")
		}
	}
	if p1 != "" {
		m.Player1 = engineSpec(p1)
	}
	if p2 != "" {
		m.Player2 = engineSpec(p2)
	}
	if rounds > 0 {
		m.Rounds = rounds
	}
	if err := m.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid match")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wins := map[string]int{}
	var results []*referee.Result
	for i := 0; i < numGames; i++ {
		res, err := referee.RunMatch(ctx, m)
		if err != nil {
			log.Error().Err(err).Int("game", i+1).Msg("Match failed")
			break
		}
		results = append(results, res)
		wins[label(res)]++
		if !jsonOut {
			fmt.Printf("%s  %-9s %-16s rounds=%-4d %s\n", res.MatchID, label(res), res.Reason, res.Rounds, res.Detail)
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode results")
		}
		return
	}
	fmt.Printf("\n%d matches: player1=%d player2=%d draw=%d\n", len(results), wins["player1"], wins["player2"], wins["draw"])
}

func engineSpec(cmdline string) config.EngineSpec {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return config.EngineSpec{}
	}
	return config.EngineSpec{Command: fields[0], Args: fields[1:]}
}

func label(res *referee.Result) string {
	if res.Draw() {
		return "draw"
	}
	return fmt.Sprintf("player%d", res.Winner)
}
