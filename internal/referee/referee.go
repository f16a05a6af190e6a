// Package referee plays two engine processes against each other. It keeps
// its own copy of the game, checks every line an engine prints against the
// rules and relays accepted lines to the opponent.
package referee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/middle-ages/internal/config"
	"github.com/freeeve/middle-ages/internal/logger"
	"github.com/freeeve/middle-ages/pkg/middleages"
	"github.com/freeeve/middle-ages/pkg/protocol"
)

// closeGrace is how long an engine gets to exit after the match.
const closeGrace = 2 * time.Second

// Player is one side of a match. *protocol.Engine satisfies it.
type Player interface {
	Send(protocol.Command) error
	Next(ctx context.Context) (protocol.Command, error)
	Close(grace time.Duration) int
}

// Reason explains how a match ended.
type Reason string

const (
	ReasonKingCaptured Reason = "king captured"
	ReasonKingsTraded  Reason = "kings traded"
	ReasonRoundLimit   Reason = "round limit"
	ReasonIllegal      Reason = "illegal command"
	ReasonMalformed    Reason = "malformed output"
	ReasonTimeout      Reason = "timeout"
	ReasonExited       Reason = "engine exited"
)

// Result describes a finished match.
type Result struct {
	MatchID string            `json:"matchId"`
	Winner  middleages.Player `json:"winner"` // NoPlayer for a draw
	Reason  Reason            `json:"reason"`
	Detail  string            `json:"detail,omitempty"`
	Rounds  int               `json:"rounds"`
	Lines   int               `json:"lines"`
	// ExitStatus holds each engine's exit code, -1 if it was killed.
	ExitStatus [2]int `json:"exitStatus"`
}

// Draw reports whether neither side won.
func (r *Result) Draw() bool { return r.Winner == middleages.NoPlayer }

// RunMatch starts both engines described by m and plays them against each
// other.
func RunMatch(ctx context.Context, m *config.Match) (*Result, error) {
	var players [2]Player
	for i, p := range []middleages.Player{middleages.Player1, middleages.Player2} {
		spec := m.Engine(p)
		eng := protocol.NewEngine(spec.Command, spec.Args...)
		if err := eng.Start(ctx); err != nil {
			for _, started := range players[:i] {
				started.Close(closeGrace)
			}
			return nil, fmt.Errorf("start player %d: %w", p, err)
		}
		players[i] = eng
	}
	return Play(ctx, m, players)
}

// Play runs a match between two started players and closes them when it
// ends. players[0] plays player 1.
func Play(ctx context.Context, m *config.Match, players [2]Player) (*Result, error) {
	id := logger.NewGameID()
	ctx = logger.WithGameID(ctx, id)
	ref := &match{
		m:       m,
		players: players,
		log:     logger.ForGame(ctx),
		res:     &Result{MatchID: id},
	}

	err := ref.play(ctx)
	for i, p := range players {
		ref.res.ExitStatus[i] = p.Close(closeGrace)
	}
	if err != nil {
		return nil, err
	}
	ref.log.Info().
		Int("winner", int(ref.res.Winner)).
		Str("reason", string(ref.res.Reason)).
		Int("rounds", ref.res.Rounds).
		Ints("exitStatus", ref.res.ExitStatus[:]).
		Msg("Match finished")
	return ref.res, nil
}

type match struct {
	m       *config.Match
	players [2]Player
	game    *middleages.Game
	log     zerolog.Logger
	res     *Result
}

func (r *match) player(p middleages.Player) Player { return r.players[p-1] }

func (r *match) play(ctx context.Context) error {
	// The referee judges from player 1's side: Win means player 1 won.
	g, err := middleages.NewGame(r.m.Setup(middleages.Player1))
	if err != nil {
		return fmt.Errorf("referee: %w", err)
	}
	r.game = g

	for _, p := range []middleages.Player{middleages.Player1, middleages.Player2} {
		if err := r.player(p).Send(protocol.Init(r.m.Setup(p))); err != nil {
			r.forfeit(p, ReasonExited, err.Error())
			return nil
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := r.turn(ctx, g.Turn())
		if err != nil || done {
			return err
		}
	}
}

// turn relays the lines of the player to move until it ends its turn or
// the match is decided. It reports whether the match is over.
func (r *match) turn(ctx context.Context, mover middleages.Player) (bool, error) {
	for {
		lineCtx, cancel := context.WithTimeout(ctx, r.m.MoveTimeout)
		c, err := r.player(mover).Next(lineCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return true, ctx.Err()
			}
			r.forfeit(mover, classify(err), err.Error())
			return true, nil
		}
		r.res.Lines++

		res, err := r.apply(c)
		if err != nil {
			r.forfeit(mover, ReasonIllegal, err.Error())
			return true, nil
		}
		r.log.Debug().Int("player", int(mover)).Str("line", c.String()).Msg("Relay")

		if err := r.player(mover.Opponent()).Send(c); err != nil && !res.Terminal() {
			r.forfeit(mover.Opponent(), ReasonExited, err.Error())
			return true, nil
		}
		if res.Terminal() {
			r.finish(res)
			return true, nil
		}
		if c.Name == protocol.NameEndTurn {
			return false, nil
		}
	}
}

func (r *match) apply(c protocol.Command) (middleages.Result, error) {
	from, to := c.Points()
	switch c.Name {
	case protocol.NameMove:
		return r.game.Move(from, to)
	case protocol.NameProduceKnight:
		return r.game.ProduceKnight(from, to)
	case protocol.NameProducePeasant:
		return r.game.ProducePeasant(from, to)
	case protocol.NameEndTurn:
		return r.game.EndTurn()
	default:
		return middleages.ResultWrongCommand, &middleages.CommandError{Command: string(c.Name), Message: "not allowed from an engine"}
	}
}

func (r *match) rounds() int {
	return r.m.Rounds - r.game.RoundsRemaining()
}

func (r *match) finish(res middleages.Result) {
	r.res.Rounds = r.rounds()
	switch res {
	case middleages.ResultWin:
		r.res.Winner, r.res.Reason = middleages.Player1, ReasonKingCaptured
	case middleages.ResultLose:
		r.res.Winner, r.res.Reason = middleages.Player2, ReasonKingCaptured
	case middleages.ResultDraw:
		r.res.Reason = ReasonRoundLimit
		if r.game.RoundsRemaining() > 0 {
			r.res.Reason = ReasonKingsTraded
		}
	}
}

func (r *match) forfeit(loser middleages.Player, reason Reason, detail string) {
	r.res.Winner = loser.Opponent()
	r.res.Reason = reason
	r.res.Detail = fmt.Sprintf("player %d: %s", loser, detail)
	if r.game != nil {
		r.res.Rounds = r.rounds()
	}
	r.log.Warn().Int("player", int(loser)).Str("reason", string(reason)).Str("detail", detail).Msg("Forfeit")
}

func classify(err error) Reason {
	var se *protocol.SyntaxError
	switch {
	case errors.As(err, &se):
		return ReasonMalformed
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	default:
		return ReasonExited
	}
}
