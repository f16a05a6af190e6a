// Package session owns the single live game of an engine process. It routes
// decoded commands to the rules, hands control to the automated player when
// its turn starts and tears the game down once it ends or a command fails.
package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/freeeve/middle-ages/internal/bot"
	"github.com/freeeve/middle-ages/internal/logger"
	"github.com/freeeve/middle-ages/pkg/middleages"
	"github.com/freeeve/middle-ages/pkg/protocol"
)

// Session holds at most one game at a time.
type Session struct {
	ctx  context.Context
	out  bot.Announcer
	game *middleages.Game
	log  zerolog.Logger
}

// New creates an idle session. Lines played by the automated player are
// written to out.
func New(ctx context.Context, out bot.Announcer) *Session {
	return &Session{
		ctx: ctx,
		out: out,
		log: logger.ForGame(ctx),
	}
}

// Active reports whether a game is in progress.
func (s *Session) Active() bool { return s.game != nil }

// Game returns the live game, or nil.
func (s *Session) Game() *middleages.Game { return s.game }

// Init starts a game. It fails while another game is active.
func (s *Session) Init(setup middleages.Setup) (middleages.Result, error) {
	if s.game != nil {
		return s.fail(&middleages.CommandError{Command: string(protocol.NameInit), Message: "a game is already in progress"})
	}
	g, err := middleages.NewGame(setup)
	if err != nil {
		return s.fail(err)
	}

	ctx := s.ctx
	if logger.GameIDFromContext(ctx) == "" {
		ctx = logger.WithGameID(ctx, logger.NewGameID())
	}
	s.game = g
	s.log = logger.ForGame(ctx)
	s.log.Info().
		Int("size", setup.BoardSize).
		Int("rounds", setup.Rounds).
		Int("ai", int(setup.Controlled)).
		Msg("Game started")
	return s.settle(middleages.ResultOngoing)
}

// Move applies a move for the player whose turn it is.
func (s *Session) Move(from, to middleages.Point) (middleages.Result, error) {
	return s.apply(protocol.NameMove, func(g *middleages.Game) (middleages.Result, error) {
		return g.Move(from, to)
	})
}

// ProduceKnight applies a knight production.
func (s *Session) ProduceKnight(from, to middleages.Point) (middleages.Result, error) {
	return s.apply(protocol.NameProduceKnight, func(g *middleages.Game) (middleages.Result, error) {
		return g.ProduceKnight(from, to)
	})
}

// ProducePeasant applies a peasant production.
func (s *Session) ProducePeasant(from, to middleages.Point) (middleages.Result, error) {
	return s.apply(protocol.NameProducePeasant, func(g *middleages.Game) (middleages.Result, error) {
		return g.ProducePeasant(from, to)
	})
}

// EndTurn passes the turn, letting the automated player move if it is next.
func (s *Session) EndTurn() (middleages.Result, error) {
	return s.apply(protocol.NameEndTurn, func(g *middleages.Game) (middleages.Result, error) {
		return g.EndTurn()
	})
}

// Handle dispatches a decoded command to its entry point.
func (s *Session) Handle(c protocol.Command) (middleages.Result, error) {
	from, to := c.Points()
	switch c.Name {
	case protocol.NameInit:
		return s.Init(c.Setup())
	case protocol.NameMove:
		return s.Move(from, to)
	case protocol.NameProduceKnight:
		return s.ProduceKnight(from, to)
	case protocol.NameProducePeasant:
		return s.ProducePeasant(from, to)
	case protocol.NameEndTurn:
		return s.EndTurn()
	default:
		return s.fail(&middleages.CommandError{Command: string(c.Name), Message: "unknown command"})
	}
}

// Teardown releases the game. It is safe to call on an idle session.
func (s *Session) Teardown() {
	if s.game == nil {
		return
	}
	s.log.Debug().Str("state", s.game.String()).Msg("Game released")
	s.game = nil
	s.log = logger.ForGame(s.ctx)
}

func (s *Session) apply(name protocol.Name, fn func(*middleages.Game) (middleages.Result, error)) (middleages.Result, error) {
	if s.game == nil {
		return s.fail(&middleages.CommandError{Command: string(name), Message: "no game in progress"})
	}
	res, err := fn(s.game)
	if err != nil {
		return s.fail(err)
	}
	return s.settle(res)
}

// settle runs the automated player when its turn has started and ends the
// game on a terminal result.
func (s *Session) settle(res middleages.Result) (middleages.Result, error) {
	logger.LogBoard(s.log, s.game.TopLeft())
	if res == middleages.ResultOngoing && s.game.AITurn() {
		ai := bot.Greedy{Log: s.log}
		var err error
		res, err = ai.PlayTurn(s.game, s.out)
		if err != nil {
			return s.fail(fmt.Errorf("%s turn: %w", ai.Name(), err))
		}
		logger.LogBoard(s.log, s.game.TopLeft())
	}
	if res.Terminal() {
		s.log.Info().Str("result", res.String()).Int("roundsLeft", s.game.RoundsRemaining()).Msg("Game over")
		s.Teardown()
	}
	return res, nil
}

func (s *Session) fail(err error) (middleages.Result, error) {
	s.log.Warn().Err(err).Msg("Rejected command")
	s.Teardown()
	return middleages.ResultWrongCommand, err
}
