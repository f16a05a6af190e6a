package bot

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/freeeve/middle-ages/pkg/middleages"
	"github.com/freeeve/middle-ages/pkg/protocol"
)

// Announcer receives every action the AI takes, before it is applied.
// *protocol.Writer satisfies it.
type Announcer interface {
	WriteCommand(protocol.Command) error
}

// Greedy plays one turn at a time: knights walk toward the nearest enemy,
// peasants produce as soon as they have waited two rounds and the king
// never moves.
type Greedy struct {
	Log zerolog.Logger
}

func (Greedy) Name() string { return "greedy" }

// PlayTurn takes every action for the controlled player, announces each one
// on out and finishes with END_TURN. It stops early when an action ends the
// game and returns that result.
func (s Greedy) PlayTurn(g *middleages.Game, out Announcer) (middleages.Result, error) {
	me := g.Controlled()
	if g.Turn() != me {
		return middleages.ResultWrongCommand, fmt.Errorf("bot: turn belongs to player %d, controlling %d", g.Turn(), me)
	}
	for _, u := range g.Units().UnitsOf(me) {
		u.AIDecided = false
	}

	for {
		u := nextUndecided(g, me)
		if u == nil {
			break
		}
		u.AIDecided = true

		var (
			res middleages.Result
			err error
		)
		switch u.Kind {
		case middleages.Knight:
			res, err = s.playKnight(g, u, out)
		case middleages.Peasant:
			res, err = s.playPeasant(g, u, out)
		default:
			continue
		}
		if err != nil {
			return middleages.ResultWrongCommand, err
		}
		if res != middleages.ResultOngoing {
			s.Log.Debug().Str("result", res.String()).Msg("AI action ended the game")
			return res, nil
		}
	}

	if err := out.WriteCommand(protocol.EndTurn()); err != nil {
		return middleages.ResultWrongCommand, err
	}
	return g.EndTurn()
}

// nextUndecided returns the first controlled unit, in insertion order, the
// AI has not handled this turn. Units produced during the turn are included.
func nextUndecided(g *middleages.Game, me middleages.Player) *middleages.Unit {
	for _, u := range g.Units().UnitsOf(me) {
		if !u.AIDecided {
			return u
		}
	}
	return nil
}

func (s Greedy) playKnight(g *middleages.Game, u *middleages.Unit, out Announcer) (middleages.Result, error) {
	enemy, ok := g.Units().NearestEnemy(u.Pos, u.Owner)
	if !ok {
		return middleages.ResultOngoing, nil
	}
	d := Correct(Toward(u.Pos, enemy.Pos), func(d Direction) bool {
		to := d.Step(u.Pos)
		if !g.Units().InBounds(to) {
			return false
		}
		occupant := g.Units().At(to)
		return occupant == nil || occupant.Owner != u.Owner
	})
	if d == Stay {
		return middleages.ResultOngoing, nil
	}

	from, to := u.Pos, d.Step(u.Pos)
	s.Log.Debug().Int("x", from.X).Int("y", from.Y).Str("dir", d.String()).Msg("Knight advances")
	if err := out.WriteCommand(protocol.Move(from, to)); err != nil {
		return middleages.ResultWrongCommand, err
	}
	return g.Move(from, to)
}

func (s Greedy) playPeasant(g *middleages.Game, u *middleages.Unit, out Announcer) (middleages.Result, error) {
	if u.IdleRounds != middleages.MinProductionIdle {
		return middleages.ResultOngoing, nil
	}
	enemy, ok := g.Units().NearestEnemy(u.Pos, u.Owner)
	if !ok {
		return middleages.ResultOngoing, nil
	}
	// Production needs an empty cell, so enemies block it as well.
	d := Correct(Toward(u.Pos, enemy.Pos), func(d Direction) bool {
		to := d.Step(u.Pos)
		return g.Units().InBounds(to) && g.Units().At(to) == nil
	})
	if d == Stay {
		return middleages.ResultOngoing, nil
	}

	from, to := u.Pos, d.Step(u.Pos)
	if !g.PeasantBuilt() {
		g.MarkPeasantBuilt()
		if err := out.WriteCommand(protocol.ProducePeasant(from, to)); err != nil {
			return middleages.ResultWrongCommand, err
		}
		return g.ProducePeasant(from, to)
	}
	if err := out.WriteCommand(protocol.ProduceKnight(from, to)); err != nil {
		return middleages.ResultWrongCommand, err
	}
	return g.ProduceKnight(from, to)
}
