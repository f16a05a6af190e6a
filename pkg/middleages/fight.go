package middleages

import "fmt"

// fightOutcome says which side of a fight dies.
type fightOutcome struct {
	moverDies    bool
	defenderDies bool
}

type kindPair struct {
	mover, defender Kind
}

// fightTable covers every (mover, defender) pair of kinds.
var fightTable = map[kindPair]fightOutcome{
	{King, King}:       {moverDies: true, defenderDies: true},
	{Knight, Knight}:   {moverDies: true, defenderDies: true},
	{Peasant, Peasant}: {moverDies: true, defenderDies: true},

	{Peasant, King}:   {moverDies: true},
	{Peasant, Knight}: {moverDies: true},
	{King, Peasant}:   {defenderDies: true},
	{Knight, Peasant}: {defenderDies: true},

	{Knight, King}: {defenderDies: true},
	{King, Knight}: {moverDies: true},
}

func resolveFight(mover, defender Kind) (fightOutcome, error) {
	out, ok := fightTable[kindPair{mover, defender}]
	if !ok {
		return fightOutcome{}, fmt.Errorf("no fight rule for %s against %s", mover, defender)
	}
	return out, nil
}

// applyFight removes the losers, moves the mover in if it survived and
// returns the result of the fight.
func (g *Game) applyFight(mover, defender *Unit, out fightOutcome) Result {
	to := defender.Pos
	if out.defenderDies {
		g.units.Remove(defender.ID)
	}
	if out.moverDies {
		g.units.Remove(mover.ID)
	} else {
		g.units.Relocate(mover.ID, to)
	}

	moverKing := out.moverDies && mover.Kind == King
	defenderKing := out.defenderDies && defender.Kind == King
	switch {
	case moverKing && defenderKing:
		return ResultDraw
	case defenderKing:
		return g.resultFor(mover.Owner)
	case moverKing:
		return g.resultFor(defender.Owner)
	default:
		return ResultOngoing
	}
}
