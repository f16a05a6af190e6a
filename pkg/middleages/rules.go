package middleages

const (
	cmdMove           = "MOVE"
	cmdProduceKnight  = "PRODUCE_KNIGHT"
	cmdProducePeasant = "PRODUCE_PEASANT"
	cmdEndTurn        = "END_TURN"
)

// MinProductionIdle is the number of idle rounds a peasant needs before it
// can produce.
const MinProductionIdle = 2

// Move moves the unit at from one step to to, fighting any enemy there.
// On error the result is ResultWrongCommand and the game is unchanged.
func (g *Game) Move(from, to Point) (Result, error) {
	if err := g.checkActive(cmdMove); err != nil {
		return ResultWrongCommand, err
	}
	if err := g.checkStep(cmdMove, from, to); err != nil {
		return ResultWrongCommand, err
	}

	mover := g.units.At(from)
	if mover == nil {
		return ResultWrongCommand, reject(cmdMove, "no unit at (%d,%d)", from.X, from.Y)
	}
	if mover.IdleRounds == Moved {
		return ResultWrongCommand, reject(cmdMove, "unit at (%d,%d) already acted this round", from.X, from.Y)
	}
	if mover.Owner != g.turn {
		return ResultWrongCommand, reject(cmdMove, "unit at (%d,%d) belongs to player %d, turn is %d", from.X, from.Y, mover.Owner, g.turn)
	}

	defender := g.units.At(to)
	if defender == nil {
		g.units.Relocate(mover.ID, to)
		mover.IdleRounds = Moved
		return ResultOngoing, nil
	}
	if defender.Owner == mover.Owner {
		return ResultWrongCommand, reject(cmdMove, "(%d,%d) is occupied by an own unit", to.X, to.Y)
	}

	out, err := resolveFight(mover.Kind, defender.Kind)
	if err != nil {
		return ResultWrongCommand, reject(cmdMove, "%v", err)
	}
	mover.IdleRounds = Moved
	return g.finish(g.applyFight(mover, defender, out)), nil
}

// ProduceKnight makes the idle peasant at from create a knight on to.
func (g *Game) ProduceKnight(from, to Point) (Result, error) {
	return g.produce(cmdProduceKnight, from, to, Knight)
}

// ProducePeasant makes the idle peasant at from create a peasant on to.
func (g *Game) ProducePeasant(from, to Point) (Result, error) {
	return g.produce(cmdProducePeasant, from, to, Peasant)
}

func (g *Game) produce(command string, from, to Point, kind Kind) (Result, error) {
	if err := g.checkActive(command); err != nil {
		return ResultWrongCommand, err
	}
	if err := g.checkStep(command, from, to); err != nil {
		return ResultWrongCommand, err
	}

	producer := g.units.At(from)
	switch {
	case producer == nil:
		return ResultWrongCommand, reject(command, "no unit at (%d,%d)", from.X, from.Y)
	case producer.Owner != g.turn:
		return ResultWrongCommand, reject(command, "unit at (%d,%d) belongs to player %d, turn is %d", from.X, from.Y, producer.Owner, g.turn)
	case producer.Kind != Peasant:
		return ResultWrongCommand, reject(command, "unit at (%d,%d) is a %s, not a peasant", from.X, from.Y, producer.Kind)
	case producer.IdleRounds < MinProductionIdle:
		return ResultWrongCommand, reject(command, "peasant at (%d,%d) idle for %d rounds, needs %d", from.X, from.Y, producer.IdleRounds, MinProductionIdle)
	case g.units.At(to) != nil:
		return ResultWrongCommand, reject(command, "(%d,%d) is occupied", to.X, to.Y)
	}

	if _, err := g.units.Insert(kind, producer.Owner, to); err != nil {
		return ResultWrongCommand, reject(command, "%v", err)
	}
	producer.IdleRounds = Moved
	return ResultOngoing, nil
}
