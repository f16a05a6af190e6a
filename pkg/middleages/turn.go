package middleages

// EndTurn passes the turn to the other player. A round ends when player 2
// finishes; the game is drawn when the round budget runs out, otherwise
// every unit's idle counter advances by one.
func (g *Game) EndTurn() (Result, error) {
	if err := g.checkActive(cmdEndTurn); err != nil {
		return ResultWrongCommand, err
	}

	if g.turn == Player1 {
		g.turn = Player2
		return ResultOngoing, nil
	}

	g.roundsRemaining--
	if g.roundsRemaining == 0 {
		return g.finish(ResultDraw), nil
	}
	g.turn = Player1
	g.units.ForEach(func(u *Unit) {
		u.IdleRounds++
	})
	return ResultOngoing, nil
}
