package middleages

import (
	"errors"
	"fmt"
)

// ErrInvalidCommand is the single error kind of the rules engine. Every
// rejected action wraps it.
var ErrInvalidCommand = errors.New("invalid command")

// CommandError describes why an action was rejected.
type CommandError struct {
	Command string
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("invalid command %s: %s", e.Command, e.Message)
}

func (e *CommandError) Unwrap() error {
	return ErrInvalidCommand
}

func reject(command, format string, args ...any) error {
	return &CommandError{Command: command, Message: fmt.Sprintf(format, args...)}
}

// checkStep validates the geometry shared by moves and production: both
// points on the board and at most one step apart.
func (g *Game) checkStep(command string, from, to Point) error {
	if !Adjacent(from, to) {
		return reject(command, "(%d,%d) and (%d,%d) are not adjacent", from.X, from.Y, to.X, to.Y)
	}
	if !g.units.InBounds(from) || !g.units.InBounds(to) {
		return reject(command, "position off the board")
	}
	return nil
}

// checkActive rejects actions on a finished game.
func (g *Game) checkActive(command string) error {
	if g.over {
		return reject(command, "game is over")
	}
	return nil
}
