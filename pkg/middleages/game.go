package middleages

import "fmt"

const (
	// MinBoardSize is the exclusive lower bound on the board size.
	MinBoardSize = 8
	// MinKingDistance is the smallest allowed distance between the kings.
	MinKingDistance = 8
	// RowWidth is the number of cells taken by a starting row.
	RowWidth = 4
)

// Setup holds the parameters of an INIT command.
type Setup struct {
	BoardSize  int
	Rounds     int
	Controlled Player
	King1      Point
	King2      Point
}

// Game is the single live game: board, round budget, whose turn it is and
// which side the automated player controls.
type Game struct {
	size            int
	roundsRemaining int
	turn            Player
	controlled      Player
	peasantBuilt    bool
	over            bool
	units           *Store
}

// startingRow lists the kinds placed at x, x+1, x+2, x+3.
var startingRow = [RowWidth]Kind{King, Peasant, Knight, Knight}

// NewGame validates the setup and places both starting rows.
func NewGame(s Setup) (*Game, error) {
	const cmd = "INIT"
	if s.BoardSize <= MinBoardSize {
		return nil, reject(cmd, "board size %d must be greater than %d", s.BoardSize, MinBoardSize)
	}
	if s.Rounds < 1 {
		return nil, reject(cmd, "rounds %d must be positive", s.Rounds)
	}
	if !s.Controlled.Valid() {
		return nil, reject(cmd, "player %d must be 1 or 2", s.Controlled)
	}

	g := &Game{
		size:            s.BoardSize,
		roundsRemaining: s.Rounds,
		turn:            Player1,
		controlled:      s.Controlled,
		units:           NewStore(s.BoardSize),
	}
	for _, k := range []Point{s.King1, s.King2} {
		if !g.units.InBounds(k) {
			return nil, reject(cmd, "king position (%d,%d) is off the board", k.X, k.Y)
		}
		if k.X > s.BoardSize-(RowWidth-1) {
			return nil, reject(cmd, "starting row at (%d,%d) does not fit on the board", k.X, k.Y)
		}
	}
	if d := Distance(s.King1, s.King2); d < MinKingDistance {
		return nil, reject(cmd, "kings are %d apart, need at least %d", d, MinKingDistance)
	}

	for i, king := range []Point{s.King1, s.King2} {
		owner := Player(i + 1)
		for dx, kind := range startingRow {
			if _, err := g.units.Insert(kind, owner, Point{king.X + dx, king.Y}); err != nil {
				return nil, reject(cmd, "%v", err)
			}
		}
	}
	return g, nil
}

// Size returns the board size.
func (g *Game) Size() int { return g.size }

// RoundsRemaining returns the number of rounds left before a draw.
func (g *Game) RoundsRemaining() int { return g.roundsRemaining }

// Turn returns the player whose actions are currently legal.
func (g *Game) Turn() Player { return g.turn }

// Controlled returns the side played by the automated player.
func (g *Game) Controlled() Player { return g.controlled }

// AITurn reports whether the automated player is to act.
func (g *Game) AITurn() bool {
	return !g.over && g.turn == g.controlled
}

// Over reports whether the game reached a terminal result.
func (g *Game) Over() bool { return g.over }

// PeasantBuilt reports whether the automated player already produced its
// one peasant.
func (g *Game) PeasantBuilt() bool { return g.peasantBuilt }

// MarkPeasantBuilt records that the automated player used its peasant build.
func (g *Game) MarkPeasantBuilt() { g.peasantBuilt = true }

// Units exposes the unit store.
func (g *Game) Units() *Store { return g.units }

// UnitAt returns the unit at (x,y), or nil.
func (g *Game) UnitAt(x, y int) *Unit {
	return g.units.At(Point{x, y})
}

// finish marks the game as over and returns r.
func (g *Game) finish(r Result) Result {
	if r.Terminal() {
		g.over = true
	}
	return r
}

// resultFor converts the winning side into a result seen from the
// controlled player's perspective.
func (g *Game) resultFor(winner Player) Result {
	if winner == g.controlled {
		return ResultWin
	}
	return ResultLose
}

func (g *Game) String() string {
	return fmt.Sprintf("game n=%d rounds=%d turn=%d ai=%d units=%d",
		g.size, g.roundsRemaining, g.turn, g.controlled, g.units.Len())
}
