package middleages

// Player identifies one of the two sides. Valid values are 1 and 2.
type Player int

const (
	NoPlayer Player = 0
	Player1  Player = 1
	Player2  Player = 2
)

// Opponent returns the other side.
func (p Player) Opponent() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Valid reports whether p names one of the two sides.
func (p Player) Valid() bool {
	return p == Player1 || p == Player2
}

// Kind is the type of a unit.
type Kind int

const (
	King Kind = iota
	Knight
	Peasant
)

func (k Kind) String() string {
	switch k {
	case King:
		return "king"
	case Knight:
		return "knight"
	case Peasant:
		return "peasant"
	default:
		return "unknown"
	}
}

// Letter returns the board letter for a unit of kind k owned by p:
// upper case for player 1, lower case for player 2.
func (k Kind) Letter(p Player) byte {
	var c byte
	switch k {
	case King:
		c = 'K'
	case Knight:
		c = 'R'
	case Peasant:
		c = 'C'
	default:
		c = '?'
	}
	if p == Player2 {
		c += 'a' - 'A'
	}
	return c
}

// UnitID is a stable identifier assigned when a unit is created.
type UnitID uint64

// Moved is the IdleRounds value of a unit that already acted this round.
const Moved = -1

// Unit is a single piece on the board.
type Unit struct {
	ID    UnitID
	Owner Player
	Kind  Kind
	Pos   Point

	// IdleRounds counts full rounds the unit spent without acting.
	// Moved (-1) means it acted in the current round.
	IdleRounds int

	// AIDecided is set once the automated player has handled the unit
	// during its current turn.
	AIDecided bool
}

// Point is a board coordinate. Both axes are 1-based.
type Point struct {
	X, Y int
}

// Distance is the Chebyshev distance between two points.
func Distance(a, b Point) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

// Adjacent reports whether b is at most one step from a. A point is
// adjacent to itself.
func Adjacent(a, b Point) bool {
	return Distance(a, b) <= 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
