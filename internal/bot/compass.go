package bot

import "github.com/freeeve/middle-ages/pkg/middleages"

// Direction is one of the eight compass steps, indexed clockwise from
// north-west, or Stay.
type Direction int

const (
	NW Direction = iota
	N
	NE
	E
	SE
	S
	SW
	W
	Stay
)

const compassPoints = 8

var offsets = [compassPoints]middleages.Point{
	NW: {X: -1, Y: -1},
	N:  {X: 0, Y: -1},
	NE: {X: 1, Y: -1},
	E:  {X: 1, Y: 0},
	SE: {X: 1, Y: 1},
	S:  {X: 0, Y: 1},
	SW: {X: -1, Y: 1},
	W:  {X: -1, Y: 0},
}

var directionNames = [...]string{"NW", "N", "NE", "E", "SE", "S", "SW", "W", "Stay"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "?"
	}
	return directionNames[d]
}

// Clockwise returns the next compass point clockwise.
func (d Direction) Clockwise() Direction { return (d + 1) % compassPoints }

// CounterClockwise returns the next compass point counter-clockwise.
func (d Direction) CounterClockwise() Direction { return (d + compassPoints - 1) % compassPoints }

// Step returns p moved one cell in direction d. Stay returns p.
func (d Direction) Step(p middleages.Point) middleages.Point {
	if d == Stay {
		return p
	}
	o := offsets[d]
	return middleages.Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Toward picks the compass point whose signs match the displacement from
// from to to. Equal points give Stay.
func Toward(from, to middleages.Point) Direction {
	dx, dy := sign(to.X-from.X), sign(to.Y-from.Y)
	for d, o := range offsets {
		if o.X == dx && o.Y == dy {
			return Direction(d)
		}
	}
	return Stay
}

// Correct returns d if allowed accepts it, else the clockwise neighbour,
// else the counter-clockwise one, else Stay.
func Correct(d Direction, allowed func(Direction) bool) Direction {
	if d == Stay {
		return Stay
	}
	for _, c := range [...]Direction{d, d.Clockwise(), d.CounterClockwise()} {
		if allowed(c) {
			return c
		}
	}
	return Stay
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
