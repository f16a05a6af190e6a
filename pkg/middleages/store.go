package middleages

import (
	"fmt"
	"math"
	"slices"
)

// Store owns the units of one game. Units are kept in insertion order and
// indexed by ID and by coordinate.
type Store struct {
	size   int
	nextID UnitID
	units  []*Unit
	byID   map[UnitID]*Unit
	byPos  map[Point]UnitID
}

// NewStore returns an empty store for a board of the given size.
func NewStore(size int) *Store {
	return &Store{
		size:  size,
		byID:  make(map[UnitID]*Unit),
		byPos: make(map[Point]UnitID),
	}
}

// InBounds reports whether p lies on the board.
func (s *Store) InBounds(p Point) bool {
	return p.X >= 1 && p.Y >= 1 && p.X <= s.size && p.Y <= s.size
}

// Insert places a new unit at p. It fails when p is off the board or
// already occupied.
func (s *Store) Insert(kind Kind, owner Player, p Point) (*Unit, error) {
	if !s.InBounds(p) {
		return nil, fmt.Errorf("position (%d,%d) is off the board", p.X, p.Y)
	}
	if s.At(p) != nil {
		return nil, fmt.Errorf("position (%d,%d) is occupied", p.X, p.Y)
	}
	s.nextID++
	u := &Unit{
		ID:    s.nextID,
		Owner: owner,
		Kind:  kind,
		Pos:   p,
	}
	s.units = append(s.units, u)
	s.byID[u.ID] = u
	s.byPos[p] = u.ID
	return u, nil
}

// At returns the unit standing on p, or nil.
func (s *Store) At(p Point) *Unit {
	id, ok := s.byPos[p]
	if !ok {
		return nil
	}
	return s.byID[id]
}

// Get returns the unit with the given ID, or nil if it has been removed.
func (s *Store) Get(id UnitID) *Unit {
	return s.byID[id]
}

// Relocate moves a unit to an empty cell. Callers validate bounds and
// occupancy first.
func (s *Store) Relocate(id UnitID, to Point) {
	u := s.byID[id]
	if u == nil {
		return
	}
	if s.byPos[u.Pos] == id {
		delete(s.byPos, u.Pos)
	}
	u.Pos = to
	s.byPos[to] = id
}

// Remove deletes a unit by identity. Removing an unknown ID is a no-op.
func (s *Store) Remove(id UnitID) {
	u := s.byID[id]
	if u == nil {
		return
	}
	delete(s.byID, id)
	if s.byPos[u.Pos] == id {
		delete(s.byPos, u.Pos)
	}
	s.units = slices.DeleteFunc(s.units, func(v *Unit) bool { return v.ID == id })
}

// Len returns the number of units on the board.
func (s *Store) Len() int {
	return len(s.units)
}

// ForEach calls fn for every unit in insertion order.
func (s *Store) ForEach(fn func(*Unit)) {
	for _, u := range s.units {
		fn(u)
	}
}

// UnitsOf returns the units owned by p in insertion order.
func (s *Store) UnitsOf(p Player) []*Unit {
	var out []*Unit
	for _, u := range s.units {
		if u.Owner == p {
			out = append(out, u)
		}
	}
	return out
}

// NearestEnemy returns the unit not owned by forPlayer that is closest to p
// by Chebyshev distance. Ties go to the unit inserted first. The boolean is
// false when forPlayer has no enemies left.
func (s *Store) NearestEnemy(p Point, forPlayer Player) (*Unit, bool) {
	var best *Unit
	bestDist := math.MaxInt
	for _, u := range s.units {
		if u.Owner == forPlayer {
			continue
		}
		if d := Distance(p, u.Pos); d < bestDist {
			best, bestDist = u, d
		}
	}
	return best, best != nil
}
