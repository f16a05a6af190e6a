package middleages

import "strings"

// TopLeftSize is the largest corner drawn by TopLeft.
const TopLeftSize = 10

// TopLeft draws the top-left m×m corner of the board, m = min(n, 10).
// Player 1 units are upper case (K king, C peasant, R knight), player 2
// units lower case, empty cells are dots. Rows end with a newline.
func (g *Game) TopLeft() string {
	m := min(g.size, TopLeftSize)
	var b strings.Builder
	b.Grow(m * (m + 1))
	for y := 1; y <= m; y++ {
		for x := 1; x <= m; x++ {
			if u := g.units.At(Point{x, y}); u != nil {
				b.WriteByte(u.Kind.Letter(u.Owner))
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
