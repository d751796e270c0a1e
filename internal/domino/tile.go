package domino

import "fmt"

// Pip values on a tile range from 0 to 6 (double-six set).
const (
	MinPip = 0
	MaxPip = 6
)

// SetSize is the number of tiles in a complete double-six set.
const SetSize = 28

// Tile is an unordered pair of pip counts. Orientation carries no meaning:
// 2|5 and 5|2 are the same tile.
type Tile struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Starter is the double-six tile that opens the match.
var Starter = Tile{A: 6, B: 6}

// Equals reports whether two tiles are the same ignoring orientation.
func (t Tile) Equals(other Tile) bool {
	return (t.A == other.A && t.B == other.B) ||
		(t.A == other.B && t.B == other.A)
}

// Contains reports whether either half of the tile shows the given pip value.
func (t Tile) Contains(n int) bool {
	return t.A == n || t.B == n
}

// IsStarter reports whether the tile is the double-six.
func (t Tile) IsStarter() bool {
	return t.A == 6 && t.B == 6
}

func (t Tile) String() string {
	return fmt.Sprintf("%d|%d", t.A, t.B)
}

// ValidPip reports whether n is a legal pip value for this set.
func ValidPip(n int) bool {
	return n >= MinPip && n <= MaxPip
}
