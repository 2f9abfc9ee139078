package message

import "fmt"

// Tile is a two-integer map coordinate. Value equality makes it usable
// directly as a map key.
type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (t Tile) Coord() Tile {
	return t
}

func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}
