package game

// Coord is a grid cell. It is a comparable value and is used directly as a set member.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns c offset by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// Manhattan returns |dx| + |dy| between a and b.
func Manhattan(a, b Coord) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// lessCoord orders coords by x, then y. Used to break priority ties deterministically.
func lessCoord(a, b Coord) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
