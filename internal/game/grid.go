package game

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// neighborOffsets is the expansion order used by every search on the grid.
var neighborOffsets = [4]Coord{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// Grid is the spatial model of a game: bounds, obstacles and safe zones.
// Obstacles and safe zones never overlap and always lie inside the bounds.
type Grid struct {
	Width  int
	Height int

	obstacles mapset.Set[Coord]
	safeZones mapset.Set[Coord]
}

// NewGrid creates an empty width x height grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:     width,
		Height:    height,
		obstacles: mapset.New[Coord](),
		safeZones: mapset.New[Coord](),
	}
}

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Passable reports whether c is not an obstacle. Bounds are not checked.
func (g *Grid) Passable(c Coord) bool {
	return !g.obstacles.Has(c)
}

// IsSafe reports whether c is a safe zone.
func (g *Grid) IsSafe(c Coord) bool {
	return g.safeZones.Has(c)
}

// Neighbors returns the axis-aligned cells next to c that are in bounds and passable.
func (g *Grid) Neighbors(c Coord) []Coord {
	result := make([]Coord, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		n := c.Add(d)
		if g.InBounds(n) && g.Passable(n) {
			result = append(result, n)
		}
	}
	return result
}

// AddObstacle marks c as blocked. Out-of-bounds cells and safe zones are ignored.
func (g *Grid) AddObstacle(c Coord) bool {
	if !g.InBounds(c) || g.safeZones.Has(c) {
		return false
	}
	g.obstacles.Put(c)
	return true
}

// AddSafeZone marks c as a safe zone. Out-of-bounds cells and obstacles are ignored.
func (g *Grid) AddSafeZone(c Coord) bool {
	if !g.InBounds(c) || g.obstacles.Has(c) {
		return false
	}
	g.safeZones.Put(c)
	return true
}

// ClearObstacles removes every obstacle.
func (g *Grid) ClearObstacles() {
	g.obstacles = mapset.New[Coord]()
}

// ObstacleCount returns the number of obstacles.
func (g *Grid) ObstacleCount() int {
	return g.obstacles.Size()
}

// Obstacles returns the obstacles sorted by row, then column.
func (g *Grid) Obstacles() []Coord {
	return sortedCoords(g.obstacles)
}

// SafeZones returns the safe zones sorted by row, then column.
func (g *Grid) SafeZones() []Coord {
	return sortedCoords(g.safeZones)
}

// NearestSafeZone returns the safe zone closest to from by Manhattan distance.
// Ties resolve to the first zone in SafeZones order.
func (g *Grid) NearestSafeZone(from Coord) (Coord, bool) {
	var best Coord
	found := false
	bestDist := 0
	for _, s := range g.SafeZones() {
		d := Manhattan(from, s)
		if !found || d < bestDist {
			best, bestDist, found = s, d, true
		}
	}
	return best, found
}

// CheckConnectivity reports whether any goal can be reached from start by a
// breadth-first walk over passable cells.
func (g *Grid) CheckConnectivity(start Coord, goals []Coord) bool {
	goalSet := mapset.New[Coord]()
	for _, c := range goals {
		goalSet.Put(c)
	}
	if goalSet.Has(start) {
		return true
	}

	visited := mapset.New[Coord]()
	visited.Put(start)
	queue := []Coord{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, n := range g.Neighbors(current) {
			if goalSet.Has(n) {
				return true
			}
			if !visited.Has(n) {
				visited.Put(n)
				queue = append(queue, n)
			}
		}
	}
	return false
}

// GridView is the read-only form of a Grid handed to the presentation layer.
type GridView struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Obstacles []Coord `json:"obstacles"`
	SafeZones []Coord `json:"safe_zones"`
}

// View returns a copy of the grid contents.
func (g *Grid) View() GridView {
	return GridView{
		Width:     g.Width,
		Height:    g.Height,
		Obstacles: g.Obstacles(),
		SafeZones: g.SafeZones(),
	}
}

func sortedCoords(s mapset.Set[Coord]) []Coord {
	result := make([]Coord, 0, s.Size())
	s.Each(func(c Coord) {
		result = append(result, c)
	})
	sort.Slice(result, func(i, j int) bool {
		if result[i].Y != result[j].Y {
			return result[i].Y < result[j].Y
		}
		return result[i].X < result[j].X
	})
	return result
}
