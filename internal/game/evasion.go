package game

// FindEscapePath plans a route from start to the nearest safe zone that steers
// away from zombies. The returned path starts with the first step and ends on
// the safe zone; it is empty when start already is that zone. ok is false when
// the grid has no safe zone or none is reachable.
//
// Two costs are tracked per cell. The step count decides whether a cell is
// relaxed, while the open list is ordered by step count plus heuristic plus a
// DangerPenalty for every zombie within DangerRadius. Cells next to a zombie are
// therefore only expanded once every calmer alternative has been exhausted.
func FindEscapePath(g *Grid, start Coord, zombies []Coord) (path []Coord, ok bool) {
	goal, found := g.NearestSafeZone(start)
	if !found {
		return nil, false
	}
	if start == goal {
		return []Coord{}, true
	}

	cost := map[Coord]int{start: 0}
	cameFrom := make(map[Coord]Coord)
	open := newOpenList()
	open.Push(searchNode{priority: Manhattan(start, goal), cell: start})

	for open.Size() > 0 {
		current, _ := open.Pop()
		if current.cell == goal {
			return reconstructPath(cameFrom, start, goal), true
		}

		for _, n := range g.Neighbors(current.cell) {
			steps := cost[current.cell] + 1
			if prev, seen := cost[n]; seen && steps >= prev {
				continue
			}
			cost[n] = steps
			cameFrom[n] = current.cell
			open.Push(searchNode{
				priority: steps + Manhattan(n, goal) + Danger(n, zombies),
				cell:     n,
			})
		}
	}
	return nil, false
}

// Danger returns the exploration penalty for standing on c.
func Danger(c Coord, zombies []Coord) int {
	near := 0
	for _, z := range zombies {
		if Manhattan(c, z) <= DangerRadius {
			near++
		}
	}
	return near * DangerPenalty
}
