package game

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

// NextPursuitStep returns the cell a zombie at start should move to this turn
// while hunting the human at goal.
//
// Cells in claimed were already chosen by zombies earlier in the turn and are
// treated as walls, except for goal itself. If goal cannot be reached a random
// unclaimed neighbor is picked, and if there is none the zombie stays at start.
func NextPursuitStep(g *Grid, start, goal Coord, claimed mapset.Set[Coord], rng *rand.Rand) Coord {
	if path, ok := pursuitPath(g, start, goal, claimed); ok {
		if len(path) == 0 {
			return start
		}
		return path[0]
	}

	var moves []Coord
	for _, n := range g.Neighbors(start) {
		if !claimed.Has(n) {
			moves = append(moves, n)
		}
	}
	if len(moves) == 0 {
		return start
	}
	return moves[rng.Intn(len(moves))]
}

func pursuitPath(g *Grid, start, goal Coord, claimed mapset.Set[Coord]) ([]Coord, bool) {
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
			if claimed.Has(n) && n != goal {
				continue
			}
			steps := cost[current.cell] + 1
			if prev, seen := cost[n]; seen && steps >= prev {
				continue
			}
			cost[n] = steps
			cameFrom[n] = current.cell
			open.Push(searchNode{priority: steps + Manhattan(n, goal), cell: n})
		}
	}
	return nil, false
}
