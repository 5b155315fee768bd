package game

import "github.com/zyedidia/generic/heap"

// searchNode is an open-list entry. Equal priorities pop in x, then y order so
// searches are reproducible.
type searchNode struct {
	priority int
	cell     Coord
}

func newOpenList() *heap.Heap[searchNode] {
	return heap.New(func(a, b searchNode) bool {
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		return lessCoord(a.cell, b.cell)
	})
}

// reconstructPath walks parent links from end back to start and returns the
// cells in travel order, start excluded and end included.
func reconstructPath(cameFrom map[Coord]Coord, start, end Coord) []Coord {
	var path []Coord
	for c := end; c != start; c = cameFrom[c] {
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
