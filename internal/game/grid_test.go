package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrid_InBounds(t *testing.T) {
	g := NewGrid(4, 3)

	tests := []struct {
		name     string
		c        Coord
		expected bool
	}{
		{"origin", Coord{0, 0}, true},
		{"far corner", Coord{3, 2}, true},
		{"negative x", Coord{-1, 0}, false},
		{"negative y", Coord{0, -1}, false},
		{"x at width", Coord{4, 0}, false},
		{"y at height", Coord{0, 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, g.InBounds(tt.c))
		})
	}
}

func TestGrid_NeighborsNeverBlockedOrOutside(t *testing.T) {
	g := NewGrid(6, 5)
	for _, c := range []Coord{{1, 1}, {2, 1}, {0, 4}, {5, 0}, {3, 3}} {
		g.AddObstacle(c)
	}

	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			for _, n := range g.Neighbors(Coord{x, y}) {
				assert.True(t, g.InBounds(n), "neighbor %v of (%d,%d) out of bounds", n, x, y)
				assert.True(t, g.Passable(n), "neighbor %v of (%d,%d) is an obstacle", n, x, y)
				assert.Equal(t, 1, Manhattan(n, Coord{x, y}))
			}
		}
	}
}

func TestGrid_NeighborsOrder(t *testing.T) {
	g := NewGrid(3, 3)
	assert.Equal(t, []Coord{{2, 1}, {0, 1}, {1, 2}, {1, 0}}, g.Neighbors(Coord{1, 1}))
	assert.Equal(t, []Coord{{1, 0}, {0, 1}}, g.Neighbors(Coord{0, 0}))
}

func TestGrid_ObstacleAndSafeZoneStayDisjoint(t *testing.T) {
	g := NewGrid(3, 3)

	assert.True(t, g.AddSafeZone(Coord{2, 2}))
	assert.False(t, g.AddObstacle(Coord{2, 2}), "safe zone cannot become an obstacle")
	assert.True(t, g.AddObstacle(Coord{1, 1}))
	assert.False(t, g.AddSafeZone(Coord{1, 1}), "obstacle cannot become a safe zone")
	assert.False(t, g.AddObstacle(Coord{5, 5}), "out of bounds is ignored")
	assert.False(t, g.AddSafeZone(Coord{-1, 0}), "out of bounds is ignored")

	assert.Equal(t, []Coord{{1, 1}}, g.Obstacles())
	assert.Equal(t, []Coord{{2, 2}}, g.SafeZones())
	assert.True(t, g.IsSafe(Coord{2, 2}))
	assert.False(t, g.Passable(Coord{1, 1}))

	g.ClearObstacles()
	assert.Equal(t, 0, g.ObstacleCount())
	assert.True(t, g.Passable(Coord{1, 1}))
}

func TestGrid_NearestSafeZone(t *testing.T) {
	t.Run("no safe zones", func(t *testing.T) {
		_, ok := NewGrid(3, 3).NearestSafeZone(Coord{0, 0})
		assert.False(t, ok)
	})

	t.Run("closest wins", func(t *testing.T) {
		g := NewGrid(10, 10)
		g.AddSafeZone(Coord{9, 9})
		g.AddSafeZone(Coord{2, 3})
		got, ok := g.NearestSafeZone(Coord{0, 0})
		assert.True(t, ok)
		assert.Equal(t, Coord{2, 3}, got)
	})

	t.Run("ties resolve by row then column", func(t *testing.T) {
		g := NewGrid(5, 5)
		g.AddSafeZone(Coord{4, 2})
		g.AddSafeZone(Coord{2, 0})
		got, _ := g.NearestSafeZone(Coord{2, 2})
		assert.Equal(t, Coord{2, 0}, got)
	})
}

func TestGrid_CheckConnectivity(t *testing.T) {
	t.Run("open grid", func(t *testing.T) {
		g := NewGrid(5, 5)
		assert.True(t, g.CheckConnectivity(Coord{0, 0}, []Coord{{4, 4}}))
	})

	t.Run("start is a goal", func(t *testing.T) {
		g := NewGrid(2, 2)
		assert.True(t, g.CheckConnectivity(Coord{1, 1}, []Coord{{1, 1}}))
	})

	t.Run("wall separates goal", func(t *testing.T) {
		g := NewGrid(5, 5)
		for y := 0; y < 5; y++ {
			g.AddObstacle(Coord{2, y})
		}
		assert.False(t, g.CheckConnectivity(Coord{0, 0}, []Coord{{4, 4}}))
	})

	t.Run("gap in wall", func(t *testing.T) {
		g := NewGrid(5, 5)
		for y := 0; y < 4; y++ {
			g.AddObstacle(Coord{2, y})
		}
		assert.True(t, g.CheckConnectivity(Coord{0, 0}, []Coord{{4, 0}}))
	})

	t.Run("any goal is enough", func(t *testing.T) {
		g := NewGrid(5, 1)
		g.AddObstacle(Coord{3, 0})
		assert.True(t, g.CheckConnectivity(Coord{0, 0}, []Coord{{4, 0}, {2, 0}}))
	})

	t.Run("no goals", func(t *testing.T) {
		assert.False(t, NewGrid(3, 3).CheckConnectivity(Coord{0, 0}, nil))
	})
}

func TestManhattan(t *testing.T) {
	assert.Equal(t, 0, Manhattan(Coord{2, 2}, Coord{2, 2}))
	assert.Equal(t, 7, Manhattan(Coord{0, 0}, Coord{3, 4}))
	assert.Equal(t, 7, Manhattan(Coord{3, 4}, Coord{0, 0}))
	assert.Equal(t, 4, Manhattan(Coord{-1, 1}, Coord{1, -1}))
}
