package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_AlwaysConnected(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		gen := NewGenerator(rand.New(rand.NewSource(seed)))
		layout, err := gen.Generate(Settings{Width: 15, Height: 15, ObstacleCount: 30, ZombieCount: 0})
		require.NoError(t, err, "seed %d", seed)

		g := layout.Grid
		assert.Equal(t, 30, g.ObstacleCount(), "seed %d", seed)
		require.Len(t, g.SafeZones(), 1)
		assert.True(t, g.Passable(layout.HumanStart))
		assert.False(t, g.IsSafe(layout.HumanStart))
		assert.True(t, g.CheckConnectivity(layout.HumanStart, g.SafeZones()), "seed %d", seed)
		assert.GreaterOrEqual(t, layout.Attempts, 1)
	}
}

func TestGenerate_EndpointsAreFarApart(t *testing.T) {
	farthest := func(w, h int, from Coord) int {
		best := 0
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				best = max(best, Manhattan(from, Coord{X: x, Y: y}))
			}
		}
		return best
	}

	for seed := int64(0); seed < 30; seed++ {
		gen := NewGenerator(rand.New(rand.NewSource(seed)))
		layout, err := gen.Generate(Settings{Width: 9, Height: 6, ObstacleCount: 0})
		require.NoError(t, err)

		safe := layout.Grid.SafeZones()[0]
		d := Manhattan(safe, layout.HumanStart)
		assert.True(t,
			d == farthest(9, 6, safe) || d == farthest(9, 6, layout.HumanStart),
			"seed %d: %v and %v are not a farthest pair", seed, safe, layout.HumanStart)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	s := DefaultSettings()

	a, errA := NewGenerator(rand.New(rand.NewSource(42))).Generate(s)
	b, errB := NewGenerator(rand.New(rand.NewSource(42))).Generate(s)
	require.NoError(t, errA)
	require.NoError(t, errB)

	assert.Equal(t, a.HumanStart, b.HumanStart)
	assert.Equal(t, a.ZombieStarts, b.ZombieStarts)
	assert.Equal(t, a.Grid.Obstacles(), b.Grid.Obstacles())
	assert.Equal(t, a.Grid.SafeZones(), b.Grid.SafeZones())
}

func TestGenerate_ZombieSpawns(t *testing.T) {
	s := DefaultSettings()
	minDist := SpawnDistanceRatio * float64(max(s.Width, s.Height))
	placed := 0

	for seed := int64(0); seed < 40; seed++ {
		gen := NewGenerator(rand.New(rand.NewSource(seed)))
		layout, err := gen.Generate(s)
		if errors.Is(err, ErrSpawnPlacement) {
			continue
		}
		require.NoError(t, err, "seed %d", seed)
		placed++

		require.Len(t, layout.ZombieStarts, s.ZombieCount)
		seen := map[Coord]bool{}
		for _, z := range layout.ZombieStarts {
			assert.True(t, layout.Grid.InBounds(z))
			assert.True(t, layout.Grid.Passable(z))
			assert.False(t, layout.Grid.IsSafe(z))
			assert.NotEqual(t, layout.HumanStart, z)
			assert.Greater(t, float64(Manhattan(z, layout.HumanStart)), minDist)
			assert.False(t, seen[z], "duplicate spawn %v", z)
			seen[z] = true
		}
	}
	assert.Positive(t, placed, "no seed produced a full spawn set")
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		expected error
	}{
		{"zero width", Settings{Width: 0, Height: 5}, ErrInvalidSettings},
		{"single cell", Settings{Width: 1, Height: 1}, ErrInvalidSettings},
		{"negative obstacles", Settings{Width: 5, Height: 5, ObstacleCount: -1}, ErrInvalidSettings},
		{"too many obstacles", Settings{Width: 5, Height: 5, ObstacleCount: 24}, ErrInvalidSettings},
		{"negative zombies", Settings{Width: 5, Height: 5, ZombieCount: -2}, ErrInvalidSettings},
		{"grid too large", Settings{Width: 1 << 40, Height: 1 << 20, ObstacleCount: 30, ZombieCount: 3}, ErrInvalidSettings},
		{"one cell over the cap", Settings{Width: 257, Height: 256}, ErrInvalidSettings},
		{"never connects", Settings{Width: 3, Height: 3, ObstacleCount: 7}, ErrMapGeneration},
		{"spawn region too small", Settings{Width: 5, Height: 5, ZombieCount: 20}, ErrSpawnPlacement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(newTestRand())
			var layout *Layout
			var err error
			assert.NotPanics(t, func() {
				layout, err = gen.Generate(tt.settings)
			})
			assert.Nil(t, layout)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestGenerator_NewGame(t *testing.T) {
	g, err := NewGenerator(newTestRand()).NewGame(Settings{Width: 10, Height: 10, ObstacleCount: 10, ZombieCount: 1})
	require.NoError(t, err)

	require.Len(t, g.Humans, 1)
	require.Len(t, g.Zombies, 1)
	assert.Equal(t, 0, g.Turn)
	assert.Equal(t, OutcomeInProgress, g.Outcome)
}

func TestSettings_ValidateAtCellCap(t *testing.T) {
	assert.NoError(t, Settings{Width: 256, Height: 256, ObstacleCount: 30, ZombieCount: 3}.Validate())
	assert.NoError(t, Settings{Width: MaxGridCells, Height: 1}.Validate())
	assert.ErrorIs(t, Settings{Width: MaxGridCells + 1, Height: 1}.Validate(), ErrInvalidSettings)
}
