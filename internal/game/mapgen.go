package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

var (
	ErrInvalidSettings = errors.New("invalid game settings")
	ErrMapGeneration   = errors.New("failed to generate a connected map")
	ErrSpawnPlacement  = errors.New("failed to place zombie spawns")
)

// Settings is the setup-time configuration of a game.
type Settings struct {
	Width         int `json:"width"`
	Height        int `json:"height"`
	ObstacleCount int `json:"obstacle_count"`
	ZombieCount   int `json:"zombie_count"`
}

// DefaultSettings returns a 15x15 grid with 30 obstacles and 3 zombies.
func DefaultSettings() Settings {
	return Settings{
		Width:         DefaultGridSize,
		Height:        DefaultGridSize,
		ObstacleCount: DefaultObstacleCount,
		ZombieCount:   DefaultZombieCount,
	}
}

// Validate rejects settings that can never produce a game.
func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: grid size %dx%d", ErrInvalidSettings, s.Width, s.Height)
	}
	// Divide instead of multiplying so huge sides cannot overflow.
	if s.Width > MaxGridCells/s.Height {
		return fmt.Errorf("%w: grid %dx%d exceeds %d cells", ErrInvalidSettings, s.Width, s.Height, MaxGridCells)
	}
	if s.Width*s.Height < 2 {
		return fmt.Errorf("%w: grid needs room for a start and a safe zone", ErrInvalidSettings)
	}
	if s.ObstacleCount < 0 || s.ObstacleCount > s.Width*s.Height-2 {
		return fmt.Errorf("%w: %d obstacles on a %dx%d grid", ErrInvalidSettings, s.ObstacleCount, s.Width, s.Height)
	}
	if s.ZombieCount < 0 {
		return fmt.Errorf("%w: %d zombies", ErrInvalidSettings, s.ZombieCount)
	}
	return nil
}

// Layout is a generated map: a grid with one safe zone, the human start and the
// zombie spawns.
type Layout struct {
	Grid         *Grid
	HumanStart   Coord
	ZombieStarts []Coord
	// Attempts is the number of obstacle placements tried before the map connected.
	Attempts int
}

// Generator builds random layouts from a single randomness source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate produces a layout in which the human start can reach the safe zone.
func (gen *Generator) Generate(s Settings) (*Layout, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	safe, start := gen.chooseEndpoints(s.Width, s.Height)
	grid := NewGrid(s.Width, s.Height)
	grid.AddSafeZone(safe)

	protected := mapset.New[Coord]()
	protected.Put(safe)
	protected.Put(start)

	attempts := 0
	for {
		attempts++
		grid.ClearObstacles()
		gen.placeObstacles(grid, s.ObstacleCount, protected)
		if grid.CheckConnectivity(start, grid.SafeZones()) {
			break
		}
		if attempts >= MaxMapAttempts {
			return nil, fmt.Errorf("%w after %d attempts (%dx%d grid, %d obstacles)",
				ErrMapGeneration, attempts, s.Width, s.Height, s.ObstacleCount)
		}
	}

	zombies, err := gen.placeZombies(grid, start, protected, s.ZombieCount)
	if err != nil {
		return nil, err
	}

	return &Layout{
		Grid:         grid,
		HumanStart:   start,
		ZombieStarts: zombies,
		Attempts:     attempts,
	}, nil
}

// NewGame generates a layout and starts a game on it.
func (gen *Generator) NewGame(s Settings) (*Game, error) {
	layout, err := gen.Generate(s)
	if err != nil {
		return nil, err
	}
	return NewGameFromLayout(layout, gen.rng), nil
}

// chooseEndpoints picks a random cell and the cell farthest from it, then
// flips a coin to decide which one is the safe zone.
func (gen *Generator) chooseEndpoints(width, height int) (safe, start Coord) {
	cells := make([]Coord, 0, width*height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			cells = append(cells, Coord{X: x, Y: y})
		}
	}

	p1 := cells[gen.rng.Intn(len(cells))]
	p2 := cells[0]
	for _, c := range cells[1:] {
		if Manhattan(c, p1) > Manhattan(p2, p1) {
			p2 = c
		}
	}

	if gen.rng.Intn(2) == 0 {
		return p1, p2
	}
	return p2, p1
}

// placeObstacles picks count distinct unprotected cells uniformly at random.
func (gen *Generator) placeObstacles(grid *Grid, count int, protected mapset.Set[Coord]) {
	candidates := make([]Coord, 0, grid.Width*grid.Height)
	for x := 0; x < grid.Width; x++ {
		for y := 0; y < grid.Height; y++ {
			c := Coord{X: x, Y: y}
			if !protected.Has(c) && !grid.IsSafe(c) {
				candidates = append(candidates, c)
			}
		}
	}

	for i := 0; i < count && i < len(candidates); i++ {
		j := i + gen.rng.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		grid.AddObstacle(candidates[i])
	}
}

// placeZombies samples spawn cells from the corner region opposite the human.
// Every spawn must be free, unique and farther than SpawnDistanceRatio of the
// larger grid side from the human start.
func (gen *Generator) placeZombies(grid *Grid, start Coord, protected mapset.Set[Coord], count int) ([]Coord, error) {
	regionW := grid.Width/2 + 1
	regionH := grid.Height/2 + 1
	minX, minY := 0, 0
	if start.X*2 < grid.Width {
		minX = grid.Width - regionW
	}
	if start.Y*2 < grid.Height {
		minY = grid.Height - regionH
	}
	minDist := SpawnDistanceRatio * float64(max(grid.Width, grid.Height))

	spawns := make([]Coord, 0, count)
	taken := mapset.New[Coord]()

	for i := 0; i < count; i++ {
		placed := false
		for attempt := 0; attempt < MaxSpawnAttempts; attempt++ {
			c := Coord{
				X: minX + gen.rng.Intn(regionW),
				Y: minY + gen.rng.Intn(regionH),
			}
			if !grid.Passable(c) || protected.Has(c) || taken.Has(c) {
				continue
			}
			if float64(Manhattan(c, start)) <= minDist {
				continue
			}
			spawns = append(spawns, c)
			taken.Put(c)
			placed = true
			break
		}
		if !placed {
			return nil, fmt.Errorf("%w: zombie %d of %d after %d attempts",
				ErrSpawnPlacement, i+1, count, MaxSpawnAttempts)
		}
	}
	return spawns, nil
}
