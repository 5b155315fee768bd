package game

// Default game setup
const (
	DefaultGridSize      = 15
	DefaultObstacleCount = 30
	DefaultZombieCount   = 3
)

// MaxGridCells bounds width*height so generation stays within memory.
const MaxGridCells = 256 * 256

// Pathfinding
const (
	DangerPenalty = 1000 // priority added per zombie within DangerRadius of a cell
	DangerRadius  = 1    // manhattan distance
)

// Generation
const (
	MaxMapAttempts     = 1000
	MaxSpawnAttempts   = 1000
	SpawnDistanceRatio = 0.75 // zombies spawn farther than ratio*max(width, height) from the human
)
