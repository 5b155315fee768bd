package game

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

// CatchEvent records a human caught by a zombie during a turn.
type CatchEvent struct {
	ZombieID string `json:"zombie_id"`
	HumanID  string `json:"human_id"`
	At       Coord  `json:"at"`
	// SpawnedID is the zombie the caught human turned into.
	SpawnedID string `json:"spawned_id"`
}

// TurnResult describes what a call to Step did.
type TurnResult struct {
	Advanced bool         `json:"advanced"`
	Turn     int          `json:"turn"`
	Catches  []CatchEvent `json:"catches,omitempty"`
	Outcome  Outcome      `json:"outcome"`
}

// Game is the state of a single simulation. It is owned by one caller and is not
// safe for concurrent use.
type Game struct {
	Grid    *Grid
	Humans  []*Human
	Zombies []*Zombie
	Turn    int
	Outcome Outcome

	rng *rand.Rand
}

// NewGame places humans and zombies on grid. rng drives the zombies' fallback moves.
func NewGame(grid *Grid, humanStarts, zombieStarts []Coord, rng *rand.Rand) *Game {
	g := &Game{
		Grid:    grid,
		Humans:  make([]*Human, 0, len(humanStarts)),
		Zombies: make([]*Zombie, 0, len(zombieStarts)),
		rng:     rng,
	}
	for _, c := range humanStarts {
		g.Humans = append(g.Humans, NewHuman(c))
	}
	for _, c := range zombieStarts {
		g.Zombies = append(g.Zombies, NewZombie(c))
	}
	g.evaluate()
	return g
}

// NewGameFromLayout starts a game on a generated layout with a single human.
func NewGameFromLayout(layout *Layout, rng *rand.Rand) *Game {
	return NewGame(layout.Grid, []Coord{layout.HumanStart}, layout.ZombieStarts, rng)
}

// IsOver reports whether the game reached a terminal outcome.
func (g *Game) IsOver() bool {
	return g.Outcome.Terminal()
}

// Step plays one full turn with cmd as the humans' order. CommandNone, a
// finished game or an empty human set leave everything untouched.
func (g *Game) Step(cmd Command) TurnResult {
	if cmd == CommandNone || g.IsOver() || len(g.Humans) == 0 {
		return TurnResult{Turn: g.Turn, Outcome: g.Outcome}
	}

	g.humanPhase(cmd)
	g.evaluate()

	var catches []CatchEvent
	if !g.IsOver() {
		g.zombiePhase()
		catches = g.resolveCatches()
		g.evaluate()
	}

	g.Turn++
	return TurnResult{
		Advanced: true,
		Turn:     g.Turn,
		Catches:  catches,
		Outcome:  g.Outcome,
	}
}

func (g *Game) humanPhase(cmd Command) {
	zombies := g.ZombiePositions()
	for _, h := range g.Humans {
		h.Move(g.Grid, cmd, zombies)
	}
}

// zombiePhase lets every zombie choose a destination in list order, each one
// treating earlier choices as blocked, and only then moves them all.
func (g *Game) zombiePhase() {
	claimed := mapset.New[Coord]()
	destinations := make([]Coord, len(g.Zombies))
	for i, z := range g.Zombies {
		next := z.Chase(g.Grid, g.Humans, claimed, g.rng)
		destinations[i] = next
		claimed.Put(next)
	}
	for i, z := range g.Zombies {
		z.Pos = destinations[i]
	}
}

// resolveCatches removes every human sharing a cell with a zombie and spawns a
// zombie in its place. New zombies join the end of the list and act next turn.
func (g *Game) resolveCatches() []CatchEvent {
	var events []CatchEvent
	var spawned []*Zombie

	for _, z := range g.Zombies {
		remaining := make([]*Human, 0, len(g.Humans))
		for _, h := range g.Humans {
			if h.Pos != z.Pos {
				remaining = append(remaining, h)
				continue
			}
			nz := NewZombie(h.Pos)
			spawned = append(spawned, nz)
			events = append(events, CatchEvent{
				ZombieID:  z.ID,
				HumanID:   h.ID,
				At:        h.Pos,
				SpawnedID: nz.ID,
			})
		}
		g.Humans = remaining
	}

	g.Zombies = append(g.Zombies, spawned...)
	return events
}

func (g *Game) evaluate() {
	switch {
	case len(g.Humans) == 0:
		g.Outcome = OutcomeHumansCaught
	case g.allHumansSafe():
		g.Outcome = OutcomeHumansEscaped
	default:
		g.Outcome = OutcomeInProgress
	}
}

func (g *Game) allHumansSafe() bool {
	for _, h := range g.Humans {
		if !g.Grid.IsSafe(h.Pos) {
			return false
		}
	}
	return true
}

// ZombiePositions returns the zombies' cells in list order.
func (g *Game) ZombiePositions() []Coord {
	positions := make([]Coord, len(g.Zombies))
	for i, z := range g.Zombies {
		positions[i] = z.Pos
	}
	return positions
}

// Snapshot is a read-only copy of the game for the presentation layer.
type Snapshot struct {
	Grid    GridView `json:"grid"`
	Humans  []Human  `json:"humans"`
	Zombies []Zombie `json:"zombies"`
	Turn    int      `json:"turn"`
	Outcome Outcome  `json:"outcome"`
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	humans := make([]Human, len(g.Humans))
	for i, h := range g.Humans {
		humans[i] = Human{
			ID:   h.ID,
			Pos:  h.Pos,
			Path: append([]Coord(nil), h.Path...),
		}
	}
	zombies := make([]Zombie, len(g.Zombies))
	for i, z := range g.Zombies {
		zombies[i] = *z
	}
	return Snapshot{
		Grid:    g.Grid.View(),
		Humans:  humans,
		Zombies: zombies,
		Turn:    g.Turn,
		Outcome: g.Outcome,
	}
}
