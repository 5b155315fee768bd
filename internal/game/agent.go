package game

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
)

// Human is an evading agent.
type Human struct {
	ID  string `json:"id"`
	Pos Coord  `json:"pos"`
	// Path is what remains of the last escape plan after its first step was taken.
	// It is display data only and is rebuilt on every autonomous move.
	Path []Coord `json:"path"`
}

// NewHuman creates a human at pos with a fresh ID.
func NewHuman(pos Coord) *Human {
	return &Human{
		ID:  uuid.New().String(),
		Pos: pos,
	}
}

// Move applies cmd to the human. Blocked or out-of-bounds steps leave it in place.
func (h *Human) Move(g *Grid, cmd Command, zombies []Coord) {
	if cmd == CommandAuto {
		h.autoMove(g, zombies)
		return
	}

	h.Path = nil
	d, ok := cmd.offset()
	if !ok {
		return
	}
	next := h.Pos.Add(d)
	if g.InBounds(next) && g.Passable(next) {
		h.Pos = next
	}
}

func (h *Human) autoMove(g *Grid, zombies []Coord) {
	path, ok := FindEscapePath(g, h.Pos, zombies)
	if !ok || len(path) == 0 {
		h.Path = nil
		return
	}
	next := path[0]
	h.Path = path[1:]
	if g.Passable(next) {
		h.Pos = next
	}
}

// Zombie is a pursuing agent.
type Zombie struct {
	ID  string `json:"id"`
	Pos Coord  `json:"pos"`
}

// NewZombie creates a zombie at pos with a fresh ID.
func NewZombie(pos Coord) *Zombie {
	return &Zombie{
		ID:  uuid.New().String(),
		Pos: pos,
	}
}

// Chase picks the zombie's destination for this turn without moving it.
// With no humans left the zombie stays where it is.
func (z *Zombie) Chase(g *Grid, humans []*Human, claimed mapset.Set[Coord], rng *rand.Rand) Coord {
	target := nearestHuman(z.Pos, humans)
	if target == nil {
		return z.Pos
	}
	return NextPursuitStep(g, z.Pos, target.Pos, claimed, rng)
}

// nearestHuman returns the closest human by Manhattan distance, the earliest on ties.
func nearestHuman(from Coord, humans []*Human) *Human {
	var best *Human
	bestDist := 0
	for _, h := range humans {
		d := Manhattan(from, h.Pos)
		if best == nil || d < bestDist {
			best, bestDist = h, d
		}
	}
	return best
}
