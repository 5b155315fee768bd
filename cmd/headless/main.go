package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	"github.com/ugaemi/zombie-escape-server/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	outcome      game.Outcome
	turns        int
	catches      int
	zombiesAtEnd int
	mapAttempts  int
	err          error
}

type options struct {
	runs     int
	seedBase int64
	seedStep int64
	settings game.Settings
	maxTurns int
	command  game.Command
}

func main() {
	var opts options
	var command string

	flag.IntVar(&opts.runs, "runs", 10, "number of headless simulation runs")
	flag.Int64Var(&opts.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&opts.seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&opts.settings.Width, "width", game.DefaultGridSize, "grid width")
	flag.IntVar(&opts.settings.Height, "height", game.DefaultGridSize, "grid height")
	flag.IntVar(&opts.settings.ObstacleCount, "obstacles", game.DefaultObstacleCount, "obstacle count")
	flag.IntVar(&opts.settings.ZombieCount, "zombies", game.DefaultZombieCount, "zombie count")
	flag.IntVar(&opts.maxTurns, "max-turns", 500, "turn cap per run")
	flag.StringVar(&command, "command", "auto", "command issued every turn (up|down|left|right|auto|wait)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cmd, err := game.ParseCommand(command)
	if err != nil || cmd == game.CommandNone {
		slog.Error("unsupported command", "command", command)
		os.Exit(2)
	}
	opts.command = cmd

	if err := validate(opts); err != nil {
		slog.Error("invalid options", "error", err)
		os.Exit(2)
	}

	if summarize(report(os.Stdout, opts)).failed > 0 {
		os.Exit(1)
	}
}

func validate(opts options) error {
	if opts.runs <= 0 {
		return errors.New("-runs must be > 0")
	}
	if opts.maxTurns <= 0 {
		return errors.New("-max-turns must be > 0")
	}
	return opts.settings.Validate()
}

func report(w io.Writer, opts options) []runStats {
	s := opts.settings
	fmt.Fprintf(w, "=== Headless Escape Report ===\n")
	fmt.Fprintf(w, "grid=%dx%d obstacles=%d zombies=%d command=%s runs=%d max_turns=%d seed_base=%d seed_step=%d\n\n",
		s.Width, s.Height, s.ObstacleCount, s.ZombieCount, opts.command, opts.runs, opts.maxTurns, opts.seedBase, opts.seedStep)

	all := make([]runStats, 0, opts.runs)
	for i := 0; i < opts.runs; i++ {
		seed := opts.seedBase + int64(i)*opts.seedStep
		stats := runOnce(i+1, seed, opts)
		all = append(all, stats)
		printRun(w, stats)
	}

	printAggregate(w, all)
	return all
}

// runOnce plays a single seeded game until it ends or reaches the turn cap.
func runOnce(runIndex int, seed int64, opts options) runStats {
	stats := runStats{runIndex: runIndex, seed: seed}

	gen := game.NewGenerator(rand.New(rand.NewSource(seed)))
	layout, err := gen.Generate(opts.settings)
	if err != nil {
		slog.Warn("map generation failed", "run", runIndex, "seed", seed, "error", err)
		stats.err = err
		return stats
	}
	stats.mapAttempts = layout.Attempts

	g := game.NewGameFromLayout(layout, rand.New(rand.NewSource(seed)))
	for g.Turn < opts.maxTurns && !g.IsOver() {
		result := g.Step(opts.command)
		stats.catches += len(result.Catches)
	}

	stats.outcome = g.Outcome
	stats.turns = g.Turn
	stats.zombiesAtEnd = len(g.Zombies)
	return stats
}

func printRun(w io.Writer, s runStats) {
	if s.err != nil {
		fmt.Fprintf(w, "run %2d seed=%d error: %v\n", s.runIndex, s.seed, s.err)
		return
	}
	fmt.Fprintf(w, "run %2d seed=%d outcome=%s turns=%d catches=%d zombies_at_end=%d map_attempts=%d\n",
		s.runIndex, s.seed, s.outcome, s.turns, s.catches, s.zombiesAtEnd, s.mapAttempts)
}

type aggregate struct {
	escaped    int
	caught     int
	capped     int
	failed     int
	escapeTurn float64
}

func summarize(all []runStats) aggregate {
	var a aggregate
	escapeTurns := 0
	for _, s := range all {
		switch {
		case s.err != nil:
			a.failed++
		case s.outcome == game.OutcomeHumansEscaped:
			a.escaped++
			escapeTurns += s.turns
		case s.outcome == game.OutcomeHumansCaught:
			a.caught++
		default:
			a.capped++
		}
	}
	if a.escaped > 0 {
		a.escapeTurn = float64(escapeTurns) / float64(a.escaped)
	}
	return a
}

func printAggregate(w io.Writer, all []runStats) {
	a := summarize(all)
	played := len(all) - a.failed
	rate := 0.0
	if played > 0 {
		rate = 100 * float64(a.escaped) / float64(played)
	}

	fmt.Fprintf(w, "\n=== Aggregate ===\n")
	fmt.Fprintf(w, "escaped=%d caught=%d turn_cap=%d generation_failures=%d\n", a.escaped, a.caught, a.capped, a.failed)
	fmt.Fprintf(w, "escape_rate=%.1f%% avg_escape_turns=%.1f\n", rate, a.escapeTurn)
}
