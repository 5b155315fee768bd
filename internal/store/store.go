package store

import (
	"context"
	"time"
)

// MatchResult is one finished game in the match ledger.
type MatchResult struct {
	SessionID     string `json:"session_id"`
	Code          string `json:"code"`
	Outcome       string `json:"outcome"`
	Turns         int    `json:"turns"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	ObstacleCount int    `json:"obstacle_count"`
	ZombieCount   int    `json:"zombie_count"`
	// ZombiesAtEnd includes zombies spawned from caught humans.
	ZombiesAtEnd int       `json:"zombies_at_end"`
	FinishedAt   time.Time `json:"finished_at"`
}

// ResultStore records finished games. Gameplay never reads from it.
type ResultStore interface {
	// SaveResult appends a finished game.
	SaveResult(ctx context.Context, r MatchResult) error
	// RecentResults returns up to limit results, newest first.
	RecentResults(ctx context.Context, limit int) ([]MatchResult, error)
	// Close releases storage resources.
	Close() error
}
