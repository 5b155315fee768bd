package room

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ugaemi/zombie-escape-server/internal/game"
	"github.com/ugaemi/zombie-escape-server/internal/store"
	"github.com/ugaemi/zombie-escape-server/internal/ws"
)

var ErrGameOver = errors.New("game is over")

// saveTimeout bounds a single ledger write.
const saveTimeout = 5 * time.Second

// Session is one running simulation with its connected viewers.
type Session struct {
	Code string
	ID   string

	settings game.Settings
	gen      *game.Generator
	game     *game.Game
	results  store.ResultStore

	// pending is the latest command received since the last frame.
	pending  game.Command
	recorded bool

	// Client mapping: client ID -> ws client
	clients map[string]*ws.Client

	stopCh  chan struct{}
	running bool

	mu sync.RWMutex
}

// NewSession generates the first game for settings. results may be nil.
func NewSession(code string, settings game.Settings, rng *rand.Rand, results store.ResultStore) (*Session, error) {
	gen := game.NewGenerator(rng)
	g, err := gen.NewGame(settings)
	if err != nil {
		return nil, err
	}
	return &Session{
		Code:     code,
		ID:       uuid.New().String(),
		settings: settings,
		gen:      gen,
		game:     g,
		results:  results,
		clients:  make(map[string]*ws.Client),
	}, nil
}

// Settings returns the setup the session generates games with.
func (s *Session) Settings() game.Settings {
	return s.settings
}

// AddClient attaches a viewer and sends it the current state.
func (s *Session) AddClient(client *ws.Client) {
	s.mu.Lock()
	s.clients[client.ID] = client
	snap := s.game.Snapshot()
	s.mu.Unlock()

	if msg, err := ws.NewMessage(ws.TypeGameState, snap); err == nil {
		client.SendMessage(msg)
	}
}

// RemoveClient detaches a viewer and returns how many remain.
func (s *Session) RemoveClient(clientID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)
	return len(s.clients)
}

// HasClient reports whether clientID is attached to the session.
func (s *Session) HasClient(clientID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.clients[clientID]
	return ok
}

// ClientCount returns the number of attached viewers.
func (s *Session) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// SetCommand queues cmd for the next frame, replacing any earlier command.
func (s *Session) SetCommand(cmd game.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.IsOver() {
		return ErrGameOver
	}
	s.pending = cmd
	return nil
}

// Snapshot returns a copy of the current game.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Snapshot()
}

// Step plays one turn immediately, bypassing the frame loop.
func (s *Session) Step(cmd game.Command) (game.TurnResult, error) {
	s.mu.Lock()
	if s.game.IsOver() {
		s.mu.Unlock()
		return game.TurnResult{}, ErrGameOver
	}
	t := s.stepLocked(cmd)
	s.mu.Unlock()

	s.publish(t)
	return t.result, nil
}

// NewGame replaces the current game with a freshly generated one.
func (s *Session) NewGame() error {
	// The generator shares its rng with the running game, so generate under the lock.
	s.mu.Lock()
	g, err := s.gen.NewGame(s.settings)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.game = g
	s.pending = game.CommandNone
	s.recorded = false
	snap := g.Snapshot()
	s.mu.Unlock()

	slog.Info("new game generated", "room", s.Code, "zombies", len(snap.Zombies))
	s.broadcastState(snap)
	return nil
}

// Start runs the frame loop at the given interval until Stop is called.
func (s *Session) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	go s.loop(interval, s.stopCh)
}

// Stop halts the frame loop. It is safe to call more than once.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
}

func (s *Session) loop(interval time.Duration, stopCh chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick plays the pending command, if any. The command is taken and applied
// under one lock so a concurrent NewGame cannot receive a stale order.
func (s *Session) tick() {
	s.mu.Lock()
	cmd := s.pending
	s.pending = game.CommandNone
	if cmd == game.CommandNone {
		s.mu.Unlock()
		return
	}
	t := s.stepLocked(cmd)
	s.mu.Unlock()

	s.publish(t)
}

type gameOverMessage struct {
	Outcome game.Outcome `json:"outcome"`
	Turn    int          `json:"turn"`
}

// turn is the outcome of one step, captured while holding the lock.
type turn struct {
	result game.TurnResult
	snap   game.Snapshot
	// finished is set only for the step that ended the game.
	finished bool
}

// stepLocked advances the game. Caller must hold s.mu.
func (s *Session) stepLocked(cmd game.Command) turn {
	result := s.game.Step(cmd)
	t := turn{result: result, snap: s.game.Snapshot()}
	if result.Advanced && s.game.IsOver() && !s.recorded {
		s.recorded = true
		t.finished = true
	}
	return t
}

// publish broadcasts the new state and, the first time a game finishes,
// announces and records the result.
func (s *Session) publish(t turn) {
	if !t.result.Advanced {
		return
	}

	for _, c := range t.result.Catches {
		slog.Info("human caught", "room", s.Code, "turn", t.result.Turn, "human", c.HumanID, "zombie", c.ZombieID)
	}
	s.broadcastState(t.snap)

	if t.finished {
		msg, _ := ws.NewMessage(ws.TypeGameOver, gameOverMessage{Outcome: t.result.Outcome, Turn: t.result.Turn})
		s.Broadcast(msg)
		slog.Info("game ended", "room", s.Code, "outcome", t.result.Outcome.String(), "turn", t.result.Turn)
		s.record(t.snap)
	}
}

func (s *Session) record(snap game.Snapshot) {
	if s.results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	err := s.results.SaveResult(ctx, store.MatchResult{
		SessionID:     s.ID,
		Code:          s.Code,
		Outcome:       snap.Outcome.String(),
		Turns:         snap.Turn,
		Width:         s.settings.Width,
		Height:        s.settings.Height,
		ObstacleCount: s.settings.ObstacleCount,
		ZombieCount:   s.settings.ZombieCount,
		ZombiesAtEnd:  len(snap.Zombies),
		FinishedAt:    time.Now().UTC(),
	})
	if err != nil {
		slog.Error("failed to record match result", "room", s.Code, "error", err)
	}
}

func (s *Session) broadcastState(snap game.Snapshot) {
	msg, err := ws.NewMessage(ws.TypeGameState, snap)
	if err != nil {
		slog.Error("failed to encode game state", "room", s.Code, "error", err)
		return
	}
	s.Broadcast(msg)
}

// Broadcast sends a message to every attached viewer.
func (s *Session) Broadcast(msg ws.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, client := range s.clients {
		client.SendMessage(msg)
	}
}
