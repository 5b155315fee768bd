package handler

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ugaemi/zombie-escape-server/internal/game"
	"github.com/ugaemi/zombie-escape-server/internal/room"
	"github.com/ugaemi/zombie-escape-server/internal/ws"
)

// GameplayHandler handles in-game messages.
type GameplayHandler struct {
	rm     *room.Manager
	router *Router
}

// NewGameplayHandler creates a new gameplay handler.
func NewGameplayHandler(rm *room.Manager, router *Router) *GameplayHandler {
	return &GameplayHandler{rm: rm, router: router}
}

type commandRequest struct {
	Command game.Command `json:"command"`
}

// HandleCommand queues the humans' order for the session's next frame.
func (h *GameplayHandler) HandleCommand(client *ws.Client, msg ws.Message) {
	var req commandRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid command"))
		return
	}

	s := h.currentSession(client)
	if s == nil {
		return
	}

	if err := s.SetCommand(req.Command); err != nil {
		if errors.Is(err, room.ErrGameOver) {
			client.SendMessage(ws.NewErrorMessage("game is over, start a new game"))
			return
		}
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}
	slog.Debug("command queued", "client", client.ID, "room", s.Code, "command", req.Command.String())
}

// HandleNewGame regenerates the session's map and agents.
func (h *GameplayHandler) HandleNewGame(client *ws.Client, _ ws.Message) {
	s := h.currentSession(client)
	if s == nil {
		return
	}
	if err := s.NewGame(); err != nil {
		slog.Error("new game failed", "room", s.Code, "error", err)
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	}
}

func (h *GameplayHandler) currentSession(client *ws.Client) *room.Session {
	code := h.router.SessionCode(client.ID)
	if code == "" {
		client.SendMessage(ws.NewErrorMessage("not in a game"))
		return nil
	}
	s, err := h.rm.GetSession(code)
	if err != nil {
		h.router.UnbindSession(client.ID)
		client.SendMessage(ws.NewErrorMessage("game not found"))
		return nil
	}
	return s
}
