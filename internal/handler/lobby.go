package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/zombie-escape-server/internal/game"
	"github.com/ugaemi/zombie-escape-server/internal/room"
	"github.com/ugaemi/zombie-escape-server/internal/ws"
)

// LobbyHandler creates, joins and leaves sessions.
type LobbyHandler struct {
	rm       *room.Manager
	router   *Router
	defaults game.Settings
}

// NewLobbyHandler creates a new lobby handler.
func NewLobbyHandler(rm *room.Manager, router *Router, defaults game.Settings) *LobbyHandler {
	return &LobbyHandler{
		rm:       rm,
		router:   router,
		defaults: defaults,
	}
}

type sessionResponse struct {
	Code      string `json:"code"`
	SessionID string `json:"session_id"`
}

// HandleCreateGame starts a new session. The payload may override any of the
// default settings.
func (h *LobbyHandler) HandleCreateGame(client *ws.Client, msg ws.Message) {
	settings := h.defaults
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &settings); err != nil {
			client.SendMessage(ws.NewErrorMessage("invalid game settings"))
			return
		}
	}

	s, err := h.rm.CreateSession(settings)
	if err != nil {
		slog.Warn("create session failed", "client", client.ID, "error", err)
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	h.leaveCurrent(client)
	h.attach(client, s, ws.TypeGameCreated)
	slog.Info("client created session", "client", client.ID, "room", s.Code)
}

type joinGameRequest struct {
	Code string `json:"code"`
}

// HandleJoinGame attaches the client to an existing session as a viewer.
func (h *LobbyHandler) HandleJoinGame(client *ws.Client, msg ws.Message) {
	var req joinGameRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Code == "" {
		client.SendMessage(ws.NewErrorMessage("code is required"))
		return
	}

	s, err := h.rm.GetSession(req.Code)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage("game not found"))
		return
	}
	if s.HasClient(client.ID) {
		client.SendMessage(ws.NewErrorMessage("already in this game"))
		return
	}

	h.leaveCurrent(client)
	h.attach(client, s, ws.TypeGameJoined)
	slog.Info("client joined session", "client", client.ID, "room", s.Code)
}

// HandleLeaveGame detaches the client from its session.
func (h *LobbyHandler) HandleLeaveGame(client *ws.Client, _ ws.Message) {
	if h.router.SessionCode(client.ID) == "" {
		client.SendMessage(ws.NewErrorMessage("not in a game"))
		return
	}
	h.leaveCurrent(client)
}

// HandleDisconnect cleans up when a client disconnects.
func (h *LobbyHandler) HandleDisconnect(client *ws.Client) {
	h.leaveCurrent(client)
}

// attach confirms the session to the client, then sends it the current state.
func (h *LobbyHandler) attach(client *ws.Client, s *room.Session, confirmType string) {
	h.router.BindSession(client.ID, s.Code)
	resp, _ := ws.NewMessage(confirmType, sessionResponse{
		Code:      s.Code,
		SessionID: s.ID,
	})
	client.SendMessage(resp)
	s.AddClient(client)
}

// leaveCurrent detaches the client from its session, removing the session once
// its last viewer is gone.
func (h *LobbyHandler) leaveCurrent(client *ws.Client) {
	code := h.router.SessionCode(client.ID)
	if code == "" {
		return
	}
	h.router.UnbindSession(client.ID)

	s, err := h.rm.GetSession(code)
	if err != nil {
		return
	}
	if s.RemoveClient(client.ID) == 0 {
		h.rm.RemoveSession(code)
	}
	slog.Info("client left session", "client", client.ID, "room", code)
}
