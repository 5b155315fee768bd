package handler

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ugaemi/zombie-escape-server/internal/game"
	"github.com/ugaemi/zombie-escape-server/internal/room"
	"github.com/ugaemi/zombie-escape-server/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	lobby    *LobbyHandler
	gameplay *GameplayHandler

	// sessionMap tracks client ID -> session code, shared across handlers.
	sessionMap map[string]string
	mu         sync.RWMutex
}

// NewRouter creates a new message router. defaults fills any settings a
// create_game request leaves out.
func NewRouter(rm *room.Manager, defaults game.Settings) *Router {
	r := &Router{
		sessionMap: make(map[string]string),
	}
	r.lobby = NewLobbyHandler(rm, r, defaults)
	r.gameplay = NewGameplayHandler(rm, r)
	return r
}

// BindSession maps a client ID to a session code.
func (r *Router) BindSession(clientID, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionMap[clientID] = code
}

// UnbindSession removes a client's session mapping.
func (r *Router) UnbindSession(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessionMap, clientID)
}

// SessionCode returns the session code for a client, or empty string if not found.
func (r *Router) SessionCode(clientID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessionMap[clientID]
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	// Session control
	case ws.TypeCreateGame:
		r.lobby.HandleCreateGame(cm.Client, msg)
	case ws.TypeJoinGame:
		r.lobby.HandleJoinGame(cm.Client, msg)
	case ws.TypeLeaveGame:
		r.lobby.HandleLeaveGame(cm.Client, msg)

	// Gameplay
	case ws.TypeCommand:
		r.gameplay.HandleCommand(cm.Client, msg)
	case ws.TypeNewGame:
		r.gameplay.HandleNewGame(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.lobby.HandleDisconnect(client)
}
