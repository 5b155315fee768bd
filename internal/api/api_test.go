package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/zombie-escape-server/internal/game"
	"github.com/ugaemi/zombie-escape-server/internal/room"
	"github.com/ugaemi/zombie-escape-server/internal/store"
)

var testSettings = game.Settings{Width: 8, Height: 8, ObstacleCount: 4, ZombieCount: 1}

func setupServer(t *testing.T) (*httptest.Server, *room.Manager) {
	t.Helper()
	results := store.NewMemoryStore()
	rm := room.NewManager(results, 0)
	srv := httptest.NewServer(NewServer(rm, results, testSettings).Routes(nil))
	t.Cleanup(srv.Close)
	return srv, rm
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createGame(t *testing.T, srv *httptest.Server, body string) gameResponse {
	t.Helper()
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/games", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[gameResponse](t, resp)
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, resp))
}

func TestCreateGame(t *testing.T) {
	srv, rm := setupServer(t)

	tests := []struct {
		name   string
		body   string
		width  int
		height int
	}{
		{"defaults", "", 8, 8},
		{"override", `{"width":6,"height":7,"obstacle_count":0}`, 6, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := createGame(t, srv, tt.body)
			assert.Len(t, created.Code, 4)
			assert.NotEmpty(t, created.SessionID)
			assert.Equal(t, tt.width, created.State.Grid.Width)
			assert.Equal(t, tt.height, created.State.Grid.Height)
			assert.Equal(t, 0, created.State.Turn)
			assert.Len(t, created.State.Humans, 1)
		})
	}
	assert.Equal(t, 2, rm.SessionCount())
}

func TestCreateGame_BadRequest(t *testing.T) {
	srv, rm := setupServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"width":`},
		{"invalid settings", `{"width":0}`},
		{"too many obstacles", `{"width":3,"height":3,"obstacle_count":8}`},
		{"grid too large", `{"width":1099511627776,"height":1048576}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, srv.URL+"/api/games", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, decode[map[string]string](t, resp)["error"])
		})
	}
	assert.Equal(t, 0, rm.SessionCount())
}

func TestGetGame(t *testing.T) {
	srv, _ := setupServer(t)
	created := createGame(t, srv, "")

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/games/"+created.Code, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[gameResponse](t, resp)
	assert.Equal(t, created.SessionID, got.SessionID)
	assert.Equal(t, 0, got.Viewers)
	assert.Equal(t, created.State.Grid, got.State.Grid)

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/games/NOPE", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlayTurn(t *testing.T) {
	srv, _ := setupServer(t)
	created := createGame(t, srv, "")
	url := srv.URL + "/api/games/" + created.Code + "/turns"

	resp := doRequest(t, http.MethodPost, url, `{"command":"wait"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	turn := decode[turnResponse](t, resp)
	assert.True(t, turn.Result.Advanced)
	assert.Equal(t, 1, turn.Result.Turn)
	assert.Equal(t, 1, turn.State.Turn)

	resp = doRequest(t, http.MethodPost, url, `{"command":"none"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[turnResponse](t, resp).Result.Advanced)

	resp = doRequest(t, http.MethodPost, url, `{"command":"jump"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlayTurn_FinishedGameIsRecorded(t *testing.T) {
	srv, _ := setupServer(t)
	// Without obstacles a lone zombie always reaches a human that waits.
	created := createGame(t, srv, `{"width":6,"height":6,"obstacle_count":0,"zombie_count":1}`)
	url := srv.URL + "/api/games/" + created.Code + "/turns"

	var last turnResponse
	for i := 0; i < 12 && !last.Result.Outcome.Terminal(); i++ {
		resp := doRequest(t, http.MethodPost, url, `{"command":"wait"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		last = decode[turnResponse](t, resp)
	}
	require.Equal(t, game.OutcomeHumansCaught, last.Result.Outcome)

	resp := doRequest(t, http.MethodPost, url, `{"command":"wait"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/results?limit=5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := decode[[]store.MatchResult](t, resp)
	require.Len(t, results, 1)
	assert.Equal(t, created.Code, results[0].Code)
	assert.Equal(t, "humans_caught", results[0].Outcome)
	assert.Equal(t, last.Result.Turn, results[0].Turns)

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/games/"+created.Code+"/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reset := decode[gameResponse](t, resp)
	assert.Equal(t, 0, reset.State.Turn)
	assert.Equal(t, game.OutcomeInProgress, reset.State.Outcome)
}

func TestListResults_BadLimit(t *testing.T) {
	srv, _ := setupServer(t)

	for _, limit := range []string{"abc", "0", "-3", "1000"} {
		resp := doRequest(t, http.MethodGet, srv.URL+"/api/results?limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "limit=%s", limit)
	}

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/results", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]store.MatchResult](t, resp))
}

func TestDeleteGame(t *testing.T) {
	srv, rm := setupServer(t)
	created := createGame(t, srv, "")

	resp := doRequest(t, http.MethodDelete, srv.URL+"/api/games/"+created.Code, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, rm.SessionCount())

	resp = doRequest(t, http.MethodDelete, srv.URL+"/api/games/"+created.Code, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
