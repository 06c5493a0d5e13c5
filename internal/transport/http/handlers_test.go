package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramg4ai/Mafia-Game/internal/app"
	"github.com/ramg4ai/Mafia-Game/internal/config"
)

func newTestServer(t *testing.T) (*Server, *app.RoomHub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := app.NewRoomHub(app.DefaultHubConfig(), logger)
	t.Cleanup(hub.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080", Host: "127.0.0.1", Env: "production"},
	}
	return NewServer(cfg, hub, logger), hub
}

func doRequest(s *Server, method, path string) (*httptest.ResponseRecorder, *Response) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.server.Handler.ServeHTTP(w, req)

	var resp Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, &resp
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	w, resp := doRequest(s, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestGetRoom(t *testing.T) {
	s, hub := newTestServer(t)

	session, _, err := hub.CreateRoom("host-1", "Alice")
	require.NoError(t, err)

	w, resp := doRequest(s, http.MethodGet, "/api/rooms/"+session.RoomCode())
	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, session.RoomCode(), data["roomCode"])
	assert.Equal(t, float64(1), data["playerCount"])
	assert.Equal(t, "lobby", data["phase"])
	assert.Equal(t, true, data["canJoin"])
}

func TestGetRoomLowercaseCode(t *testing.T) {
	s, hub := newTestServer(t)

	session, _, err := hub.CreateRoom("host-1", "Alice")
	require.NoError(t, err)

	// Codes are matched case-insensitively
	w, resp := doRequest(s, http.MethodGet, "/api/rooms/"+strings.ToLower(session.RoomCode()))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestGetRoomNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	w, resp := doRequest(s, http.MethodGet, "/api/rooms/ZZZZZ")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, resp.Success)
	assert.Equal(t, "ROOM_NOT_FOUND", resp.Error.Code)
}

func TestRoomExists(t *testing.T) {
	s, hub := newTestServer(t)

	session, _, err := hub.CreateRoom("host-1", "Alice")
	require.NoError(t, err)

	_, resp := doRequest(s, http.MethodGet, "/api/rooms/"+session.RoomCode()+"/exists")
	require.True(t, resp.Success)
	assert.Equal(t, true, resp.Data.(map[string]interface{})["exists"])

	_, resp = doRequest(s, http.MethodGet, "/api/rooms/ZZZZZ/exists")
	require.True(t, resp.Success)
	assert.Equal(t, false, resp.Data.(map[string]interface{})["exists"])
}

func TestStats(t *testing.T) {
	s, hub := newTestServer(t)

	_, _, err := hub.CreateRoom("host-1", "Alice")
	require.NoError(t, err)

	_, resp := doRequest(s, http.MethodGet, "/api/stats")
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["activeRooms"])
	assert.Equal(t, float64(1), data["totalPlayers"])
}
