package app

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramg4ai/Mafia-Game/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHub(t *testing.T) *RoomHub {
	t.Helper()
	hub := NewRoomHub(DefaultHubConfig(), testLogger())
	t.Cleanup(hub.Close)
	return hub
}

func TestCreateRoom(t *testing.T) {
	hub := newTestHub(t)

	session, host, err := hub.CreateRoom("host-1", "Alice")
	require.NoError(t, err)

	assert.Len(t, session.RoomCode(), DefaultRoomCodeLength)
	assert.Equal(t, "host-1", host.ID)
	assert.True(t, host.IsHost)
	assert.Equal(t, 1, session.PlayerCount())
	assert.Equal(t, domain.PhaseLobby, session.Phase())

	// Room codes only use the unambiguous alphabet
	for _, c := range session.RoomCode() {
		assert.Contains(t, RoomCodeChars, string(c))
	}
}

func TestGetSession(t *testing.T) {
	hub := newTestHub(t)

	session, _, err := hub.CreateRoom("host-1", "Alice")
	require.NoError(t, err)

	found, err := hub.GetSession(session.RoomCode())
	require.NoError(t, err)
	assert.Same(t, session, found)

	_, err = hub.GetSession("ZZZZZ")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestDeleteSession(t *testing.T) {
	hub := newTestHub(t)

	session, _, err := hub.CreateRoom("host-1", "Alice")
	require.NoError(t, err)
	code := session.RoomCode()

	hub.DeleteSession(code)
	_, err = hub.GetSession(code)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	// Deleting twice is a no-op
	hub.DeleteSession(code)
}

func TestHubCounts(t *testing.T) {
	hub := newTestHub(t)

	s1, _, err := hub.CreateRoom("host-1", "Alice")
	require.NoError(t, err)
	_, _, err = hub.CreateRoom("host-2", "Bob")
	require.NoError(t, err)

	_, err = s1.Join("p2", "Carol")
	require.NoError(t, err)

	assert.Equal(t, 2, hub.SessionCount())
	assert.Equal(t, 3, hub.TotalPlayerCount())
}

func TestRoomCodesAreUnique(t *testing.T) {
	hub := newTestHub(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, _, err := hub.CreateRoom("host", "Host")
		require.NoError(t, err)
		assert.False(t, seen[session.RoomCode()])
		seen[session.RoomCode()] = true
	}
}
