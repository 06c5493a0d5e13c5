package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ramg4ai/Mafia-Game/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 5

	// StaleRoomTimeout is how long before an inactive room is cleaned up
	StaleRoomTimeout = 2 * time.Hour

	// EndedRoomRetention keeps finished rooms around briefly so clients can
	// read the final reveal before the room is reaped
	EndedRoomRetention = 30 * time.Minute
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// HubConfig tunes room creation and cleanup
type HubConfig struct {
	RoomCodeLength     int
	StaleRoomTimeout   time.Duration
	EndedRoomRetention time.Duration
	DefaultSettings    domain.Settings
}

// DefaultHubConfig returns the hub defaults
func DefaultHubConfig() HubConfig {
	return HubConfig{
		RoomCodeLength:     DefaultRoomCodeLength,
		StaleRoomTimeout:   StaleRoomTimeout,
		EndedRoomRetention: EndedRoomRetention,
		DefaultSettings:    domain.DefaultSettings(),
	}
}

// RoomHub manages all active room sessions. Rooms are fully independent: the
// hub only guards the registry map, never a room's internals.
type RoomHub struct {
	sessions map[string]*RoomSession
	mu       sync.RWMutex
	config   HubConfig
	logger   *slog.Logger
	done     chan struct{}
}

// NewRoomHub creates a new room hub
func NewRoomHub(cfg HubConfig, logger *slog.Logger) *RoomHub {
	hub := &RoomHub{
		sessions: make(map[string]*RoomSession),
		config:   cfg,
		logger:   logger,
		done:     make(chan struct{}),
	}

	go hub.cleanupLoop()

	return hub
}

// CreateRoom creates a room with the given player as host and returns its
// session along with the host player
func (h *RoomHub) CreateRoom(hostID, hostName string) (*RoomSession, *domain.Player, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var roomCode string
	for attempts := 0; attempts < 10; attempts++ {
		roomCode = h.generateRoomCode()
		if _, exists := h.sessions[roomCode]; !exists {
			break
		}
	}
	if _, exists := h.sessions[roomCode]; exists {
		return nil, nil, fmt.Errorf("failed to generate unique room code")
	}

	room := domain.NewRoom(roomCode)
	room.Settings = h.config.DefaultSettings
	host, err := room.AddPlayer(hostID, hostName)
	if err != nil {
		return nil, nil, err
	}

	session := NewRoomSession(room, h.logger)
	h.sessions[roomCode] = session

	h.logger.Info("room created", "roomCode", roomCode, "host", hostName)

	return session, host, nil
}

// GetSession returns a room session by code
func (h *RoomHub) GetSession(roomCode string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return session, nil
}

// DeleteSession removes a room session
func (h *RoomHub) DeleteSession(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[roomCode]; ok {
		session.Close()
		delete(h.sessions, roomCode)
		h.logger.Info("room deleted", "roomCode", roomCode)
	}
}

// SessionCount returns the number of active rooms
func (h *RoomHub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// TotalPlayerCount returns the total number of players across all rooms
func (h *RoomHub) TotalPlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.PlayerCount()
	}
	return total
}

// Close shuts down the hub and all sessions
func (h *RoomHub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*RoomSession)
}

// generateRoomCode generates a random room code
func (h *RoomHub) generateRoomCode() string {
	b := make([]byte, h.config.RoomCodeLength)
	rand.Read(b)

	code := make([]byte, h.config.RoomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically reaps finished and abandoned rooms
func (h *RoomHub) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleRooms()
		}
	}
}

// cleanupStaleRooms removes ended rooms past their retention window and
// empty rooms that have been idle too long
func (h *RoomHub) cleanupStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	stale := make([]string, 0)

	for roomCode, session := range h.sessions {
		if ended, at := session.Ended(); ended && now.Sub(at) > h.config.EndedRoomRetention {
			stale = append(stale, roomCode)
			continue
		}
		if session.PlayerCount() == 0 && now.Sub(session.CreatedAt()) > h.config.StaleRoomTimeout {
			stale = append(stale, roomCode)
		}
	}

	for _, roomCode := range stale {
		if session, ok := h.sessions[roomCode]; ok {
			session.Close()
			delete(h.sessions, roomCode)
			h.logger.Info("stale room cleaned up", "roomCode", roomCode)
		}
	}
}
