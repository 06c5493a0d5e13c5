package domain

import (
	"strings"
	"time"
)

const (
	// MinPlayers is the smallest roster the role tables support
	MinPlayers = 6
	// MaxPlayers is the largest roster the role tables support
	MaxPlayers = 10
)

// Settings holds the host-adjustable timers for a room
type Settings struct {
	DiscussionMinutes int `json:"discussionMinutes"`
	NightSeconds      int `json:"nightSeconds"`
	VoteSeconds       int `json:"voteSeconds"`
}

// DefaultSettings returns the default room settings
func DefaultSettings() Settings {
	return Settings{
		DiscussionMinutes: 3,
		NightSeconds:      30,
		VoteSeconds:       30,
	}
}

// Room represents one isolated game session
type Room struct {
	Code     string    `json:"code"`
	Players  []*Player `json:"players"` // join order
	Phase    Phase     `json:"phase"`
	Round    int       `json:"round"`
	Settings Settings  `json:"settings"`

	Night        *NightActionSet `json:"-"`
	Votes        *VoteSet        `json:"-"`
	GhostGuesses GhostGuessSet   `json:"-"`

	nightActed map[RoleKey]bool
	ready      map[string]bool

	RolesAssigned bool      `json:"rolesAssigned"`
	CreatedAt     time.Time `json:"createdAt"`
	EndedAt       time.Time `json:"endedAt,omitempty"`
}

// NewRoom creates an empty room with the given code
func NewRoom(code string) *Room {
	return &Room{
		Code:         code,
		Players:      make([]*Player, 0, MaxPlayers),
		Phase:        PhaseLobby,
		Round:        1,
		Settings:     DefaultSettings(),
		Night:        NewNightActionSet(),
		Votes:        NewVoteSet(),
		GhostGuesses: make(GhostGuessSet),
		nightActed:   make(map[RoleKey]bool),
		ready:        make(map[string]bool),
		CreatedAt:    time.Now(),
	}
}

// AddPlayer adds a player to the room. The first player becomes the host.
func (r *Room) AddPlayer(playerID, name string) (*Player, error) {
	if r.Phase != PhaseLobby || r.RolesAssigned {
		return nil, ErrGameAlreadyStarted
	}
	if len(r.Players) >= MaxPlayers {
		return nil, ErrRoomFull
	}

	name = strings.TrimSpace(name)
	for _, p := range r.Players {
		if strings.EqualFold(p.Name, name) {
			return nil, ErrNameTaken
		}
	}

	player := NewPlayer(playerID, name)
	if len(r.Players) == 0 {
		player.IsHost = true
	}
	r.Players = append(r.Players, player)

	return player, nil
}

// RemovePlayer drops a player from the lobby roster. If the host left, host
// status transfers to the first remaining player in join order. Returns the
// new host, or nil when the host did not change.
func (r *Room) RemovePlayer(playerID string) (*Player, error) {
	idx := -1
	for i, p := range r.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrPlayerNotFound
	}

	wasHost := r.Players[idx].IsHost
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	delete(r.ready, playerID)

	if wasHost && len(r.Players) > 0 {
		r.Players[0].IsHost = true
		return r.Players[0], nil
	}
	return nil, nil
}

// GetPlayer returns a player by ID
func (r *Room) GetPlayer(playerID string) (*Player, error) {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// Host returns the current host, or nil if the room is empty
func (r *Room) Host() *Player {
	for _, p := range r.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// IsHost checks if the given player is the host
func (r *Room) IsHost(playerID string) bool {
	p, err := r.GetPlayer(playerID)
	return err == nil && p.IsHost
}

// AlivePlayers returns the living players in join order
func (r *Room) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	return alive
}

// AliveCount returns the number of living players
func (r *Room) AliveCount() int {
	return len(r.AlivePlayers())
}

// PlayersByRole returns holders of the given role, split by alive status
func (r *Room) PlayersByRole(role RoleKey) (alive, dead []*Player) {
	for _, p := range r.Players {
		if p.Role != role {
			continue
		}
		if p.Alive {
			alive = append(alive, p)
		} else {
			dead = append(dead, p)
		}
	}
	return alive, dead
}

// MafiaGroup returns mafia-aligned players, split by alive status
func (r *Room) MafiaGroup() (alive, dead []*Player) {
	for _, p := range r.Players {
		if !p.IsMafiaAligned() {
			continue
		}
		if p.Alive {
			alive = append(alive, p)
		} else {
			dead = append(dead, p)
		}
	}
	return alive, dead
}

// SetDiscussionMinutes clamps and applies the discussion duration (host action)
func (r *Room) SetDiscussionMinutes(minutes int) int {
	r.Settings.DiscussionMinutes = clamp(minutes, 1, 5)
	return r.Settings.DiscussionMinutes
}

// SetNightSeconds clamps to [10,120] rounded to the nearest 10 (host action)
func (r *Room) SetNightSeconds(seconds int) int {
	r.Settings.NightSeconds = clamp(roundToTen(seconds), 10, 120)
	return r.Settings.NightSeconds
}

// SetVoteSeconds clamps to [10,60] rounded to the nearest 10 (host action)
func (r *Room) SetVoteSeconds(seconds int) int {
	r.Settings.VoteSeconds = clamp(roundToTen(seconds), 10, 60)
	return r.Settings.VoteSeconds
}

// CanStart checks if the game can be started
func (r *Room) CanStart() bool {
	return r.Phase == PhaseLobby && !r.RolesAssigned &&
		len(r.Players) >= MinPlayers && len(r.Players) <= MaxPlayers
}

// DealRoles assigns a shuffled role multiset 1:1 with the roster in join
// order and opens the role-ready gate. Roles are never reassigned afterwards.
func (r *Room) DealRoles() error {
	if !r.CanStart() {
		if len(r.Players) < MinPlayers {
			return ErrNotEnoughPlayers
		}
		return ErrInvalidPhase
	}

	roles, err := AssignRoles(len(r.Players))
	if err != nil {
		return err
	}

	for i, p := range r.Players {
		p.Role = roles[i]
	}
	r.RolesAssigned = true
	r.ready = make(map[string]bool)

	return nil
}

// MarkReady records a role-seen acknowledgement during the post-assignment gate
func (r *Room) MarkReady(playerID string) error {
	if r.Phase != PhaseLobby || !r.RolesAssigned {
		return ErrInvalidPhase
	}
	if _, err := r.GetPlayer(playerID); err != nil {
		return err
	}
	r.ready[playerID] = true
	return nil
}

// ReadyProgress returns the names of players who have and have not acknowledged
func (r *Room) ReadyProgress() (ready, waiting []string) {
	for _, p := range r.Players {
		if r.ready[p.ID] {
			ready = append(ready, p.Name)
		} else {
			waiting = append(waiting, p.Name)
		}
	}
	return ready, waiting
}

// AllReady reports whether every player has acknowledged their role
func (r *Room) AllReady() bool {
	for _, p := range r.Players {
		if !r.ready[p.ID] {
			return false
		}
	}
	return len(r.Players) > 0
}

// BeginNight enters the night phase, resetting the per-night state.
// The round counter increments on every night after the first.
func (r *Room) BeginNight() {
	if r.Phase != PhaseLobby {
		r.Round++
	}
	r.Phase = PhaseNight
	r.Night = NewNightActionSet()
	r.GhostGuesses = make(GhostGuessSet)
	r.nightActed = make(map[RoleKey]bool)
}

// BeginDay enters the discussion phase
func (r *Room) BeginDay() {
	r.Phase = PhaseDayDiscuss
	r.Votes = NewVoteSet()
}

// BeginVoting enters the voting phase
func (r *Room) BeginVoting() {
	r.Phase = PhaseVoting
	r.Votes = NewVoteSet()
}

// End marks the game over
func (r *Room) End() {
	r.Phase = PhaseEnded
	r.EndedAt = time.Now()
}

// RoleReveal returns the full end-of-game role reveal
func (r *Room) RoleReveal() []RoleRevealEntry {
	reveal := make([]RoleRevealEntry, 0, len(r.Players))
	for _, p := range r.Players {
		def := p.RoleDef()
		reveal = append(reveal, RoleRevealEntry{
			Name:  p.Name,
			Role:  def.Name,
			Group: def.Group,
			Alive: p.Alive,
		})
	}
	return reveal
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundToTen(v int) int {
	return ((v + 5) / 10) * 10
}
