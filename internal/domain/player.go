package domain

import "time"

// Player represents a participant in a room
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Role     RoleKey   `json:"role,omitempty"` // empty until game start, never reassigned
	Alive    bool      `json:"alive"`
	IsHost   bool      `json:"isHost"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player with the given ID and display name
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Alive:    true,
		JoinedAt: time.Now(),
	}
}

// RoleDef returns the player's role definition
func (p *Player) RoleDef() Role {
	return Roles[p.Role]
}

// IsMafiaAligned reports whether the player's role belongs to the mafia group
func (p *Player) IsMafiaAligned() bool {
	return p.RoleDef().Group == GroupMafia
}

// PlayerInfo is a safe view of player data (never includes the role)
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
	Alive  bool   `json:"alive"`
}

// ToInfo converts a Player to PlayerInfo
func (p *Player) ToInfo() PlayerInfo {
	return PlayerInfo{
		ID:     p.ID,
		Name:   p.Name,
		IsHost: p.IsHost,
		Alive:  p.Alive,
	}
}
