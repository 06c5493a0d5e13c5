package domain

import "time"

// EventType represents the type of game event
type EventType string

const (
	EventRoomCreated        EventType = "game-created"
	EventRoomJoined         EventType = "game-joined"
	EventLobbyUpdate        EventType = "lobby-update"
	EventHostChanged        EventType = "host-changed"
	EventConfigUpdated      EventType = "config-updated"
	EventRoleAssigned       EventType = "role-assigned"
	EventMafiaReveal        EventType = "mafia-reveal"
	EventRoleReadyUpdate    EventType = "role-ready-update"
	EventGameStarted        EventType = "game-started"
	EventNightPhaseStart    EventType = "night-phase-start"
	EventNightTurn          EventType = "night-turn"
	EventYourNightTurn      EventType = "your-night-turn"
	EventGhostNightTurn     EventType = "ghost-night-turn"
	EventGhostPassiveTurn   EventType = "ghost-passive-turn"
	EventGhostGuessAck      EventType = "ghost-guess-ack"
	EventNightTurnDone      EventType = "night-turn-done"
	EventNightTurnSkipped   EventType = "night-turn-skipped"
	EventInvestigationInfo  EventType = "investigation-result"
	EventMafiaVoteUpdate    EventType = "mafia-vote-update"
	EventNightResolved      EventType = "night-resolved"
	EventDayPhaseStart      EventType = "day-phase-start"
	EventVotingStart        EventType = "voting-start"
	EventVoteUpdate         EventType = "vote-update"
	EventVoteResolved       EventType = "vote-resolved"
	EventMafiaChatMessage   EventType = "mafia-chat-message"
	EventPlayerDisconnected EventType = "player-disconnected"
	EventGameOver           EventType = "game-over"
	EventError              EventType = "error"
)

// Audience selects who receives an event
type Audience int

const (
	// AudienceRoom broadcasts to every room member
	AudienceRoom Audience = iota
	// AudiencePlayer delivers privately to one member
	AudiencePlayer
	// AudienceMafia delivers to living mafia-group members only
	AudienceMafia
)

// GameEvent represents an event emitted by a room
type GameEvent struct {
	Type      EventType   `json:"type"`
	RoomCode  string      `json:"roomCode"`
	Audience  Audience    `json:"-"`
	PlayerID  string      `json:"-"` // set when Audience is AudiencePlayer
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a room-wide broadcast event
func NewEvent(eventType EventType, roomCode string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		Audience:  AudienceRoom,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates an event delivered privately to one member
func NewPlayerEvent(eventType EventType, roomCode, playerID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		Audience:  AudiencePlayer,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewMafiaEvent creates an event for the mafia-only channel
func NewMafiaEvent(eventType EventType, roomCode string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		Audience:  AudienceMafia,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// LobbyUpdatePayload is sent when the lobby roster changes
type LobbyUpdatePayload struct {
	Players  []PlayerInfo `json:"players"`
	HostName string       `json:"hostName"`
	CanStart bool         `json:"canStart"`
}

// HostChangedPayload is sent when host status transfers
type HostChangedPayload struct {
	NewHost string `json:"newHost"`
}

// ConfigUpdatedPayload is sent after a host config change, with clamped values
type ConfigUpdatedPayload struct {
	Settings Settings `json:"settings"`
}

// RoleAssignedPayload is sent privately to each player with their role
type RoleAssignedPayload struct {
	Role        string  `json:"role"`
	RoleKey     RoleKey `json:"roleKey"`
	Group       Group   `json:"group"`
	Description string  `json:"description"`
}

// MafiaRevealPayload is sent on the mafia channel after role assignment
type MafiaRevealPayload struct {
	MafiaNames []string `json:"mafiaNames"`
}

// RoleReadyPayload is broadcast as players acknowledge their roles
type RoleReadyPayload struct {
	ReadyPlayers   []string `json:"readyPlayers"`
	WaitingPlayers []string `json:"waitingPlayers"`
	TotalReady     int      `json:"totalReady"`
	Total          int      `json:"total"`
}

// GameStartedPayload is the public roster broadcast at game start
type GameStartedPayload struct {
	PlayerCount int          `json:"playerCount"`
	Players     []PlayerInfo `json:"players"`
}

// NightPhaseStartPayload announces a new night
type NightPhaseStartPayload struct {
	Round int `json:"round"`
}

// NightTurnPayload names the acting role and its occupants. Observers cannot
// tell a ghost turn from a live one from this message alone.
type NightTurnPayload struct {
	Role       RoleKey  `json:"role"`
	ActorNames []string `json:"actorNames"`
	TimeLeft   int      `json:"timeLeft"`
}

// YourNightTurnPayload is the private action prompt for a live slot occupant
type YourNightTurnPayload struct {
	Role     RoleKey      `json:"role"`
	Targets  []TargetInfo `json:"targets"`
	TimeLeft int          `json:"timeLeft"`
}

// GhostTurnPayload prompts a dead player to predict tonight's elimination
type GhostTurnPayload struct {
	AlivePlayers []PlayerInfo `json:"alivePlayers"`
	TimeLeft     int          `json:"timeLeft,omitempty"` // zero for passive prompts
}

// TurnClosedPayload is sent when a slot completes or is skipped
type TurnClosedPayload struct {
	Role RoleKey `json:"role"`
}

// InvestigationResultPayload is sent privately to the investigator
type InvestigationResultPayload struct {
	TargetName string `json:"targetName"`
	Group      Group  `json:"group"`
	Role       string `json:"role"`
}

// MafiaVoteUpdatePayload tracks the kill sub-votes on the mafia channel
type MafiaVoteUpdatePayload struct {
	Votes         map[string]string `json:"votes"`
	CurrentTarget string            `json:"currentTarget"`
	AllVoted      bool              `json:"allVoted"`
}

// NightResolvedPayload carries the outcome of night resolution
type NightResolvedPayload struct {
	Eliminated      []string      `json:"eliminated"`
	Events          []PublicEvent `json:"events"`
	CorrectGuessers []string      `json:"correctGuessers"`
}

// DayPhaseStartPayload opens the discussion window
type DayPhaseStartPayload struct {
	Players           []PlayerInfo `json:"players"`
	DiscussionSeconds int          `json:"discussionSeconds"`
}

// VotingStartPayload opens the voting window
type VotingStartPayload struct {
	Players  []PlayerInfo `json:"players"`
	TimeLeft int          `json:"timeLeft"`
}

// VoteUpdatePayload is sent per ballot (without revealing who voted for whom)
type VoteUpdatePayload struct {
	VotedCount int `json:"votedCount"`
	TotalCount int `json:"totalCount"`
}

// VoteResolvedPayload carries the day's tally outcome
type VoteResolvedPayload struct {
	Eliminated string         `json:"eliminated"`
	Tie        bool           `json:"tie"`
	Votes      map[string]int `json:"votes"`
	JesterWin  bool           `json:"jesterWin"`
}

// MafiaChatPayload is one message on the mafia-only channel
type MafiaChatPayload struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// PlayerDisconnectedPayload is broadcast on a mid-game disconnect
type PlayerDisconnectedPayload struct {
	Name string `json:"name"`
}

// RoleRevealEntry is one row of the end-of-game role reveal
type RoleRevealEntry struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Group Group  `json:"group"`
	Alive bool   `json:"alive"`
}

// GameOverPayload announces the winner with the full role reveal
type GameOverPayload struct {
	Winner     string            `json:"winner"`
	Reason     string            `json:"reason"`
	RoleReveal []RoleRevealEntry `json:"roleReveal"`
}
