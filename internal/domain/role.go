package domain

import "math/rand"

// Group represents a role's win-condition alignment
type Group string

const (
	GroupMafia    Group = "mafia"
	GroupCivilian Group = "civilian"
	GroupNeutral  Group = "neutral"
)

// TurnShape describes how a role participates in the night sequence
type TurnShape int

const (
	// TurnGroupVote is the collective mafia kill vote (Mafia and Traitor act as one slot)
	TurnGroupVote TurnShape = iota
	// TurnSingleActor is a role with its own night action and its own slot
	TurnSingleActor
	// TurnPassive is a role with no night ability (dead holders may still ghost-guess)
	TurnPassive
)

// RoleKey identifies a role definition
type RoleKey string

const (
	RoleMafia     RoleKey = "MAFIA"
	RoleTraitor   RoleKey = "TRAITOR"
	RoleDoctor    RoleKey = "DOCTOR"
	RolePolice    RoleKey = "POLICE"
	RoleVigilante RoleKey = "VIGILANTE"
	RoleJester    RoleKey = "JESTER"
	RoleJoker     RoleKey = "JOKER"
	RoleCivilian  RoleKey = "CIVILIAN"
)

// MafiaGroupSlot is the virtual slot under which Mafia and Traitor act jointly.
// No player ever holds it as a role.
const MafiaGroupSlot RoleKey = "MAFIA_GROUP"

// Role is an immutable role definition
type Role struct {
	Key         RoleKey `json:"key"`
	Name        string  `json:"name"`
	Group       Group   `json:"group"`
	Special     bool    `json:"special"`
	Shape       TurnShape
	Description string `json:"description"`
}

// Roles holds every role definition, keyed by RoleKey
var Roles = map[RoleKey]Role{
	RoleMafia: {
		Key: RoleMafia, Name: "Mafia", Group: GroupMafia, Shape: TurnGroupVote,
		Description: "You are Mafia. Each night, vote with your team to eliminate a civilian.",
	},
	RoleTraitor: {
		Key: RoleTraitor, Name: "Traitor", Group: GroupMafia, Special: true, Shape: TurnGroupVote,
		Description: "You are a Traitor. You work with the Mafia but appear as Civilian to investigators.",
	},
	RoleDoctor: {
		Key: RoleDoctor, Name: "Doctor", Group: GroupCivilian, Shape: TurnSingleActor,
		Description: "You are the Doctor. Each night, choose one player to protect from elimination.",
	},
	RolePolice: {
		Key: RolePolice, Name: "Police", Group: GroupCivilian, Shape: TurnSingleActor,
		Description: "You are the Police. Each night, investigate one player to learn their identity.",
	},
	RoleVigilante: {
		Key: RoleVigilante, Name: "Vigilante", Group: GroupCivilian, Special: true, Shape: TurnSingleActor,
		Description: "You are the Vigilante. Each night, you may kill one player. If your target is Civilian, you die instead.",
	},
	RoleJester: {
		Key: RoleJester, Name: "Jester", Group: GroupNeutral, Special: true, Shape: TurnPassive,
		Description: "You are the Jester. Get voted out during the day to win! (You have no night ability)",
	},
	RoleJoker: {
		Key: RoleJoker, Name: "Joker", Group: GroupNeutral, Shape: TurnSingleActor,
		Description: "You are the Joker. Each night you may kill, protect, or investigate one player.",
	},
	RoleCivilian: {
		Key: RoleCivilian, Name: "Civilian", Group: GroupCivilian, Shape: TurnPassive,
		Description: "You are a Civilian. Survive the night and help identify the Mafia during the day.",
	},
}

// NightOrder is the fixed role-priority order for the night sequence.
// Mafia and Traitor collapse into the single MafiaGroupSlot when reached.
var NightOrder = []RoleKey{
	RoleMafia, RoleTraitor, RoleDoctor, RolePolice,
	RoleVigilante, RoleJoker, RoleJester, RoleCivilian,
}

// HasNightAction reports whether the role actually does something at night
func (r RoleKey) HasNightAction() bool {
	def, ok := Roles[r]
	return ok && def.Shape != TurnPassive
}

// roleTables maps player count to the role multiset dealt at game start
var roleTables = map[int][]RoleKey{
	6:  {RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker},
	7:  {RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleCivilian, RoleJoker},
	8:  {RoleMafia, RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleCivilian, RoleJoker},
	9:  {RoleMafia, RoleMafia, RoleTraitor, RoleDoctor, RolePolice, RoleCivilian, RoleCivilian, RoleCivilian, RoleJoker},
	10: {RoleMafia, RoleMafia, RoleTraitor, RoleDoctor, RolePolice, RoleVigilante, RoleCivilian, RoleCivilian, RoleJoker, RoleJester},
}

// AssignRoles returns a shuffled role sequence for the given player count.
// The multiset is fixed per count; only the permutation is random. Counts
// outside 6-10 are a programmer error (the start gate enforces the range).
func AssignRoles(playerCount int) ([]RoleKey, error) {
	table, ok := roleTables[playerCount]
	if !ok {
		return nil, ErrInvalidPlayerCount
	}

	roles := make([]RoleKey, len(table))
	copy(roles, table)
	rand.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	return roles, nil
}
