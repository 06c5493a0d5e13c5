package domain

// JokerActionKind is the sub-action the Joker chose for the night
type JokerActionKind string

const (
	JokerKill        JokerActionKind = "kill"
	JokerProtect     JokerActionKind = "protect"
	JokerInvestigate JokerActionKind = "investigate"
)

// JokerAction pairs the Joker's chosen sub-action with its target
type JokerAction struct {
	Kind     JokerActionKind `json:"action"`
	TargetID string          `json:"targetId"`
}

// NightActionSet accumulates one night's role actions. Each entry is written
// at most once per night; absent entries resolve as "no action".
type NightActionSet struct {
	MafiaVotes        map[string]string `json:"mafiaVotes"` // voterID -> targetID
	MafiaKill         string            `json:"mafiaKill"`  // finalized target, "" = no kill
	DoctorSave        string            `json:"doctorSave"`
	PoliceInvestigate string            `json:"policeInvestigate"`
	Joker             *JokerAction      `json:"jokerAction,omitempty"`
	VigilanteKill     string            `json:"vigilanteKill"`
}

// NewNightActionSet returns an empty action set for a fresh night
func NewNightActionSet() *NightActionSet {
	return &NightActionSet{
		MafiaVotes: make(map[string]string),
	}
}

// ResolveMafiaVotes returns the kill target with a unique strict plurality,
// or "" on a tie or when nobody voted. Used both incrementally on every
// sub-vote and at slot finalize time.
func ResolveMafiaVotes(votes map[string]string) string {
	if len(votes) == 0 {
		return ""
	}

	tally := make(map[string]int)
	for _, target := range votes {
		tally[target]++
	}

	best, second := 0, 0
	leader := ""
	for target, count := range tally {
		switch {
		case count > best:
			second = best
			best = count
			leader = target
		case count > second:
			second = count
		}
	}

	if best > second {
		return leader
	}
	return "" // tie
}

// NightSlot is one role's turn during the night sequence
type NightSlot struct {
	Role    RoleKey   // role key, or MafiaGroupSlot for the joint mafia turn
	Players []*Player // occupants (all alive, or all dead on a ghost turn)
	Ghost   bool      // prediction-only turn by dead holders
}

// OccupantNames returns the occupants' display names
func (s *NightSlot) OccupantNames() []string {
	names := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		names = append(names, p.Name)
	}
	return names
}

// HasPlayer reports whether the given player occupies this slot
func (s *NightSlot) HasPlayer(playerID string) bool {
	for _, p := range s.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// NextNightSlot walks the fixed role-priority order and returns the next slot
// to open, marking it acted. Mafia and Traitor merge into one group slot
// processed once per night. A role with living holders gets a live turn; with
// only dead holders a ghost turn; with neither it never acts. Returns nil
// when all slots are exhausted.
func (r *Room) NextNightSlot() *NightSlot {
	for _, roleKey := range NightOrder {
		if r.nightActed[roleKey] {
			continue
		}
		if !roleKey.HasNightAction() {
			continue
		}

		if roleKey == RoleMafia || roleKey == RoleTraitor {
			if r.nightActed[MafiaGroupSlot] {
				continue
			}
			r.nightActed[MafiaGroupSlot] = true
			alive, dead := r.MafiaGroup()
			if len(alive) > 0 {
				return &NightSlot{Role: MafiaGroupSlot, Players: alive}
			}
			if len(dead) > 0 {
				return &NightSlot{Role: MafiaGroupSlot, Players: dead, Ghost: true}
			}
			continue
		}

		r.nightActed[roleKey] = true
		alive, dead := r.PlayersByRole(roleKey)
		if len(alive) > 0 {
			return &NightSlot{Role: roleKey, Players: alive}
		}
		if len(dead) > 0 {
			return &NightSlot{Role: roleKey, Players: dead, Ghost: true}
		}
	}
	return nil
}

// TargetInfo is one selectable entry in a personalized night target list
type TargetInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsSelf bool   `json:"isSelf"`
}

// NightTargets builds the target list shown to one occupant of a live slot:
// all living players, excluding mafia teammates for the group slot, and
// excluding self unless the role may self-target (Doctor, and Joker for its
// protect sub-action).
func (r *Room) NightTargets(slot RoleKey, actor *Player) []TargetInfo {
	canTargetSelf := slot == RoleDoctor || slot == RoleJoker

	targets := make([]TargetInfo, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.Alive {
			continue
		}
		if slot == MafiaGroupSlot && p.IsMafiaAligned() {
			continue
		}
		if !canTargetSelf && p.ID == actor.ID {
			continue
		}
		targets = append(targets, TargetInfo{ID: p.ID, Name: p.Name, IsSelf: p.ID == actor.ID})
	}
	return targets
}
