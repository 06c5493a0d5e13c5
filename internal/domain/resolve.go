package domain

// PublicEvent is a broadcast-worthy side effect of night resolution
type PublicEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NightResult is the outcome of applying one night's accumulated actions
type NightResult struct {
	Eliminated      []string      `json:"eliminated"` // display names, roster order
	EliminatedIDs   []string      `json:"-"`
	Events          []PublicEvent `json:"events"`
	CorrectGuessers []string      `json:"correctGuessers"`
}

// ResolveNight applies the night action set as an ordered pipeline of kill
// flag mutations, then sweeps once. Kill flags live only inside this call;
// the sole mutation of player state is the terminal Alive flip in the sweep.
// Absent or partial entries produce no effect; resolution never fails.
func (r *Room) ResolveNight() NightResult {
	actions := r.Night
	flagged := make(map[string]bool)
	events := make([]PublicEvent, 0)

	// 1. Mafia kill
	if actions.MafiaKill != "" {
		if _, err := r.GetPlayer(actions.MafiaKill); err == nil {
			flagged[actions.MafiaKill] = true
		}
	}

	// 2. Doctor save undoes a pending mafia kill. Silent: no public event.
	if actions.DoctorSave != "" && flagged[actions.DoctorSave] {
		delete(flagged, actions.DoctorSave)
	}

	// 3. Joker runs after the doctor. Protect announces itself, unlike the
	// doctor's save. Investigate was handled at prompt time.
	if actions.Joker != nil {
		if _, err := r.GetPlayer(actions.Joker.TargetID); err == nil {
			switch actions.Joker.Kind {
			case JokerKill:
				flagged[actions.Joker.TargetID] = true
			case JokerProtect:
				if flagged[actions.Joker.TargetID] {
					delete(flagged, actions.Joker.TargetID)
					events = append(events, PublicEvent{
						Type:    "save",
						Message: "The Joker protected someone tonight!",
					})
				}
			}
		}
	}

	// 4. Vigilante kill backfires on civilian-aligned targets
	if actions.VigilanteKill != "" {
		target, err := r.GetPlayer(actions.VigilanteKill)
		vigilantes, _ := r.PlayersByRole(RoleVigilante)
		if err == nil && len(vigilantes) > 0 {
			if target.RoleDef().Group == GroupCivilian {
				flagged[vigilantes[0].ID] = true
			} else {
				flagged[target.ID] = true
			}
		}
	}

	// 5. Single sweep: every flagged player dies
	result := NightResult{
		Eliminated:    make([]string, 0),
		EliminatedIDs: make([]string, 0),
		Events:        events,
	}
	for _, p := range r.Players {
		if flagged[p.ID] {
			p.Alive = false
			result.Eliminated = append(result.Eliminated, p.Name)
			result.EliminatedIDs = append(result.EliminatedIDs, p.ID)
		}
	}

	result.CorrectGuessers = r.ScoreGhostGuesses(result.EliminatedIDs)
	return result
}

// Investigate returns the target's identity as seen by an investigator
// (Police, or Joker choosing investigate). The Traitor always reveals as a
// civilian-aligned Civilian; this masking must be preserved exactly.
func Investigate(target *Player) (Group, string) {
	if target.Role == RoleTraitor {
		return GroupCivilian, Roles[RoleCivilian].Name
	}
	def := target.RoleDef()
	return def.Group, def.Name
}
