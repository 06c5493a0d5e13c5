package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseLobby      Phase = "lobby"       // Waiting for players; also covers the role-ready gate
	PhaseNight      Phase = "night"       // Night turn sequence in progress
	PhaseDayDiscuss Phase = "day-discuss" // Open discussion, no vote collection
	PhaseVoting     Phase = "voting"      // Living players casting elimination votes
	PhaseEnded      Phase = "ended"       // Game over, room left to garbage-collect
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:      {PhaseNight},
		PhaseNight:      {PhaseDayDiscuss, PhaseEnded},
		PhaseDayDiscuss: {PhaseVoting},
		PhaseVoting:     {PhaseNight, PhaseEnded},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
