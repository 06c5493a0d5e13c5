package domain

// GhostGuessNone predicts that nobody will be eliminated tonight
const GhostGuessNone = "none"

// GhostGuessSet maps eliminated-player ID to their predicted elimination
// target for the current night (or GhostGuessNone). Reset every night.
type GhostGuessSet map[string]string

// RecordGhostGuess stores a dead player's prediction for the night
func (r *Room) RecordGhostGuess(playerID, targetID string) error {
	if r.Phase != PhaseNight {
		return ErrInvalidPhase
	}
	player, err := r.GetPlayer(playerID)
	if err != nil {
		return err
	}
	if player.Alive {
		return ErrInvalidPhase // only the dead may guess
	}
	r.GhostGuesses[playerID] = targetID
	return nil
}

// ScoreGhostGuesses returns the names of guessers whose prediction matched the
// elimination list: "none" is correct on an empty list, a specific target is
// correct when it is among the eliminated.
func (r *Room) ScoreGhostGuesses(eliminatedIDs []string) []string {
	eliminated := make(map[string]bool, len(eliminatedIDs))
	for _, id := range eliminatedIDs {
		eliminated[id] = true
	}

	correct := make([]string, 0)
	for _, p := range r.Players {
		guess, ok := r.GhostGuesses[p.ID]
		if !ok {
			continue
		}
		if guess == GhostGuessNone && len(eliminatedIDs) == 0 {
			correct = append(correct, p.Name)
		} else if guess != GhostGuessNone && eliminated[guess] {
			correct = append(correct, p.Name)
		}
	}
	return correct
}
