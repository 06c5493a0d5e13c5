package domain

// VoteAbstain is the explicit abstain marker in a day ballot
const VoteAbstain = "abstain"

// VoteSet maps voter ID to chosen target ID (or VoteAbstain). Reset every day.
type VoteSet struct {
	Ballots map[string]string `json:"ballots"`
}

// NewVoteSet returns an empty vote set
func NewVoteSet() *VoteSet {
	return &VoteSet{Ballots: make(map[string]string)}
}

// Cast records a living player's ballot for the current voting window
func (r *Room) Cast(voterID, targetID string) error {
	if r.Phase != PhaseVoting {
		return ErrInvalidPhase
	}
	voter, err := r.GetPlayer(voterID)
	if err != nil {
		return err
	}
	if !voter.Alive {
		return ErrPlayerDead
	}
	if targetID != VoteAbstain {
		target, err := r.GetPlayer(targetID)
		if err != nil || !target.Alive {
			return ErrInvalidTarget
		}
	}
	r.Votes.Ballots[voterID] = targetID
	return nil
}

// AllVoted reports whether every living player has cast a ballot
func (r *Room) AllVoted() bool {
	for _, p := range r.AlivePlayers() {
		if _, ok := r.Votes.Ballots[p.ID]; !ok {
			return false
		}
	}
	return true
}

// VotedCount returns the number of ballots cast so far
func (r *Room) VotedCount() int {
	return len(r.Votes.Ballots)
}

// VoteOutcome is the result of tallying a day's ballots
type VoteOutcome struct {
	Eliminated   string         `json:"eliminated"` // display name, "" on tie
	EliminatedID string         `json:"-"`
	Tie          bool           `json:"tie"`
	Tally        map[string]int `json:"votes"` // targetID -> count, abstains excluded
	JesterWin    bool           `json:"jesterWin"`
}

// ResolveVotes tallies the ballots and applies the elimination, if any.
// A target is eliminated only when it holds a unique maximum that meets the
// minimum-votes threshold: one vote suffices with at most two players alive,
// otherwise at least two votes are required. An eliminated Jester ends the
// game immediately in the Jester's favor (flagged on the outcome; the caller
// ends the game). Eliminating is terminal.
func (r *Room) ResolveVotes() VoteOutcome {
	tally := make(map[string]int)
	for _, targetID := range r.Votes.Ballots {
		if targetID == VoteAbstain {
			continue
		}
		tally[targetID]++
	}

	maxVotes := 0
	topCandidates := make([]string, 0)
	for targetID, count := range tally {
		if count > maxVotes {
			maxVotes = count
			topCandidates = []string{targetID}
		} else if count == maxVotes {
			topCandidates = append(topCandidates, targetID)
		}
	}

	minVotesRequired := 2
	if r.AliveCount() <= 2 {
		minVotesRequired = 1
	}

	outcome := VoteOutcome{
		Tie:   len(topCandidates) != 1,
		Tally: tally,
	}

	if len(topCandidates) == 1 && maxVotes >= minVotesRequired {
		if target, err := r.GetPlayer(topCandidates[0]); err == nil {
			if target.Role == RoleJester {
				outcome.Eliminated = target.Name
				outcome.EliminatedID = target.ID
				outcome.JesterWin = true
				return outcome
			}
			target.Alive = false
			outcome.Eliminated = target.Name
			outcome.EliminatedID = target.ID
		}
	}

	return outcome
}
