package domain

// Winner side names as surfaced to clients
const (
	WinnerMafia     = "Mafia"
	WinnerCivilians = "Civilians"
	WinnerNeutrals  = "Neutrals"
	WinnerJester    = "Jester"
	WinnerNobody    = "" // mutual destruction
)

// WinResult names the winning side and why. A non-nil result with an empty
// Winner ends the game with nobody winning.
type WinResult struct {
	Winner string `json:"winner"`
	Reason string `json:"reason"`
}

// EvaluateWin checks the win-condition table against the living players,
// specific low-population endings before the general rules. Returns nil while
// the game continues. Called after every night resolution, vote resolution,
// and mid-game removal.
func (r *Room) EvaluateWin() *WinResult {
	alive := r.AlivePlayers()

	var mafia, civilian, neutral []*Player
	jokerAlive := false
	jesterAlive := false
	for _, p := range alive {
		switch p.RoleDef().Group {
		case GroupMafia:
			mafia = append(mafia, p)
		case GroupCivilian:
			civilian = append(civilian, p)
		case GroupNeutral:
			neutral = append(neutral, p)
		}
		if p.Role == RoleJoker {
			jokerAlive = true
		}
		if p.Role == RoleJester {
			jesterAlive = true
		}
	}

	has := func(key RoleKey) bool {
		for _, p := range alive {
			if p.Role == key {
				return true
			}
		}
		return false
	}

	// Two-player endings. Mafia vs Vigilante is checked ahead of the generic
	// mafia-vs-civilian rule: the Vigilante is civilian-aligned and the
	// generic rule would otherwise shadow the mutual destruction ending.
	if len(alive) == 2 {
		if has(RoleMafia) && has(RoleVigilante) {
			return &WinResult{Winner: WinnerNobody, Reason: "Mutual destruction — no one wins"}
		}
		if len(mafia) >= 1 && len(civilian) >= 1 {
			return &WinResult{Winner: WinnerMafia, Reason: "Mafia outnumbers Civilians"}
		}
		if len(mafia) >= 1 && jokerAlive {
			return &WinResult{Winner: WinnerMafia, Reason: "Mafia and Joker remain"}
		}
		if has(RoleMafia) && has(RoleJester) {
			return &WinResult{Winner: WinnerMafia, Reason: "Mafia and Jester remain"}
		}
		if len(civilian) >= 1 && jokerAlive {
			return &WinResult{Winner: WinnerCivilians, Reason: "Civilian and Joker remain"}
		}
		if len(civilian) >= 1 && has(RoleJester) {
			return &WinResult{Winner: WinnerCivilians, Reason: "Civilian and Jester remain"}
		}
	}

	// Three-player ending
	if len(alive) == 3 && len(mafia) == 2 && len(civilian) == 1 && len(neutral) == 0 {
		return &WinResult{Winner: WinnerMafia, Reason: "2 Mafia vs 1 Civilian"}
	}

	// General endings
	if len(mafia) == 0 && len(neutral) == 0 {
		return &WinResult{Winner: WinnerCivilians, Reason: "All Mafia eliminated"}
	}
	if len(mafia) == 0 && len(civilian) == 0 {
		return &WinResult{Winner: WinnerNeutrals, Reason: "Only neutrals remain"}
	}
	if len(civilian) == 0 && len(neutral) == 0 {
		return &WinResult{Winner: WinnerMafia, Reason: "All Civilians eliminated"}
	}

	// Joker aligns with the stronger side
	if jokerAlive {
		if len(mafia) == 0 && len(civilian) == 0 {
			return &WinResult{Winner: WinnerNeutrals, Reason: "Only Neutrals remain"}
		}
		if len(civilian) == 0 && len(mafia) > 0 && !jesterAlive {
			return &WinResult{Winner: WinnerMafia, Reason: "Joker sides with Mafia"}
		}
		if len(mafia) == 0 && len(civilian) > 0 {
			return &WinResult{Winner: WinnerCivilians, Reason: "Joker sides with Civilians"}
		}
	}

	// Mafia majority
	if len(mafia) > 0 && len(civilian)+len(neutral) > 0 && len(mafia) >= len(civilian)+len(neutral) {
		return &WinResult{Winner: WinnerMafia, Reason: "Mafia outnumbers remaining players"}
	}

	return nil
}
