package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// killAllExcept leaves only the named players alive
func killAllExcept(room *Room, ids ...string) {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	for _, p := range room.Players {
		p.Alive = keep[p.ID]
	}
}

func fullRoom() *Room {
	return newTestRoom(RoleMafia, RoleMafia, RoleTraitor, RoleDoctor, RolePolice,
		RoleVigilante, RoleCivilian, RoleCivilian, RoleJoker, RoleJester)
}

func TestEvaluateWinGameContinues(t *testing.T) {
	room := fullRoom()
	assert.Nil(t, room.EvaluateWin())

	// One mafia death changes nothing yet
	room.mustGet(t, "p0").Alive = false
	assert.Nil(t, room.EvaluateWin())
}

func TestEvaluateWinMutualDestruction(t *testing.T) {
	room := fullRoom()
	killAllExcept(room, "p0", "p5") // Mafia vs Vigilante

	result := room.EvaluateWin()
	require.NotNil(t, result)
	assert.Equal(t, WinnerNobody, result.Winner)
}

func TestEvaluateWinTwoAlive(t *testing.T) {
	tests := []struct {
		name   string
		alive  []string
		winner string
	}{
		{"mafia vs civilian", []string{"p0", "p6"}, WinnerMafia},
		{"mafia vs doctor", []string{"p0", "p3"}, WinnerMafia},
		{"traitor vs civilian", []string{"p2", "p6"}, WinnerMafia},
		{"mafia vs joker", []string{"p0", "p8"}, WinnerMafia},
		{"mafia vs jester", []string{"p0", "p9"}, WinnerMafia},
		{"civilian vs joker", []string{"p6", "p8"}, WinnerCivilians},
		{"civilian vs jester", []string{"p6", "p9"}, WinnerCivilians},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := fullRoom()
			killAllExcept(room, tt.alive...)

			result := room.EvaluateWin()
			require.NotNil(t, result)
			assert.Equal(t, tt.winner, result.Winner)
		})
	}
}

func TestEvaluateWinTwoMafiaOneCivilian(t *testing.T) {
	room := fullRoom()
	killAllExcept(room, "p0", "p1", "p6")

	result := room.EvaluateWin()
	require.NotNil(t, result)
	assert.Equal(t, WinnerMafia, result.Winner)
}

func TestEvaluateWinAllMafiaDead(t *testing.T) {
	room := fullRoom()
	for _, id := range []string{"p0", "p1", "p2", "p8", "p9"} {
		room.mustGet(t, id).Alive = false
	}

	result := room.EvaluateWin()
	require.NotNil(t, result)
	assert.Equal(t, WinnerCivilians, result.Winner)
}

func TestEvaluateWinJokerSidesWithCivilians(t *testing.T) {
	// Mafia gone, civilians and joker remain
	room := fullRoom()
	for _, id := range []string{"p0", "p1", "p2", "p9"} {
		room.mustGet(t, id).Alive = false
	}

	result := room.EvaluateWin()
	require.NotNil(t, result)
	assert.Equal(t, WinnerCivilians, result.Winner)
}

func TestEvaluateWinOnlyNeutralsRemain(t *testing.T) {
	room := fullRoom()
	killAllExcept(room, "p8", "p9")

	result := room.EvaluateWin()
	require.NotNil(t, result)
	assert.Equal(t, WinnerNeutrals, result.Winner)
}

func TestEvaluateWinMafiaMajority(t *testing.T) {
	// 2 mafia vs 2 civilians and a joker keeps going;
	// losing a civilian tips the balance
	room := fullRoom()
	killAllExcept(room, "p0", "p1", "p6", "p7", "p8")
	assert.Nil(t, room.EvaluateWin())

	room.mustGet(t, "p7").Alive = false
	result := room.EvaluateWin()
	require.NotNil(t, result)
	assert.Equal(t, WinnerMafia, result.Winner)
}

func TestEvaluateWinAllCiviliansDead(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleCivilian)
	killAllExcept(room, "p0", "p1")

	result := room.EvaluateWin()
	require.NotNil(t, result)
	assert.Equal(t, WinnerMafia, result.Winner)
}
