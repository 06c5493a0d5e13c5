package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNightMafiaKill(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)
	room.Night.MafiaKill = "p4"

	result := room.ResolveNight()
	assert.Equal(t, []string{"Player4"}, result.Eliminated)
	assert.False(t, room.mustGet(t, "p4").Alive)
}

func TestResolveNightDoctorSave(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)
	room.Night.MafiaKill = "p4"
	room.Night.DoctorSave = "p4"

	result := room.ResolveNight()
	assert.Empty(t, result.Eliminated)
	assert.True(t, room.mustGet(t, "p4").Alive)
	// The doctor's save is silent
	assert.Empty(t, result.Events)
}

func TestResolveNightDoctorSaveWrongTarget(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)
	room.Night.MafiaKill = "p4"
	room.Night.DoctorSave = "p3"

	result := room.ResolveNight()
	assert.Equal(t, []string{"Player4"}, result.Eliminated)
}

func TestResolveNightJokerProtect(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)
	room.Night.MafiaKill = "p4"
	room.Night.Joker = &JokerAction{Kind: JokerProtect, TargetID: "p4"}

	result := room.ResolveNight()
	assert.Empty(t, result.Eliminated)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "save", result.Events[0].Type)
}

func TestResolveNightJokerProtectNothingPending(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)
	room.Night.Joker = &JokerAction{Kind: JokerProtect, TargetID: "p4"}

	result := room.ResolveNight()
	assert.Empty(t, result.Eliminated)
	// No kill was prevented, so nothing is announced
	assert.Empty(t, result.Events)
}

func TestResolveNightJokerKill(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)
	room.Night.MafiaKill = "p4"
	room.Night.Joker = &JokerAction{Kind: JokerKill, TargetID: "p3"}

	result := room.ResolveNight()
	assert.Equal(t, []string{"Player3", "Player4"}, result.Eliminated, "roster order")
}

func TestResolveNightVigilanteBackfire(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleTraitor, RoleDoctor, RolePolice,
		RoleVigilante, RoleCivilian, RoleCivilian, RoleJoker, RoleJester)

	// Shooting a civilian-aligned player kills the vigilante instead
	room.Night.VigilanteKill = "p6"
	result := room.ResolveNight()
	assert.Equal(t, []string{"Player5"}, result.Eliminated)
	assert.True(t, room.mustGet(t, "p6").Alive)
}

func TestResolveNightVigilanteHitsMafia(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleTraitor, RoleDoctor, RolePolice,
		RoleVigilante, RoleCivilian, RoleCivilian, RoleJoker, RoleJester)

	room.Night.VigilanteKill = "p0"
	result := room.ResolveNight()
	assert.Equal(t, []string{"Player0"}, result.Eliminated)
	assert.True(t, room.mustGet(t, "p5").Alive)
}

func TestResolveNightVigilanteHitsTraitorBackfires(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleTraitor, RoleDoctor, RolePolice,
		RoleVigilante, RoleCivilian, RoleCivilian, RoleJoker, RoleJester)

	// The traitor is mafia-aligned: the shot lands
	room.Night.VigilanteKill = "p2"
	result := room.ResolveNight()
	assert.Equal(t, []string{"Player2"}, result.Eliminated)
}

func TestResolveNightVigilanteHitsNeutral(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleTraitor, RoleDoctor, RolePolice,
		RoleVigilante, RoleCivilian, RoleCivilian, RoleJoker, RoleJester)

	// Neutrals are not civilian-aligned, so no backfire
	room.Night.VigilanteKill = "p8"
	result := room.ResolveNight()
	assert.Equal(t, []string{"Player8"}, result.Eliminated)
}

func TestResolveNightFullPipeline(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleTraitor, RoleDoctor, RolePolice,
		RoleVigilante, RoleCivilian, RoleCivilian, RoleJoker, RoleJester)

	// Mafia kill saved by the doctor, joker kill saved by nobody,
	// vigilante finds a mafia member. Two die.
	room.Night.MafiaKill = "p6"
	room.Night.DoctorSave = "p6"
	room.Night.Joker = &JokerAction{Kind: JokerKill, TargetID: "p7"}
	room.Night.VigilanteKill = "p1"

	result := room.ResolveNight()
	assert.Equal(t, []string{"Player1", "Player7"}, result.Eliminated)
	assert.True(t, room.mustGet(t, "p6").Alive)
}

func TestResolveNightEmptyActions(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)

	result := room.ResolveNight()
	assert.Empty(t, result.Eliminated)
	assert.Empty(t, result.Events)
}

func TestResolveNightStaleTarget(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)
	room.Night.MafiaKill = "gone"

	result := room.ResolveNight()
	assert.Empty(t, result.Eliminated)
}

func TestInvestigate(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleTraitor, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)

	group, name := Investigate(room.mustGet(t, "p0"))
	assert.Equal(t, GroupMafia, group)
	assert.Equal(t, "Mafia", name)

	// The traitor always reveals as a Civilian
	group, name = Investigate(room.mustGet(t, "p1"))
	assert.Equal(t, GroupCivilian, group)
	assert.Equal(t, "Civilian", name)

	group, name = Investigate(room.mustGet(t, "p5"))
	assert.Equal(t, GroupNeutral, group)
	assert.Equal(t, "Joker", name)
}

func TestGhostGuessScoring(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)
	room.mustGet(t, "p3").Alive = false
	room.mustGet(t, "p4").Alive = false

	require.NoError(t, room.RecordGhostGuess("p3", "p2"))
	require.NoError(t, room.RecordGhostGuess("p4", GhostGuessNone))

	room.Night.MafiaKill = "p2"
	result := room.ResolveNight()
	assert.Equal(t, []string{"Player2"}, result.Eliminated)
	assert.Equal(t, []string{"Player3"}, result.CorrectGuessers)
}

func TestGhostGuessNoneCorrectOnQuietNight(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)
	room.mustGet(t, "p3").Alive = false
	room.mustGet(t, "p4").Alive = false

	require.NoError(t, room.RecordGhostGuess("p3", "p2"))
	require.NoError(t, room.RecordGhostGuess("p4", GhostGuessNone))

	result := room.ResolveNight()
	assert.Empty(t, result.Eliminated)
	assert.Equal(t, []string{"Player4"}, result.CorrectGuessers)
}

func TestRecordGhostGuessValidation(t *testing.T) {
	room := newTestRoom(RoleMafia, RoleMafia, RoleDoctor, RolePolice, RoleCivilian, RoleJoker)

	// Living players may not guess
	assert.Error(t, room.RecordGhostGuess("p4", "p0"))

	room.mustGet(t, "p4").Alive = false
	require.NoError(t, room.RecordGhostGuess("p4", "p0"))

	// A later guess overwrites the earlier one
	require.NoError(t, room.RecordGhostGuess("p4", GhostGuessNone))
	assert.Equal(t, GhostGuessNone, room.GhostGuesses["p4"])

	room.Phase = PhaseDayDiscuss
	assert.ErrorIs(t, room.RecordGhostGuess("p4", "p0"), ErrInvalidPhase)
}
