package app

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ramg4ai/Mafia-Game/internal/domain"
)

const (
	// mafiaChatLimit caps mafia chat messages in characters
	mafiaChatLimit = 300

	// timeoutGrace is added to every player-facing countdown so client
	// timers visibly reach zero before the server fires
	timeoutGrace = time.Second

	// settleDelay separates an early turn-done notification from the next
	// prompt so simultaneous messages land coherently on clients
	settleDelay = 1500 * time.Millisecond

	// nightStartPause precedes the first slot of every night
	nightStartPause = 2 * time.Second

	// dayStartPause follows night resolution before discussion opens
	dayStartPause = 6 * time.Second

	// nextNightPause follows vote resolution before the next night
	nextNightPause = 4 * time.Second
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// RoomSession wraps one room with concurrency control, timer scheduling, and
// client management. All room mutation happens under mu through the entry
// points below; each re-validates phase, membership, role, and alive status
// before touching state, so a stale or out-of-order message is a no-op.
type RoomSession struct {
	room      *domain.Room
	mu        sync.RWMutex
	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex
	logger    *slog.Logger

	// Single pending timer, keyed by generation. A callback whose
	// generation no longer matches is stale and does nothing, which makes
	// early advancement race-free without cancellation bookkeeping.
	timerGen uint64
	timer    *time.Timer

	slot *domain.NightSlot // currently open night slot, nil otherwise

	events chan *domain.GameEvent
	done   chan struct{}
}

// NewRoomSession creates a session around the given room
func NewRoomSession(room *domain.Room, logger *slog.Logger) *RoomSession {
	s := &RoomSession{
		room:    room,
		clients: make(map[string]ClientConnection),
		logger:  logger,
		events:  make(chan *domain.GameEvent, 100),
		done:    make(chan struct{}),
	}

	go s.eventLoop()

	return s
}

// RoomCode returns the room code
func (s *RoomSession) RoomCode() string {
	return s.room.Code
}

// CreatedAt returns when the room was created
func (s *RoomSession) CreatedAt() time.Time {
	return s.room.CreatedAt
}

// Phase returns the current room phase
func (s *RoomSession) Phase() domain.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.Phase
}

// PlayerCount returns the number of players
func (s *RoomSession) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.room.Players)
}

// Ended reports whether the game is over, and since when
func (s *RoomSession) Ended() (bool, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.Phase == domain.PhaseEnded, s.room.EndedAt
}

// CanJoin checks if a new player can join
func (s *RoomSession) CanJoin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.Phase == domain.PhaseLobby && !s.room.RolesAssigned &&
		len(s.room.Players) < domain.MaxPlayers
}

// RegisterClient registers a client connection for a player
func (s *RoomSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a client connection
func (s *RoomSession) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// Join adds a player to the lobby and broadcasts the new roster
func (s *RoomSession) Join(playerID, name string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.AddPlayer(playerID, name)
	if err != nil {
		return nil, err
	}

	s.queueEvent(domain.NewEvent(domain.EventLobbyUpdate, s.room.Code, s.lobbyState()))

	return player, nil
}

// PublishLobby broadcasts the current lobby roster to the room
func (s *RoomSession) PublishLobby() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.queueEvent(domain.NewEvent(domain.EventLobbyUpdate, s.room.Code, s.lobbyState()))
}

// SetDiscussionMinutes applies a host config change, clamped
func (s *RoomSession) SetDiscussionMinutes(playerID string, minutes int) (int, error) {
	return s.setConfig(playerID, func() int { return s.room.SetDiscussionMinutes(minutes) })
}

// SetNightSeconds applies a host config change, clamped and rounded
func (s *RoomSession) SetNightSeconds(playerID string, seconds int) (int, error) {
	return s.setConfig(playerID, func() int { return s.room.SetNightSeconds(seconds) })
}

// SetVoteSeconds applies a host config change, clamped and rounded
func (s *RoomSession) SetVoteSeconds(playerID string, seconds int) (int, error) {
	return s.setConfig(playerID, func() int { return s.room.SetVoteSeconds(seconds) })
}

func (s *RoomSession) setConfig(playerID string, apply func() int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.IsHost(playerID) {
		return 0, domain.ErrNotHost
	}

	applied := apply()
	s.queueEvent(domain.NewEvent(domain.EventConfigUpdated, s.room.Code, &domain.ConfigUpdatedPayload{
		Settings: s.room.Settings,
	}))

	return applied, nil
}

// StartGame deals roles and opens the role-ready gate (host only)
func (s *RoomSession) StartGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.IsHost(playerID) {
		return domain.ErrNotHost
	}

	if err := s.room.DealRoles(); err != nil {
		return err
	}

	// Private role reveal per player
	for _, p := range s.room.Players {
		def := p.RoleDef()
		s.queueEvent(domain.NewPlayerEvent(domain.EventRoleAssigned, s.room.Code, p.ID, &domain.RoleAssignedPayload{
			Role:        def.Name,
			RoleKey:     p.Role,
			Group:       def.Group,
			Description: def.Description,
		}))
	}

	// Mafia members learn each other
	mafiaAlive, _ := s.room.MafiaGroup()
	mafiaNames := make([]string, 0, len(mafiaAlive))
	for _, p := range mafiaAlive {
		mafiaNames = append(mafiaNames, p.Name)
	}
	s.queueEvent(domain.NewMafiaEvent(domain.EventMafiaReveal, s.room.Code, &domain.MafiaRevealPayload{
		MafiaNames: mafiaNames,
	}))

	s.queueEvent(domain.NewEvent(domain.EventGameStarted, s.room.Code, &domain.GameStartedPayload{
		PlayerCount: len(s.room.Players),
		Players:     s.playerInfos(s.room.Players),
	}))

	s.logger.Info("game started", "roomCode", s.room.Code, "players", len(s.room.Players))

	// Night 1 starts only after every player acknowledges their role
	return nil
}

// MarkReady records a role-seen acknowledgement; the first night begins when
// the last player acknowledges
func (s *RoomSession) MarkReady(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.MarkReady(playerID); err != nil {
		return err
	}

	ready, waiting := s.room.ReadyProgress()
	s.queueEvent(domain.NewEvent(domain.EventRoleReadyUpdate, s.room.Code, &domain.RoleReadyPayload{
		ReadyPlayers:   ready,
		WaitingPlayers: waiting,
		TotalReady:     len(ready),
		Total:          len(s.room.Players),
	}))

	if s.room.AllReady() {
		s.beginNight()
	}

	return nil
}

// MafiaVote records a mafia kill sub-vote. The current consensus target is
// recomputed on every ballot; when all living mafia have voted the slot
// closes early (agreement is not required, only completeness).
func (s *RoomSession) MafiaVote(voterID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.Phase != domain.PhaseNight {
		return domain.ErrInvalidPhase
	}
	voter, err := s.room.GetPlayer(voterID)
	if err != nil {
		return err
	}
	if !voter.IsMafiaAligned() {
		return domain.ErrNotYourRole
	}
	if !voter.Alive {
		return domain.ErrPlayerDead
	}

	s.room.Night.MafiaVotes[voterID] = targetID
	s.room.Night.MafiaKill = domain.ResolveMafiaVotes(s.room.Night.MafiaVotes)

	mafiaAlive, _ := s.room.MafiaGroup()
	allVoted := true
	for _, p := range mafiaAlive {
		if _, ok := s.room.Night.MafiaVotes[p.ID]; !ok {
			allVoted = false
			break
		}
	}

	s.queueEvent(domain.NewMafiaEvent(domain.EventMafiaVoteUpdate, s.room.Code, &domain.MafiaVoteUpdatePayload{
		Votes:         s.room.Night.MafiaVotes,
		CurrentTarget: s.room.Night.MafiaKill,
		AllVoted:      allVoted,
	}))

	if allVoted && s.slotOpen(domain.MafiaGroupSlot) {
		s.closeSlot(domain.EventNightTurnDone)
	}

	return nil
}

// DoctorAction records the doctor's save target and closes the slot
func (s *RoomSession) DoctorAction(playerID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateNightActor(playerID, domain.RoleDoctor); err != nil {
		return err
	}

	s.room.Night.DoctorSave = targetID
	if s.slotOpen(domain.RoleDoctor) {
		s.closeSlot(domain.EventNightTurnDone)
	}

	return nil
}

// PoliceAction investigates a target. The result goes back privately at once
// but the slot stays open until the investigator signals done or the timer
// fires, so the result is never rushed off screen.
func (s *RoomSession) PoliceAction(playerID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateNightActor(playerID, domain.RolePolice); err != nil {
		return err
	}
	if s.room.Night.PoliceInvestigate != "" {
		return domain.ErrAlreadyActed
	}

	target, err := s.room.GetPlayer(targetID)
	if err != nil {
		return domain.ErrInvalidTarget
	}

	group, roleName := domain.Investigate(target)
	s.queueEvent(domain.NewPlayerEvent(domain.EventInvestigationInfo, s.room.Code, playerID, &domain.InvestigationResultPayload{
		TargetName: target.Name,
		Group:      group,
		Role:       roleName,
	}))

	s.room.Night.PoliceInvestigate = targetID
	return nil
}

// JokerAction records the joker's chosen sub-action. Investigations behave
// like the police's; kill and protect close the slot immediately.
func (s *RoomSession) JokerAction(playerID string, kind domain.JokerActionKind, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateNightActor(playerID, domain.RoleJoker); err != nil {
		return err
	}
	if s.room.Night.Joker != nil {
		return domain.ErrAlreadyActed
	}
	// Self-target is allowed for protect only
	if kind != domain.JokerProtect && targetID == playerID {
		return domain.ErrInvalidTarget
	}

	if kind == domain.JokerInvestigate {
		target, err := s.room.GetPlayer(targetID)
		if err != nil {
			return domain.ErrInvalidTarget
		}
		group, roleName := domain.Investigate(target)
		s.queueEvent(domain.NewPlayerEvent(domain.EventInvestigationInfo, s.room.Code, playerID, &domain.InvestigationResultPayload{
			TargetName: target.Name,
			Group:      group,
			Role:       roleName,
		}))
		s.room.Night.Joker = &domain.JokerAction{Kind: kind, TargetID: targetID}
		return nil
	}

	s.room.Night.Joker = &domain.JokerAction{Kind: kind, TargetID: targetID}
	if s.slotOpen(domain.RoleJoker) {
		s.closeSlot(domain.EventNightTurnDone)
	}

	return nil
}

// InvestigationDone closes the slot of an investigator who has seen their
// result (Police, or Joker after an investigate)
func (s *RoomSession) InvestigationDone(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.Phase != domain.PhaseNight {
		return domain.ErrInvalidPhase
	}
	player, err := s.room.GetPlayer(playerID)
	if err != nil {
		return err
	}
	if !player.Alive {
		return domain.ErrPlayerDead
	}

	isPolice := player.Role == domain.RolePolice && s.room.Night.PoliceInvestigate != ""
	isJoker := player.Role == domain.RoleJoker && s.room.Night.Joker != nil &&
		s.room.Night.Joker.Kind == domain.JokerInvestigate
	if !isPolice && !isJoker {
		return domain.ErrInvalidPhase
	}

	if s.slotOpen(player.Role) {
		s.closeSlot(domain.EventNightTurnDone)
	}

	return nil
}

// VigilanteAction records the vigilante's kill target and closes the slot
func (s *RoomSession) VigilanteAction(playerID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateNightActor(playerID, domain.RoleVigilante); err != nil {
		return err
	}

	s.room.Night.VigilanteKill = targetID
	if s.slotOpen(domain.RoleVigilante) {
		s.closeSlot(domain.EventNightTurnDone)
	}

	return nil
}

// SkipVigilanteAction passes the vigilante's turn without a kill
func (s *RoomSession) SkipVigilanteAction(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateNightActor(playerID, domain.RoleVigilante); err != nil {
		return err
	}

	if s.slotOpen(domain.RoleVigilante) {
		s.closeSlot(domain.EventNightTurnSkipped)
	}

	return nil
}

// GhostGuess records a dead player's elimination prediction. A guess from the
// occupant of the open ghost slot advances the scheduler; passive ghosts just
// record and keep waiting.
func (s *RoomSession) GhostGuess(playerID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.RecordGhostGuess(playerID, targetID); err != nil {
		return err
	}

	s.queueEvent(domain.NewPlayerEvent(domain.EventGhostGuessAck, s.room.Code, playerID, nil))

	if s.slot != nil && s.slot.Ghost && s.slot.HasPlayer(playerID) {
		s.closeSlot(domain.EventNightTurnDone)
	}

	return nil
}

// CastVote records a day ballot; the vote resolves early once every living
// player has voted
func (s *RoomSession) CastVote(voterID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.Cast(voterID, targetID); err != nil {
		return err
	}

	s.queueEvent(domain.NewEvent(domain.EventVoteUpdate, s.room.Code, &domain.VoteUpdatePayload{
		VotedCount: s.room.VotedCount(),
		TotalCount: s.room.AliveCount(),
	}))

	if s.room.AllVoted() {
		s.cancelTimer()
		s.finishVoting()
	}

	return nil
}

// MafiaChat relays a chat message on the mafia-only channel, truncated
func (s *RoomSession) MafiaChat(playerID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.GetPlayer(playerID)
	if err != nil {
		return err
	}
	if !player.IsMafiaAligned() {
		return domain.ErrNotYourRole
	}
	if !player.Alive {
		return domain.ErrPlayerDead
	}

	message = strings.TrimSpace(message)
	if runes := []rune(message); len(runes) > mafiaChatLimit {
		message = string(runes[:mafiaChatLimit])
	}

	s.queueEvent(domain.NewMafiaEvent(domain.EventMafiaChatMessage, s.room.Code, &domain.MafiaChatPayload{
		Sender:    player.Name,
		Message:   message,
		Timestamp: time.Now().Format("15:04:05"),
	}))

	return nil
}

// HandleDisconnect processes a dropped connection. In the lobby, including
// the role-ready gate, the player is removed (with host transfer); mid-game
// they are marked dead, which may end the game. Returns true when the room is
// now empty and should be deleted.
func (s *RoomSession) HandleDisconnect(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.GetPlayer(playerID)
	if err != nil {
		return false
	}

	if s.room.Phase == domain.PhaseLobby {
		newHost, err := s.room.RemovePlayer(playerID)
		if err != nil {
			return false
		}
		if len(s.room.Players) == 0 {
			return true
		}
		if newHost != nil {
			s.queueEvent(domain.NewEvent(domain.EventHostChanged, s.room.Code, &domain.HostChangedPayload{
				NewHost: newHost.Name,
			}))
		}
		s.queueEvent(domain.NewEvent(domain.EventLobbyUpdate, s.room.Code, s.lobbyState()))

		// A leaver during the role-ready gate no longer counts towards
		// readiness; night 1 must not wait on them.
		if s.room.RolesAssigned && s.room.AllReady() {
			s.beginNight()
		}
		return false
	}

	if s.room.Phase == domain.PhaseEnded {
		return false
	}

	// Mid-game: elimination by disconnect
	if player.Alive {
		player.Alive = false
		s.queueEvent(domain.NewEvent(domain.EventPlayerDisconnected, s.room.Code, &domain.PlayerDisconnectedPayload{
			Name: player.Name,
		}))
		if win := s.room.EvaluateWin(); win != nil {
			s.endGame(win)
		}
	}

	return false
}

// beginNight enters the night phase and kicks off the slot sequence.
// Caller must hold mu.
func (s *RoomSession) beginNight() {
	s.room.BeginNight()

	s.queueEvent(domain.NewEvent(domain.EventNightPhaseStart, s.room.Code, &domain.NightPhaseStartPayload{
		Round: s.room.Round,
	}))

	// Dead holders of passive roles get their prediction prompt up front;
	// they never gate the scheduler.
	aliveInfos := s.playerInfos(s.room.AlivePlayers())
	for _, p := range s.room.Players {
		if !p.Alive && !p.Role.HasNightAction() {
			s.queueEvent(domain.NewPlayerEvent(domain.EventGhostPassiveTurn, s.room.Code, p.ID, &domain.GhostTurnPayload{
				AlivePlayers: aliveInfos,
			}))
		}
	}

	s.schedule(nightStartPause, s.advanceNight)
}

// advanceNight opens the next slot in priority order, or resolves the night
// when the queue is exhausted. Caller must hold mu.
func (s *RoomSession) advanceNight() {
	slot := s.room.NextNightSlot()
	if slot == nil {
		s.finishNight()
		return
	}
	s.slot = slot

	timeLeft := s.room.Settings.NightSeconds
	s.queueEvent(domain.NewEvent(domain.EventNightTurn, s.room.Code, &domain.NightTurnPayload{
		Role:       slot.Role,
		ActorNames: slot.OccupantNames(),
		TimeLeft:   timeLeft,
	}))

	if slot.Ghost {
		aliveInfos := s.playerInfos(s.room.AlivePlayers())
		for _, p := range slot.Players {
			s.queueEvent(domain.NewPlayerEvent(domain.EventGhostNightTurn, s.room.Code, p.ID, &domain.GhostTurnPayload{
				AlivePlayers: aliveInfos,
				TimeLeft:     timeLeft,
			}))
		}
	} else {
		for _, p := range slot.Players {
			s.queueEvent(domain.NewPlayerEvent(domain.EventYourNightTurn, s.room.Code, p.ID, &domain.YourNightTurnPayload{
				Role:     slot.Role,
				Targets:  s.room.NightTargets(slot.Role, p),
				TimeLeft: timeLeft,
			}))
		}
	}

	s.schedule(time.Duration(timeLeft)*time.Second+timeoutGrace, s.slotTimeout)
}

// slotTimeout finalizes the open slot when its timer elapses. Caller must
// hold mu (via the timer callback).
func (s *RoomSession) slotTimeout() {
	slot := s.slot
	if slot == nil {
		return
	}
	s.slot = nil

	if slot.Role == domain.MafiaGroupSlot {
		s.room.Night.MafiaKill = domain.ResolveMafiaVotes(s.room.Night.MafiaVotes)
	}

	// A recorded investigation counts as a completed turn, not a skip
	acted := slot.Ghost ||
		(slot.Role == domain.RolePolice && s.room.Night.PoliceInvestigate != "") ||
		(slot.Role == domain.RoleJoker && s.room.Night.Joker != nil && s.room.Night.Joker.Kind == domain.JokerInvestigate)

	eventType := domain.EventNightTurnSkipped
	if acted {
		eventType = domain.EventNightTurnDone
	}
	s.queueEvent(domain.NewEvent(eventType, s.room.Code, &domain.TurnClosedPayload{Role: slot.Role}))

	s.advanceNight()
}

// slotOpen reports whether the given role's slot is the open one.
// Caller must hold mu.
func (s *RoomSession) slotOpen(role domain.RoleKey) bool {
	return s.slot != nil && !s.slot.Ghost && s.slot.Role == role
}

// closeSlot completes the open slot early and advances after the settle
// delay. Caller must hold mu.
func (s *RoomSession) closeSlot(eventType domain.EventType) {
	slot := s.slot
	if slot == nil {
		return
	}
	s.slot = nil
	s.cancelTimer()

	s.queueEvent(domain.NewEvent(eventType, s.room.Code, &domain.TurnClosedPayload{Role: slot.Role}))

	s.schedule(settleDelay, s.advanceNight)
}

// finishNight applies the accumulated night actions and hands off to the day
// phase or ends the game. Caller must hold mu.
func (s *RoomSession) finishNight() {
	result := s.room.ResolveNight()

	s.queueEvent(domain.NewEvent(domain.EventNightResolved, s.room.Code, &domain.NightResolvedPayload{
		Eliminated:      result.Eliminated,
		Events:          result.Events,
		CorrectGuessers: result.CorrectGuessers,
	}))

	s.logger.Info("night resolved",
		"roomCode", s.room.Code,
		"round", s.room.Round,
		"eliminated", len(result.Eliminated),
	)

	if win := s.room.EvaluateWin(); win != nil {
		s.endGame(win)
		return
	}

	s.schedule(dayStartPause, s.startDay)
}

// startDay opens the discussion window. Caller must hold mu.
func (s *RoomSession) startDay() {
	s.room.BeginDay()

	s.queueEvent(domain.NewEvent(domain.EventDayPhaseStart, s.room.Code, &domain.DayPhaseStartPayload{
		Players:           s.playerInfos(s.room.AlivePlayers()),
		DiscussionSeconds: s.room.Settings.DiscussionMinutes * 60,
	}))

	s.schedule(time.Duration(s.room.Settings.DiscussionMinutes)*time.Minute, s.startVoting)
}

// startVoting opens the voting window. Caller must hold mu.
func (s *RoomSession) startVoting() {
	s.room.BeginVoting()

	timeLeft := s.room.Settings.VoteSeconds
	s.queueEvent(domain.NewEvent(domain.EventVotingStart, s.room.Code, &domain.VotingStartPayload{
		Players:  s.playerInfos(s.room.AlivePlayers()),
		TimeLeft: timeLeft,
	}))

	s.schedule(time.Duration(timeLeft)*time.Second+timeoutGrace, s.finishVoting)
}

// finishVoting tallies the day's ballots and either ends the game or starts
// the next night. Caller must hold mu.
func (s *RoomSession) finishVoting() {
	if s.room.Phase != domain.PhaseVoting {
		return
	}

	outcome := s.room.ResolveVotes()

	s.queueEvent(domain.NewEvent(domain.EventVoteResolved, s.room.Code, &domain.VoteResolvedPayload{
		Eliminated: outcome.Eliminated,
		Tie:        outcome.Tie,
		Votes:      outcome.Tally,
		JesterWin:  outcome.JesterWin,
	}))

	if outcome.JesterWin {
		s.endGame(&domain.WinResult{
			Winner: domain.WinnerJester,
			Reason: outcome.Eliminated + " was the Jester and was voted out!",
		})
		return
	}

	if win := s.room.EvaluateWin(); win != nil {
		s.endGame(win)
		return
	}

	s.schedule(nextNightPause, s.beginNight)
}

// endGame closes the room with a full role reveal. Caller must hold mu.
func (s *RoomSession) endGame(result *domain.WinResult) {
	s.cancelTimer()
	s.room.End()

	s.queueEvent(domain.NewEvent(domain.EventGameOver, s.room.Code, &domain.GameOverPayload{
		Winner:     result.Winner,
		Reason:     result.Reason,
		RoleReveal: s.room.RoleReveal(),
	}))

	s.logger.Info("game over", "roomCode", s.room.Code, "winner", result.Winner, "reason", result.Reason)
}

// schedule arms the room's single pending timer. Caller must hold mu. The
// callback re-acquires mu and verifies its generation before running, so a
// timer superseded by early advancement can never fire its stale callback.
func (s *RoomSession) schedule(d time.Duration, fn func()) {
	s.timerGen++
	gen := s.timerGen
	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		select {
		case <-s.done:
			return
		default:
		}
		if gen != s.timerGen || s.room.Phase == domain.PhaseEnded {
			return
		}
		fn()
	})
}

// cancelTimer invalidates any pending timer callback. Caller must hold mu.
func (s *RoomSession) cancelTimer() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// validateNightActor checks phase, membership, role, and alive status for a
// single-actor night action. Caller must hold mu.
func (s *RoomSession) validateNightActor(playerID string, role domain.RoleKey) error {
	if s.room.Phase != domain.PhaseNight {
		return domain.ErrInvalidPhase
	}
	player, err := s.room.GetPlayer(playerID)
	if err != nil {
		return err
	}
	if player.Role != role {
		return domain.ErrNotYourRole
	}
	if !player.Alive {
		return domain.ErrPlayerDead
	}
	return nil
}

// lobbyState builds the lobby roster payload. Caller must hold mu.
func (s *RoomSession) lobbyState() *domain.LobbyUpdatePayload {
	hostName := ""
	if host := s.room.Host(); host != nil {
		hostName = host.Name
	}
	return &domain.LobbyUpdatePayload{
		Players:  s.playerInfos(s.room.Players),
		HostName: hostName,
		CanStart: s.room.CanStart(),
	}
}

func (s *RoomSession) playerInfos(players []*domain.Player) []domain.PlayerInfo {
	infos := make([]domain.PlayerInfo, 0, len(players))
	for _, p := range players {
		infos = append(infos, p.ToInfo())
	}
	return infos
}

// queueEvent adds an event to the broadcast queue
func (s *RoomSession) queueEvent(event *domain.GameEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients
func (s *RoomSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to its audience
func (s *RoomSession) broadcastEvent(event *domain.GameEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	switch event.Audience {
	case domain.AudiencePlayer:
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", event.PlayerID, "error", err)
			}
		}

	case domain.AudienceMafia:
		for playerID, client := range s.clients {
			if !s.inMafiaChannel(playerID) {
				continue
			}
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
			}
		}

	default:
		for playerID, client := range s.clients {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
			}
		}
	}
}

// inMafiaChannel reports mafia-channel membership: living mafia-group members
// only. Eliminated mafia drop out the moment they die.
func (s *RoomSession) inMafiaChannel(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, err := s.room.GetPlayer(playerID)
	return err == nil && player.IsMafiaAligned() && player.Alive
}

// Close shuts down the session
func (s *RoomSession) Close() {
	select {
	case <-s.done:
		return // already closed
	default:
		close(s.done)
	}

	s.mu.Lock()
	s.cancelTimer()
	s.mu.Unlock()

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}
