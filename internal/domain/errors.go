package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrNameTaken          = errors.New("name already taken")
	ErrNotEnoughPlayers   = errors.New("not enough players to start")
	ErrInvalidPhase       = errors.New("invalid action for current phase")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNotHost            = errors.New("only host can perform this action")
	ErrNotYourRole        = errors.New("acting as a role you don't hold")
	ErrPlayerDead         = errors.New("dead players cannot act")
	ErrAlreadyActed       = errors.New("already acted this night")
	ErrInvalidTarget      = errors.New("invalid target")
	ErrInvalidPlayerCount = errors.New("unsupported player count")
)
