package domain

import "errors"

// Domain errors
var (
	ErrRoomExists          = errors.New("room code already in use")
	ErrRoomNotFound        = errors.New("room not found")
	ErrNameTaken           = errors.New("display name already taken in this room")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrNotHost             = errors.New("only the host can perform this action")
	ErrInvalidPhase        = errors.New("invalid action for current phase")
	ErrEmptyWord           = errors.New("word cannot be empty")
	ErrWordTooShort        = errors.New("word is shorter than the minimum length")
	ErrWordNotOnBoard      = errors.New("word does not trace a path on the board")
	ErrWordAlreadyFound    = errors.New("word already submitted this round")
	ErrInvalidGrid         = errors.New("grid must be a non-empty rectangular array of cells")
)
