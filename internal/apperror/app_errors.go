package apperror

import "errors"

var (
	ErrInvalidPosition = errors.New("position is out of board range")
	ErrInvalidTurn     = errors.New("it's not your side's turn")
	ErrInvalidPiece    = errors.New("no piece of yours on that square")
	ErrInvalidMove     = errors.New("move is not allowed")

	ErrPlayerLimitExceeded = errors.New("team player limit exceeded")
	ErrPlayerNotFound      = errors.New("player is not in the room")

	ErrInvalidPlayerLimit = errors.New("invalid team player limit")
	ErrInvalidFirstSide   = errors.New("invalid first side")
)
