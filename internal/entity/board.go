package entity

import "github.com/google/uuid"

const (
	// BoardSize is the side length of the square grid.
	BoardSize = 8

	// InitialNumber is the strength every piece starts with.
	InitialNumber uint8 = 3
)

// Position addresses one square on the grid. Zero-based, x grows to the
// right and y grows downwards.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (that Position) InBounds() bool {
	return that.X >= 0 && that.X < BoardSize && that.Y >= 0 && that.Y < BoardSize
}

// Piece is one stone on the grid. Number is its strength; it changes only
// through captures and merges and never goes negative.
type Piece struct {
	Side   Side  `json:"side"`
	Number uint8 `json:"number"`
}

// Pieces is a full grid snapshot, indexed [y][x]. Empty squares are nil.
type Pieces [BoardSize][BoardSize]*Piece

// Player is one claimed seat. The private id that authorizes the seat is
// the roster key and is never part of this struct, so a Player value is
// always safe to broadcast.
type Player struct {
	PublicID uuid.UUID `json:"public_id"`
	Name     string    `json:"name"`
	Side     Side      `json:"side"`
}
