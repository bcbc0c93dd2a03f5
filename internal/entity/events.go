package entity

import "github.com/google/uuid"

// RoomEvent is one entry in a room's broadcast stream. Every event carries
// the public id of the player it originates from.
type RoomEvent interface {
	EventAction() string
}

type MovePieceEvent struct {
	PublicID    uuid.UUID `json:"public_id"`
	TurnToggled bool      `json:"turn_toggled"`
	From        Position  `json:"from"`
	To          Position  `json:"to"`
}

func (MovePieceEvent) EventAction() string { return "move_piece" }

type PlayerJoinEvent struct {
	PublicID uuid.UUID `json:"public_id"`
	Side     Side      `json:"side"`
	Name     string    `json:"name"`
}

func (PlayerJoinEvent) EventAction() string { return "player_join" }

type PlayerLeaveEvent struct {
	PublicID uuid.UUID `json:"public_id"`
}

func (PlayerLeaveEvent) EventAction() string { return "player_leave" }
