package entity

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

const (
	// RoomIDLength is the fixed length of every room address.
	RoomIDLength = 8

	roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"abcdefghijklmnopqrstuvwxyz" +
		"0123456789" +
		"_"
)

var (
	ErrBadRoomIDLength = errors.New("room id has wrong length")
	ErrBadRoomIDChar   = errors.New("room id contains forbidden characters")
)

// RoomID is the external address of one room. Collisions are not checked
// at creation time; at the intended scale the 63^8 space makes them a
// non-issue.
type RoomID string

// NewRoomID - generates a fresh random room address.
func NewRoomID() RoomID {
	b := make([]byte, RoomIDLength)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Errorf("could not read random bytes: %w", err))
	}

	for i := range b {
		b[i] = roomIDAlphabet[int(b[i])%len(roomIDAlphabet)]
	}

	return RoomID(b)
}

// ParseRoomID - validates an externally supplied room address.
func ParseRoomID(raw string) (RoomID, error) {
	if len(raw) != RoomIDLength {
		return "", fmt.Errorf("%w: %d", ErrBadRoomIDLength, len(raw))
	}

	for _, r := range raw {
		if !strings.ContainsRune(roomIDAlphabet, r) {
			return "", ErrBadRoomIDChar
		}
	}

	return RoomID(raw), nil
}
