package session

import (
	"sync"

	"github.com/rocketscienceinc/numbers-backend/internal/game"
)

// Session is one live room: a board plus the broadcaster its events flow
// through. The embedded lock is what the registry's scoped helpers take;
// the session itself never locks.
type Session struct {
	mu          sync.RWMutex
	board       *game.Board
	broadcaster *Broadcaster
}

func NewSession(config game.Config) *Session {
	broadcaster := NewBroadcaster()

	return &Session{
		board:       game.NewBoard(config, broadcaster),
		broadcaster: broadcaster,
	}
}

// Subscribe - hands out a fresh receiver on the room's event stream.
func (that *Session) Subscribe() *Subscriber {
	return that.broadcaster.Subscribe()
}

func (that *Session) Board() *game.Board {
	return that.board
}
