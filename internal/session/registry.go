package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rocketscienceinc/numbers-backend/internal/entity"
	"github.com/rocketscienceinc/numbers-backend/internal/game"
)

// RoomSummary is one row of the room listing.
type RoomSummary struct {
	ID      entity.RoomID `json:"id"`
	Players []string      `json:"players"`
}

// Registry is the process-wide map of live rooms. It is constructed once
// at startup and injected into every transport; rooms are never removed,
// they live until the process exits.
//
// The registry lock only guards the map itself. Every session carries its
// own lock, so two different rooms can always be mutated concurrently.
type Registry struct {
	mu       sync.RWMutex
	sessions map[entity.RoomID]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[entity.RoomID]*Session),
	}
}

// Create - allocates a random room id, builds a session from the config
// and inserts it. The config must already be validated.
func (that *Registry) Create(config game.Config) entity.RoomID {
	id := entity.NewRoomID()
	that.CreateWithID(id, config)

	return id
}

// CreateWithID - inserts a session under a fixed id. Used for the debug
// room; everything else goes through Create.
func (that *Registry) CreateWithID(id entity.RoomID, config game.Config) {
	newSession := NewSession(config)

	that.mu.Lock()
	that.sessions[id] = newSession
	that.mu.Unlock()
}

func (that *Registry) Exists(id entity.RoomID) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	_, ok := that.sessions[id]

	return ok
}

// List - returns a summary of every room, sorted by id.
func (that *Registry) List() []RoomSummary {
	that.mu.RLock()
	ids := make([]entity.RoomID, 0, len(that.sessions))
	for id := range that.sessions {
		ids = append(ids, id)
	}
	that.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	summaries := make([]RoomSummary, 0, len(ids))
	for _, id := range ids {
		names := make([]string, 0)
		that.WithRead(id, func(roomSession *Session) {
			for _, player := range roomSession.Board().Players() {
				names = append(names, player.Name)
			}
		})

		summaries = append(summaries, RoomSummary{ID: id, Players: names})
	}

	return summaries
}

// WithRead - runs f against the room's session under its shared lock. The
// lock is scoped strictly to the call; f must not hold on to the session.
// The id must be known to exist (gate on Exists first) - an absent id is a
// broken calling convention, not a runtime condition, and panics.
func (that *Registry) WithRead(id entity.RoomID, f func(*Session)) {
	roomSession := that.session(id)

	roomSession.mu.RLock()
	defer roomSession.mu.RUnlock()

	f(roomSession)
}

// WithWrite - like WithRead but with the exclusive lock.
func (that *Registry) WithWrite(id entity.RoomID, f func(*Session)) {
	roomSession := that.session(id)

	roomSession.mu.Lock()
	defer roomSession.mu.Unlock()

	f(roomSession)
}

// Close - explicit teardown hook. Nothing needs releasing today; it exists
// so shutdown and tests have a lifecycle end to call.
func (that *Registry) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions = make(map[entity.RoomID]*Session)
}

func (that *Registry) session(id entity.RoomID) *Session {
	that.mu.RLock()
	defer that.mu.RUnlock()

	roomSession, ok := that.sessions[id]
	if !ok {
		panic(fmt.Sprintf("room %q is not in the registry; callers must check Exists first", id))
	}

	return roomSession
}
