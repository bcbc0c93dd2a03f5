package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/numbers-backend/internal/entity"
	"github.com/rocketscienceinc/numbers-backend/internal/game"
)

func defaultConfig() game.Config {
	return game.Config{TeamPlayerLimit: 2, FirstSide: entity.SideA}
}

func TestRegistry_CreateAndExists(t *testing.T) {
	// Given: an empty registry
	registry := NewRegistry()

	// When: creating a room
	id := registry.Create(defaultConfig())

	// Then: the room exists under a well-formed id, others do not
	assert.True(t, registry.Exists(id))
	assert.Len(t, string(id), entity.RoomIDLength)
	assert.False(t, registry.Exists("missing0"))
}

func TestRegistry_List(t *testing.T) {
	// Given: rooms created under fixed ids, one with a seated player
	registry := NewRegistry()
	registry.CreateWithID("bbbbbbbb", defaultConfig())
	registry.CreateWithID("aaaaaaaa", defaultConfig())

	registry.WithWrite("aaaaaaaa", func(roomSession *Session) {
		_, _, err := roomSession.Board().CreatePlayer(entity.SideA, "SOMEONE")
		require.NoError(t, err)
	})

	// When: listing
	summaries := registry.List()

	// Then: rooms come back sorted by id with their occupant names
	require.Len(t, summaries, 2)
	assert.Equal(t, entity.RoomID("aaaaaaaa"), summaries[0].ID)
	assert.Equal(t, []string{"SOMEONE"}, summaries[0].Players)
	assert.Equal(t, entity.RoomID("bbbbbbbb"), summaries[1].ID)
	assert.Empty(t, summaries[1].Players)
}

func TestRegistry_ScopedAccess(t *testing.T) {
	t.Run("Writes through WithWrite are visible through WithRead", func(t *testing.T) {
		registry := NewRegistry()
		id := registry.Create(defaultConfig())

		registry.WithWrite(id, func(roomSession *Session) {
			_, _, err := roomSession.Board().CreatePlayer(entity.SideB, "WRITER")
			require.NoError(t, err)
		})

		var names []string
		registry.WithRead(id, func(roomSession *Session) {
			for _, player := range roomSession.Board().Players() {
				names = append(names, player.Name)
			}
		})

		assert.Equal(t, []string{"WRITER"}, names)
	})

	t.Run("An absent id is a fault, not an error", func(t *testing.T) {
		registry := NewRegistry()

		assert.Panics(t, func() {
			registry.WithRead("absent00", func(*Session) {})
		})
		assert.Panics(t, func() {
			registry.WithWrite("absent00", func(*Session) {})
		})
	})
}

func TestRegistry_ConcurrentRooms(t *testing.T) {
	// Given: many rooms
	registry := NewRegistry()
	ids := make([]entity.RoomID, 16)
	for i := range ids {
		ids[i] = registry.Create(defaultConfig())
	}

	// When: hammering every room from concurrent goroutines
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id entity.RoomID) {
			defer wg.Done()

			for i := 0; i < 50; i++ {
				registry.WithWrite(id, func(roomSession *Session) {
					privateID, _, err := roomSession.Board().CreatePlayer(entity.SideA, "CHURN")
					require.NoError(t, err)
					_, removed := roomSession.Board().RemovePlayer(privateID)
					require.True(t, removed)
				})
				registry.WithRead(id, func(roomSession *Session) {
					_ = roomSession.Board().CurrentTurn()
				})
			}
		}(id)
	}
	wg.Wait()

	// Then: every room is intact and empty again
	for _, id := range ids {
		registry.WithRead(id, func(roomSession *Session) {
			assert.Empty(t, roomSession.Board().Players())
		})
	}
}
