package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/numbers-backend/internal/entity"
	"github.com/rocketscienceinc/numbers-backend/testing/suite"
)

func TestServerInfo(t *testing.T) {
	_, st := suite.New(t)

	// When: asking the root endpoint
	resp, err := http.Get(st.Server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	// Then: it reports the minimum compatible client version
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		MinVersion int `json:"min_version"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.MinVersion)
}

func TestCreateRoom(t *testing.T) {
	t.Run("Empty body creates a room with defaults", func(t *testing.T) {
		_, st := suite.New(t)

		resp, err := http.Post(st.Server.URL+"/rooms/new", "application/json", http.NoBody)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Success bool   `json:"success"`
			RoomID  string `json:"room_id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Success)
		assert.Len(t, body.RoomID, entity.RoomIDLength)
		assert.True(t, st.Registry.Exists(entity.RoomID(body.RoomID)))
	})

	t.Run("Explicit config is honored", func(t *testing.T) {
		_, st := suite.New(t)

		payload := bytes.NewBufferString(`{"team_player_limit": 2, "first_side": "b"}`)
		resp, err := http.Post(st.Server.URL+"/rooms/new", "application/json", payload)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created struct {
			RoomID string `json:"room_id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

		// Then: the room snapshot shows side B to move
		info, err := http.Get(st.Server.URL + "/rooms/" + created.RoomID)
		require.NoError(t, err)
		defer info.Body.Close()

		var snapshot struct {
			CurrentTurn string `json:"current_turn"`
		}
		require.NoError(t, json.NewDecoder(info.Body).Decode(&snapshot))
		assert.Equal(t, "b", snapshot.CurrentTurn)
	})

	t.Run("Out-of-range seat limit is rejected", func(t *testing.T) {
		_, st := suite.New(t)

		payload := bytes.NewBufferString(`{"team_player_limit": 3}`)
		resp, err := http.Post(st.Server.URL+"/rooms/new", "application/json", payload)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(t, body.Success)
		assert.Equal(t, "INVALID_PLAYER_LIMIT", body.Message)
	})

	t.Run("Unparsable body is rejected", func(t *testing.T) {
		_, st := suite.New(t)

		payload := bytes.NewBufferString(`{"team_player_limit": "many"}`)
		resp, err := http.Post(st.Server.URL+"/rooms/new", "application/json", payload)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListRooms(t *testing.T) {
	_, st := suite.New(t)

	// Given: two rooms
	for i := 0; i < 2; i++ {
		resp, err := http.Post(st.Server.URL+"/rooms/new", "application/json", http.NoBody)
		require.NoError(t, err)
		resp.Body.Close()
	}

	// When: listing
	resp, err := http.Get(st.Server.URL + "/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()

	// Then: both rooms come back, each with an empty roster
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Rooms []struct {
			ID      string   `json:"id"`
			Players []string `json:"players"`
		} `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Rooms, 2)
	for _, room := range body.Rooms {
		assert.Len(t, room.ID, entity.RoomIDLength)
		assert.Empty(t, room.Players)
	}
}

func TestRoomInfo(t *testing.T) {
	t.Run("Unknown room is a 404", func(t *testing.T) {
		_, st := suite.New(t)

		resp, err := http.Get(st.Server.URL + "/rooms/missing0")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Malformed room id is a 404, not a fault", func(t *testing.T) {
		_, st := suite.New(t)

		resp, err := http.Get(st.Server.URL + "/rooms/not-a-room-id!")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Existing room returns the full snapshot", func(t *testing.T) {
		_, st := suite.New(t)

		created, err := http.Post(st.Server.URL+"/rooms/new", "application/json", http.NoBody)
		require.NoError(t, err)
		defer created.Body.Close()

		var room struct {
			RoomID string `json:"room_id"`
		}
		require.NoError(t, json.NewDecoder(created.Body).Decode(&room))

		resp, err := http.Get(st.Server.URL + "/rooms/" + room.RoomID)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var snapshot struct {
			RoomID      string            `json:"room_id"`
			CurrentTurn string            `json:"current_turn"`
			Players     []json.RawMessage `json:"players"`
			Pieces      [][]*struct {
				Side   string `json:"side"`
				Number uint8  `json:"number"`
			} `json:"pieces"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snapshot))
		assert.Equal(t, room.RoomID, snapshot.RoomID)
		assert.Equal(t, "a", snapshot.CurrentTurn)
		assert.Empty(t, snapshot.Players)
		require.Len(t, snapshot.Pieces, entity.BoardSize)
		for _, row := range snapshot.Pieces {
			assert.Len(t, row, entity.BoardSize)
		}
	})
}
