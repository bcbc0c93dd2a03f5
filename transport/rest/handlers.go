package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/numbers-backend/internal/apperror"
	"github.com/rocketscienceinc/numbers-backend/internal/entity"
	"github.com/rocketscienceinc/numbers-backend/internal/game"
	"github.com/rocketscienceinc/numbers-backend/internal/session"
)

// MinimumServerVersion is the oldest client protocol this server still
// speaks; clients compare it against their own version before connecting.
const MinimumServerVersion = 1

const (
	messageInvalidBody         = "INVALID_BODY"
	messageInvalidPlayerLimit  = "INVALID_PLAYER_LIMIT"
	messageInvalidFirstSide    = "INVALID_FIRST_SIDE"
	messageInternalServerError = "INTERNAL_SERVER_ERROR"
)

type registry interface {
	Create(config game.Config) entity.RoomID
	Exists(id entity.RoomID) bool
	List() []session.RoomSummary
	WithRead(id entity.RoomID, f func(*session.Session))
}

type gameSocket interface {
	Serve(w http.ResponseWriter, r *http.Request, roomID entity.RoomID)
}

type Handlers struct {
	logger   *slog.Logger
	registry registry
	socket   gameSocket
}

func NewHandlers(logger *slog.Logger, registry registry, socket gameSocket) *Handlers {
	return &Handlers{
		logger:   logger.With("component", "rest"),
		registry: registry,
		socket:   socket,
	}
}

// Router - builds the route table. Room-scoped routes are wrapped in
// withRoom, so their handlers may assume the room exists.
func (that *Handlers) Router() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", that.serverInfo)
	mux.HandleFunc("GET /ping", that.ping)
	mux.HandleFunc("POST /rooms/new", that.createRoom)
	mux.HandleFunc("GET /rooms", that.listRooms)
	mux.HandleFunc("GET /rooms/{id}", that.withRoom(that.roomInfo))
	mux.HandleFunc("GET /rooms/{id}/ws", that.withRoom(that.serveSocket))

	return mux
}

type serverInfoResponse struct {
	MinVersion int `json:"min_version"`
}

func (that *Handlers) serverInfo(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, serverInfoResponse{MinVersion: MinimumServerVersion})
}

func (that *Handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

type createRoomRequest struct {
	TeamPlayerLimit *int         `json:"team_player_limit"`
	FirstSide       *entity.Side `json:"first_side"`
}

type createRoomResponse struct {
	Success bool          `json:"success"`
	RoomID  entity.RoomID `json:"room_id,omitempty"`
	Message string        `json:"message,omitempty"`
}

func (that *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var request createRoomRequest
	// an empty body means "all defaults"
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		that.writeJSON(w, http.StatusBadRequest, createRoomResponse{Success: false, Message: messageInvalidBody})
		return
	}

	config, err := game.ConfigFromRequest(request.TeamPlayerLimit, request.FirstSide)
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, createRoomResponse{Success: false, Message: configErrorMessage(err)})
		return
	}

	roomID := that.registry.Create(config)
	that.logger.Info("room created", "room_id", string(roomID))

	that.writeJSON(w, http.StatusCreated, createRoomResponse{Success: true, RoomID: roomID})
}

type roomListResponse struct {
	Rooms []session.RoomSummary `json:"rooms"`
}

func (that *Handlers) listRooms(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, roomListResponse{Rooms: that.registry.List()})
}

type roomInfoResponse struct {
	RoomID      entity.RoomID   `json:"room_id"`
	CurrentTurn entity.Side     `json:"current_turn"`
	Players     []entity.Player `json:"players"`
	Pieces      entity.Pieces   `json:"pieces"`
}

func (that *Handlers) roomInfo(w http.ResponseWriter, _ *http.Request, roomID entity.RoomID) {
	var response roomInfoResponse
	that.registry.WithRead(roomID, func(roomSession *session.Session) {
		board := roomSession.Board()
		response = roomInfoResponse{
			RoomID:      roomID,
			CurrentTurn: board.CurrentTurn(),
			Players:     board.Players(),
			Pieces:      board.Pieces(),
		}
	})

	that.writeJSON(w, http.StatusOK, response)
}

func (that *Handlers) serveSocket(w http.ResponseWriter, r *http.Request, roomID entity.RoomID) {
	that.socket.Serve(w, r, roomID)
}

// withRoom - gates a room-scoped route: parses the id and answers 404 when
// the room is unknown, so the wrapped handler never sees an absent room.
func (that *Handlers) withRoom(next func(http.ResponseWriter, *http.Request, entity.RoomID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := entity.ParseRoomID(r.PathValue("id"))
		if err != nil || !that.registry.Exists(roomID) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		next(w, r, roomID)
	}
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func configErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidPlayerLimit):
		return messageInvalidPlayerLimit
	case errors.Is(err, apperror.ErrInvalidFirstSide):
		return messageInvalidFirstSide
	default:
		return messageInternalServerError
	}
}
