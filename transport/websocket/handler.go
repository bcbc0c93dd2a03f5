package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/numbers-backend/internal/entity"
	"github.com/rocketscienceinc/numbers-backend/internal/pkg"
	"github.com/rocketscienceinc/numbers-backend/internal/session"
)

const (
	writeWait        = 10 * time.Second
	handshakeTimeout = 10 * time.Second
)

// probe payload for the liveness handshake; the value itself is arbitrary.
var probePayload = []byte{1, 2, 3}

type registry interface {
	WithRead(id entity.RoomID, f func(*session.Session))
	WithWrite(id entity.RoomID, f func(*session.Session))
}

// Handler speaks the game protocol over upgraded connections. One Handler
// serves every room; per-connection state lives in connState.
type Handler struct {
	logger   *slog.Logger
	registry registry
	upgrader websocket.Upgrader
}

func NewHandler(logger *slog.Logger, registry registry) *Handler {
	return &Handler{
		logger:   logger.With("component", "websocket"),
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

// Serve - upgrades the request and runs the connection protocol until the
// connection dies. The room must already be known to exist; the REST layer
// gates on that before routing here.
func (that *Handler) Serve(w http.ResponseWriter, r *http.Request, roomID entity.RoomID) {
	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		that.logger.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log := that.logger.With("room_id", string(roomID), "remote_addr", conn.RemoteAddr().String())
	log.Info("connection established")

	that.handleConn(conn, roomID, log)

	log.Info("connection closed")
}

func (that *Handler) handleConn(conn *websocket.Conn, roomID entity.RoomID, log *slog.Logger) {
	// stop unblocks the read pump when this function returns for any
	// reason; done is closed by the write loop when it exits.
	stop := make(chan struct{})
	defer close(stop)

	pong := make(chan struct{}, 1)
	conn.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	if err := conn.WriteControl(websocket.PingMessage, probePayload, time.Now().Add(writeWait)); err != nil {
		log.Error("failed to send liveness probe", "error", err)
		return
	}

	if err := conn.SetReadDeadline(time.Now().Add(handshakeTimeout)); err != nil {
		log.Error("failed to arm handshake deadline", "error", err)
		return
	}

	// The read pump is the sole reader. It runs from before the pong so
	// gorilla can surface the control frame, and it blocks on the
	// unbuffered channel, which is what gives the inbound side its
	// backpressure: no new frame is read until dispatch took the last one.
	inbound := make(chan inboundFrame)
	go func() {
		defer close(inbound)
		for {
			messageType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			frame := inboundFrame{}
			if messageType != websocket.TextMessage {
				frame.malformed = true
			} else if err := json.Unmarshal(data, &frame.message); err != nil || frame.message.Action == "" {
				frame.malformed = true
			}

			select {
			case inbound <- frame:
			case <-stop:
				return
			}
		}
	}()

	// Handshake: the liveness ack must arrive before any data frame. A
	// frame that raced in right behind the pong is kept to be dispatched.
	var pending *inboundFrame
	select {
	case <-pong:
	case frame, ok := <-inbound:
		if !ok {
			log.Info("no liveness ack, dropping connection")
			return
		}
		select {
		case <-pong:
			pending = &frame
		default:
			log.Info("data before liveness ack, dropping connection")
			return
		}
	}

	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		log.Error("failed to clear handshake deadline", "error", err)
		return
	}

	var subscriber *session.Subscriber
	that.registry.WithRead(roomID, func(roomSession *session.Session) {
		subscriber = roomSession.Subscribe()
	})
	defer subscriber.Close()

	replies := make(chan reply)
	done := make(chan struct{})

	go that.writeLoop(conn, subscriber, replies, done, log)

	state := &connState{
		handler: that,
		roomID:  roomID,
		log:     log,
	}

dispatch:
	for {
		var frame inboundFrame
		if pending != nil {
			frame, pending = *pending, nil
		} else {
			select {
			case received, ok := <-inbound:
				if !ok {
					break dispatch
				}
				frame = received
			case <-done:
				break dispatch
			}
		}

		if response := state.handleFrame(frame); response != nil {
			select {
			case replies <- *response:
			case <-done:
				break dispatch
			}
		}
	}

	// Cancel the sibling loop and wait it out before cleanup.
	close(replies)
	conn.Close()
	<-done

	if state.privateID != nil {
		that.registry.WithWrite(roomID, func(roomSession *session.Session) {
			roomSession.Board().RemovePlayer(*state.privateID)
		})
	}
}

// writeLoop - serializes everything going out: broadcast events and direct
// replies, in whichever order they become ready. It owns the connection's
// write side and closes the connection on exit, which cancels the read
// pump and with it the dispatch loop.
func (that *Handler) writeLoop(conn *websocket.Conn, subscriber *session.Subscriber, replies <-chan reply, done chan<- struct{}, log *slog.Logger) {
	defer close(done)
	defer conn.Close()

	for {
		select {
		case event, ok := <-subscriber.Events():
			if !ok {
				// The broadcaster dropped us for lagging; the client
				// must reconnect and re-fetch a snapshot.
				log.Info("subscriber lagged, closing connection")
				that.writeClose(conn, websocket.CloseTryAgainLater, closeReasonLagged, log)
				return
			}

			message := Message{Action: event.EventAction()}
			raw, err := json.Marshal(event)
			if err != nil {
				log.Error("failed to marshal event", "error", err)
				return
			}
			message.Payload = raw

			if err := that.writeMessage(conn, message); err != nil {
				log.Info("failed to write event", "error", err)
				return
			}

		case response, ok := <-replies:
			if !ok {
				return
			}

			if response.invalidData {
				that.writeClose(conn, websocket.CloseInvalidFramePayloadData, closeReasonInvalidData, log)
				return
			}

			if err := that.writeMessage(conn, *response.message); err != nil {
				log.Info("failed to write reply", "error", err)
				return
			}
		}
	}
}

func (that *Handler) writeMessage(conn *websocket.Conn, message Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return conn.WriteJSON(message)
}

func (that *Handler) writeClose(conn *websocket.Conn, code int, reason string, log *slog.Logger) {
	data := websocket.FormatCloseMessage(code, reason)
	if err := conn.WriteControl(websocket.CloseMessage, data, time.Now().Add(writeWait)); err != nil {
		log.Info("failed to write close frame", "error", err)
	}
}

// connState is the per-connection dispatch state. privateID is the
// authenticated seat; only the dispatch loop ever touches it, the write
// side never sees it.
type connState struct {
	handler   *Handler
	roomID    entity.RoomID
	log       *slog.Logger
	privateID *uuid.UUID
}

// handleFrame - validates and executes one inbound frame against the room.
// A nil return means there is nothing to answer directly (broadcasts cover
// the visible effect).
func (that *connState) handleFrame(frame inboundFrame) *reply {
	if frame.malformed {
		return &reply{invalidData: true}
	}

	switch frame.message.Action {
	case ActionJoinTeam:
		return that.handleJoinTeam(frame.message.Payload)
	case ActionResume:
		return that.handleResume(frame.message.Payload)
	case ActionMove:
		return that.handleMove(frame.message.Payload)
	case ActionLeaveTeam:
		return that.handleLeaveTeam()
	default:
		return &reply{invalidData: true}
	}
}

func (that *connState) handleJoinTeam(raw json.RawMessage) *reply {
	var payload JoinTeamPayload
	if err := json.Unmarshal(raw, &payload); err != nil || !payload.Side.Valid() {
		return &reply{invalidData: true}
	}

	var response reply
	that.handler.registry.WithWrite(that.roomID, func(roomSession *session.Session) {
		privateID, publicID, err := roomSession.Board().CreatePlayer(payload.Side, pkg.GeneratePlayerName())
		if err != nil {
			response = newMessageReply(ReplyUserCreated, UserCreatedPayload{
				Success: false,
				Message: messagePlayerLimitExceeded,
			})
			return
		}

		response = newMessageReply(ReplyUserCreated, UserCreatedPayload{
			Success:   true,
			PrivateID: &privateID,
			PublicID:  &publicID,
		})
	})

	return &response
}

func (that *connState) handleResume(raw json.RawMessage) *reply {
	var payload ResumePayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.PrivateID == uuid.Nil {
		return &reply{invalidData: true}
	}

	var known bool
	that.handler.registry.WithRead(that.roomID, func(roomSession *session.Session) {
		known = roomSession.Board().ContainsPlayer(payload.PrivateID)
	})

	if !known {
		response := newMessageReply(ReplySessionExpired, nil)
		return &response
	}

	that.privateID = &payload.PrivateID
	that.log.Info("connection authorized")

	response := newMessageReply(ReplyAuthorized, nil)
	return &response
}

func (that *connState) handleMove(raw json.RawMessage) *reply {
	if that.privateID == nil {
		response := newMessageReply(ReplyActionNotAccepted, nil)
		return &response
	}

	var payload MovePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return &reply{invalidData: true}
	}

	var moveErr error
	that.handler.registry.WithWrite(that.roomID, func(roomSession *session.Session) {
		moveErr = roomSession.Board().MovePiece(*that.privateID, payload.From, payload.To)
	})

	if moveErr != nil {
		response := newMessageReply(ReplyActionNotAccepted, nil)
		return &response
	}

	return nil
}

// handleLeaveTeam - voluntary seat vacation: same cleanup as a dropped
// connection, but the connection itself stays open, back in the
// unauthenticated state.
func (that *connState) handleLeaveTeam() *reply {
	if that.privateID == nil {
		response := newMessageReply(ReplyActionNotAccepted, nil)
		return &response
	}

	var removed bool
	that.handler.registry.WithWrite(that.roomID, func(roomSession *session.Session) {
		_, removed = roomSession.Board().RemovePlayer(*that.privateID)
	})

	that.privateID = nil

	if !removed {
		response := newMessageReply(ReplyActionNotAccepted, nil)
		return &response
	}

	return nil
}
