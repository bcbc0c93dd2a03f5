package websocket

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/numbers-backend/internal/entity"
)

// Message is the envelope every wire message travels in, both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// client -> server actions.
const (
	ActionJoinTeam  = "join_team"
	ActionResume    = "resume"
	ActionLeaveTeam = "leave_team"
	ActionMove      = "move"
)

// server -> client replies.
const (
	ReplyUserCreated       = "user_created"
	ReplyAuthorized        = "authorized"
	ReplyActionNotAccepted = "action_not_accepted"
	ReplySessionExpired    = "session_expired"
)

// close reasons carried on the closing frame.
const (
	closeReasonLagged      = "Server Lagged"
	closeReasonInvalidData = "Invalid Data"
)

const messagePlayerLimitExceeded = "PLAYER_LIMIT_EXCEEDED"

type JoinTeamPayload struct {
	Side entity.Side `json:"side"`
}

type ResumePayload struct {
	PrivateID uuid.UUID `json:"private_id"`
}

type MovePayload struct {
	From entity.Position `json:"from"`
	To   entity.Position `json:"to"`
}

type UserCreatedPayload struct {
	Success   bool       `json:"success"`
	PrivateID *uuid.UUID `json:"private_id,omitempty"`
	PublicID  *uuid.UUID `json:"public_id,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// inboundFrame is one frame as the read pump hands it to the dispatch
// loop. Malformed covers non-text frames and unparsable payloads alike.
type inboundFrame struct {
	message   Message
	malformed bool
}

// reply is a direct answer routed through the write loop. invalidData
// makes the write loop close the connection instead of answering.
type reply struct {
	message     *Message
	invalidData bool
}

func newMessageReply(action string, payload any) reply {
	message := Message{Action: action}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			panic(err) // all payload types marshal by construction
		}

		message.Payload = raw
	}

	return reply{message: &message}
}
