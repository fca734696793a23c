package network

import (
	"encoding/json"

	"github.com/openparty/charades/game"
)

// Message types, player -> host.
const (
	MsgPlayerJoin   = "PLAYER_JOIN"
	MsgRequestState = "REQUEST_STATE"
	MsgPlayerAction = "PLAYER_ACTION"
)

// Message types, host -> player.
const (
	MsgStateUpdate = "STATE_UPDATE"
	MsgJoinError   = "JOIN_ERROR"
	MsgGameEnded   = "GAME_ENDED"
)

// Player action names carried inside PLAYER_ACTION.
const (
	ActionRevealClue = "REVEAL_CLUE"
	ActionStartTimer = "START_TIMER"
	ActionMarkResult = "MARK_RESULT"
)

// Envelope is the tagged union every protocol message travels in. Payload
// stays raw until the type discriminator has been looked at.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type RequestStatePayload struct {
	PlayerID string `json:"playerId"`
}

type PlayerActionPayload struct {
	Action   string     `json:"action"`
	PlayerID string     `json:"playerId"`
	Data     ActionData `json:"data,omitempty"`
}

// ActionData carries the optional per-action arguments.
type ActionData struct {
	Success bool `json:"success,omitempty"`
}

type JoinErrorPayload struct {
	Message string `json:"message"`
}

// Encode wraps a payload in an envelope and marshals the whole message.
func Encode(msgType string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

// Decode parses the envelope; the payload stays raw for the caller.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// DecodePayload unmarshals an envelope payload into the given value.
func DecodePayload(env *Envelope, v interface{}) error {
	return json.Unmarshal(env.Payload, v)
}

// DecodeState unmarshals a STATE_UPDATE payload.
func DecodeState(env *Envelope) (game.GameState, error) {
	var state game.GameState
	err := json.Unmarshal(env.Payload, &state)
	return state, err
}
