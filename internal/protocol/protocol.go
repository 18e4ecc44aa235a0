package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/manpreetbhatti/sketchroom/internal/canvas"
)

// A message that fails to parse is discarded; the connection stays open.
var ErrMalformedMessage = errors.New("malformed message")

// Message kinds. Inbound kinds not listed here are ignored so newer
// clients can speak to older servers.
const (
	// Inbound
	KindStrokePart   = "stroke-part"
	KindOp           = "op"
	KindMeta         = "meta"
	KindUndo         = "undo"
	KindRedo         = "redo"
	KindRequestState = "request-state"
	KindPing         = "ping"

	// Outbound
	KindPong     = "pong"
	KindState    = "state"
	KindUserList = "user-list"
	KindUserLeft = "user-left"
)

// Every wire message is one envelope: a kind tag plus a kind-specific
// payload.
type Envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Decode parses a raw frame into an envelope.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if env.Kind == "" {
		return Envelope{}, fmt.Errorf("%w: missing kind", ErrMalformedMessage)
	}
	return env, nil
}

// Encode serializes an envelope for delivery.
func Encode(kind string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Kind: kind, Payload: raw})
}

// Public metadata for one connected participant.
type UserInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

// Payload of inbound and outbound "op" messages carrying a committed
// operation.
type OpPayload struct {
	Op canvas.Operation `json:"op"`
}

// Payload of "stroke-part": a partial, in-progress operation. Each
// fragment fully supersedes the previous content for its OpID on the
// receiving side.
type StrokePartPayload struct {
	OpID     string         `json:"opId"`
	Points   []canvas.Point `json:"points"`
	Color    string         `json:"color"`
	Width    float64        `json:"width"`
	Finalize bool           `json:"finalize"`
}

// Payload of "meta". Absent fields leave the stored value unchanged.
type MetaPayload struct {
	DisplayName *string `json:"displayName,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// Payload of "ping" and "pong".
type PingPayload struct {
	TS int64 `json:"ts"`
}

// Payload of "state": the full ordered operation log.
type StatePayload struct {
	Ops []canvas.Operation `json:"ops"`
}

// Payload of "user-list".
type UserListPayload struct {
	Users []UserInfo `json:"users"`
}

// Payload of "user-left".
type UserLeftPayload struct {
	ID string `json:"id"`
}

// Payload of the dedicated "undo" broadcast.
type UndoPayload struct {
	TargetOpID string `json:"targetOpId"`
	TS         int64  `json:"ts"`
}

// Payload of the dedicated "redo" broadcast: the full re-applied
// operation.
type RedoPayload struct {
	Op canvas.Operation `json:"op"`
	TS int64            `json:"ts"`
}

// Synthetic operation mirrored inside an "op" envelope alongside the
// dedicated undo/redo broadcasts. Receivers treat the pair as one
// event; these are never part of any room's log.
type SyntheticOp struct {
	Kind       string            `json:"kind"`
	TargetOpID string            `json:"targetOpId,omitempty"`
	Stroke     *canvas.Operation `json:"stroke,omitempty"`
	TS         int64             `json:"ts"`
}

// Payload of the "op" envelope wrapping a SyntheticOp.
type SyntheticOpPayload struct {
	Op SyntheticOp `json:"op"`
}
