// Package hub interprets inbound messages and maps each one onto a
// room operation. Room-level failures are handled here and never
// terminate a connection; only transport loss ends a session.
package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/manpreetbhatti/sketchroom/internal/canvas"
	"github.com/manpreetbhatti/sketchroom/internal/metrics"
	"github.com/manpreetbhatti/sketchroom/internal/protocol"
	"github.com/manpreetbhatti/sketchroom/internal/room"
)

const defaultRoom = "default"

// Fallback colors for sessions that connect without one.
var palette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
}

type Hub struct {
	registry   *room.Registry
	sendBuffer int
	logger     *zap.Logger
	guestSeq   atomic.Uint64
}

func New(registry *room.Registry, sendBuffer int, logger *zap.Logger) *Hub {
	return &Hub{
		registry:   registry,
		sendBuffer: sendBuffer,
		logger:     logger,
	}
}

func (h *Hub) Registry() *room.Registry {
	return h.registry
}

// Connect resolves the handshake metadata, creates the session, and
// joins it to its room. The room is fixed for the session's lifetime.
func (h *Hub) Connect(roomName, displayName, color string) (*room.Room, *room.Session) {
	n := h.guestSeq.Add(1)
	if roomName == "" {
		roomName = defaultRoom
	}
	if displayName == "" {
		displayName = fmt.Sprintf("guest-%d", n)
	}
	if color == "" {
		color = palette[n%uint64(len(palette))]
	}

	s := room.NewSession(displayName, color, h.sendBuffer)
	r := h.registry.GetOrCreate(roomName)
	r.Join(s)
	return r, s
}

// Disconnect tears the session down. Safe to call from multiple
// termination signals; the room leave runs once.
func (h *Hub) Disconnect(r *room.Room, s *room.Session) {
	s.Close()
	r.Leave(s)
}

// Handle dispatches one inbound frame. Malformed frames are dropped
// with a diagnostic, unknown kinds are ignored, and nothing here ever
// closes the connection.
func (h *Hub) Handle(r *room.Room, s *room.Session, data []byte) {
	env, err := protocol.Decode(data)
	if err != nil {
		metrics.MessagesDropped.WithLabelValues(metrics.DropMalformed).Inc()
		h.logger.Debug("dropping malformed message",
			zap.String("session", s.ID), zap.Error(err))
		return
	}

	switch env.Kind {
	case protocol.KindPing:
		var p protocol.PingPayload
		if !h.decodePayload(s, env, &p) {
			return
		}
		h.unicast(r, s, protocol.KindPong, protocol.PingPayload{TS: p.TS})

	case protocol.KindStrokePart:
		var p protocol.StrokePartPayload
		if !h.decodePayload(s, env, &p) {
			return
		}
		if p.OpID == "" {
			metrics.MessagesDropped.WithLabelValues(metrics.DropMalformed).Inc()
			h.logger.Debug("dropping fragment without opId", zap.String("session", s.ID))
			return
		}
		r.RelayTransient(data, s)

	case protocol.KindOp:
		var p protocol.OpPayload
		if !h.decodePayload(s, env, &p) {
			return
		}
		if _, err := r.Commit(s, p.Op); err != nil {
			if errors.Is(err, canvas.ErrInvalidOperation) {
				metrics.MessagesDropped.WithLabelValues(metrics.DropInvalidOp).Inc()
				h.logger.Info("rejected operation",
					zap.String("session", s.ID), zap.Error(err))
				return
			}
			h.logger.Error("commit failed",
				zap.String("session", s.ID), zap.Error(err))
		}

	case protocol.KindMeta:
		var p protocol.MetaPayload
		if !h.decodePayload(s, env, &p) {
			return
		}
		r.UpdateMeta(s, p.DisplayName, p.Color)

	case protocol.KindUndo:
		r.Undo()

	case protocol.KindRedo:
		r.Redo()

	case protocol.KindRequestState:
		h.unicast(r, s, protocol.KindState, protocol.StatePayload{Ops: r.Snapshot()})

	default:
		metrics.MessagesDropped.WithLabelValues(metrics.DropUnknown).Inc()
		h.logger.Debug("ignoring unknown message kind",
			zap.String("kind", env.Kind), zap.String("session", s.ID))
	}
}

func (h *Hub) decodePayload(s *room.Session, env protocol.Envelope, v any) bool {
	if err := json.Unmarshal(env.Payload, v); err != nil {
		metrics.MessagesDropped.WithLabelValues(metrics.DropMalformed).Inc()
		h.logger.Debug("dropping message with bad payload",
			zap.String("kind", env.Kind), zap.String("session", s.ID), zap.Error(err))
		return false
	}
	return true
}

func (h *Hub) unicast(r *room.Room, s *room.Session, kind string, payload any) {
	data, err := protocol.Encode(kind, payload)
	if err != nil {
		h.logger.Error("encode failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	if s.Send(data) {
		return
	}
	if s.Close() {
		metrics.SessionsFailed.Inc()
		h.logger.Warn("outbound queue full, failing session",
			zap.String("room", r.Name), zap.String("session", s.ID))
	}
}
