package room

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/manpreetbhatti/sketchroom/internal/canvas"
	"github.com/manpreetbhatti/sketchroom/internal/metrics"
	"github.com/manpreetbhatti/sketchroom/internal/protocol"
)

// One named collaboration space: the operation log, its undo/redo
// stack, and the set of connected sessions. Every mutation runs under
// the room's mutex, and outbound messages are enqueued inside the same
// critical section so delivery order matches commit order.
type Room struct {
	Name string

	log       *canvas.Log
	members   map[string]*Session
	lastStamp int64

	mu     sync.RWMutex
	logger *zap.Logger
}

func New(name string, logger *zap.Logger) *Room {
	return &Room{
		Name:    name,
		log:     canvas.NewLog(),
		members: make(map[string]*Session),
		logger:  logger.With(zap.String("room", name)),
	}
}

// Join adds the session, delivers the current log and presence list to
// the joiner, and announces the updated presence list to everyone else.
func (r *Room) Join(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[s.ID] = s

	r.deliverLocked(s, protocol.KindState, protocol.StatePayload{Ops: r.log.Snapshot()})
	users := r.userListLocked()
	r.deliverLocked(s, protocol.KindUserList, protocol.UserListPayload{Users: users})
	r.broadcastLocked(protocol.KindUserList, protocol.UserListPayload{Users: users}, s)

	r.logger.Info("session joined",
		zap.String("session", s.ID),
		zap.String("name", s.displayName),
		zap.Int("members", len(r.members)))
}

// Leave removes the session and announces the departure. It reports
// false when the session was not a member, which makes cleanup safe to
// trigger from multiple termination signals.
func (r *Room) Leave(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[s.ID]; !ok {
		return false
	}
	delete(r.members, s.ID)

	r.broadcastLocked(protocol.KindUserList, protocol.UserListPayload{Users: r.userListLocked()}, nil)
	r.broadcastLocked(protocol.KindUserLeft, protocol.UserLeftPayload{ID: s.ID}, nil)

	r.logger.Info("session left",
		zap.String("session", s.ID),
		zap.Int("members", len(r.members)))
	return true
}

// UpdateMeta changes the session's display metadata. Absent fields are
// left as they are. The updated presence list goes to all members.
func (r *Room) UpdateMeta(s *Session, displayName, color *string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if displayName != nil {
		s.displayName = *displayName
	}
	if color != nil {
		s.color = *color
	}

	r.broadcastLocked(protocol.KindUserList, protocol.UserListPayload{Users: r.userListLocked()}, nil)
}

// Commit validates and finalizes op, appends it to the log, and
// broadcasts it to every member. The author receives their own
// operation back so an optimistic local render always reconciles
// against the authoritative copy.
func (r *Room) Commit(s *Session, op canvas.Operation) (canvas.Operation, error) {
	if err := op.Validate(); err != nil {
		return canvas.Operation{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	op.AuthorID = s.ID
	op.AuthorName = s.displayName
	op.CommittedAt = r.stampLocked()

	r.log.Append(op)
	r.broadcastLocked(protocol.KindOp, protocol.OpPayload{Op: op}, nil)
	metrics.OperationsCommitted.Inc()

	return op, nil
}

// RelayTransient forwards an in-progress fragment, verbatim, to every
// member except the origin. Nothing is persisted.
func (r *Room) RelayTransient(raw []byte, origin *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.broadcastRawLocked(raw, origin)
	metrics.TransientRelayed.Inc()
}

// Undo removes the newest committed operation, whoever authored it,
// and broadcasts a removal notice in both wire forms. Reports false
// with no broadcast on an empty log.
func (r *Room) Undo() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.log.Undo()
	if !ok {
		return "", false
	}

	ts := time.Now().UnixMilli()
	r.broadcastLocked(protocol.KindUndo, protocol.UndoPayload{TargetOpID: op.ID, TS: ts}, nil)
	r.broadcastLocked(protocol.KindOp, protocol.SyntheticOpPayload{
		Op: protocol.SyntheticOp{Kind: protocol.KindUndo, TargetOpID: op.ID, TS: ts},
	}, nil)
	metrics.UndoTotal.Inc()

	return op.ID, true
}

// Redo re-applies the most recently undone operation and broadcasts it
// in both wire forms. Reports false with no broadcast when there is
// nothing to redo.
func (r *Room) Redo() (canvas.Operation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.log.Redo()
	if !ok {
		return canvas.Operation{}, false
	}

	ts := time.Now().UnixMilli()
	r.broadcastLocked(protocol.KindRedo, protocol.RedoPayload{Op: op, TS: ts}, nil)
	r.broadcastLocked(protocol.KindOp, protocol.SyntheticOpPayload{
		Op: protocol.SyntheticOp{Kind: protocol.KindRedo, Stroke: &op, TS: ts},
	}, nil)
	metrics.RedoTotal.Inc()

	return op, true
}

// Snapshot returns a copy of the current log, consistent with any
// concurrent mutation.
func (r *Room) Snapshot() []canvas.Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log.Snapshot()
}

// Members returns the current presence list, sorted by session id.
func (r *Room) Members() []protocol.UserInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userListLocked()
}

func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *Room) LogLen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log.Len()
}

func (r *Room) RedoDepth() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log.RedoDepth()
}

// stampLocked returns a per-room wall-clock stamp in milliseconds,
// forced strictly increasing even when the clock stalls or steps back.
func (r *Room) stampLocked() int64 {
	now := time.Now().UnixMilli()
	if now <= r.lastStamp {
		now = r.lastStamp + 1
	}
	r.lastStamp = now
	return now
}

func (r *Room) userListLocked() []protocol.UserInfo {
	users := make([]protocol.UserInfo, 0, len(r.members))
	for _, m := range r.members {
		users = append(users, protocol.UserInfo{
			ID:          m.ID,
			DisplayName: m.displayName,
			Color:       m.color,
		})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (r *Room) deliverLocked(s *Session, kind string, payload any) {
	data, err := protocol.Encode(kind, payload)
	if err != nil {
		r.logger.Error("encode failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	r.pushLocked(s, data)
}

func (r *Room) broadcastLocked(kind string, payload any, except *Session) {
	data, err := protocol.Encode(kind, payload)
	if err != nil {
		r.logger.Error("encode failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	r.broadcastRawLocked(data, except)
}

func (r *Room) broadcastRawLocked(data []byte, except *Session) {
	for _, m := range r.members {
		if m == except {
			continue
		}
		r.pushLocked(m, data)
	}
}

// pushLocked enqueues without blocking. A member whose queue cannot
// accept the message is failed asynchronously; the transport notices
// the closed session and runs the normal leave path. Delivery to the
// remaining members continues.
func (r *Room) pushLocked(s *Session, data []byte) {
	if s.Send(data) {
		return
	}
	if s.Close() {
		metrics.SessionsFailed.Inc()
		r.logger.Warn("outbound queue full, failing session", zap.String("session", s.ID))
	}
}
