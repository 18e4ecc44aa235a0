package room

import (
	"sync"

	"go.uber.org/zap"
)

// Process-wide map from room name to room. Rooms are created lazily on
// first reference and live for the rest of the process; state is lost
// on restart by design.
type Registry struct {
	rooms  map[string]*Room
	mu     sync.RWMutex
	logger *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		logger: logger,
	}
}

// GetOrCreate returns the room with the given name, creating it if
// this is the first reference. Concurrent first joins to the same name
// observe a single instance.
func (reg *Registry) GetOrCreate(name string) *Room {
	reg.mu.RLock()
	r, ok := reg.rooms[name]
	reg.mu.RUnlock()
	if ok {
		return r
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok := reg.rooms[name]; ok {
		return r
	}
	r = New(name, reg.logger)
	reg.rooms[name] = r
	reg.logger.Info("room created", zap.String("room", name))
	return r
}

// Get returns an existing room without creating one.
func (reg *Registry) Get(name string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[name]
	return r, ok
}

// Rooms returns all rooms.
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// SessionCount sums connected sessions across all rooms.
func (reg *Registry) SessionCount() int {
	total := 0
	for _, r := range reg.Rooms() {
		total += r.MemberCount()
	}
	return total
}

// OperationCount sums committed log entries across all rooms.
func (reg *Registry) OperationCount() int {
	total := 0
	for _, r := range reg.Rooms() {
		total += r.LogLen()
	}
	return total
}
