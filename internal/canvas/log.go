package canvas

import "sync"

// The authoritative drawing history for one room: an append-only
// sequence of committed operations plus the stack of operations
// removed by undo. Undo always removes the most recent operation;
// a fresh append invalidates everything on the redo stack.
type Log struct {
	ops    []Operation
	undone []Operation
	mu     sync.RWMutex
}

func NewLog() *Log {
	return &Log{
		ops:    make([]Operation, 0),
		undone: make([]Operation, 0),
	}
}

// Append commits op as the new last element and clears the redo stack.
func (l *Log) Append(op Operation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
	l.undone = l.undone[:0]
}

// Undo removes the most recently committed operation and pushes it
// onto the redo stack. Returns false when there is nothing to undo.
func (l *Log) Undo() (Operation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.ops) == 0 {
		return Operation{}, false
	}
	op := l.ops[len(l.ops)-1]
	l.ops = l.ops[:len(l.ops)-1]
	l.undone = append(l.undone, op)
	return op, true
}

// Redo re-appends the most recently undone operation. It does not
// clear the redo stack; only a fresh Append does that.
func (l *Log) Redo() (Operation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.undone) == 0 {
		return Operation{}, false
	}
	op := l.undone[len(l.undone)-1]
	l.undone = l.undone[:len(l.undone)-1]
	l.ops = append(l.ops, op)
	return op, true
}

// Snapshot returns a copy of the current log for late-joiner sync.
func (l *Log) Snapshot() []Operation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ops := make([]Operation, len(l.ops))
	copy(ops, l.ops)
	return ops
}

// Len returns the number of committed operations.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ops)
}

// RedoDepth returns the number of undone operations available to redo.
func (l *Log) RedoDepth() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.undone)
}
