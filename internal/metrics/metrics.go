// Package metrics exposes the engine's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sketchroom"

var (
	// ActiveRooms and ActiveSessions are sampled periodically from the
	// registry by the stats service.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_rooms",
		Help:      "Number of rooms in the registry",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of connected sessions across all rooms",
	})

	OperationsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_committed_total",
		Help:      "Operations appended to a room log",
	})

	UndoTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "undo_total",
		Help:      "Undo operations that removed a log entry",
	})

	RedoTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "redo_total",
		Help:      "Redo operations that re-applied a log entry",
	})

	TransientRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transient_relayed_total",
		Help:      "Stroke fragments relayed to room members",
	})

	SessionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_failed_total",
		Help:      "Sessions closed because their outbound queue was full",
	})

	MessagesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_dropped_total",
		Help:      "Inbound messages discarded without dispatch",
	}, []string{"reason"})
)

// Drop reasons for MessagesDropped.
const (
	DropMalformed = "malformed"
	DropUnknown   = "unknown_kind"
	DropInvalidOp = "invalid_op"
)
