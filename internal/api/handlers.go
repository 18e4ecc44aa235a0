// Package api serves the read-only admin endpoints. Rooms are created
// by joining over the websocket, never through REST, and are never
// deleted within a process lifetime.
package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/manpreetbhatti/sketchroom/internal/protocol"
	"github.com/manpreetbhatti/sketchroom/internal/room"
)

type API struct {
	registry *room.Registry
	started  time.Time
	logger   *zap.Logger
}

func New(registry *room.Registry, logger *zap.Logger) *API {
	return &API{
		registry: registry,
		started:  time.Now(),
		logger:   logger,
	}
}

// Routes returns the router for the admin surface.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", a.health)
	r.Get("/api/stats", a.stats)
	r.Get("/api/rooms", a.listRooms)
	r.Get("/api/rooms/{name}", a.getRoom)
	return r
}

func (a *API) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Error("encoding response", zap.Error(err))
	}
}

func (a *API) errorResponse(w http.ResponseWriter, status int, message string) {
	a.jsonResponse(w, status, map[string]string{"error": message})
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	a.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	a.jsonResponse(w, http.StatusOK, map[string]any{
		"active_rooms":     a.registry.Len(),
		"active_sessions":  a.registry.SessionCount(),
		"total_operations": a.registry.OperationCount(),
		"uptime_seconds":   int(time.Since(a.started).Seconds()),
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

type RoomResponse struct {
	Name        string `json:"name"`
	ActiveUsers int    `json:"active_users"`
	Operations  int    `json:"operations"`
	RedoDepth   int    `json:"redo_depth"`
}

type RoomDetailResponse struct {
	RoomResponse
	Users []protocol.UserInfo `json:"users"`
}

func (a *API) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms := a.registry.Rooms()

	response := make([]RoomResponse, len(rooms))
	for i, rm := range rooms {
		response[i] = RoomResponse{
			Name:        rm.Name,
			ActiveUsers: rm.MemberCount(),
			Operations:  rm.LogLen(),
			RedoDepth:   rm.RedoDepth(),
		}
	}
	sort.Slice(response, func(i, j int) bool { return response[i].Name < response[j].Name })

	a.jsonResponse(w, http.StatusOK, map[string]any{"rooms": response})
}

func (a *API) getRoom(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	rm, ok := a.registry.Get(name)
	if !ok {
		a.errorResponse(w, http.StatusNotFound, "Room not found")
		return
	}

	a.jsonResponse(w, http.StatusOK, RoomDetailResponse{
		RoomResponse: RoomResponse{
			Name:        rm.Name,
			ActiveUsers: rm.MemberCount(),
			Operations:  rm.LogLen(),
			RedoDepth:   rm.RedoDepth(),
		},
		Users: rm.Members(),
	})
}
