package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/manpreetbhatti/sketchroom/internal/canvas"
	"github.com/manpreetbhatti/sketchroom/internal/room"
)

func setup(t *testing.T) (*room.Registry, http.Handler) {
	t.Helper()
	reg := room.NewRegistry(zap.NewNop())
	return reg, New(reg, zap.NewNop()).Routes()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	_, h := setup(t)

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestStats(t *testing.T) {
	reg, h := setup(t)

	r := reg.GetOrCreate("r1")
	s := room.NewSession("ana", "#f00", 32)
	r.Join(s)
	_, err := r.Commit(s, canvas.Operation{
		Kind:   canvas.KindStroke,
		Points: []canvas.Point{{X: 0, Y: 0}},
		Color:  "#000",
		Width:  1,
	})
	require.NoError(t, err)

	rec := get(t, h, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.EqualValues(t, 1, body["active_rooms"])
	assert.EqualValues(t, 1, body["active_sessions"])
	assert.EqualValues(t, 1, body["total_operations"])
}

func TestListRooms(t *testing.T) {
	reg, h := setup(t)
	reg.GetOrCreate("beta")
	reg.GetOrCreate("alpha")

	rec := get(t, h, "/api/rooms")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rooms []RoomResponse `json:"rooms"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Rooms, 2)
	assert.Equal(t, "alpha", body.Rooms[0].Name)
	assert.Equal(t, "beta", body.Rooms[1].Name)
}

func TestGetRoom(t *testing.T) {
	reg, h := setup(t)
	r := reg.GetOrCreate("r1")
	s := room.NewSession("ana", "#f00", 32)
	r.Join(s)

	rec := get(t, h, "/api/rooms/r1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body RoomDetailResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "r1", body.Name)
	assert.Equal(t, 1, body.ActiveUsers)
	require.Len(t, body.Users, 1)
	assert.Equal(t, "ana", body.Users[0].DisplayName)
}

func TestGetRoomNotFoundDoesNotCreate(t *testing.T) {
	reg, h := setup(t)

	rec := get(t, h, "/api/rooms/ghost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, reg.Len(), "REST reads must not create rooms")
}
