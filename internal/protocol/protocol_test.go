package protocol

import (
	"encoding/json"
	"testing"

	"github.com/manpreetbhatti/sketchroom/internal/canvas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	env, err := Decode([]byte(`{"kind":"ping","payload":{"ts":123}}`))
	require.NoError(t, err)
	assert.Equal(t, KindPing, env.Kind)

	var p PingPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, int64(123), p.TS)
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"payload":{}}`, `[1,2,3]`} {
		_, err := Decode([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformedMessage, "input %q", raw)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	op := canvas.Operation{
		ID:     "o1",
		Kind:   canvas.KindStroke,
		Points: []canvas.Point{{X: 0, Y: 0}, {X: 10, Y: 10}},
		Color:  "#ff0000",
		Width:  2,
	}

	data, err := Encode(KindOp, OpPayload{Op: op})
	require.NoError(t, err)

	env, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, KindOp, env.Kind)

	var p OpPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, op, p.Op)
}

func TestMetaPayloadOptionalFields(t *testing.T) {
	var p MetaPayload
	require.NoError(t, json.Unmarshal([]byte(`{"displayName":"ana"}`), &p))
	require.NotNil(t, p.DisplayName)
	assert.Equal(t, "ana", *p.DisplayName)
	assert.Nil(t, p.Color)
}
