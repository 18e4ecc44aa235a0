package stats

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/manpreetbhatti/sketchroom/internal/metrics"
	"github.com/manpreetbhatti/sketchroom/internal/room"
)

func TestServiceSamplesGauges(t *testing.T) {
	reg := room.NewRegistry(zap.NewNop())
	r := reg.GetOrCreate("r1")
	r.Join(room.NewSession("ana", "#f00", 32))
	r.Join(room.NewSession("ben", "#0f0", 32))
	reg.GetOrCreate("r2")

	svc := New(reg, Config{Interval: time.Hour}, zap.NewNop())
	svc.Start()
	defer svc.Stop()

	// Start performs one immediate sample before the first tick.
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.ActiveRooms) == 2 &&
			testutil.ToFloat64(metrics.ActiveSessions) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestServiceStops(t *testing.T) {
	reg := room.NewRegistry(zap.NewNop())
	svc := New(reg, DefaultConfig(), zap.NewNop())
	svc.Start()

	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
