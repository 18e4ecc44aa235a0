// Package stats samples the registry on an interval and feeds the
// room/session gauges.
package stats

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/manpreetbhatti/sketchroom/internal/metrics"
	"github.com/manpreetbhatti/sketchroom/internal/room"
)

type Config struct {
	Interval time.Duration
}

func DefaultConfig() Config {
	return Config{Interval: 30 * time.Second}
}

type Service struct {
	registry *room.Registry
	config   Config
	logger   *zap.Logger
	stop     chan struct{}
	wg       sync.WaitGroup
}

func New(registry *room.Registry, config Config, logger *zap.Logger) *Service {
	return &Service{
		registry: registry,
		config:   config,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

func (s *Service) Start() {
	s.wg.Add(1)
	go s.run()
	s.logger.Info("stats service started",
		zap.Duration("interval", s.config.Interval))
}

func (s *Service) Stop() {
	close(s.stop)
	s.wg.Wait()
	s.logger.Info("stats service stopped")
}

func (s *Service) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.sample()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

func (s *Service) sample() {
	metrics.ActiveRooms.Set(float64(s.registry.Len()))
	metrics.ActiveSessions.Set(float64(s.registry.SessionCount()))
}
