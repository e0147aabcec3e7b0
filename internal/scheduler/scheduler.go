package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/etymograph/dailyverse/internal/model"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const runTimeout = 2 * time.Minute

// Warmer computes the daily set if the cache does not already hold it.
type Warmer interface {
	Words(ctx context.Context) ([]model.Word, error)
}

// PrewarmScheduler recomputes the daily words shortly after UTC midnight so
// the first request of the day hits a warm cache.
type PrewarmScheduler struct {
	cron     *cron.Cron
	entryID  cron.EntryID
	warmer   Warmer
	schedule string
	logger   *zap.Logger

	mu        sync.Mutex
	running   bool
	runs      int
	lastRun   time.Time
	lastCount int
	lastError string
}

func NewPrewarmScheduler(warmer Warmer, schedule string, logger *zap.Logger) (*PrewarmScheduler, error) {
	s := &PrewarmScheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		warmer:   warmer,
		schedule: schedule,
		logger:   logger.Named("scheduler"),
	}

	entryID, err := s.cron.AddFunc(schedule, s.Run)
	if err != nil {
		return nil, fmt.Errorf("invalid prewarm schedule %q: %w", schedule, err)
	}
	s.entryID = entryID
	return s, nil
}

func (s *PrewarmScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("prewarm scheduler started", zap.String("schedule", s.schedule))
}

// Stop halts the scheduler and waits for a running prewarm to finish.
func (s *PrewarmScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("prewarm scheduler stopped")
}

// Run performs one prewarm.
func (s *PrewarmScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	start := time.Now()
	words, err := s.warmer.Words(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastRun = start
	if err != nil {
		s.lastError = err.Error()
		s.logger.Error("prewarm failed", zap.Error(err))
		return
	}
	s.lastError = ""
	s.lastCount = len(words)
	s.logger.Info("prewarm finished",
		zap.Int("words", len(words)),
		zap.Duration("elapsed", time.Since(start)))
}

// GetStatus returns current scheduler status
func (s *PrewarmScheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":       s.running,
		"schedule":      s.schedule,
		"runs":          s.runs,
		"lastWordCount": s.lastCount,
		"lastError":     s.lastError,
	}
	if !s.lastRun.IsZero() {
		status["lastRun"] = s.lastRun.UTC()
	}
	if next := s.cron.Entry(s.entryID).Next; s.running && !next.IsZero() {
		status["nextRun"] = next.UTC()
	}
	return status
}
