package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etymograph/dailyverse/internal/cache"
	"github.com/etymograph/dailyverse/internal/filter"
	"github.com/etymograph/dailyverse/internal/middleware"
	"github.com/etymograph/dailyverse/internal/model"
	"github.com/etymograph/dailyverse/internal/shuffle"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNoWords is returned when a run could not produce a single word, not even
// from the fallbacks.
var ErrNoWords = errors.New("no words could be produced")

var defaultSeeds = []string{"create", "explore"}

const (
	outcomeComplete = "complete"
	outcomePartial  = "partial"
	outcomeDegraded = "degraded"
	outcomeFailed   = "failed"

	refreshKey      = "daily_words"
	snapshotTimeout = 2 * time.Second
)

// WordOfDaySource returns today's word. ok is false when the word is a
// stand-in for a failed fetch.
type WordOfDaySource interface {
	Fetch(ctx context.Context) (word model.Word, ok bool)
}

type TopicSource interface {
	Topics(ctx context.Context) []string
}

type RelatedSource interface {
	Related(ctx context.Context, seeds []string) []model.Word
}

type ThemedSource interface {
	Themed(ctx context.Context) []model.Word
}

type EmergencySource interface {
	Words(count int) []model.Word
}

type TopUpSource interface {
	TopUp(ctx context.Context, deficits map[model.PartOfSpeech]int) []model.Word
}

// SnapshotStore mirrors the daily set outside the process.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) (*model.DailyWords, error)
	SaveSnapshot(ctx context.Context, snapshot model.DailyWords) error
}

// Sources groups the adapters a run draws from. Random is optional.
type Sources struct {
	WordOfDay WordOfDaySource
	Topics    TopicSource
	Related   RelatedSource
	Themed    ThemedSource
	Emergency EmergencySource
	Random    TopUpSource
}

type Config struct {
	TargetCount     int
	MinPoolSize     int
	MaxAttempts     int
	SeedsPerAttempt int
	RetryDelay      time.Duration
}

func DefaultConfig() Config {
	return Config{
		TargetCount:     50,
		MinPoolSize:     100,
		MaxAttempts:     3,
		SeedsPerAttempt: 4,
	}
}

type WordService struct {
	sources   Sources
	cfg       Config
	cache     *cache.Daily[[]model.Word]
	snapshots SnapshotStore
	rnd       *shuffle.Rand
	group     singleflight.Group
	logger    *zap.Logger
}

type Option func(*WordService)

func WithSnapshots(store SnapshotStore) Option {
	return func(s *WordService) {
		s.snapshots = store
	}
}

func WithRand(rnd *shuffle.Rand) Option {
	return func(s *WordService) {
		s.rnd = rnd
	}
}

func NewWordService(sources Sources, dailyCache *cache.Daily[[]model.Word], cfg Config, logger *zap.Logger, opts ...Option) *WordService {
	s := &WordService{
		sources: sources,
		cfg:     cfg,
		cache:   dailyCache,
		rnd:     shuffle.NewTimeSeeded(),
		logger:  logger.Named("words"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WordsStatus describes the daily cache for the status endpoint.
type WordsStatus struct {
	Fresh      bool      `json:"fresh"`
	ComputedAt time.Time `json:"computedAt"`
	WordCount  int       `json:"wordCount"`
}

func (s *WordService) Status() WordsStatus {
	words, _, _ := s.cache.Get()
	status := s.cache.Status()
	return WordsStatus{
		Fresh:      status.Fresh,
		ComputedAt: status.ComputedAt,
		WordCount:  len(words),
	}
}

// Words returns today's set, recomputing it first when the cache is stale.
// If recomputation fails, the previous set is served.
func (s *WordService) Words(ctx context.Context) ([]model.Word, error) {
	if !s.cache.IsStale() {
		middleware.RecordCacheLookup("words", true)
		words, _, _ := s.cache.Get()
		return copyWords(words), nil
	}
	middleware.RecordCacheLookup("words", false)

	daily, err := s.refresh(ctx)
	if err != nil {
		if words, computedAt, ok := s.cache.Get(); ok {
			s.logger.Warn("refresh failed, serving stale words",
				zap.Time("computed_at", computedAt),
				zap.Error(err))
			return copyWords(words), nil
		}
		return nil, err
	}
	return copyWords(daily.Words), nil
}

// Refresh invalidates the cache and recomputes immediately. The previous set
// stays servable if the run fails.
func (s *WordService) Refresh(ctx context.Context) (model.DailyWords, error) {
	s.cache.Invalidate()
	daily, err := s.refresh(ctx)
	if err != nil {
		return model.DailyWords{}, err
	}
	daily.Words = copyWords(daily.Words)
	return daily, nil
}

// Hydrate loads a snapshot that is still fresh into the cache. It reports
// whether the cache was populated.
func (s *WordService) Hydrate(ctx context.Context) bool {
	if s.snapshots == nil {
		return false
	}

	snapshot, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		s.logger.Warn("failed to load snapshot", zap.Error(err))
		return false
	}
	if snapshot == nil || len(snapshot.Words) == 0 {
		return false
	}
	if cache.IsStaleAt(snapshot.ComputedAt, s.cache.Now(), cache.DefaultMaxAge) {
		s.logger.Info("snapshot is stale, ignoring", zap.Time("computed_at", snapshot.ComputedAt))
		return false
	}

	s.cache.Store(snapshot.Words, snapshot.ComputedAt)
	s.logger.Info("cache hydrated from snapshot",
		zap.Int("words", len(snapshot.Words)),
		zap.Time("computed_at", snapshot.ComputedAt))
	return true
}

// refresh runs at most one recomputation at a time; concurrent callers share
// its result. The run is detached from the caller's cancellation so one
// impatient client cannot abort it for everyone.
func (s *WordService) refresh(ctx context.Context) (model.DailyWords, error) {
	runCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(refreshKey, func() (interface{}, error) {
		// A run that finished between the caller's staleness check and
		// this point already did the work.
		if !s.cache.IsStale() {
			words, computedAt, _ := s.cache.Get()
			return model.DailyWords{Words: words, ComputedAt: computedAt}, nil
		}
		return s.recompute(runCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return model.DailyWords{}, res.Err
		}
		return res.Val.(model.DailyWords), nil
	case <-ctx.Done():
		return model.DailyWords{}, ctx.Err()
	}
}

func (s *WordService) recompute(ctx context.Context) (model.DailyWords, error) {
	logger := s.logger.With(zap.String("run_id", uuid.NewString()))
	start := time.Now()
	logger.Info("aggregation started")

	words, outcome, poolSize := s.aggregate(ctx, logger)
	if len(words) == 0 {
		middleware.RecordAggregation(outcomeFailed, poolSize, time.Since(start))
		logger.Error("aggregation produced no words, keeping previous cache")
		return model.DailyWords{}, ErrNoWords
	}

	daily := model.DailyWords{Words: words, ComputedAt: s.cache.Now()}
	s.cache.Store(daily.Words, daily.ComputedAt)
	s.saveSnapshot(ctx, daily, logger)

	middleware.RecordAggregation(outcome, poolSize, time.Since(start))
	logger.Info("aggregation finished",
		zap.String("outcome", outcome),
		zap.Int("pool_size", poolSize),
		zap.Int("words", len(words)),
		zap.Duration("elapsed", time.Since(start)))
	return daily, nil
}

// aggregate builds the pool and balances it. A panic anywhere in the run is
// recovered and degraded to the fallback chain.
func (s *WordService) aggregate(ctx context.Context, logger *zap.Logger) (words []model.Word, outcome string, poolSize int) {
	pool := model.NewWordPool()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("aggregation panicked, using fallback words",
				zap.Any("panic", r),
				zap.Int("pool_size", pool.Len()))
			words, outcome, poolSize = s.degraded(ctx, logger), outcomeDegraded, pool.Len()
		}
	}()

	seeds := append([]string(nil), defaultSeeds...)

	if wotd, ok := s.sources.WordOfDay.Fetch(ctx); ok {
		if s.merge(pool, []model.Word{wotd}) > 0 {
			seeds = prependSeed(seeds, wotd.Text)
		}
	} else {
		logger.Info("word of the day unavailable, not seeding from it")
	}

	seeds = unionSeeds(seeds, s.sources.Topics.Topics(ctx))
	logger.Debug("seeds collected", zap.Strings("seeds", seeds))

	for attempt := 1; attempt <= s.cfg.MaxAttempts && pool.Len() < s.cfg.MinPoolSize; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, s.cfg.RetryDelay); err != nil {
				break
			}
		}

		picked := shuffle.Copy(s.rnd, seeds)
		if len(picked) > s.cfg.SeedsPerAttempt {
			picked = picked[:s.cfg.SeedsPerAttempt]
		}

		related := s.merge(pool, s.sources.Related.Related(ctx, picked))
		themed := 0
		if pool.Len() < s.cfg.MinPoolSize {
			themed = s.merge(pool, s.sources.Themed.Themed(ctx))
		}

		logger.Info("aggregation attempt",
			zap.Int("attempt", attempt),
			zap.Strings("seeds", picked),
			zap.Int("related_added", related),
			zap.Int("themed_added", themed),
			zap.Int("pool_size", pool.Len()))
	}

	if s.sources.Random != nil && pool.Len() < s.cfg.TargetCount {
		deficits := typeDeficits(pool.CountByType(), s.cfg.TargetCount)
		added := s.merge(pool, s.sources.Random.TopUp(ctx, deficits))
		logger.Info("random top-up", zap.Int("added", added), zap.Int("pool_size", pool.Len()))
	}

	poolSize = pool.Len()
	if poolSize == 0 {
		logger.Warn("pool is empty, using fallback words")
		return s.degraded(ctx, logger), outcomeDegraded, 0
	}

	words = Balance(pool.Words(), s.cfg.TargetCount, s.rnd)

	outcome = outcomeComplete
	if len(words) < s.cfg.TargetCount {
		outcome = outcomePartial
		logger.Warn("fewer words than requested",
			zap.Int("words", len(words)),
			zap.Int("target", s.cfg.TargetCount))
	}
	return words, outcome, poolSize
}

// degraded walks the fallback chain: themed words first, then the emergency
// list. It never panics.
func (s *WordService) degraded(ctx context.Context, logger *zap.Logger) (words []model.Word) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("themed fallback panicked, using emergency words", zap.Any("panic", r))
			words = s.sources.Emergency.Words(s.cfg.TargetCount)
		}
	}()

	pool := model.NewWordPool()
	s.merge(pool, s.sources.Themed.Themed(ctx))
	if pool.Len() == 0 {
		logger.Warn("themed fallback empty, using emergency words")
		s.merge(pool, s.sources.Emergency.Words(s.cfg.TargetCount))
	}
	return Balance(pool.Words(), s.cfg.TargetCount, s.rnd)
}

// merge adds words that pass the quality filter and returns how many were new.
func (s *WordService) merge(pool *model.WordPool, words []model.Word) int {
	added := 0
	for _, w := range words {
		if !filter.IsAcceptable(w.Text) {
			continue
		}
		if pool.Add(w) {
			added++
		}
	}
	return added
}

func (s *WordService) saveSnapshot(ctx context.Context, daily model.DailyWords, logger *zap.Logger) {
	if s.snapshots == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()
	if err := s.snapshots.SaveSnapshot(saveCtx, daily); err != nil {
		logger.Warn("failed to save snapshot", zap.Error(err))
	}
}

// typeDeficits returns how many more words of each type the balancer would
// need to meet its targets for n words.
func typeDeficits(counts map[model.PartOfSpeech]int, n int) map[model.PartOfSpeech]int {
	deficits := make(map[model.PartOfSpeech]int)
	for pos, target := range Targets(n) {
		if missing := target - counts[pos]; missing > 0 {
			deficits[pos] = missing
		}
	}
	return deficits
}

func prependSeed(seeds []string, seed string) []string {
	for _, existing := range seeds {
		if existing == seed {
			return seeds
		}
	}
	return append([]string{seed}, seeds...)
}

func unionSeeds(seeds, extra []string) []string {
	seen := make(map[string]struct{}, len(seeds)+len(extra))
	for _, seed := range seeds {
		seen[seed] = struct{}{}
	}
	for _, seed := range extra {
		if _, dup := seen[seed]; dup || seed == "" {
			continue
		}
		seen[seed] = struct{}{}
		seeds = append(seeds, seed)
	}
	return seeds
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("retry wait interrupted: %w", ctx.Err())
	}
}

func copyWords(words []model.Word) []model.Word {
	if words == nil {
		return nil
	}
	result := make([]model.Word, len(words))
	copy(result, words)
	return result
}
