package service

import (
	"context"
	"errors"
	"time"

	"github.com/etymograph/dailyverse/internal/cache"
	"github.com/etymograph/dailyverse/internal/middleware"
	"github.com/etymograph/dailyverse/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrNoPoem = errors.New("no poem available")

type PoetryAPI interface {
	RandomPoemByAuthor(ctx context.Context, author string) (*model.Poem, error)
	PoemsByAuthor(ctx context.Context, author string) ([]model.Poem, error)
}

var poemAuthors = []string{
	"Emily Dickinson",
	"William Shakespeare",
	"Walt Whitman",
	"John Keats",
	"Christina Rossetti",
	"William Wordsworth",
	"Percy Bysshe Shelley",
	"Elizabeth Barrett Browning",
	"Robert Burns",
	"William Blake",
}

// PoemService serves one poem per UTC day, rotating through a fixed list of
// authors.
type PoemService struct {
	api    PoetryAPI
	cache  *cache.Daily[model.Poem]
	group  singleflight.Group
	logger *zap.Logger
}

func NewPoemService(api PoetryAPI, poemCache *cache.Daily[model.Poem], logger *zap.Logger) *PoemService {
	return &PoemService{
		api:    api,
		cache:  poemCache,
		logger: logger.Named("poem"),
	}
}

func (s *PoemService) PoemOfTheDay(ctx context.Context) (model.Poem, error) {
	if !s.cache.IsStale() {
		middleware.RecordCacheLookup("poem", true)
		poem, _, _ := s.cache.Get()
		return poem, nil
	}
	middleware.RecordCacheLookup("poem", false)

	ch := s.group.DoChan("poem", func() (interface{}, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return model.Poem{}, ctx.Err()
	}

	if res.Err != nil {
		if poem, _, ok := s.cache.Get(); ok {
			s.logger.Warn("poem fetch failed, serving previous poem", zap.Error(res.Err))
			return poem, nil
		}
		return model.Poem{}, res.Err
	}
	return res.Val.(model.Poem), nil
}

func (s *PoemService) fetch(ctx context.Context) (model.Poem, error) {
	now := s.cache.Now()
	day := dayIndex(now)
	author := poemAuthors[day%len(poemAuthors)]

	poem, err := s.api.RandomPoemByAuthor(ctx, author)
	if err == nil && poem == nil {
		err = ErrNoPoem
	}
	if err != nil {
		s.logger.Warn("random poem failed, trying poems by author",
			zap.String("author", author),
			zap.Error(err))

		poems, listErr := s.api.PoemsByAuthor(ctx, author)
		if listErr != nil {
			return model.Poem{}, listErr
		}
		if len(poems) == 0 {
			return model.Poem{}, ErrNoPoem
		}
		poem = &poems[day%len(poems)]
	}

	s.cache.Store(*poem, now)
	s.logger.Info("poem of the day", zap.String("title", poem.Title), zap.String("author", poem.Author))
	return *poem, nil
}

// dayIndex counts UTC days since the Unix epoch.
func dayIndex(t time.Time) int {
	return int(t.UTC().Unix() / int64(24*time.Hour/time.Second))
}
