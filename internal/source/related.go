package source

import (
	"context"
	"time"

	"github.com/etymograph/dailyverse/internal/client"
	"github.com/etymograph/dailyverse/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const relatedPerQuery = 25

type RelatedWords struct {
	api     DatamuseAPI
	timeout time.Duration
	logger  *zap.Logger
}

func NewRelatedWords(api DatamuseAPI, timeout time.Duration, logger *zap.Logger) *RelatedWords {
	return &RelatedWords{
		api:     api,
		timeout: timeout,
		logger:  logger.Named("related"),
	}
}

// Related queries Datamuse twice per seed (means-like and triggered-by) in
// parallel and merges the results in seed order.
func (s *RelatedWords) Related(ctx context.Context, seeds []string) []model.Word {
	if len(seeds) == 0 {
		return nil
	}

	queries := make([]client.DatamuseQuery, 0, len(seeds)*2)
	for _, seed := range seeds {
		queries = append(queries,
			client.DatamuseQuery{MeansLike: seed, Max: relatedPerQuery},
			client.DatamuseQuery{Triggers: seed, Max: relatedPerQuery},
		)
	}

	results := make([][]client.DatamuseWord, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			call(gctx, s.timeout, model.SourceDatamuse, s.logger, func(ctx context.Context) error {
				words, err := s.api.Words(ctx, q)
				if err != nil {
					return err
				}
				results[i] = words
				return nil
			})
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	var words []model.Word
	for _, batch := range results {
		words = append(words, convertDatamuse(batch, model.SourceDatamuse, seen)...)
	}

	s.logger.Debug("related words fetched", zap.Strings("seeds", seeds), zap.Int("count", len(words)))
	return words
}
