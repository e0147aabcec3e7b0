package source

import (
	"context"
	"time"

	"github.com/etymograph/dailyverse/internal/client"
	"github.com/etymograph/dailyverse/internal/model"
	"go.uber.org/zap"
)

var themedTopics = []string{"art", "nature", "technology"}

const (
	themedQuery = "wonder"
	themedMax   = 100
)

// builtinThemed is served when the themed query returns nothing usable.
var builtinThemed = []model.Word{
	{Text: "canvas", Type: model.Noun},
	{Text: "meadow", Type: model.Noun},
	{Text: "river", Type: model.Noun},
	{Text: "lantern", Type: model.Noun},
	{Text: "orbit", Type: model.Noun},
	{Text: "signal", Type: model.Noun},
	{Text: "forest", Type: model.Noun},
	{Text: "melody", Type: model.Noun},
	{Text: "circuit", Type: model.Noun},
	{Text: "horizon", Type: model.Noun},
	{Text: "petal", Type: model.Noun},
	{Text: "pixel", Type: model.Noun},
	{Text: "paint", Type: model.Verb},
	{Text: "bloom", Type: model.Verb},
	{Text: "build", Type: model.Verb},
	{Text: "wander", Type: model.Verb},
	{Text: "sketch", Type: model.Verb},
	{Text: "glimmer", Type: model.Verb},
	{Text: "connect", Type: model.Verb},
	{Text: "grow", Type: model.Verb},
	{Text: "imagine", Type: model.Verb},
	{Text: "vivid", Type: model.Adjective},
	{Text: "serene", Type: model.Adjective},
	{Text: "luminous", Type: model.Adjective},
	{Text: "digital", Type: model.Adjective},
	{Text: "wild", Type: model.Adjective},
	{Text: "gentle", Type: model.Adjective},
	{Text: "curious", Type: model.Adjective},
	{Text: "verdant", Type: model.Adjective},
	{Text: "bright", Type: model.Adjective},
}

func init() {
	for i := range builtinThemed {
		builtinThemed[i].Score = model.ScoreAssociated
		builtinThemed[i].Source = model.SourceDatamuseFallback
	}
}

type ThemedFallback struct {
	api     DatamuseAPI
	timeout time.Duration
	logger  *zap.Logger
}

func NewThemedFallback(api DatamuseAPI, timeout time.Duration, logger *zap.Logger) *ThemedFallback {
	return &ThemedFallback{
		api:     api,
		timeout: timeout,
		logger:  logger.Named("themed"),
	}
}

// Themed returns words around a fixed set of positive topics. The result is
// never empty.
func (s *ThemedFallback) Themed(ctx context.Context) []model.Word {
	var results []client.DatamuseWord
	call(ctx, s.timeout, model.SourceDatamuseFallback, s.logger, func(ctx context.Context) error {
		words, err := s.api.Words(ctx, client.DatamuseQuery{
			MeansLike: themedQuery,
			Topics:    themedTopics,
			Max:       themedMax,
		})
		results = words
		return err
	})

	words := convertDatamuse(results, model.SourceDatamuseFallback, make(map[string]struct{}))
	if len(words) == 0 {
		s.logger.Info("themed query empty, using built-in themed words")
		return BuiltinThemed()
	}
	return words
}

// BuiltinThemed returns a copy of the built-in themed word list.
func BuiltinThemed() []model.Word {
	words := make([]model.Word, len(builtinThemed))
	copy(words, builtinThemed)
	return words
}
