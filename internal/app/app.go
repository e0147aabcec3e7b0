// Package app wires remote clients, source adapters and caches into the
// services shared by the server and the curate CLI.
package app

import (
	"github.com/etymograph/dailyverse/internal/cache"
	"github.com/etymograph/dailyverse/internal/client"
	"github.com/etymograph/dailyverse/internal/config"
	"github.com/etymograph/dailyverse/internal/model"
	"github.com/etymograph/dailyverse/internal/service"
	"github.com/etymograph/dailyverse/internal/shuffle"
	"github.com/etymograph/dailyverse/internal/source"
	"go.uber.org/zap"
)

func NewSources(cfg *config.Config, rnd *shuffle.Rand, logger *zap.Logger) service.Sources {
	wordnik := client.NewWordnikClient(cfg.WordnikURL, cfg.WordnikAPIKey, cfg.SourceTimeout)
	datamuse := client.NewDatamuseClient(cfg.DatamuseURL, cfg.SourceTimeout)
	news := client.NewNewsClient(cfg.NewsAPIURL, cfg.NewsAPIKey, cfg.SourceTimeout)

	if !wordnik.HasAPIKey() {
		logger.Warn("WORDNIK_API_KEY not set, word of the day and random top-up disabled")
	}
	if !news.HasAPIKey() {
		logger.Warn("NEWS_API_KEY not set, using fallback topics")
	}

	return service.Sources{
		WordOfDay: source.NewWordOfDay(wordnik, cfg.SourceTimeout, logger),
		Topics:    source.NewNewsTopics(news, cfg.SourceTimeout, cfg.MaxNewsTopics, logger),
		Related:   source.NewRelatedWords(datamuse, cfg.SourceTimeout, logger),
		Themed:    source.NewThemedFallback(datamuse, cfg.SourceTimeout, logger),
		Emergency: source.NewEmergency(rnd),
		Random:    source.NewRandomWords(wordnik, cfg.SourceTimeout, logger),
	}
}

func ServiceConfig(cfg *config.Config) service.Config {
	return service.Config{
		TargetCount:     cfg.TargetWordCount,
		MinPoolSize:     cfg.MinPoolSize,
		MaxAttempts:     cfg.MaxAttempts,
		SeedsPerAttempt: cfg.SeedsPerAttempt,
		RetryDelay:      cfg.RetryDelay,
	}
}

// NewWordService builds the word service with an empty in-process cache.
// Pass service.WithSnapshots to mirror it to Redis.
func NewWordService(cfg *config.Config, logger *zap.Logger, opts ...service.Option) *service.WordService {
	rnd := shuffle.NewTimeSeeded()
	opts = append([]service.Option{service.WithRand(rnd)}, opts...)
	return service.NewWordService(
		NewSources(cfg, rnd, logger),
		cache.NewDaily[[]model.Word](),
		ServiceConfig(cfg),
		logger,
		opts...,
	)
}

func NewPoemService(cfg *config.Config, logger *zap.Logger) *service.PoemService {
	return service.NewPoemService(
		client.NewPoetryClient(cfg.PoetryDBURL, cfg.SourceTimeout),
		cache.NewDaily[model.Poem](),
		logger,
	)
}
