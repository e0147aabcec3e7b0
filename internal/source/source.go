// Package source wraps the remote lexical and news APIs behind adapters that
// never fail: every error is logged and turned into an empty result.
package source

import (
	"context"
	"strings"
	"time"

	"github.com/etymograph/dailyverse/internal/client"
	"github.com/etymograph/dailyverse/internal/filter"
	"github.com/etymograph/dailyverse/internal/middleware"
	"github.com/etymograph/dailyverse/internal/model"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Second

// DatamuseAPI is the subset of the Datamuse client used by the adapters.
type DatamuseAPI interface {
	Words(ctx context.Context, q client.DatamuseQuery) ([]client.DatamuseWord, error)
}

// call runs fn under its own timeout and records the outcome.
func call(ctx context.Context, timeout time.Duration, name string, logger *zap.Logger, fn func(ctx context.Context) error) bool {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := fn(callCtx)
	elapsed := time.Since(start)
	middleware.RecordSourceCall(name, err == nil, elapsed)

	if err != nil {
		logger.Warn("source call failed",
			zap.String("source", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return false
	}
	return true
}

// datamuseType picks a part of speech from Datamuse tags. The first part of
// speech tag decides; adjectives and verbs keep their type and everything
// else is treated as a noun.
func datamuseType(tags []string) model.PartOfSpeech {
	for _, tag := range tags {
		switch tag {
		case "adj":
			return model.Adjective
		case "v":
			return model.Verb
		case "n", "adv", "u":
			return model.Noun
		}
	}
	return model.Noun
}

func isProperNoun(tags []string) bool {
	for _, tag := range tags {
		if tag == "prop" {
			return true
		}
	}
	return false
}

func associativeScore(raw int) int {
	bonus := raw / 1000
	if bonus > 299 {
		bonus = 299
	}
	if bonus < 0 {
		bonus = 0
	}
	return model.ScoreAssociated + bonus
}

// convertDatamuse turns Datamuse results into quality-checked words, skipping
// duplicates within the batch.
func convertDatamuse(results []client.DatamuseWord, sourceTag string, seen map[string]struct{}) []model.Word {
	words := make([]model.Word, 0, len(results))
	for _, r := range results {
		text := strings.TrimSpace(r.Word)
		if isProperNoun(r.Tags) || !filter.IsAcceptable(text) {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		words = append(words, model.Word{
			Text:   text,
			Type:   datamuseType(r.Tags),
			Score:  associativeScore(r.Score),
			Source: sourceTag,
		})
	}
	return words
}
