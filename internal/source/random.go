package source

import (
	"context"
	"sort"
	"time"

	"github.com/etymograph/dailyverse/internal/client"
	"github.com/etymograph/dailyverse/internal/filter"
	"github.com/etymograph/dailyverse/internal/model"
	"go.uber.org/zap"
)

type RandomWordsAPI interface {
	HasAPIKey() bool
	GetRandomWords(ctx context.Context, q client.RandomWordsQuery) ([]string, error)
}

var wordnikPartOfSpeech = map[model.PartOfSpeech]string{
	model.Noun:      "noun",
	model.Verb:      "verb",
	model.Adjective: "adjective",
	model.Adverb:    "adverb",
}

const randomMinCorpusCount = 1000

type RandomWords struct {
	api     RandomWordsAPI
	timeout time.Duration
	logger  *zap.Logger
}

func NewRandomWords(api RandomWordsAPI, timeout time.Duration, logger *zap.Logger) *RandomWords {
	return &RandomWords{
		api:     api,
		timeout: timeout,
		logger:  logger.Named("random"),
	}
}

// TopUp fetches curated random words for each part of speech that is short.
func (s *RandomWords) TopUp(ctx context.Context, deficits map[model.PartOfSpeech]int) []model.Word {
	if !s.api.HasAPIKey() {
		return nil
	}

	types := make([]model.PartOfSpeech, 0, len(deficits))
	for pos, n := range deficits {
		if n > 0 {
			types = append(types, pos)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	seen := make(map[string]struct{})
	var words []model.Word
	for _, pos := range types {
		var texts []string
		call(ctx, s.timeout, model.SourceWordnikRandom, s.logger, func(ctx context.Context) error {
			result, err := s.api.GetRandomWords(ctx, client.RandomWordsQuery{
				PartOfSpeech:   wordnikPartOfSpeech[pos],
				Limit:          deficits[pos],
				MinCorpusCount: randomMinCorpusCount,
				MinLength:      filter.MinWordLength,
				MaxLength:      filter.MaxWordLength,
			})
			texts = result
			return err
		})

		for _, text := range texts {
			if !filter.IsAcceptable(text) {
				continue
			}
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			words = append(words, model.Word{
				Text:   text,
				Type:   pos,
				Score:  model.ScoreRandom,
				Source: model.SourceWordnikRandom,
			})
		}
	}
	return words
}
