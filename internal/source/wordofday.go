package source

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/etymograph/dailyverse/internal/client"
	"github.com/etymograph/dailyverse/internal/filter"
	"github.com/etymograph/dailyverse/internal/model"
	"go.uber.org/zap"
)

type WordOfDayAPI interface {
	GetWordOfTheDay(ctx context.Context, date time.Time) (*client.WordOfTheDay, error)
}

var wordnikTypes = map[string]model.PartOfSpeech{
	"noun":      model.Noun,
	"verb":      model.Verb,
	"adjective": model.Adjective,
	"adverb":    model.Adverb,
}

var fallbackWordOfDay = model.Word{
	Text:       "serendipity",
	Type:       model.Noun,
	Score:      model.ScoreWordOfDay,
	Source:     model.SourceFallback,
	Definition: "The faculty of making fortunate discoveries by accident.",
}

var errUnusableWordOfDay = errors.New("word of the day is unusable")

type WordOfDay struct {
	api     WordOfDayAPI
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewWordOfDay(api WordOfDayAPI, timeout time.Duration, logger *zap.Logger) *WordOfDay {
	return &WordOfDay{
		api:     api,
		timeout: timeout,
		now:     time.Now,
		logger:  logger.Named("wordofday"),
	}
}

// Fetch returns today's word and true. Any failure yields a fixed neutral word
// tagged as a fallback and false.
func (s *WordOfDay) Fetch(ctx context.Context) (model.Word, bool) {
	var word model.Word
	ok := call(ctx, s.timeout, model.SourceWordOfDay, s.logger, func(ctx context.Context) error {
		wotd, err := s.api.GetWordOfTheDay(ctx, s.now())
		if err != nil {
			return err
		}
		w, convErr := convertWordOfDay(wotd)
		if convErr != nil {
			return convErr
		}
		word = w
		return nil
	})
	if !ok {
		return fallbackWordOfDay, false
	}

	s.logger.Info("word of the day", zap.String("word", word.Text), zap.String("type", string(word.Type)))
	return word, true
}

func convertWordOfDay(wotd *client.WordOfTheDay) (model.Word, error) {
	if wotd == nil || wotd.Word == "" || len(wotd.Definitions) == 0 {
		return model.Word{}, errUnusableWordOfDay
	}

	def := wotd.Definitions[0]
	pos, known := wordnikTypes[strings.ToLower(strings.TrimSpace(def.PartOfSpeech))]
	if !known {
		return model.Word{}, errUnusableWordOfDay
	}

	text := filter.Normalize(wotd.Word)
	if !filter.IsAcceptable(text) {
		return model.Word{}, errUnusableWordOfDay
	}

	return model.Word{
		Text:       text,
		Type:       pos,
		Score:      model.ScoreWordOfDay,
		Source:     model.SourceWordOfDay,
		Definition: def.Text,
	}, nil
}
