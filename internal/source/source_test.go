package source

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/etymograph/dailyverse/internal/client"
	"github.com/etymograph/dailyverse/internal/filter"
	"github.com/etymograph/dailyverse/internal/model"
	"github.com/etymograph/dailyverse/internal/shuffle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errUpstream = errors.New("upstream unavailable")

type fakeDatamuse struct {
	mu      sync.Mutex
	queries []client.DatamuseQuery
	respond func(q client.DatamuseQuery) ([]client.DatamuseWord, error)
}

func (f *fakeDatamuse) Words(ctx context.Context, q client.DatamuseQuery) ([]client.DatamuseWord, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	return f.respond(q)
}

type fakeWordOfDay struct {
	wotd *client.WordOfTheDay
	err  error
}

func (f *fakeWordOfDay) GetWordOfTheDay(ctx context.Context, date time.Time) (*client.WordOfTheDay, error) {
	return f.wotd, f.err
}

type fakeHeadlines struct {
	hasKey   bool
	articles map[string][]client.Article
	failing  map[string]bool
}

func (f *fakeHeadlines) HasAPIKey() bool { return f.hasKey }

func (f *fakeHeadlines) TopHeadlines(ctx context.Context, category string, pageSize int) ([]client.Article, error) {
	if f.failing[category] {
		return nil, errUpstream
	}
	return f.articles[category], nil
}

type fakeRandom struct {
	hasKey bool
	words  map[string][]string
	err    error
}

func (f *fakeRandom) HasAPIKey() bool { return f.hasKey }

func (f *fakeRandom) GetRandomWords(ctx context.Context, q client.RandomWordsQuery) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	words := f.words[q.PartOfSpeech]
	if len(words) > q.Limit {
		words = words[:q.Limit]
	}
	return words, nil
}

func TestWordOfDayConvertsWordnikEntry(t *testing.T) {
	api := &fakeWordOfDay{wotd: &client.WordOfTheDay{
		Word:        "Luminous",
		Definitions: []client.WordnikDefinition{{PartOfSpeech: "adjective", Text: "giving off light"}},
	}}
	s := NewWordOfDay(api, time.Second, zaptest.NewLogger(t))

	word, ok := s.Fetch(context.Background())

	require.True(t, ok)
	assert.Equal(t, model.Word{
		Text:       "luminous",
		Type:       model.Adjective,
		Score:      1000,
		Source:     "wordnik_wotd",
		Definition: "giving off light",
	}, word)
}

func TestWordOfDayFallsBack(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeWordOfDay
	}{
		{"network error", &fakeWordOfDay{err: errUpstream}},
		{"missing key", &fakeWordOfDay{err: client.ErrMissingAPIKey}},
		{"no definitions", &fakeWordOfDay{wotd: &client.WordOfTheDay{Word: "quiet"}}},
		{"unknown part of speech", &fakeWordOfDay{wotd: &client.WordOfTheDay{
			Word:        "hello",
			Definitions: []client.WordnikDefinition{{PartOfSpeech: "interjection"}},
		}}},
		{"fails quality check", &fakeWordOfDay{wotd: &client.WordOfTheDay{
			Word:        "antidisestablishment",
			Definitions: []client.WordnikDefinition{{PartOfSpeech: "noun"}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewWordOfDay(tt.api, time.Second, zaptest.NewLogger(t))

			word, ok := s.Fetch(context.Background())

			assert.False(t, ok)
			assert.Equal(t, fallbackWordOfDay, word)
			assert.Equal(t, model.SourceFallback, word.Source)
		})
	}
}

func TestRelatedIssuesTwoQueriesPerSeed(t *testing.T) {
	api := &fakeDatamuse{respond: func(q client.DatamuseQuery) ([]client.DatamuseWord, error) {
		switch {
		case q.MeansLike == "ocean":
			return []client.DatamuseWord{
				{Word: "sea", Score: 40000, Tags: []string{"n"}},
				{Word: "vast", Score: 30000, Tags: []string{"adj"}},
				{Word: "Atlantic", Score: 29000, Tags: []string{"n", "prop"}},
			}, nil
		case q.Triggers == "ocean":
			return []client.DatamuseWord{
				{Word: "sea", Score: 900, Tags: []string{"n"}},
				{Word: "swim", Score: 800, Tags: []string{"v"}},
				{Word: "deep blue", Score: 700, Tags: []string{"n"}},
			}, nil
		case q.MeansLike == "forest":
			return []client.DatamuseWord{
				{Word: "woods", Score: 50000, Tags: []string{"n"}},
				{Word: "softly", Score: 100, Tags: []string{"adv"}},
			}, nil
		default:
			return nil, errUpstream
		}
	}}
	s := NewRelatedWords(api, time.Second, zaptest.NewLogger(t))

	words := s.Related(context.Background(), []string{"ocean", "forest"})

	assert.Len(t, api.queries, 4)
	byText := make(map[string]model.Word)
	for _, w := range words {
		byText[w.Text] = w
		assert.True(t, filter.IsAcceptable(w.Text), w.Text)
		assert.Equal(t, model.SourceDatamuse, w.Source)
		assert.GreaterOrEqual(t, w.Score, model.ScoreAssociated)
	}
	assert.Len(t, words, 5)
	assert.Equal(t, model.Noun, byText["sea"].Type)
	assert.Equal(t, model.Adjective, byText["vast"].Type)
	assert.Equal(t, model.Verb, byText["swim"].Type)
	assert.Equal(t, model.Noun, byText["softly"].Type)
	assert.Equal(t, 540, byText["sea"].Score)
	assert.NotContains(t, byText, "Atlantic")
}

func TestRelatedWithoutSeeds(t *testing.T) {
	api := &fakeDatamuse{respond: func(q client.DatamuseQuery) ([]client.DatamuseWord, error) {
		return nil, nil
	}}
	s := NewRelatedWords(api, time.Second, zaptest.NewLogger(t))

	assert.Empty(t, s.Related(context.Background(), nil))
	assert.Empty(t, api.queries)
}

func TestThemedUsesRemoteWords(t *testing.T) {
	api := &fakeDatamuse{respond: func(q client.DatamuseQuery) ([]client.DatamuseWord, error) {
		assert.Equal(t, []string{"art", "nature", "technology"}, q.Topics)
		return []client.DatamuseWord{
			{Word: "marvel", Score: 5000, Tags: []string{"n"}},
			{Word: "amaze", Score: 4000, Tags: []string{"v"}},
		}, nil
	}}
	s := NewThemedFallback(api, time.Second, zaptest.NewLogger(t))

	words := s.Themed(context.Background())

	require.Len(t, words, 2)
	assert.Equal(t, model.SourceDatamuseFallback, words[0].Source)
	assert.Equal(t, model.Verb, words[1].Type)
}

func TestThemedFallsBackToBuiltinList(t *testing.T) {
	api := &fakeDatamuse{respond: func(q client.DatamuseQuery) ([]client.DatamuseWord, error) {
		return nil, errUpstream
	}}
	s := NewThemedFallback(api, time.Second, zaptest.NewLogger(t))

	first := s.Themed(context.Background())
	second := s.Themed(context.Background())

	assert.Equal(t, BuiltinThemed(), first)
	assert.Equal(t, first, second)
}

func TestBuiltinThemedWordsAreAcceptable(t *testing.T) {
	words := BuiltinThemed()

	assert.NotEmpty(t, words)
	assert.LessOrEqual(t, len(words), 50)
	seen := make(map[string]bool)
	for _, w := range words {
		assert.True(t, filter.IsAcceptable(w.Text), w.Text)
		assert.False(t, seen[w.Text], "duplicate %s", w.Text)
		seen[w.Text] = true
		assert.Equal(t, model.SourceDatamuseFallback, w.Source)
	}
}

func TestNewsTopicsWithoutKey(t *testing.T) {
	s := NewNewsTopics(&fakeHeadlines{}, time.Second, 8, zaptest.NewLogger(t))

	assert.Equal(t, fallbackTopics, s.Topics(context.Background()))
}

func TestNewsTopicsAllCategoriesFail(t *testing.T) {
	api := &fakeHeadlines{hasKey: true, failing: map[string]bool{
		"technology": true, "science": true, "entertainment": true, "sports": true,
	}}
	s := NewNewsTopics(api, time.Second, 8, zaptest.NewLogger(t))

	assert.Equal(t, fallbackTopics, s.Topics(context.Background()))
}

func TestNewsTopicsRoundRobinAcrossCategories(t *testing.T) {
	api := &fakeHeadlines{
		hasKey: true,
		articles: map[string][]client.Article{
			"technology": {
				{Title: "Robots learn to paint murals - Tech Daily", Description: "Robots and murals delight crowds"},
				{Title: "Election robots banned", Description: ""},
			},
			"science": {
				{Title: "Telescope spots distant galaxy", Description: "A galaxy far away glows"},
			},
			"entertainment": {
				{Title: "Orchestra premieres symphony", Description: "The symphony drew people from every city"},
			},
		},
		failing: map[string]bool{"sports": true},
	}
	s := NewNewsTopics(api, time.Second, 4, zaptest.NewLogger(t))

	topics := s.Topics(context.Background())

	assert.Equal(t, []string{"robots", "galaxy", "symphony", "murals"}, topics)
}

func TestExtractKeywordsFiltersSensitiveAndCommonWords(t *testing.T) {
	keywords := extractKeywords([]client.Article{
		{Title: "Virus outbreak worries people - Wire", Description: "Police say the garden's flowers bloom"},
	})

	assert.ElementsMatch(t, []string{"worries", "flowers", "bloom"}, keywords)
}

func TestRoundRobinStopsWhenExhausted(t *testing.T) {
	topics := roundRobin([][]string{{"comet", "orbit"}, {"comet"}, nil}, 10)

	assert.Equal(t, []string{"comet", "orbit"}, topics)
}

func TestEmergencyWords(t *testing.T) {
	s := NewEmergency(shuffle.New(1))

	all := s.Words(10)
	assert.Len(t, all, 6)
	assert.ElementsMatch(t, emergencyWords, all)

	some := s.Words(3)
	assert.Len(t, some, 3)
	for _, w := range some {
		assert.Equal(t, model.SourceEmergency, w.Source)
		assert.Equal(t, model.ScoreEmergency, w.Score)
	}
}

func TestEmergencyIsDeterministicForSeed(t *testing.T) {
	a := NewEmergency(shuffle.New(99)).Words(6)
	b := NewEmergency(shuffle.New(99)).Words(6)

	assert.Equal(t, a, b)
}

func TestRandomTopUpWithoutKey(t *testing.T) {
	s := NewRandomWords(&fakeRandom{}, time.Second, zaptest.NewLogger(t))

	assert.Nil(t, s.TopUp(context.Background(), map[model.PartOfSpeech]int{model.Noun: 3}))
}

func TestRandomTopUpFillsDeficits(t *testing.T) {
	api := &fakeRandom{hasKey: true, words: map[string][]string{
		"noun":      {"harbor", "Zeppelin", "meadow", "lamp"},
		"adjective": {"amber"},
	}}
	s := NewRandomWords(api, time.Second, zaptest.NewLogger(t))

	words := s.TopUp(context.Background(), map[model.PartOfSpeech]int{
		model.Noun:      3,
		model.Adjective: 2,
		model.Verb:      0,
	})

	assert.Equal(t, []model.Word{
		{Text: "amber", Type: model.Adjective, Score: 800, Source: "wordnik_random"},
		{Text: "harbor", Type: model.Noun, Score: 800, Source: "wordnik_random"},
		{Text: "meadow", Type: model.Noun, Score: 800, Source: "wordnik_random"},
	}, words)
}

func TestRandomTopUpSwallowsErrors(t *testing.T) {
	s := NewRandomWords(&fakeRandom{hasKey: true, err: errUpstream}, time.Second, zaptest.NewLogger(t))

	assert.Empty(t, s.TopUp(context.Background(), map[model.PartOfSpeech]int{model.Verb: 5}))
}

func TestCallTimesOutSlowSource(t *testing.T) {
	ok := call(context.Background(), 10*time.Millisecond, "slow", zaptest.NewLogger(t), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.False(t, ok)
}
