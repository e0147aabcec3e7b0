package source

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/etymograph/dailyverse/internal/client"
	"github.com/etymograph/dailyverse/internal/filter"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type HeadlinesAPI interface {
	HasAPIKey() bool
	TopHeadlines(ctx context.Context, category string, pageSize int) ([]client.Article, error)
}

var newsCategories = []string{"technology", "science", "entertainment", "sports"}

var fallbackTopics = []string{"nature", "music", "ocean", "journey", "garden", "starlight"}

const (
	headlinesPageSize  = 20
	minKeywordLength   = 4
	defaultTopicsLimit = 8
)

// sensitiveTopics keeps politics, crises, health scares and violence out of
// the seed list.
var sensitiveTopics = toSet(
	"election", "elections", "president", "senate", "congress", "trump", "biden", "vote", "voters",
	"democrat", "democrats", "republican", "republicans", "politics", "political", "government",
	"war", "wars", "attack", "attacks", "bomb", "bombing", "shooting", "shooter", "gunman", "killed",
	"killing", "murder", "dead", "death", "deaths", "died", "dies", "victim", "victims", "terror",
	"terrorist", "hostage", "military", "missile", "invasion", "crisis", "disaster", "earthquake",
	"flood", "hurricane", "wildfire", "crash", "collapse", "recession", "inflation", "layoffs",
	"virus", "covid", "pandemic", "outbreak", "cancer", "disease", "overdose", "hospital", "vaccine",
	"abuse", "assault", "arrest", "arrested", "lawsuit", "court", "trial", "prison", "police",
	"scandal", "fraud", "protest", "riot", "refugee", "refugees", "suicide",
)

var commonWords = toSet(
	"about", "after", "again", "against", "also", "amid", "another", "back", "been", "before",
	"being", "best", "between", "both", "could", "days", "does", "doing", "down", "during",
	"each", "even", "every", "first", "from", "gets", "give", "going", "good", "great", "have",
	"here", "high", "into", "just", "know", "last", "like", "live", "long", "look", "made",
	"make", "many", "more", "most", "much", "must", "need", "never", "news", "next", "only",
	"other", "over", "part", "people", "report", "reports", "said", "says", "season", "should",
	"show", "some", "still", "such", "take", "than", "that", "their", "them", "then", "there",
	"these", "they", "thing", "things", "this", "those", "through", "time", "today", "top",
	"under", "until", "very", "video", "want", "watch", "week", "were", "what", "when", "where",
	"which", "while", "will", "with", "without", "would", "year", "years", "your",
	"game", "games", "team", "teams", "free", "deal", "deals", "sale", "update",
)

type NewsTopics struct {
	api     HeadlinesAPI
	timeout time.Duration
	limit   int
	logger  *zap.Logger
}

func NewNewsTopics(api HeadlinesAPI, timeout time.Duration, limit int, logger *zap.Logger) *NewsTopics {
	if limit <= 0 {
		limit = defaultTopicsLimit
	}
	return &NewsTopics{
		api:     api,
		timeout: timeout,
		limit:   limit,
		logger:  logger.Named("news"),
	}
}

// Topics mines headline keywords across the safe categories and returns a
// bounded, diverse set for seeding. It falls back to fixed neutral topics
// when no key is configured or every category fails.
func (s *NewsTopics) Topics(ctx context.Context) []string {
	if !s.api.HasAPIKey() {
		s.logger.Debug("news api key not configured, using fallback topics")
		return FallbackTopics()
	}

	perCategory := make([][]string, len(newsCategories))
	succeeded := make([]bool, len(newsCategories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range newsCategories {
		i, category := i, category
		g.Go(func() error {
			succeeded[i] = call(gctx, s.timeout, "newsapi", s.logger, func(ctx context.Context) error {
				articles, err := s.api.TopHeadlines(ctx, category, headlinesPageSize)
				if err != nil {
					return err
				}
				perCategory[i] = extractKeywords(articles)
				return nil
			})
			return nil
		})
	}
	_ = g.Wait()

	anySucceeded := false
	for _, ok := range succeeded {
		anySucceeded = anySucceeded || ok
	}
	if !anySucceeded {
		s.logger.Warn("all news categories failed, using fallback topics")
		return FallbackTopics()
	}

	topics := roundRobin(perCategory, s.limit)
	if len(topics) == 0 {
		s.logger.Warn("no usable keywords in headlines, using fallback topics")
		return FallbackTopics()
	}
	s.logger.Info("news topics selected", zap.Strings("topics", topics))
	return topics
}

// FallbackTopics returns a copy of the neutral topics used when news is
// unavailable.
func FallbackTopics() []string {
	topics := make([]string, len(fallbackTopics))
	copy(topics, fallbackTopics)
	return topics
}

// extractKeywords ranks candidate keywords by how often they appear across
// the articles, most frequent first.
func extractKeywords(articles []client.Article) []string {
	counts := make(map[string]int)
	for _, article := range articles {
		text := stripSourceSuffix(article.Title) + " " + article.Description
		for _, token := range tokenize(text) {
			token = strings.Trim(token, "'")
			if isUsableKeyword(token) {
				counts[token]++
			}
		}
	}

	keywords := make([]string, 0, len(counts))
	for keyword := range counts {
		keywords = append(keywords, keyword)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})
	return keywords
}

// stripSourceSuffix drops the " - Outlet Name" NewsAPI appends to titles.
func stripSourceSuffix(title string) string {
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		return title[:idx]
	}
	return title
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func isUsableKeyword(token string) bool {
	if len(token) < minKeywordLength || strings.Contains(token, "'") {
		return false
	}
	if _, blocked := sensitiveTopics[token]; blocked {
		return false
	}
	if _, common := commonWords[token]; common {
		return false
	}
	return filter.IsAcceptable(token)
}

// roundRobin takes one keyword from each category in turn until limit is
// reached or every category is exhausted.
func roundRobin(perCategory [][]string, limit int) []string {
	seen := make(map[string]struct{})
	next := make([]int, len(perCategory))
	var result []string

	for len(result) < limit {
		progressed := false
		for i, keywords := range perCategory {
			if len(result) >= limit {
				break
			}
			for next[i] < len(keywords) {
				keyword := keywords[next[i]]
				next[i]++
				if _, dup := seen[keyword]; dup {
					continue
				}
				seen[keyword] = struct{}{}
				result = append(result, keyword)
				progressed = true
				break
			}
		}
		if !progressed {
			break
		}
	}
	return result
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
