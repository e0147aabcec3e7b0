package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type WordnikClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewWordnikClient(baseURL, apiKey string, timeout time.Duration) *WordnikClient {
	return &WordnikClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: newHTTPClient(timeout),
	}
}

type WordnikDefinition struct {
	Text         string `json:"text"`
	PartOfSpeech string `json:"partOfSpeech"`
}

type WordOfTheDay struct {
	Word        string              `json:"word"`
	Definitions []WordnikDefinition `json:"definitions"`
}

type RandomWordsQuery struct {
	PartOfSpeech   string
	Limit          int
	MinCorpusCount int
	MinLength      int
	MaxLength      int
}

type wordnikWord struct {
	Word string `json:"word"`
}

func (c *WordnikClient) HasAPIKey() bool {
	return c.apiKey != ""
}

// GetWordOfTheDay fetches the word of the day for the given date. A zero date
// asks Wordnik for today's word.
func (c *WordnikClient) GetWordOfTheDay(ctx context.Context, date time.Time) (*WordOfTheDay, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if !date.IsZero() {
		params.Set("date", date.UTC().Format("2006-01-02"))
	}

	var wotd WordOfTheDay
	endpoint := c.baseURL + "/words.json/wordOfTheDay?" + params.Encode()
	if err := getJSON(ctx, c.httpClient, "wordnik", endpoint, nil, &wotd); err != nil {
		return nil, err
	}
	return &wotd, nil
}

// GetRandomWords fetches random dictionary words matching the query.
func (c *WordnikClient) GetRandomWords(ctx context.Context, q RandomWordsQuery) ([]string, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("invalid random word limit %d", q.Limit)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("hasDictionaryDef", "true")
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.PartOfSpeech != "" {
		params.Set("includePartOfSpeech", q.PartOfSpeech)
	}
	if q.MinCorpusCount > 0 {
		params.Set("minCorpusCount", strconv.Itoa(q.MinCorpusCount))
	}
	if q.MinLength > 0 {
		params.Set("minLength", strconv.Itoa(q.MinLength))
	}
	if q.MaxLength > 0 {
		params.Set("maxLength", strconv.Itoa(q.MaxLength))
	}

	var words []wordnikWord
	endpoint := c.baseURL + "/words.json/randomWords?" + params.Encode()
	if err := getJSON(ctx, c.httpClient, "wordnik", endpoint, nil, &words); err != nil {
		return nil, err
	}

	result := make([]string, 0, len(words))
	for _, w := range words {
		result = append(result, w.Word)
	}
	return result, nil
}
