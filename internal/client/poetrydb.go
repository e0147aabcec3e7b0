package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/etymograph/dailyverse/internal/model"
)

// ErrNoPoems is returned when PoetryDB has nothing for the query. PoetryDB
// reports this with a 200 and a {status, reason} object instead of an array.
var ErrNoPoems = errors.New("no poems found")

type PoetryClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPoetryClient(baseURL string, timeout time.Duration) *PoetryClient {
	return &PoetryClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

// RandomPoemByAuthor returns one random poem written by author.
func (c *PoetryClient) RandomPoemByAuthor(ctx context.Context, author string) (*model.Poem, error) {
	poems, err := c.fetch(ctx, "/author,random/"+url.PathEscape(author)+";1")
	if err != nil {
		return nil, err
	}
	return &poems[0], nil
}

// PoemsByAuthor returns every poem PoetryDB has for author.
func (c *PoetryClient) PoemsByAuthor(ctx context.Context, author string) ([]model.Poem, error) {
	return c.fetch(ctx, "/author/"+url.PathEscape(author))
}

func (c *PoetryClient) fetch(ctx context.Context, path string) ([]model.Poem, error) {
	var raw json.RawMessage
	if err := getJSON(ctx, c.httpClient, "poetrydb", c.baseURL+path, nil, &raw); err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, ErrNoPoems
	}

	var poems []model.Poem
	if err := json.Unmarshal(raw, &poems); err != nil {
		return nil, fmt.Errorf("failed to decode poetrydb response: %w", err)
	}
	if len(poems) == 0 {
		return nil, ErrNoPoems
	}
	return poems, nil
}
