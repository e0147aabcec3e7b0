package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type NewsClient struct {
	baseURL    string
	apiKey     string
	country    string
	httpClient *http.Client
}

func NewNewsClient(baseURL, apiKey string, timeout time.Duration) *NewsClient {
	return &NewsClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		country:    "us",
		httpClient: newHTTPClient(timeout),
	}
}

type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type headlinesResponse struct {
	Status   string    `json:"status"`
	Articles []Article `json:"articles"`
}

func (c *NewsClient) HasAPIKey() bool {
	return c.apiKey != ""
}

// TopHeadlines returns the current headlines for one category.
func (c *NewsClient) TopHeadlines(ctx context.Context, category string, pageSize int) ([]Article, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("country", c.country)
	params.Set("category", category)
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}

	header := http.Header{}
	header.Set("X-Api-Key", c.apiKey)

	var resp headlinesResponse
	endpoint := c.baseURL + "/top-headlines?" + params.Encode()
	if err := getJSON(ctx, c.httpClient, "newsapi", endpoint, header, &resp); err != nil {
		return nil, err
	}
	return resp.Articles, nil
}
