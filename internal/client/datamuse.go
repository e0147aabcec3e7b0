package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type DatamuseClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewDatamuseClient(baseURL string, timeout time.Duration) *DatamuseClient {
	return &DatamuseClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

// DatamuseWord is one entry of a Datamuse /words response. With md=p the tags
// carry part of speech codes (n, v, adj, adv, u).
type DatamuseWord struct {
	Word  string   `json:"word"`
	Score int      `json:"score"`
	Tags  []string `json:"tags"`
}

type DatamuseQuery struct {
	MeansLike string
	Triggers  string
	Topics    []string
	Max       int
}

func (c *DatamuseClient) Words(ctx context.Context, q DatamuseQuery) ([]DatamuseWord, error) {
	params := url.Values{}
	params.Set("md", "p")
	if q.MeansLike != "" {
		params.Set("ml", q.MeansLike)
	}
	if q.Triggers != "" {
		params.Set("rel_trg", q.Triggers)
	}
	if len(q.Topics) > 0 {
		params.Set("topics", strings.Join(q.Topics, ","))
	}
	if q.Max > 0 {
		params.Set("max", strconv.Itoa(q.Max))
	}

	var words []DatamuseWord
	endpoint := c.baseURL + "/words?" + params.Encode()
	if err := getJSON(ctx, c.httpClient, "datamuse", endpoint, nil, &words); err != nil {
		return nil, err
	}
	return words, nil
}
