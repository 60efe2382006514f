package gnews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"esglens/internal/domain"
	"esglens/internal/ports"
)

const (
	defaultEndpoint = "https://gnews.io/api/v4/search"
	quotaMessage    = "You have exceeded your daily request quota."
)

// esgKeywords is the fixed disjunction appended to every brand query so the
// search skews toward ESG coverage.
var esgKeywords = []string{
	"ESG", "sustainability", "environment", "social responsibility",
	"governance", "climate", "carbon", "diversity", "ethics", "green",
	"renewable", "sustainable",
}

// APIError is a structured error payload returned by the provider.
type APIError struct {
	Payload string
}

func (e *APIError) Error() string {
	return "gnews api error: " + e.Payload
}

// Client implements ports.NewsSource against the GNews search API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.NewsSource = (*Client)(nil)

// NewClient builds a client with an explicit request timeout.
func NewClient(endpoint, apiKey string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// BuildQuery combines a company name with the ESG keyword disjunction.
func BuildQuery(company string) string {
	return fmt.Sprintf("%s (%s)", company, strings.Join(esgKeywords, " OR "))
}

// Search queries English-language articles about company, at most max
// results. Quota exhaustion surfaces as domain.ErrQuotaExceeded; any other
// structured error payload becomes an *APIError. Neither is retried here.
func (c *Client) Search(ctx context.Context, company string, max int) ([]domain.FetchedArticle, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("gnews client misconfigured: missing api key")
	}

	params := url.Values{}
	params.Set("q", BuildQuery(company))
	params.Set("lang", "en")
	params.Set("max", strconv.Itoa(max))
	params.Set("token", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request news: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if err := payload.err(); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gnews returned %s", resp.Status)
	}

	articles := make([]domain.FetchedArticle, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		articles = append(articles, domain.FetchedArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			SourceName:  a.Source.Name,
		})
	}
	return articles, nil
}

type searchResponse struct {
	Articles []struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`

	// The API signals failure through an errors field that is sometimes an
	// array of strings and sometimes an object.
	Errors json.RawMessage `json:"errors"`
}

// err inspects the errors field and maps it to the right error value.
func (r searchResponse) err() error {
	if len(r.Errors) == 0 || string(r.Errors) == "null" {
		return nil
	}

	var list []string
	if jsonErr := json.Unmarshal(r.Errors, &list); jsonErr == nil {
		if len(list) == 0 {
			return nil
		}
		for _, msg := range list {
			if msg == quotaMessage {
				return fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, msg)
			}
		}
		return &APIError{Payload: strings.Join(list, "; ")}
	}

	var obj map[string]json.RawMessage
	if jsonErr := json.Unmarshal(r.Errors, &obj); jsonErr == nil {
		if len(obj) == 0 {
			return nil
		}
		return &APIError{Payload: string(r.Errors)}
	}

	return &APIError{Payload: string(r.Errors)}
}
