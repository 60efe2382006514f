package domain

import (
	"errors"
	"time"
)

// ErrQuotaExceeded signals that the news-search provider refused the call
// because the daily request quota is spent. Callers present an error state
// instead of retrying.
var ErrQuotaExceeded = errors.New("news source quota exceeded")

// Category is the closed set of ESG news categories. Every stored article
// carries exactly one, assigned once at ingestion.
type Category string

const (
	CategoryEnvironmental Category = "environmental"
	CategorySocial        Category = "social"
	CategoryGovernance    Category = "governance"
)

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryEnvironmental, CategorySocial, CategoryGovernance:
		return true
	}
	return false
}

// NewsArticle is a persisted row of the hosted news table. Rows are written
// once by the reconciliation pipeline and never mutated or deleted here.
// URL is unique per brand; the store enforces that under concurrent inserts.
type NewsArticle struct {
	ID       string    `json:"id"`
	BrandID  string    `json:"esg_id"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	Category Category  `json:"category"`
	Date     time.Time `json:"date"`
	Source   string    `json:"source"`
	URL      string    `json:"url"`
}

// FetchedArticle is a raw article as returned by the news-search provider,
// before deduplication and categorization.
type FetchedArticle struct {
	Title       string
	Description string
	URL         string
	PublishedAt time.Time
	SourceName  string
}
