package domain

import "strings"

// Brand is a core entity describing one consumer brand and its ESG rating,
// mirroring a row of the hosted esg_data table. Rows are produced by an
// external ingestion process; this system only reads them.
type Brand struct {
	ID                 string   `json:"id"`
	CompanyName        string   `json:"company_name"`
	BrandName          string   `json:"brand_name"`
	Ticker             string   `json:"ticker"`
	Industry           string   `json:"industry"`
	Country            string   `json:"country"`
	EnvironmentalScore *float64 `json:"environmental_score"`
	SocialScore        *float64 `json:"social_score"`
	GovernanceScore    *float64 `json:"governance_score"`
	OverallScore       *float64 `json:"overall_score"`
	LastUpdated        string   `json:"last_updated"`
	Description        string   `json:"description"`
	Website            string   `json:"website"`
	Founded            string   `json:"founded"`
	Products           []string `json:"products"`
}

// Key returns the normalized identifier used by the product index.
func (b Brand) Key() string {
	return strings.ToLower(b.BrandName)
}

// Score safely dereferences a nullable score, treating absent as 0.
func Score(s *float64) float64 {
	if s == nil {
		return 0
	}
	return *s
}
