package matcher

import (
	"strings"

	"esglens/internal/domain"
)

// entry is one registered product-name pattern and the brand that claimed it.
type entry struct {
	pattern  string
	brandKey string
}

// Index maps lowered product names to brand records. Registration order is
// significant: Match scans entries in insertion order and the first
// substring hit wins, so on a literal pattern collision the
// first-registered brand keeps the claim.
type Index struct {
	entries []entry
	claimed map[string]string
	brands  map[string]domain.Brand
}

// NewIndex builds an empty index.
func NewIndex() *Index {
	return &Index{
		claimed: map[string]string{},
		brands:  map[string]domain.Brand{},
	}
}

// BuildIndex registers every product of every brand. Brands with an empty
// brand name or no product list contribute nothing; one malformed record
// must not break matching for the rest.
func BuildIndex(brands []domain.Brand) *Index {
	idx := NewIndex()
	for _, b := range brands {
		idx.Register(b)
	}
	return idx
}

// Register adds a brand and its product patterns. Registering the same
// product name twice never overwrites the first claim, which makes index
// construction idempotent.
func (i *Index) Register(b domain.Brand) {
	key := b.Key()
	if key == "" || len(b.Products) == 0 {
		return
	}

	if _, ok := i.brands[key]; !ok {
		i.brands[key] = b
	}

	for _, product := range b.Products {
		pattern := strings.ToLower(strings.TrimSpace(product))
		if pattern == "" {
			continue
		}
		if _, taken := i.claimed[pattern]; taken {
			continue
		}
		i.claimed[pattern] = key
		i.entries = append(i.entries, entry{pattern: pattern, brandKey: key})
	}
}

// Match lowers text and returns the brand owning the first registered
// product name contained in it. Overlapping patterns ("air max" vs
// "air max 90") resolve to whichever was registered first, regardless of
// specificity. Deterministic, no side effects.
func (i *Index) Match(text string) (domain.Brand, bool) {
	if len(i.entries) == 0 || text == "" {
		return domain.Brand{}, false
	}

	lowered := strings.ToLower(text)
	for _, e := range i.entries {
		if strings.Contains(lowered, e.pattern) {
			return i.brands[e.brandKey], true
		}
	}

	return domain.Brand{}, false
}

// Patterns returns the registered product-name → brand-key pairs in
// insertion order, for clients (the browser extension) that run the same
// scan locally.
func (i *Index) Patterns() []PatternEntry {
	out := make([]PatternEntry, 0, len(i.entries))
	for _, e := range i.entries {
		out = append(out, PatternEntry{Pattern: e.pattern, BrandKey: e.brandKey})
	}
	return out
}

// Len reports the number of registered patterns.
func (i *Index) Len() int {
	return len(i.entries)
}

// PatternEntry is the wire form of one index entry.
type PatternEntry struct {
	Pattern  string `json:"pattern"`
	BrandKey string `json:"brand_key"`
}
