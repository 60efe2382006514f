package page

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"esglens/internal/domain"
	"esglens/internal/matcher"
)

// textAttrs are the element attributes joined into the matchable text,
// after the visible text content.
var textAttrs = []string{"title", "alt", "data-title", "aria-label"}

// Detection reports one element whose text matched a registered product.
type Detection struct {
	Selector string       `json:"selector"`
	Excerpt  string       `json:"excerpt"`
	Brand    domain.Brand `json:"brand"`
}

// Scanner applies the brand matcher to product elements of an HTML page,
// using the same per-site selector presets as the browser extension.
type Scanner struct {
	index *matcher.Index
}

// NewScanner wires a built product index.
func NewScanner(index *matcher.Index) *Scanner {
	return &Scanner{index: index}
}

// Scan parses the document and matches each candidate element at most once.
// The seen set lives for one scan run only, so repeated scans of a mutated
// page stay idempotent per element without module-level state.
func (s *Scanner) Scan(htmlSrc, hostname string) ([]Detection, error) {
	if s.index == nil || s.index.Len() == 0 {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	seen := map[*html.Node]struct{}{}
	var detections []Detection

	for _, selector := range ProductSelectors(hostname) {
		doc.Find(selector).Each(func(_ int, el *goquery.Selection) {
			if len(el.Nodes) == 0 {
				return
			}
			node := el.Nodes[0]
			if _, done := seen[node]; done {
				return
			}
			seen[node] = struct{}{}

			text := ExtractText(el)
			brand, ok := s.index.Match(text)
			if !ok {
				return
			}

			detections = append(detections, Detection{
				Selector: selector,
				Excerpt:  excerpt(text),
				Brand:    brand,
			})
		})
	}

	return detections, nil
}

// ExtractText concatenates an element's text content with its title, alt,
// data-title and aria-label attributes, space separated. Empty sources are
// dropped; the result may still be empty.
func ExtractText(el *goquery.Selection) string {
	sources := []string{strings.TrimSpace(el.Text())}
	for _, attr := range textAttrs {
		if v, ok := el.Attr(attr); ok {
			sources = append(sources, strings.TrimSpace(v))
		}
	}

	kept := sources[:0]
	for _, src := range sources {
		if src != "" {
			kept = append(kept, src)
		}
	}
	return strings.Join(kept, " ")
}

// ProductSelectors returns the CSS selectors likely to wrap product tiles
// on the given host, falling back to generic product/heading selectors.
func ProductSelectors(hostname string) []string {
	switch {
	case strings.Contains(hostname, "amazon.com"):
		return []string{
			`[data-component-type="s-search-result"]`,
			"#dp-container",
			".s-result-item",
			".a-section.a-spacing-base",
		}
	case strings.Contains(hostname, "ebay.com"):
		return []string{".s-item", ".x-item-title-label", ".notranslate", ".it-ttl"}
	case strings.Contains(hostname, "walmart.com"):
		return []string{
			`[data-testid="item-stack"]`,
			".search-result-gridview-item",
			".product-title-link",
		}
	case strings.Contains(hostname, "target.com"):
		return []string{
			`[data-test="product-details"]`,
			".ProductCardImage",
			`[data-test="@web/site-top-of-funnel/ProductCardWrapper"]`,
		}
	case strings.Contains(hostname, "bestbuy.com"):
		return []string{".sku-item", ".sr-item", ".product-title"}
	default:
		return []string{
			".product", ".product-item", ".product-card",
			"h1", "h2", "h3",
			".title", ".product-title", ".product-name",
		}
	}
}

const excerptLimit = 120

func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= excerptLimit {
		return text
	}
	return text[:excerptLimit]
}
