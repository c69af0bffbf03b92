// internal/models/shopping.go
package models

import "encoding/json"

const MaxResultCount = 100

type SearchQuery struct {
	Text        string
	Category    string
	Geo         string
	Language    string
	ResultCount int
}

// SearchResult is the provider document, passed through untouched.
type SearchResult map[string]interface{}

// Item is one shopping result, optionally stamped by the price monitor.
type Item struct {
	Title          string      `json:"title"`
	Link           string      `json:"link"`
	ExtractedPrice *float64    `json:"extracted_price,omitempty"`
	OriginalPrice  interface{} `json:"original_price,omitempty"`
	Savings        interface{} `json:"savings,omitempty"`
	Merchant       interface{} `json:"merchant,omitempty"`
	Rating         *float64    `json:"rating,omitempty"`
	Reviews        *float64    `json:"reviews,omitempty"`
	Thumbnail      string      `json:"thumbnail,omitempty"`
	SearchQuery    string      `json:"search_query,omitempty"`
	ScrapedAt      string      `json:"scraped_at,omitempty"`
}

// HasPrice reports a present, non-negative extracted price.
func (i Item) HasPrice() bool {
	return i.ExtractedPrice != nil && *i.ExtractedPrice >= 0
}

// ShoppingResults decodes the optional shopping_results array. Malformed entries are skipped.
func (r SearchResult) ShoppingResults() []Item {
	raw, ok := r["shopping_results"].([]interface{})
	if !ok {
		return nil
	}

	items := make([]Item, 0, len(raw))
	for _, entry := range raw {
		buf, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		var item Item
		if err := json.Unmarshal(buf, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}

// PriceRange bounds are inclusive; a nil bound is open.
type PriceRange struct {
	Min *float64 `json:"min_price,omitempty"`
	Max *float64 `json:"max_price,omitempty"`
}

func (p *PriceRange) Contains(price float64) bool {
	if p == nil {
		return true
	}
	if p.Min != nil && price < *p.Min {
		return false
	}
	if p.Max != nil && price > *p.Max {
		return false
	}
	return true
}

type PriceStats struct {
	MinPrice            float64 `json:"min_price"`
	MaxPrice            float64 `json:"max_price"`
	AvgPrice            float64 `json:"avg_price"`
	TotalItemsWithPrice int     `json:"total_items_with_price"`
}

type Comparison struct {
	Items      []Item      `json:"items"`
	PriceStats *PriceStats `json:"price_stats,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// MarshalJSON writes {error} for soft failures and {items, price_stats} otherwise.
// items is always an array, even when the price range excludes everything.
func (c Comparison) MarshalJSON() ([]byte, error) {
	if c.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{c.Error})
	}
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(struct {
		Items      []Item      `json:"items"`
		PriceStats *PriceStats `json:"price_stats,omitempty"`
	}{items, c.PriceStats})
}

// PriceSnapshot is one indexed price observation.
type PriceSnapshot struct {
	Query          string   `json:"query"`
	Title          string   `json:"title"`
	Link           string   `json:"link"`
	Merchant       string   `json:"merchant,omitempty"`
	ExtractedPrice *float64 `json:"extracted_price,omitempty"`
	ScrapedAt      string   `json:"scraped_at"`
}
