package pricemonitor

import (
	"context"
	"io"

	"qbit-backend/internal/common/clock"
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/models"
)

const (
	maxHistoryLimit = 100

	noPricesMessage     = "No products with valid prices found from Google Shopping."
	compareErrorPrefix  = "Google Shopping comparison failed: "
	exportFilenameStamp = "20060102_150405"
)

// CSVColumns is the fixed export header.
var CSVColumns = []string{
	"Title", "Link", "Extracted_Price", "Original_Price", "Savings", "Merchant",
	"Rating", "Reviews", "Thumbnail", "Search_Query", "Scraped_At",
}

// Searcher runs one shopping search.
type Searcher interface {
	Search(ctx context.Context, query models.SearchQuery) (models.SearchResult, error)
}

// HistoryStore persists and reads price snapshots.
type HistoryStore interface {
	Index(ctx context.Context, snapshots []models.PriceSnapshot) error
	Latest(ctx context.Context, query string, limit int) ([]models.PriceSnapshot, error)
}

// Uploader stores an export file remotely and returns its location.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// ScanInput is the body of the scan and export endpoints.
type ScanInput struct {
	Queries  []string `json:"queries"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Upload   bool     `json:"upload,omitempty"`
}

// CompareInput is the body of the compare endpoint.
type CompareInput struct {
	Query    string   `json:"query"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// Range returns the price range, or nil when neither bound is set.
func (in ScanInput) Range() *models.PriceRange {
	if in.MinPrice == nil && in.MaxPrice == nil {
		return nil
	}
	return &models.PriceRange{Min: in.MinPrice, Max: in.MaxPrice}
}

// ServiceDependencies wires the aggregator. History and Uploader are optional.
type ServiceDependencies struct {
	Logger   logger.Logger
	Clock    clock.Clock
	Searcher Searcher
	History  HistoryStore
	Uploader Uploader
}
