package pricemonitor

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"qbit-backend/internal/common/clock"
	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/common/metrics"
	"qbit-backend/internal/models"
)

// Service aggregates shopping searches into scans, comparisons and CSV exports.
type Service struct {
	config   *Config
	logger   logger.Logger
	clock    clock.Clock
	searcher Searcher
	history  HistoryStore
	uploader Uploader
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		logger:   deps.Logger,
		clock:    clock.Or(deps.Clock),
		searcher: deps.Searcher,
		history:  deps.History,
		uploader: deps.Uploader,
	}
}

// Scan runs every query in order. A failing query is logged and skipped.
// With priceRange set only priced items inside the inclusive range survive.
func (s *Service) Scan(ctx context.Context, queries []string, priceRange *models.PriceRange) []models.Item {
	all := []models.Item{}

	for _, q := range queries {
		result, err := s.searcher.Search(ctx, models.SearchQuery{Text: q})
		metrics.PriceScanQueriesTotal.WithLabelValues(metrics.Outcome(err)).Inc()
		if err != nil {
			s.logger.Warn("Error monitoring results for query", map[string]interface{}{
				"query": q,
				"error": err,
			})
			continue
		}

		scrapedAt := s.clock.Now().Format(time.RFC3339)
		for _, item := range result.ShoppingResults() {
			if priceRange != nil && (!item.HasPrice() || !priceRange.Contains(*item.ExtractedPrice)) {
				continue
			}
			item.SearchQuery = q
			item.ScrapedAt = scrapedAt
			all = append(all, item)
		}
	}

	s.recordHistory(ctx, all)
	return all
}

func (s *Service) recordHistory(ctx context.Context, items []models.Item) {
	if s.history == nil || len(items) == 0 {
		return
	}
	snapshots := make([]models.PriceSnapshot, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, toSnapshot(item))
	}
	if err := s.history.Index(ctx, snapshots); err != nil {
		s.logger.Warn("Failed to index price history", map[string]interface{}{
			"error": err,
			"count": len(snapshots),
		})
	}
}

// Compare computes price statistics over every priced item, then narrows the items by
// min and max. Search failures and empty results come back as a Comparison with Error set.
func (s *Service) Compare(ctx context.Context, query string, minPrice, maxPrice *float64) (*models.Comparison, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.NewInvalidArgumentError("query is required", "")
	}

	result, err := s.searcher.Search(ctx, models.SearchQuery{Text: query})
	if err != nil {
		s.logger.Warn("Google Shopping comparison failed", map[string]interface{}{
			"query": query,
			"error": err,
		})
		return &models.Comparison{Error: compareErrorPrefix + errors.AsStandardError(err).Message}, nil
	}

	valid := []models.Item{}
	for _, item := range result.ShoppingResults() {
		if item.HasPrice() {
			valid = append(valid, item)
		}
	}
	if len(valid) == 0 {
		return &models.Comparison{Error: noPricesMessage}, nil
	}

	stats := computeStats(valid)

	narrowed := []models.Item{}
	bounds := &models.PriceRange{Min: minPrice, Max: maxPrice}
	for _, item := range valid {
		if bounds.Contains(*item.ExtractedPrice) {
			narrowed = append(narrowed, item)
		}
	}

	return &models.Comparison{Items: narrowed, PriceStats: stats}, nil
}

func computeStats(items []models.Item) *models.PriceStats {
	stats := &models.PriceStats{
		MinPrice:            *items[0].ExtractedPrice,
		MaxPrice:            *items[0].ExtractedPrice,
		TotalItemsWithPrice: len(items),
	}
	var sum float64
	for _, item := range items {
		p := *item.ExtractedPrice
		sum += p
		if p < stats.MinPrice {
			stats.MinPrice = p
		}
		if p > stats.MaxPrice {
			stats.MaxPrice = p
		}
	}
	stats.AvgPrice = sum / float64(len(items))
	return stats
}

// DefaultExportFilename names an export after the current clock time.
func (s *Service) DefaultExportFilename() string {
	return fmt.Sprintf("google_shopping_results_%s.csv", s.clock.Now().Format(exportFilenameStamp))
}

// ExportCSV writes items to filename under the export directory and returns the path written.
func (s *Service) ExportCSV(items []models.Item, filename string) (string, error) {
	if filename == "" {
		filename = s.DefaultExportFilename()
	}
	target := filename
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.config.ExportDir, filename)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, items); err != nil {
		return "", err
	}

	s.logger.Info("Exported price monitor results", map[string]interface{}{
		"path":  target,
		"items": len(items),
	})
	return target, nil
}

// WriteCSV streams items with the fixed column order. Missing values are blank cells.
func WriteCSV(w io.Writer, items []models.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, item := range items {
		row := []string{
			item.Title,
			item.Link,
			formatFloat(item.ExtractedPrice),
			formatCell(item.OriginalPrice),
			formatCell(item.Savings),
			formatCell(item.Merchant),
			formatFloat(item.Rating),
			formatFloat(item.Reviews),
			item.Thumbnail,
			item.SearchQuery,
			item.ScrapedAt,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// UploadExport copies an export file to object storage under <prefix>/<slug>-<file>.
func (s *Service) UploadExport(ctx context.Context, filePath, label string) (string, error) {
	if s.uploader == nil {
		return "", errors.NewConfigurationError("Export upload is not configured", "integrations.aws.s3.bucket is empty")
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	key := ExportKey(s.config.S3Prefix, label, filepath.Base(filePath))
	location, err := s.uploader.Upload(ctx, key, "text/csv", f)
	if err != nil {
		return "", errors.NewDeliveryError("s3", err)
	}

	s.logger.Info("Uploaded price monitor export", map[string]interface{}{
		"location": location,
	})
	return location, nil
}

// ExportKey builds the object key for an export file.
func ExportKey(prefix, label, file string) string {
	name := slug.Make(label)
	if name == "" {
		name = "export"
	}
	return path.Join(prefix, name+"-"+file)
}

// History returns the most recent snapshots recorded for query.
func (s *Service) History(ctx context.Context, query string, limit int) ([]models.PriceSnapshot, error) {
	if s.history == nil {
		return nil, errors.NewConfigurationError("Price history is not configured", "database.elasticsearch is empty")
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.NewInvalidArgumentError("query is required", "")
	}
	if limit <= 0 {
		limit = s.config.HistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.history.Latest(ctx, query, limit)
}

// HistoryEnabled reports whether snapshots are being recorded.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

func toSnapshot(item models.Item) models.PriceSnapshot {
	return models.PriceSnapshot{
		Query:          item.SearchQuery,
		Title:          item.Title,
		Link:           item.Link,
		Merchant:       formatCell(item.Merchant),
		ExtractedPrice: item.ExtractedPrice,
		ScrapedAt:      item.ScrapedAt,
	}
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		buf, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(buf)
	}
}
