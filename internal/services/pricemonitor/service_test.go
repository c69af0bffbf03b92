package pricemonitor

import (
	"bytes"
	"context"
	"encoding/csv"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"qbit-backend/internal/common/clock"
	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/models"
)

// ==========================
// Fakes
// ==========================

type fakeSearcher struct {
	results map[string]models.SearchResult
	errs    map[string]error
	calls   []string
}

func (f *fakeSearcher) Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error) {
	f.calls = append(f.calls, q.Text)
	if err, ok := f.errs[q.Text]; ok {
		return nil, err
	}
	return f.results[q.Text], nil
}

type memoryHistory struct {
	indexed []models.PriceSnapshot
	err     error
}

func (m *memoryHistory) Index(ctx context.Context, snapshots []models.PriceSnapshot) error {
	if m.err != nil {
		return m.err
	}
	m.indexed = append(m.indexed, snapshots...)
	return nil
}

func (m *memoryHistory) Latest(ctx context.Context, query string, limit int) ([]models.PriceSnapshot, error) {
	out := []models.PriceSnapshot{}
	for _, s := range m.indexed {
		if s.Query == query && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	data, _ := io.ReadAll(body)
	args := m.Called(key, contentType, string(data))
	return args.String(0), args.Error(1)
}

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func priced(prices ...interface{}) models.SearchResult {
	items := make([]interface{}, 0, len(prices))
	for i, p := range prices {
		entry := map[string]interface{}{"title": "Widget " + string(rune('A'+i)), "link": "https://shop/" + string(rune('a'+i))}
		if p != nil {
			entry["extracted_price"] = p
		}
		items = append(items, entry)
	}
	return models.SearchResult{"shopping_results": items}
}

func createTestService(t *testing.T, searcher Searcher, history HistoryStore, uploader Uploader) *Service {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ExportDir = t.TempDir()
	deps := ServiceDependencies{
		Logger:   logger.NewTestLogger(t),
		Clock:    clock.Fixed{At: fixedNow},
		Searcher: searcher,
	}
	if history != nil {
		deps.History = history
	}
	if uploader != nil {
		deps.Uploader = uploader
	}
	return NewService(deps, cfg)
}

func floatPtr(f float64) *float64 { return &f }

// ==========================
// Compare Tests
// ==========================

func TestService_Compare_StatsBeforeNarrowing(t *testing.T) {
	searcher := &fakeSearcher{results: map[string]models.SearchResult{"widget": priced(5.0, 15.0, 25.0)}}
	svc := createTestService(t, searcher, nil, nil)

	cmp, err := svc.Compare(context.Background(), "widget", floatPtr(10), floatPtr(20))
	require.NoError(t, err)
	require.Empty(t, cmp.Error)
	require.NotNil(t, cmp.PriceStats)

	assert.Equal(t, 15.0, cmp.PriceStats.AvgPrice)
	assert.Equal(t, 3, cmp.PriceStats.TotalItemsWithPrice)
	assert.Equal(t, 5.0, cmp.PriceStats.MinPrice)
	assert.Equal(t, 25.0, cmp.PriceStats.MaxPrice)
	require.Len(t, cmp.Items, 1)
	assert.Equal(t, 15.0, *cmp.Items[0].ExtractedPrice)
}

func TestService_Compare_SoftErrors(t *testing.T) {
	tests := []struct {
		name     string
		searcher *fakeSearcher
		want     string
	}{
		{
			name:     "no priced items",
			searcher: &fakeSearcher{results: map[string]models.SearchResult{"widget": priced(nil, nil)}},
			want:     "No products with valid prices found from Google Shopping.",
		},
		{
			name:     "no results at all",
			searcher: &fakeSearcher{results: map[string]models.SearchResult{"widget": {}}},
			want:     "No products with valid prices found from Google Shopping.",
		},
		{
			name: "search failure",
			searcher: &fakeSearcher{errs: map[string]error{
				"widget": errors.NewUpstreamError("serpapi", errors.ReasonProviderError, "Google Shopping search failed: Invalid API key.", nil),
			}},
			want: "Google Shopping comparison failed: Google Shopping search failed: Invalid API key.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, err := createTestService(t, tt.searcher, nil, nil).Compare(context.Background(), "widget", nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmp.Error)
			assert.Nil(t, cmp.PriceStats)
			assert.Empty(t, cmp.Items)
		})
	}
}

func TestService_Compare_EmptyQuery(t *testing.T) {
	_, err := createTestService(t, &fakeSearcher{}, nil, nil).Compare(context.Background(), "  ", nil, nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidArgument))
}

// ==========================
// Scan Tests
// ==========================

func TestService_Scan(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string]models.SearchResult{
			"chair": priced(12.0, nil, 30.0),
			"desk":  priced(18.0, 9.0),
		},
		errs: map[string]error{"lamp": stderrors.New("boom")},
	}
	history := &memoryHistory{}
	svc := createTestService(t, searcher, history, nil)

	items := svc.Scan(context.Background(), []string{"chair", "lamp", "desk"}, &models.PriceRange{Min: floatPtr(10), Max: floatPtr(20)})

	assert.Equal(t, []string{"chair", "lamp", "desk"}, searcher.calls)
	require.Len(t, items, 2)
	assert.Equal(t, "chair", items[0].SearchQuery)
	assert.Equal(t, 12.0, *items[0].ExtractedPrice)
	assert.Equal(t, "desk", items[1].SearchQuery)
	assert.Equal(t, "2024-05-06T07:08:09Z", items[1].ScrapedAt)
	assert.Len(t, history.indexed, 2)
}

func TestService_Scan_NoRangeKeepsUnpriced(t *testing.T) {
	searcher := &fakeSearcher{results: map[string]models.SearchResult{"chair": priced(12.0, nil)}}
	items := createTestService(t, searcher, nil, nil).Scan(context.Background(), []string{"chair"}, nil)
	require.Len(t, items, 2)
	assert.Nil(t, items[1].ExtractedPrice)
}

func TestService_Scan_HistoryFailureIsIgnored(t *testing.T) {
	searcher := &fakeSearcher{results: map[string]models.SearchResult{"chair": priced(12.0)}}
	svc := createTestService(t, searcher, &memoryHistory{err: stderrors.New("es down")}, nil)
	assert.Len(t, svc.Scan(context.Background(), []string{"chair"}, nil), 1)
}

// ==========================
// Export Tests
// ==========================

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	items := []models.Item{
		{
			Title:          "Widget, large",
			Link:           "https://shop/a",
			ExtractedPrice: floatPtr(15.5),
			OriginalPrice:  "R 20.00",
			Merchant:       map[string]interface{}{"name": "Shop A"},
			Rating:         floatPtr(4.5),
			SearchQuery:    "widget",
			ScrapedAt:      "2024-05-06T07:08:09Z",
		},
		{Title: "Bare"},
	}
	require.NoError(t, WriteCSV(&buf, items))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVColumns, rows[0])
	assert.Equal(t, []string{
		"Widget, large", "https://shop/a", "15.5", "R 20.00", "", `{"name":"Shop A"}`,
		"4.5", "", "", "widget", "2024-05-06T07:08:09Z",
	}, rows[1])
	assert.Equal(t, []string{"Bare", "", "", "", "", "", "", "", "", "", ""}, rows[2])
}

func TestService_ExportCSV_DefaultFilename(t *testing.T) {
	svc := createTestService(t, &fakeSearcher{}, nil, nil)

	path, err := svc.ExportCSV([]models.Item{{Title: "Widget"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "google_shopping_results_20240506_070809.csv", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Title,Link,Extracted_Price"))
}

func TestService_UploadExport(t *testing.T) {
	uploader := new(mockUploader)
	uploader.On("Upload", "exports/office-chairs-report.csv", "text/csv", mock.MatchedBy(func(body string) bool {
		return strings.HasPrefix(body, "Title,")
	})).Return("s3://bucket/exports/office-chairs-report.csv", nil)

	svc := createTestService(t, &fakeSearcher{}, nil, uploader)
	path, err := svc.ExportCSV(nil, "report.csv")
	require.NoError(t, err)

	location, err := svc.UploadExport(context.Background(), path, "Office Chairs")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/exports/office-chairs-report.csv", location)
	uploader.AssertExpectations(t)
}

func TestService_UploadExport_NotConfigured(t *testing.T) {
	_, err := createTestService(t, &fakeSearcher{}, nil, nil).UploadExport(context.Background(), "x.csv", "x")
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigurationError))
}

func TestExportKey(t *testing.T) {
	assert.Equal(t, "exports/export-a.csv", ExportKey("exports", "", "a.csv"))
	assert.Equal(t, "red-chair-a.csv", ExportKey("", "Red Chair!", "a.csv"))
}

// ==========================
// History Tests
// ==========================

func TestService_History(t *testing.T) {
	history := &memoryHistory{indexed: []models.PriceSnapshot{
		{Query: "chair", Title: "A"}, {Query: "desk", Title: "B"}, {Query: "chair", Title: "C"},
	}}
	svc := createTestService(t, &fakeSearcher{}, history, nil)

	snaps, err := svc.History(context.Background(), "chair", 0)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)

	_, err = createTestService(t, &fakeSearcher{}, nil, nil).History(context.Background(), "chair", 5)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigurationError))
}

// ==========================
// Watcher Tests
// ==========================

func TestWatcher(t *testing.T) {
	searcher := &fakeSearcher{results: map[string]models.SearchResult{"chair": priced(12.0, 14.0)}}
	svc := createTestService(t, searcher, nil, nil)

	_, err := NewWatcher(svc, "not a schedule", []string{"chair"}, logger.NewNoOpLogger())
	require.Error(t, err)

	w, err := NewWatcher(svc, "@every 1h", []string{"chair"}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, w.RunOnce(context.Background()))

	w.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	w.Stop(ctx)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Schedule = "@hourly"
	assert.Error(t, cfg.Validate())

	cfg.WatchQueries = []string{"chair"}
	assert.NoError(t, cfg.Validate())
}
