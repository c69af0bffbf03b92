package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"qbit-backend/internal/common/errors"
	httpclient "qbit-backend/internal/common/http"
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/common/metrics"
	"qbit-backend/internal/common/observability"
	"qbit-backend/internal/models"
)

// Service queries SerpApi's Google Shopping engine. One outbound call per Search, never retried.
type Service struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
	obs    *observability.Observability
}

func NewService(deps ServiceDependencies, config *Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		config: config,
		client: httpclient.NewClient(config.BaseURL, config.Timeout),
		logger: deps.Logger,
		obs:    deps.Observability,
	}, nil
}

// BuildQuery joins the trimmed query and, when present, the trimmed category.
func BuildQuery(text, category string) string {
	q := strings.TrimSpace(text)
	if c := strings.TrimSpace(category); c != "" {
		q = q + " " + c
	}
	return q
}

func (s *Service) Search(ctx context.Context, query models.SearchQuery) (models.SearchResult, error) {
	if strings.TrimSpace(query.Text) == "" {
		return nil, errors.NewInvalidArgumentError("Search query cannot be empty.", "")
	}

	params := s.buildParams(query)

	ctx, span := observability.Tracer("search").Start(ctx, "serpapi.search")
	defer span.End()
	span.SetAttributes(attribute.String("search.q", params["q"]), attribute.String("search.gl", params["gl"]))

	s.logger.Info("Initiating Google Shopping search", map[string]interface{}{
		"q":   params["q"],
		"gl":  params["gl"],
		"hl":  params["hl"],
		"num": params["num"],
	})

	start := time.Now()
	result, err := s.do(ctx, params)
	outcome := metrics.Outcome(err)
	metrics.UpstreamCallsTotal.WithLabelValues(ProviderName, outcome).Inc()
	s.obs.RecordUpstreamCall(ctx, ProviderName, outcome, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("Google Shopping search failed", map[string]interface{}{
			"error":    err,
			"q":        params["q"],
			"duration": time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	s.logger.Info("Google Shopping search completed", map[string]interface{}{
		"q":        params["q"],
		"results":  len(result.ShoppingResults()),
		"duration": time.Since(start).Milliseconds(),
	})
	return result, nil
}

func (s *Service) buildParams(query models.SearchQuery) map[string]string {
	geo := query.Geo
	if geo == "" {
		geo = s.config.Geo
	}
	lang := query.Language
	if lang == "" {
		lang = s.config.Language
	}
	num := query.ResultCount
	if num <= 0 {
		num = s.config.ResultCount
	}
	if num <= 0 {
		num = 10
	}
	if num > models.MaxResultCount {
		num = models.MaxResultCount
	}

	return map[string]string{
		"engine":  Engine,
		"q":       BuildQuery(query.Text, query.Category),
		"api_key": s.config.APIKey,
		"gl":      geo,
		"hl":      lang,
		"num":     strconv.Itoa(num),
	}
}

func (s *Service) do(ctx context.Context, params map[string]string) (models.SearchResult, error) {
	resp, err := s.client.Get(ctx, "/search.json", params)
	if err != nil {
		if httpclient.IsTimeout(err) {
			return nil, errors.NewUpstreamError(ProviderName, errors.ReasonTimeout, errorPrefix+"request timed out", err)
		}
		return nil, errors.NewUpstreamError(ProviderName, errors.ReasonConnectionError, errorPrefix+err.Error(), err)
	}

	var result models.SearchResult
	decodeErr := json.Unmarshal(resp.Body, &result)

	if decodeErr == nil {
		if msg, ok := result["error"]; ok {
			text := fmt.Sprint(msg)
			return nil, errors.NewUpstreamError(ProviderName, errors.ReasonProviderError, errorPrefix+text, nil)
		}
	}

	if !resp.OK() {
		return nil, errors.NewUpstreamError(ProviderName, errors.ReasonHTTPError,
			fmt.Sprintf("%sHTTP %d: %s", errorPrefix, resp.StatusCode, string(resp.Body)), nil)
	}
	if decodeErr != nil {
		return nil, errors.NewUpstreamError(ProviderName, errors.ReasonInvalidResponse, errorPrefix+"invalid JSON response", decodeErr)
	}
	return result, nil
}
