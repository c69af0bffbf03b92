package genai

import (
	"context"
	"encoding/json"
	"fmt"
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

// Service calls Gemini generateContent. It keeps no conversation state.
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

// GenerateReply appends message as a user turn to a copy of history and asks the model for a reply.
// The returned history is the one sent to the provider; the caller's slice is left untouched.
func (s *Service) GenerateReply(ctx context.Context, history models.ChatHistory, message string) (string, models.ChatHistory, error) {
	sent := make(models.ChatHistory, len(history), len(history)+1)
	copy(sent, history)
	sent = append(sent, models.ChatTurn{
		Role:  models.ChatRoleUser,
		Parts: []models.ChatPart{{Text: message}},
	})

	ctx, span := observability.Tracer("genai").Start(ctx, "gemini.generateContent")
	defer span.End()
	span.SetAttributes(attribute.Int("chat.turns", len(sent)), attribute.String("gemini.model", s.config.Model))

	s.logger.Info("Sending request to Gemini API", map[string]interface{}{
		"historyLength": len(sent),
		"model":         s.config.Model,
	})

	start := time.Now()
	reply, err := s.generate(ctx, sent)
	outcome := metrics.Outcome(err)
	metrics.UpstreamCallsTotal.WithLabelValues(ProviderName, outcome).Inc()
	s.obs.RecordUpstreamCall(ctx, ProviderName, outcome, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("Gemini API call failed", map[string]interface{}{
			"error":    err,
			"duration": time.Since(start).Milliseconds(),
		})
		return "", sent, err
	}

	return reply, sent, nil
}

func (s *Service) generate(ctx context.Context, contents models.ChatHistory) (string, error) {
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", s.config.Model)
	resp, err := s.client.PostJSON(ctx, path, map[string]string{"key": s.config.APIKey}, generateRequest{Contents: contents})
	if err != nil {
		if httpclient.IsTimeout(err) {
			return "", errors.NewUpstreamError(ProviderName, errors.ReasonTimeout, "Gemini API request timed out.", err)
		}
		return "", errors.NewUpstreamError(ProviderName, errors.ReasonConnectionError,
			"Gemini API connection error. Check network or API endpoint.", err)
	}

	if !resp.OK() {
		return "", errors.NewUpstreamError(ProviderName, errors.ReasonHTTPError,
			"Gemini API HTTP error: "+string(resp.Body), nil)
	}

	var parsed generateResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", errors.NewUpstreamError(ProviderName, errors.ReasonInvalidResponse,
			"Invalid JSON response from Gemini API: "+string(resp.Body), err)
	}

	return extractText(parsed), nil
}

func extractText(r generateResponse) string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return FallbackReply
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == nil {
		return FallbackReply
	}
	return *parts[0].Text
}
