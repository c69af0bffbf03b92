package search

import (
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/common/observability"
)

const (
	ProviderName = "serpapi"
	Engine       = "google_shopping"

	errorPrefix = "Google Shopping search failed: "
)

// Input is the /search request body.
type Input struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Observability *observability.Observability
}
