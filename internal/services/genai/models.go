package genai

import (
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/common/observability"
	"qbit-backend/internal/models"
)

const (
	ProviderName = "gemini"

	// FallbackReply is returned when the response carries no candidate text.
	FallbackReply = "No response generated from the AI."
)

// Input is the /chat request body.
type Input struct {
	Message string             `json:"message"`
	History models.ChatHistory `json:"history"`
}

type generateRequest struct {
	Contents models.ChatHistory `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Observability *observability.Observability
}
