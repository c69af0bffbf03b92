package api

import (
	"net/http"
	"strings"

	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/models"
	"qbit-backend/internal/services/genai"
	"qbit-backend/internal/services/notification"
	"qbit-backend/internal/services/search"
)

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var in search.Input
	raw, err := decode(r, &in)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	query := strings.TrimSpace(in.Query)
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Missing query parameter",
			"message": "Please provide a search query",
		})
		return
	}
	if err := checkSchema(raw, search.GetInputSchema()); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	if h.deps.Search == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "API key missing",
			"message": "SERP API key is not configured on the server",
		})
		return
	}

	results, err := h.deps.Search.Search(r.Context(), models.SearchQuery{
		Text:     query,
		Category: strings.TrimSpace(in.Category),
	})
	if err != nil {
		stdErr := errors.AsStandardError(err)
		h.log(r).Error("Google search failed", map[string]interface{}{
			"error":   stdErr.Message,
			"details": stdErr.Details,
		})
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Search failed",
			"message": stdErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "results": results})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var in genai.Input
	raw, err := decode(r, &in)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if in.Message == "" {
		h.errs.Handle(w, r, errors.NewInvalidArgumentError("Message is required", ""))
		return
	}
	if err := checkSchema(raw, genai.GetInputSchema()); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	if h.deps.Chat == nil {
		h.errs.Handle(w, r, errors.NewConfigurationError("Server configuration error: API key missing", "gemini api key is empty"))
		return
	}

	reply, _, err := h.deps.Chat.GenerateReply(r.Context(), in.History, in.Message)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"response": reply})
}

func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var in notification.Input
	raw, err := decode(r, &in)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if strings.TrimSpace(in.Email) == "" {
		h.errs.Handle(w, r, errors.NewInvalidArgumentError("Recipient email is required", ""))
		return
	}
	if err := checkSchema(raw, notification.GetInputSchema()); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	if err := h.deps.Notifier.Send(r.Context(), in.Email, in.Payload()); err != nil {
		h.errs.HandleWithMessage(w, r, err, "Something went wrong while sending email")
		return
	}
	writeJSON(w, http.StatusOK, message("Email sent to "+in.Email))
}
