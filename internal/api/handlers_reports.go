package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"qbit-backend/internal/common/errors"
)

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.deps.Store.ListReports(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportCreateRequest
	if _, err := decode(r, &req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := h.checkStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	if err := h.deps.Store.CreateReport(r.Context(), req.toModel(), req.AssignedTo); err != nil {
		h.errs.HandleWithStatus(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, message("Report request created."))
}

type assignRequest struct {
	AssignedTo json.RawMessage `json:"assigned_to"`
}

// AssignReport accepts assigned_to as a number or a numeric string.
func (h *Handler) AssignReport(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]

	var req assignRequest
	if _, err := decode(r, &req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	userID, present := parseAssignee(req.AssignedTo)
	if !present {
		h.errs.Handle(w, r, errors.NewInvalidArgumentError("Missing assigned_to ID", ""))
		return
	}

	err := h.deps.Store.AssignReport(r.Context(), requestID, userID)
	switch {
	case err == nil:
		h.log(r).Info("Report request assigned", map[string]interface{}{
			"request_id": requestID,
			"user_id":    userID,
		})
		writeJSON(w, http.StatusOK, message("ReportRequest assigned successfully"))
	case errors.HasCode(err, errors.ErrCodeNotFound):
		h.errs.Handle(w, r, err)
	default:
		h.errs.HandleWithMessage(w, r, err, "Internal Server Error")
	}
}

// parseAssignee reports present=false for a missing or falsy value. A value that is not
// an id yields userID 0, which never matches a user.
func parseAssignee(raw json.RawMessage) (userID int, present bool) {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "0", `""`, "false":
		return 0, false
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if id, err := strconv.Atoi(n.String()); err == nil {
			return id, true
		}
		return 0, true
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if id, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return id, true
		}
	}
	return 0, true
}
