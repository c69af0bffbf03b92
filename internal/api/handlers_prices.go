package api

import (
	"net/http"
	"strconv"
	"strings"

	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/services/pricemonitor"
)

func (h *Handler) pricesConfigured(w http.ResponseWriter, r *http.Request) bool {
	if h.deps.Prices == nil {
		h.errs.Handle(w, r, errors.NewConfigurationError("API key missing", "SERP API key is not configured on the server"))
		return false
	}
	return true
}

func (h *Handler) bindScan(w http.ResponseWriter, r *http.Request) (*pricemonitor.ScanInput, bool) {
	var in pricemonitor.ScanInput
	raw, err := decode(r, &in)
	if err == nil {
		err = checkSchema(raw, pricemonitor.GetScanSchema())
	}
	if err != nil {
		h.errs.Handle(w, r, err)
		return nil, false
	}
	return &in, true
}

func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	in, ok := h.bindScan(w, r)
	if !ok || !h.pricesConfigured(w, r) {
		return
	}

	items := h.deps.Prices.Scan(r.Context(), in.Queries, in.Range())
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
}

// Compare answers 200 with {error} on soft failures.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var in pricemonitor.CompareInput
	raw, err := decode(r, &in)
	if err == nil {
		err = checkSchema(raw, pricemonitor.GetCompareSchema())
	}
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if !h.pricesConfigured(w, r) {
		return
	}

	result, err := h.deps.Prices.Compare(r.Context(), in.Query, in.MinPrice, in.MaxPrice)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Export streams the scan as CSV, or writes it to disk and uploads it when upload is set.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	in, ok := h.bindScan(w, r)
	if !ok || !h.pricesConfigured(w, r) {
		return
	}

	items := h.deps.Prices.Scan(r.Context(), in.Queries, in.Range())

	if in.Upload {
		path, err := h.deps.Prices.ExportCSV(items, "")
		if err != nil {
			h.errs.Handle(w, r, errors.NewInternalError(err))
			return
		}
		location, err := h.deps.Prices.UploadExport(r.Context(), path, strings.Join(in.Queries, " "))
		if err != nil {
			h.errs.Handle(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"path": path, "location": location})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.deps.Prices.DefaultExportFilename()+`"`)
	w.WriteHeader(http.StatusOK)
	if err := pricemonitor.WriteCSV(w, items); err != nil {
		h.log(r).Error("Failed to stream csv export", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		h.errs.Handle(w, r, errors.NewInvalidArgumentError("query is required", ""))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.errs.Handle(w, r, errors.NewInvalidArgumentError("limit must be a non-negative integer", raw))
			return
		}
		limit = n
	}

	if h.deps.Prices == nil || !h.deps.Prices.HistoryEnabled() {
		h.errs.HandleWithStatus(w, r,
			errors.NewConfigurationError("Price history is not configured", "database.elasticsearch is empty"),
			http.StatusServiceUnavailable)
		return
	}

	snapshots, err := h.deps.Prices.History(r.Context(), query, limit)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"snapshots": snapshots})
}
