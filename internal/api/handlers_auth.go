package api

import (
	"net/http"

	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/services/auth"
)

const msgServerError = "Something went wrong on the server."

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in auth.Input
	raw, err := decode(r, &in)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if in.Email == "" || in.Password == "" {
		h.errs.Handle(w, r, errors.NewInvalidArgumentError("Both email and password are required.", ""))
		return
	}
	if err := checkSchema(raw, auth.GetInputSchema()); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	out, err := h.deps.Auth.Login(r.Context(), &in)
	if err != nil {
		if errors.HTTPStatus(err) >= http.StatusInternalServerError {
			h.errs.HandleWithMessage(w, r, err, msgServerError)
			return
		}
		h.errs.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := h.bearer(w, r)
	if !ok {
		return
	}
	if err := h.deps.Auth.Logout(r.Context(), token); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message("Logout successful"))
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := h.bearer(w, r)
	if !ok {
		return
	}
	session, err := h.deps.Auth.Session(r.Context(), token)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) bearer(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := auth.BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		h.errs.Handle(w, r, errors.NewUnauthorizedError("Missing bearer token"))
		return "", false
	}
	return token, true
}
