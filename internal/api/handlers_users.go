package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/services/auth"
)

func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	var req FormRequest
	if _, err := decode(r, &req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := h.checkStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.errs.Handle(w, r, errors.NewInternalError(err))
		return
	}

	id, err := h.deps.Store.CreateForm(r.Context(), req.toModel(hash))
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	h.log(r).Info("Registration form stored", map[string]interface{}{"form_id": id})
	writeJSON(w, http.StatusCreated, message("Form submitted successfully!"))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.deps.Store.ListUsers(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if _, err := decode(r, &req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := h.checkStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.errs.Handle(w, r, errors.NewInternalError(err))
		return
	}

	u := userDetails(req.FirstName, req.LastName, req.Gender, req.DOB, req.Role, req.Email, req.Phone, hash)
	if _, err := h.deps.Store.CreateUser(r.Context(), u); err != nil {
		h.errs.HandleWithStatus(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, message("User added successfully."))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req UserUpdateRequest
	if _, err := decode(r, &req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := h.checkStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	hash := ""
	if req.Password != "" {
		var err error
		if hash, err = auth.HashPassword(req.Password); err != nil {
			h.errs.Handle(w, r, errors.NewInternalError(err))
			return
		}
	}

	u := userDetails(req.FirstName, req.LastName, req.Gender, req.DOB, req.Role, req.Email, req.Phone, hash)
	if err := h.deps.Store.UpdateUser(r.Context(), id, u); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message("User updated successfully."))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.deps.Store.DeleteUser(r.Context(), id); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message("User deleted successfully."))
}

func (h *Handler) ToggleUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	active, err := h.deps.Store.ToggleUser(r.Context(), id)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "User status updated.", "isActive": active})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.errs.Handle(w, r, errors.NewNotFoundError("User not found"))
		return 0, false
	}
	return id, true
}
