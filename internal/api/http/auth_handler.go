package http

import (
	"net/http"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		User:        res.User,
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.auth.Me(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
