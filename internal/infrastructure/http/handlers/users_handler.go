package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/accounts/internal/application/profile"
	"github.com/amirhosseinghanipour/accounts/internal/domain"
)

// UsersHandler serves /users/me. Every method receives the caller's identity from
// middleware.AuthValidator and never reads a user id from the request.
type UsersHandler struct {
	get    *profile.GetSelf
	update *profile.UpdateSelf
	delete *profile.DeleteSelf
	log    zerolog.Logger
}

func NewUsersHandler(get *profile.GetSelf, update *profile.UpdateSelf, del *profile.DeleteSelf, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{get: get, update: update, delete: del, log: log}
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request, who domain.Identity) {
	user, err := h.get.Execute(r.Context(), who)
	if err != nil {
		writeDomainErr(w, h.log, "get_self", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMe applies a partial update. email and password are optional; any other key is a
// profile field, and a null value removes it.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request, who domain.Identity) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := decodeObject(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid body")
		return
	}
	var input profile.UpdateSelfInput
	email, ok, err := takeString(body, "email")
	if err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeUpdateRejected, "email "+err.Error())
		return
	}
	if ok {
		if len(email) > MaxEmailLength {
			writeErr(w, http.StatusBadRequest, ErrCodeUpdateRejected, "email too long")
			return
		}
		input.Email = &email
	}
	password, ok, err := takeString(body, "password")
	if err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeUpdateRejected, "password "+err.Error())
		return
	}
	if ok {
		if len(password) > MaxPasswordLength {
			writeErr(w, http.StatusBadRequest, ErrCodeUpdateRejected, "password too long")
			return
		}
		input.Password = &password
	}
	if len(body) > 0 {
		input.Profile = domain.Profile(body)
	}

	user, err := h.update.Execute(r.Context(), who, input)
	if err != nil {
		writeDomainErr(w, h.log, "update_self", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) DeleteMe(w http.ResponseWriter, r *http.Request, who domain.Identity) {
	msg, err := h.delete.Execute(r.Context(), who)
	if err != nil {
		writeDomainErr(w, h.log, "delete_self", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}
