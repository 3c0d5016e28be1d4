package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/accounts/internal/application/auth"
	"github.com/amirhosseinghanipour/accounts/internal/domain"
	domerrors "github.com/amirhosseinghanipour/accounts/internal/domain/errors"
	"github.com/amirhosseinghanipour/accounts/internal/infrastructure/http/middleware"
)

type AuthHandler struct {
	register *auth.RegisterUser
	login    *auth.Login
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthHandler(register *auth.RegisterUser, login *auth.Login, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		register: register,
		login:    login,
		validate: validator.New(),
		log:      log,
	}
}

type credentials struct {
	Email    string `validate:"required,max=254"`
	Password string `validate:"required,max=128"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// readCredentials pulls email and password out of body, leaving only profile fields behind.
func readCredentials(body map[string]any) (credentials, error) {
	email, _, err := takeString(body, "email")
	if err != nil {
		return credentials{}, fmt.Errorf("email %w", err)
	}
	password, _, err := takeString(body, "password")
	if err != nil {
		return credentials{}, fmt.Errorf("password %w", err)
	}
	return credentials{Email: email, Password: password}, nil
}

// validationMessage turns validator errors into a client-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid body"
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return domerrors.ErrInvalidInput.Error()
		}
	}
	return strings.ToLower(verrs[0].Field()) + " is too long"
}

// Register creates an account from {email, password, ...profile fields}.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := decodeObject(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid body")
		return
	}
	creds, err := readCredentials(body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}
	if err := h.validate.Struct(&creds); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, validationMessage(err))
		return
	}
	user, err := h.register.Execute(r.Context(), auth.RegisterUserInput{
		Email:    creds.Email,
		Password: creds.Password,
		Profile:  domain.Profile(body),
	})
	if err != nil {
		middleware.RecordAuthAttempt("register", false)
		writeDomainErr(w, h.log, "register", err)
		return
	}
	middleware.RecordAuthAttempt("register", true)
	writeJSON(w, http.StatusOK, user)
}

// Login exchanges {email, password} for a session token. Credential values are not
// validated here so that every mismatch, including an empty or oversized password, is the
// same 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := decodeObject(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid body")
		return
	}
	creds, err := readCredentials(body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		middleware.RecordAuthAttempt("login", false)
		writeDomainErr(w, h.log, "login", err)
		return
	}
	middleware.RecordAuthAttempt("login", true)
	writeJSON(w, http.StatusOK, loginResponse{Token: result.Token})
}
