package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	domerrors "github.com/amirhosseinghanipour/accounts/internal/domain/errors"
)

// writeErr sends JSON { "error": message, "code": errCode }. If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	default:
		return ErrCodeInternal
	}
}

// writeDomainErr maps a use case error to its status and code. Unknown errors are internal
// faults; their cause is logged and never sent to the client.
func writeDomainErr(w http.ResponseWriter, log zerolog.Logger, op string, err error) {
	switch {
	case errors.Is(err, domerrors.ErrInvalidInput):
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, domerrors.ErrInvalidInput.Error())
	case errors.Is(err, domerrors.ErrDuplicateEmail):
		writeErr(w, http.StatusConflict, ErrCodeConflict, domerrors.ErrDuplicateEmail.Error())
	case errors.Is(err, domerrors.ErrInvalidCredentials):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, domerrors.ErrInvalidCredentials.Error())
	case errors.Is(err, domerrors.ErrUnauthorized):
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, domerrors.ErrUnauthorized.Error())
	case errors.Is(err, domerrors.ErrUserNotFound):
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, domerrors.ErrUserNotFound.Error())
	case errors.Is(err, domerrors.ErrUpdateRejected):
		log.Debug().Err(err).Str("op", op).Msg("update rejected")
		writeErr(w, http.StatusBadRequest, ErrCodeUpdateRejected, domerrors.ErrUpdateRejected.Error())
	default:
		log.Error().Err(err).Str("op", op).Msg("request failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeObject reads a JSON object body. Numbers are kept as json.Number so profile values
// round-trip unchanged.
func decodeObject(r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errors.New("body must be a JSON object")
	}
	return body, nil
}
