package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

const maxBodyBytes = 10 << 20

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// WriteError logs server-side failures and writes the mapped error body.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := AsAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}

	body := map[string]interface{}{"error": apiErr.Message}
	if len(apiErr.Fields) > 0 {
		body["fields"] = apiErr.Fields
	}
	RespondWithJSON(w, apiErr.Status, body)
}

// DecodeJSON reads a JSON body of at most 10MB into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return BadRequest("Request body too large")
		case errors.Is(err, io.EOF):
			return BadRequest("Request body is empty")
		default:
			return BadRequest("Invalid request body")
		}
	}
	return nil
}
