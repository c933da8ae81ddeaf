// Package respond writes JSON responses and uniform {"detail": ...} errors.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20

// ErrInvalidBody is returned by DecodeJSON for any malformed payload.
var ErrInvalidBody = errors.New("Invalid request body")

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes {"detail": detail} with the given status.
func Error(w http.ResponseWriter, status int, detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = http.StatusText(status)
	}
	JSON(w, status, ErrorBody{Detail: detail})
}

// DecodeJSON decodes a single JSON document from the request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return ErrInvalidBody
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errors.Join(ErrInvalidBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrInvalidBody
	}
	return nil
}
