package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"go.uber.org/zap"
)

// ErrInvalidJSON is returned by DecodeJSON for malformed bodies.
var ErrInvalidJSON = errors.New("invalid json")

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

// WriteError maps err to a status code. Internal errors are logged and their
// message is not leaked to the client.
func WriteError(w http.ResponseWriter, log logger.ZapLogger, err error) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
		WriteJSON(w, code, ErrorResponse{Error: http.StatusText(code)})
		return
	}
	WriteJSON(w, code, ErrorResponse{Error: err.Error()})
}

func NotFound(w http.ResponseWriter, what string) {
	WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: what + " not found"})
}

func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ErrInvalidJSON
	}
	return nil
}

// QueryInt reads a non-negative integer query parameter, falling back to def
// when it is absent or malformed.
func QueryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
