package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"plantdash/internal/logger"
)

type ctxKey int

const requestIDKey ctxKey = iota

// requestID tags each request with an id, echoed in X-Request-ID and in the logs
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// reqLog returns the server logger tagged with the request id
func (s *Server) reqLog(r *http.Request) *logger.Logger {
	id, _ := r.Context().Value(requestIDKey).(string)
	return s.log.With(logger.Fields{"request_id": id, "path": r.URL.Path})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":  message,
		"status": http.StatusText(status),
	})
}

// decodeBody reads a JSON request body into v
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
