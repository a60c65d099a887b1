package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/medcampus/medcampus/internal/academic"
)

// writeJSON wraps every payload in the envelope the frontend expects.
func writeJSON(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := map[string]interface{}{"success": status < http.StatusBadRequest}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	status := http.StatusInternalServerError
	body := map[string]interface{}{"success": false, "message": err.Error()}

	switch {
	case academic.IsValidation(err):
		status = http.StatusUnprocessableEntity
		var ve *academic.ValidationError
		if errors.As(err, &ve) && len(ve.Fields) > 0 {
			body["errors"] = ve.Fields
			body["message"] = ve.Message
		}
	case academic.IsNotFound(err):
		status = http.StatusNotFound
	case academic.IsConflict(err):
		status = http.StatusConflict
	default:
		logger.Error.Printf("Internal error: %v", err)
		body["message"] = "internal error"
	}

	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error.Printf("Failed to encode error response: %v", err)
	}
}

func writeForbidden(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, nil, "Accès refusé")
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, nil, "Unauthorized")
}
