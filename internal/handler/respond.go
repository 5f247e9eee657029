// internal/handler/respond.go
package handler

import (
	"encoding/json"
	"net/http"

	commonerrors "yesloans-backend/internal/common/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := commonerrors.HTTPStatus(err)
	body := map[string]interface{}{"error": err.Error()}

	if se, ok := err.(*commonerrors.StandardError); ok {
		body = map[string]interface{}{
			"error": se.Message,
			"code":  se.Code,
		}
		if se.Details != "" {
			body["details"] = se.Details
		}
	}

	writeJSON(w, status, body)
}
