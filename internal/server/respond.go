package server

import (
	"encoding/json"
	"net/http"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends the {error, message, details} document the client
// decodes into domain.ServerErrorBody.
func writeError(w http.ResponseWriter, status int, body domain.ServerErrorBody) {
	writeJSON(w, status, body)
}
