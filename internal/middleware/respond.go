package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the relay's failure envelope. Middleware cannot depend on
// the handlers package, so the envelope shape is repeated here.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
