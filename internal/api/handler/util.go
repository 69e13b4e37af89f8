package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ayo6706/terminal-country-switch/internal/api/problem"
)

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError writes an RFC 7807 error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	problem.Write(w, r, status, problem.Type(problemType), http.StatusText(status), message)
}

// failure is the error body of the country update route.
type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondFailure(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, failure{Success: false, Error: message})
}
