package common

import (
	"encoding/json"
	"net/http"
	"net/url"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RedirectWithMessage sends a 303 to path carrying a query-encoded user-facing
// message, the recovery path for form errors in the browser flows.
func RedirectWithMessage(w http.ResponseWriter, r *http.Request, path, message string) {
	target := path
	if message != "" {
		params := url.Values{"error": {message}}
		target = path + "?" + params.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
