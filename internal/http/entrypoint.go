package httpx

import (
	"net/http"
	"strings"
)

// IsAPIRequest classifies an unauthenticated request: calls that target the
// JSON API and can consume a JSON error get 401, everything else is treated
// as a browser navigation and gets redirected into the login flow. Both
// signals are required: an /api/ path fetched by a browser address bar
// (Accept: text/html) still redirects.
func IsAPIRequest(path, accept string) bool {
	return strings.HasPrefix(path, "/api/") && strings.Contains(accept, "application/json")
}

// EntryPoint decides how to answer a request that failed authentication.
type EntryPoint struct {
	// LoginPath is where browser requests are sent to start a login,
	// e.g. "/oauth2/authorization/google".
	LoginPath string
}

// Dispatch writes the unauthenticated response: 401 JSON for API clients,
// 302 to the login initiation endpoint for browsers.
func (e EntryPoint) Dispatch(w http.ResponseWriter, r *http.Request) {
	if IsAPIRequest(r.URL.Path, r.Header.Get("Accept")) {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}
	http.Redirect(w, r, e.LoginPath, http.StatusFound)
}
