package httpx

import (
	"io"
	"net/http"
)

const healthResponse = `{"status":"ok"}`

// rootHandler answers the bare origin so load balancers and humans probing
// the base URL get something other than a login redirect.
func rootHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"service": "inventory-api"})
}

// healthHandler returns a simple 200 OK status for readiness/liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
