package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// errorBody is the error envelope every JSON error response uses: a stable
// machine-readable code plus a human-readable message. The unauthenticated
// entry point writes its own bare {"message":...} shape and does not go
// through here.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields so
// client typos surface as 400s instead of silently dropped data. Returns
// false after writing the error response.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes v as a JSON response with the given status code. Encoding
// happens into a buffer first so an encode failure can still become a clean
// 500 instead of a half-written body.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// The client is gone; nothing left to write.
		return
	}
}

// ErrorParams carries an error response: HTTP status, stable error code, and
// the error whose text becomes the message field.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, errorBody{Error: p.ErrCode, Message: p.Err.Error()})
}
