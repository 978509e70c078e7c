package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// JSON writes v as JSON with the given status code. Responses carry list or
// settings state that changes with every action, so they are marked
// no-store. Encoding errors are discarded.
func JSON(w http.ResponseWriter, status int, v any) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes {"error": message}.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// ClientMessage is the error text shown to the client. Server errors are
// reduced to their status text so storage and driver details stay in the logs.
func ClientMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

// Blob writes raw bytes such as the background image. The client must
// revalidate since the image can be replaced at any time.
func Blob(w http.ResponseWriter, status int, contentType string, data []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
