package http

import (
	"net/http"
)

// getServerVersion reports the running build's version as plain text. The
// operator console shows it next to the weekly code, which makes a stale
// deployment easy to spot when rotation behaves unexpectedly.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(h.services.AppInfoService.GetAppVersion(r.Context())))
}
