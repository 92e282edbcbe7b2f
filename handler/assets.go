package handler

import (
	"net/http"
	"path"
	"strings"
)

// serveAsset writes the store value keyed by p without its leading slash.
func (h *Handler) serveAsset(w http.ResponseWriter, r *http.Request, p string) {
	key := strings.TrimPrefix(p, "/")
	data, found, err := h.assets.Get(r.Context(), key)
	if err != nil {
		h.log.WithField("request_id", RequestID(r.Context())).
			WithField("key", key).
			WithError(err).
			Error("load asset")
		writeText(w, http.StatusInternalServerError, "Error loading asset")
		return
	}
	if !found {
		writeText(w, http.StatusNotFound, "Not found")
		return
	}
	w.Header().Set("Content-Type", contentType(key))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// contentType returns the MIME type for a key's file extension.
func contentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
