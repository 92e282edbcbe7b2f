// Package handler provides the HTTP entry point for the website registry:
// CORS preflight, the JSON action API, and static assets read from the store.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stevemurr/website-registry/collection"
	"github.com/stevemurr/website-registry/store"
)

const (
	// ScriptPath is the path of the handler script itself; POSTs to it are API calls.
	ScriptPath = "/worker.js"
	// APIPrefix is the path segment under which every path is an API path.
	APIPrefix = "/api"
	// IndexPath is served for every path that is neither API nor a known asset.
	IndexPath = "/index.html"
)

// assetSuffixes are the path suffixes routed to the asset server as-is.
var assetSuffixes = []string{".html", ".css", ".js", ".png", ".jpg", ".svg"}

// Websites is the collection the API operates on.
type Websites interface {
	List(ctx context.Context) ([]collection.Website, error)
	Add(ctx context.Context, w collection.Website) error
	Update(ctx context.Context, index int, w collection.Website) error
	Delete(ctx context.Context, id any) error
}

// Handler routes requests between the API and the asset server.
type Handler struct {
	assets   store.Store
	websites Websites
	log      logrus.FieldLogger
	next     http.Handler
}

// New creates a Handler serving assets from s and the API over websites.
func New(s store.Store, websites Websites, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Handler{assets: s, websites: websites, log: log}
	h.next = logRequests(log, http.HandlerFunc(h.route))
	return h
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.next.ServeHTTP(w, r)
}

func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	p := cleanPath(r.URL.Path)
	switch {
	case r.Method == http.MethodOptions:
		setCORS(w)
		writeText(w, http.StatusOK, "OK")
	case isAPIPath(p):
		if r.Method != http.MethodPost {
			setCORS(w)
			w.Header().Set("Allow", "POST, OPTIONS")
			writeText(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.api(w, r)
	case isAssetPath(p):
		h.serveAsset(w, r, p)
	default:
		h.serveAsset(w, r, IndexPath)
	}
}

// cleanPath resolves dot segments so a raw "/../x.html" is looked up as "/x.html".
func cleanPath(p string) string {
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	return path.Clean(p)
}

func isAPIPath(p string) bool {
	return p == ScriptPath || p == APIPrefix || strings.HasPrefix(p, APIPrefix+"/")
}

func isAssetPath(p string) bool {
	for _, s := range assetSuffixes {
		if strings.HasSuffix(p, s) {
			return true
		}
	}
	return false
}

// ---------- helpers ----------

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}
