package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server for the contact API. WriteTimeout sits above the
// 30s per-request timeout applied by the router middleware, so the middleware
// deadline fires first and the client still gets a JSON error body.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
