package httpserver

import (
	"net/http"
	"time"

	"staff-console-go/internal/config"
)

func New(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// Avatar uploads are bounded to ~1MB; the router times out at 30s.
		ReadTimeout:  35 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}
}
