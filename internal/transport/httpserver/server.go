package httpserver

import (
	"net/http"
	"time"

	"planner-go/internal/config"
)

// New builds the API server. The write deadline leaves room for the request
// timeout middleware to answer first.
func New(cfg config.Config, handler http.Handler) *http.Server {
	requestTimeout := cfg.HTTP.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       requestTimeout,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
