package main

import (
	"net/http"

	"github.com/angeloszaimis/lb-demo-backend/internal/handler"
	"github.com/angeloszaimis/lb-demo-backend/internal/stats"
)

func setupRouter(h *handler.Handler, collector *stats.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /heavy", h.Heavy)
	mux.HandleFunc("GET /info", h.Info)
	mux.HandleFunc("GET /stats", collector.Handler())

	return mux
}
