package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/lb-demo-backend/internal/counter"
	"github.com/angeloszaimis/lb-demo-backend/internal/handler"
	"github.com/angeloszaimis/lb-demo-backend/internal/instance"
	"github.com/angeloszaimis/lb-demo-backend/internal/stats"
)

func TestMain(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Main Suite")
}

var _ = Describe("setupRouter", func() {
	var mux *http.ServeMux

	BeforeEach(func() {
		log := slog.New(slog.NewTextHandler(io.Discard, nil))

		ctx, cancel := context.WithCancel(context.Background())
		DeferCleanup(cancel)

		collector := stats.NewCollector(16, log)
		collector.Start(ctx)

		provider := instance.NewProvider("unknown", "#ffffff")
		routes := handler.New(log, provider, counter.New(), collector)
		mux = setupRouter(routes, collector)
	})

	It("registers the health route", func() {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("registers the stats route", func() {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("answers 404 for unknown paths", func() {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("answers 405 for unsupported methods", func() {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
		Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
	})
})
