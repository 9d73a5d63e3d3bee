package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/angeloszaimis/lb-demo-backend/internal/counter"
	"github.com/angeloszaimis/lb-demo-backend/internal/instance"
	"github.com/angeloszaimis/lb-demo-backend/internal/stats"
)

// Greeting returned by the root endpoint.
const Greeting = "Hello from the load balancing demo backend!"

// HeavyDelay is the synthetic processing time of the heavy endpoint. The
// response reports it in seconds as processing_time_seconds.
const HeavyDelay = 500 * time.Millisecond

// InfoProvider resolves the identity of the serving instance.
type InfoProvider interface {
	Hostname() string
	Info(ctx context.Context) (instance.Info, error)
	Network(ctx context.Context) instance.Network
}

// Handler implements the demo endpoints. The counter is shared between the
// root and heavy routes; health and info only read state.
type Handler struct {
	logger    *slog.Logger
	provider  InfoProvider
	counter   *counter.Counter
	collector *stats.Collector
}

func New(logger *slog.Logger, provider InfoProvider, c *counter.Counter, collector *stats.Collector) *Handler {
	return &Handler{
		logger:    logger,
		provider:  provider,
		counter:   c,
		collector: collector,
	}
}

type requestHeaders struct {
	XForwardedFor string `json:"X-Forwarded-For"`
	XRealIP       string `json:"X-Real-IP"`
	Host          string `json:"Host"`
}

type requestDetails struct {
	Number     int64          `json:"number"`
	Method     string         `json:"method"`
	Path       string         `json:"path"`
	RemoteAddr string         `json:"remote_addr"`
	Headers    requestHeaders `json:"headers"`
}

type homeResponse struct {
	Message   string         `json:"message"`
	Instance  instance.Info  `json:"instance"`
	Request   requestDetails `json:"request"`
	Timestamp string         `json:"timestamp"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Instance  string `json:"instance"`
	Timestamp string `json:"timestamp"`
}

type heavyResponse struct {
	Message               string        `json:"message"`
	Instance              instance.Info `json:"instance"`
	ProcessingTimeSeconds float64       `json:"processing_time_seconds"`
	RequestNumber         int64         `json:"request_number"`
}

type environmentDetails struct {
	RuntimeVersion      string `json:"runtime_version"`
	TotalRequestsServed int64  `json:"total_requests_served"`
}

type infoResponse struct {
	Instance    instance.Info      `json:"instance"`
	Environment environmentDetails `json:"environment"`
	Network     instance.Network   `json:"network"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Home reports which instance served the request along with the request
// details a balanced client usually wants to inspect.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	defer h.record("/", time.Now())

	number := h.counter.Inc()

	info, err := h.provider.Info(r.Context())
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	resp := homeResponse{
		Message:  Greeting,
		Instance: info,
		Request: requestDetails{
			Number:     number,
			Method:     r.Method,
			Path:       r.URL.Path,
			RemoteAddr: remoteHost(r),
			Headers: requestHeaders{
				XForwardedFor: headerOrNA(r, "X-Forwarded-For"),
				XRealIP:       headerOrNA(r, "X-Real-IP"),
				Host:          hostOrNA(r),
			},
		},
		Timestamp: time.Now().Format(time.RFC3339Nano),
	}

	h.logger.Info("Handled request",
		slog.Int64("number", number),
		slog.String("from", remoteHost(r)),
		slog.String("path", r.URL.Path),
		slog.String("request_id", RequestIDFrom(r.Context())))

	h.writeJSON(w, http.StatusOK, resp)
}

// Health answers liveness probes from the load balancer. It never touches
// the counter or the resolver, so it stays fast regardless of what the other
// routes are doing.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	defer h.record("/health", time.Now())

	h.logger.Debug("Health check passed",
		slog.String("request_id", RequestIDFrom(r.Context())))

	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Instance:  h.provider.Hostname(),
		Timestamp: time.Now().Format(time.RFC3339Nano),
	})
}

// Heavy simulates a slow backend by suspending this request for HeavyDelay
// before answering. Only the request being handled waits; concurrent
// requests keep being served.
func (h *Handler) Heavy(w http.ResponseWriter, r *http.Request) {
	defer h.record("/heavy", time.Now())

	number := h.counter.Inc()

	info, err := h.provider.Info(r.Context())
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	select {
	case <-time.After(HeavyDelay):
	case <-r.Context().Done():
		// Client gave up; nothing left to answer.
		return
	}

	h.logger.Info("Heavy task completed",
		slog.Float64("processing_time_seconds", HeavyDelay.Seconds()),
		slog.Int64("number", number),
		slog.String("request_id", RequestIDFrom(r.Context())))

	h.writeJSON(w, http.StatusOK, heavyResponse{
		Message:               "Heavy task completed",
		Instance:              info,
		ProcessingTimeSeconds: HeavyDelay.Seconds(),
		RequestNumber:         number,
	})
}

// Info serves diagnostics: instance identity, serving runtime version, total
// requests served, and network naming. It does not count as a served request.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	defer h.record("/info", time.Now())

	info, err := h.provider.Info(r.Context())
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, infoResponse{
		Instance: info,
		Environment: environmentDetails{
			RuntimeVersion:      runtime.Version(),
			TotalRequestsServed: h.counter.Value(),
		},
		Network: h.provider.Network(r.Context()),
	})
}

func (h *Handler) serveError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("Failed to resolve instance info",
		slog.String("path", r.URL.Path),
		slog.String("request_id", RequestIDFrom(r.Context())),
		slog.Any("err", err))

	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", slog.Any("err", err))
	}
}

func (h *Handler) record(route string, start time.Time) {
	if h.collector == nil {
		return
	}

	h.collector.Emit(stats.RequestEvent{
		Route:     route,
		Timestamp: start,
		Duration:  time.Since(start),
	})
}

// headerOrNA returns the literal "N/A" for absent headers, never an empty
// string.
func headerOrNA(r *http.Request, name string) string {
	if v := r.Header.Get(name); v != "" {
		return v
	}
	return "N/A"
}

// hostOrNA reads the Host header, which net/http promotes out of the header
// map into r.Host.
func hostOrNA(r *http.Request) string {
	if r.Host != "" {
		return r.Host
	}
	return "N/A"
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
