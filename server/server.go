package server

import (
	"context"
	"net/http"
	"time"

	"github.com/uyouii/fuelprice-timeseries/model"
	"github.com/uyouii/fuelprice-timeseries/service"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const rootMessage = "India Metro Fuel-Price Time-Series API is running."

type PriceService interface {
	Raw(ctx context.Context, q service.Query) (model.Series, error)
	MovingAverage(ctx context.Context, q service.Query) ([]model.MovingAveragePoint, error)
	Anomalies(ctx context.Context, q service.Query) ([]model.AnomalyPoint, error)
	Cities() []string
	Products() []string
}

type Options struct {
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	DefaultWindow string
	DefaultZ      float64
	// RateLimit is requests per second across all clients, 0 disables limiting.
	RateLimit float64
	RateBurst int
}

type Server struct {
	logger     *zap.Logger
	svc        PriceService
	opts       Options
	httpServer *http.Server
}

func New(logger *zap.Logger, svc PriceService, opts Options) *Server {
	s := &Server{
		logger: logger,
		svc:    svc,
		opts:   opts,
	}

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /v1/ts/raw", s.handleRaw)
	mux.HandleFunc("GET /v1/ts/ma", s.handleMovingAverage)
	mux.HandleFunc("GET /v1/ts/anomaly", s.handleAnomaly)
	mux.HandleFunc("GET /v1/meta", s.handleMeta)

	var h http.Handler = mux
	if s.opts.RateLimit > 0 {
		h = rateLimit(rate.NewLimiter(rate.Limit(s.opts.RateLimit), s.opts.RateBurst), h)
	}
	h = recoverer(h)
	h = accessLog(h)
	h = requestID(s.logger, h)
	return h
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("starting http server", zap.String("addr", s.opts.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping http server", zap.String("addr", s.opts.Addr))
	return s.httpServer.Shutdown(ctx)
}
