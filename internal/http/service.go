package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/auth"
	"github.com/tuanvumaihuynh/sales-analytics/internal/config"
	"github.com/tuanvumaihuynh/sales-analytics/internal/http/apierr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/http/metric"
	"github.com/tuanvumaihuynh/sales-analytics/internal/http/middleware"
	"github.com/tuanvumaihuynh/sales-analytics/internal/http/swagger"
	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/service"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/db"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

const maxBodyBytes = 1 << 20

type AuthService interface {
	Register(ctx context.Context, form auth.CredentialsForm) (model.User, error)
	ObtainTokens(ctx context.Context, form auth.CredentialsForm) (auth.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	ParseAccessToken(token string) (auth.Principal, error)
}

// Services groups the application services served over HTTP.
type Services struct {
	Auth    AuthService
	Product service.ProductService
	Sale    service.SaleService
	Stats   service.StatsService
	Health  db.HealthChecker
}

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	registry  *prometheus.Registry
	metrics   *metric.Metrics
	validator validator.Validator

	svcs Services
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	validator validator.Validator,
	svcs Services,
) *Service {
	registry := prometheus.NewRegistry()
	return &Service{
		cfg:       cfg,
		logger:    log.With(slog.String("service", "http")),
		registry:  registry,
		metrics:   metric.New(registry),
		validator: validator,
		svcs:      svcs,
	}
}

// Registry is the registry exposed on /metrics. Components running in the
// same process register their collectors here.
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	r, err := s.Router(ctx)
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, r)
}

// Router builds the complete handler tree.
func (s *Service) Router(ctx context.Context) (chi.Router, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(ctx, r); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	s.RegisterHandlers(r)

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "http server stopped unexpectedly", slog.Any("error", err))
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	h := s.newHandler()
	throttle := middleware.Throttle(middleware.ThrottleConfig{
		UserLimit: s.cfg.UserRateLimit,
		AnonLimit: s.cfg.AnonRateLimit,
		Window:    s.cfg.RateLimitWindow,
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(throttle).Route("/auth", func(r chi.Router) {
			r.Post("/register", s.wrap(h.register))
			r.Post("/token", s.wrap(h.obtainToken))
			r.Post("/token/refresh", s.wrap(h.refreshToken))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.svcs.Auth), throttle)

			r.Get("/products", s.wrap(h.listProducts))
			r.Post("/products", s.wrap(h.createProduct))
			r.Get("/products/{id}", s.wrap(h.getProduct))
			r.Delete("/products/{id}", s.wrap(h.deleteProduct))

			r.Get("/sales", s.wrap(h.listSales))
			r.Post("/sales", s.wrap(h.recordSale))
			r.Get("/sales/filter", s.wrap(h.filterSales))

			r.Get("/stats/periods", s.wrap(h.periodStats))
			r.Get("/stats/top-products", s.wrap(h.topProducts))
			r.Get("/stats/timeline", s.wrap(h.salesTimeline))

			r.Get("/charts/timeline.png", s.wrap(h.timelineChart))
			r.Get("/charts/top-products.png", s.wrap(h.topProductsChart))
			r.Get("/export/sales.xlsx", s.wrap(h.exportSales))
		})
	})

	r.Get("/healthz", s.wrap(h.health))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.handleResponseError(w, r, apperr.RouteNotFoundErr)
	})
}

// handlerFunc is an http.HandlerFunc that reports failures instead of writing
// them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) wrap(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := apierr.Write(w, res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

type handler struct {
	validator validator.Validator
	pageSize  int
	Services
}

func (s *Service) newHandler() *handler {
	return &handler{
		validator: s.validator,
		pageSize:  s.cfg.PageSize,
		Services:  s.svcs,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

func writeFile(w http.ResponseWriter, contentType, filename string, body []byte) error {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// decodeJSON reads a JSON request body into dst. Malformed bodies are
// reported as invalid parameters.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.InvalidBodyErr.WrapParent(err)
	}
	return nil
}
