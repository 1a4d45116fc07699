// Package api exposes quiz generation, scoring and image resolution over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/y4m4usr/hl001-quiz-must1/internal/imageurl"
	"github.com/y4m4usr/hl001-quiz-must1/internal/quiz"
)

// QuizService generates quiz results. *quiz.Generator satisfies it.
type QuizService interface {
	Result(ctx context.Context, count int) quiz.Result
}

// ImageService resolves product images. *imageurl.Resolver satisfies it.
type ImageService interface {
	Resolve(ctx context.Context, p imageurl.Product, t imageurl.ImageType) string
	Candidates(p imageurl.Product, t imageurl.ImageType) []string
}

// Options configures the router.
type Options struct {
	// CORSOrigins lists allowed origins. Empty allows any origin.
	CORSOrigins []string

	// RequestTimeout bounds each request. Generation probes images, so
	// this should comfortably exceed count × 2 × 12 probe timeouts.
	// Default: 2m.
	RequestTimeout time.Duration

	// MaxCount caps ?count=. Default: 50.
	MaxCount int
}

// Handler ties HTTP routes to the quiz and image services.
type Handler struct {
	quiz     QuizService
	images   ImageService
	logger   *zap.Logger
	maxCount int
}

// NewRouter builds the chi router with middleware and all routes.
func NewRouter(q QuizService, images ImageService, logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 2 * time.Minute
	}
	if opts.MaxCount <= 0 {
		opts.MaxCount = 50
	}

	h := &Handler{quiz: q, images: images, logger: logger, maxCount: opts.MaxCount}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(logger), middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/quiz/questions", h.GetQuestions)
		r.Post("/score", h.Score)
		r.Get("/images/resolve", h.ResolveImage)
	})
	return r
}

// requestLogger logs one line per request with zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}
