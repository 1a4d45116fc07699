package imageurl

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/y4m4usr/hl001-quiz-must1/internal/store"
)

// LoggingChecker is a decorator that records every probe as an event.
type LoggingChecker struct {
	inner     Checker
	eventRepo store.EventRepo
	logger    *zap.Logger
}

// WithLogging wraps a Checker with probe event logging.
func WithLogging(c Checker, repo store.EventRepo, logger *zap.Logger) Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingChecker{inner: c, eventRepo: repo, logger: logger}
}

func (l *LoggingChecker) Exists(ctx context.Context, url string) bool {
	start := time.Now()
	found := l.inner.Exists(ctx, url)

	data := store.ProbeEventData{
		URL:       url,
		ImageType: string(ImageTypeFrom(ctx)),
		Found:     found,
		LatencyMs: time.Since(start).Milliseconds(),
	}

	// Log the event but never change the probe outcome.
	if err := l.eventRepo.AppendProbe(context.WithoutCancel(ctx), data); err != nil {
		l.logger.Warn("failed to log probe event", zap.String("url", url), zap.Error(err))
	}

	return found
}
