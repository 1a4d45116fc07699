// Package app wires the catalog, image resolver and quiz generator from
// configuration.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/y4m4usr/hl001-quiz-must1/internal/catalog"
	"github.com/y4m4usr/hl001-quiz-must1/internal/config"
	"github.com/y4m4usr/hl001-quiz-must1/internal/imageurl"
	"github.com/y4m4usr/hl001-quiz-must1/internal/quiz"
	"github.com/y4m4usr/hl001-quiz-must1/internal/store"
)

// Options holds the dependencies for building an App.
type Options struct {
	Config config.Config
	Logger *zap.Logger

	// EventRepo receives probe and generation events. Optional.
	EventRepo store.EventRepo

	// Offline skips network probes; every image resolves to its fallback URL.
	Offline bool

	// CacheTTL memoizes probe outcomes when positive.
	CacheTTL time.Duration
}

// App is the assembled quiz service.
type App struct {
	Source    catalog.Source
	Checker   imageurl.Checker
	Resolver  *imageurl.Resolver
	Generator *quiz.Generator
}

// New builds an App. The checker chain is
// caller → cache → event logging → HTTP.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	source, err := catalog.Open(opts.Config.CatalogPath, logger.Named("catalog"))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	var checker imageurl.Checker
	if opts.Offline {
		checker = imageurl.NotFound
	} else {
		checker = imageurl.NewHTTPChecker(opts.Config.ProbeTimeout, logger.Named("probe"))
		if opts.EventRepo != nil {
			checker = imageurl.WithLogging(checker, opts.EventRepo, logger)
		}
		if opts.CacheTTL > 0 {
			checker = imageurl.WithCache(checker, opts.CacheTTL)
		}
	}

	resolver := imageurl.NewResolver(opts.Config.Image, checker, logger.Named("resolver"))

	genOpts := []quiz.Option{quiz.WithLogger(logger.Named("quiz"))}
	if opts.EventRepo != nil {
		genOpts = append(genOpts, quiz.WithEvents(opts.EventRepo))
	}
	gen := quiz.New(source, resolver, quiz.DefaultConfig(), genOpts...)

	return &App{
		Source:    source,
		Checker:   checker,
		Resolver:  resolver,
		Generator: gen,
	}, nil
}
