package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/y4m4usr/hl001-quiz-must1/internal/catalog"
	"github.com/y4m4usr/hl001-quiz-must1/internal/distractor"
	"github.com/y4m4usr/hl001-quiz-must1/internal/imageurl"
	"github.com/y4m4usr/hl001-quiz-must1/internal/store"
)

// ImageResolver maps a product to an image URL. It never fails.
// *imageurl.Resolver satisfies it.
type ImageResolver interface {
	Resolve(ctx context.Context, p imageurl.Product, t imageurl.ImageType) string
}

// Config controls question generation.
type Config struct {
	// Count is the number of questions generated when the caller asks
	// for zero or fewer. Default: 10.
	Count int

	// Distractors is the number of wrong answers per question. Default: 3.
	Distractors int

	// MinCatalogSize is the smallest usable catalog accepted.
	// Default: 4 (one correct answer plus three distractors).
	MinCatalogSize int
}

// DefaultConfig returns the standard quiz shape.
func DefaultConfig() Config {
	return Config{
		Count:          10,
		Distractors:    distractor.DefaultCount,
		MinCatalogSize: 4,
	}
}

// Generator builds quiz questions from a catalog. It holds no catalog
// state between calls and is safe for concurrent use.
type Generator struct {
	source   catalog.Source
	resolver ImageResolver
	config   Config
	rng      *lockedRand
	logger   *zap.Logger
	events   store.EventRepo
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRand replaces the random source, e.g. with a seeded PCG in tests.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = &lockedRand{r: r} }
}

// WithLogger sets the logger for soft degradations and run summaries.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithEvents records one generation event per run.
func WithEvents(repo store.EventRepo) Option {
	return func(g *Generator) { g.events = repo }
}

// New creates a Generator. Zero config fields take their defaults.
func New(source catalog.Source, resolver ImageResolver, cfg Config, opts ...Option) *Generator {
	def := DefaultConfig()
	if cfg.Count <= 0 {
		cfg.Count = def.Count
	}
	if cfg.Distractors <= 0 {
		cfg.Distractors = def.Distractors
	}
	if cfg.MinCatalogSize <= 0 {
		cfg.MinCatalogSize = def.MinCatalogSize
	}

	g := &Generator{
		source:   source,
		resolver: resolver,
		config:   cfg,
		rng:      &lockedRand{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds up to count questions; count <= 0 uses Config.Count.
// Catalog errors and ErrDataInsufficient abort the run. Fewer unique
// products than requested, or too few distractors, only shorten the
// result and are logged.
func (g *Generator) Generate(ctx context.Context, count int) ([]Question, error) {
	if count <= 0 {
		count = g.config.Count
	}
	start := time.Now()
	runID := uuid.NewString()
	log := g.logger.With(zap.String("run_id", runID))

	questions, short, err := g.generate(ctx, count, log)

	latency := time.Since(start)
	if err == nil {
		log.Info("generated questions",
			zap.Int("requested", count),
			zap.Int("generated", len(questions)),
			zap.Int("short_distractors", short),
			zap.Duration("latency", latency),
		)
	}

	if g.events != nil {
		data := store.GenerationEventData{
			RunID:            runID,
			Requested:        count,
			Generated:        len(questions),
			ShortDistractors: short,
			Success:          err == nil,
			LatencyMs:        latency.Milliseconds(),
		}
		if err != nil {
			data.ErrorMessage = err.Error()
		}
		// Log the event but don't fail the run if logging fails.
		if logErr := g.events.AppendGeneration(context.WithoutCancel(ctx), data); logErr != nil {
			log.Warn("failed to log generation event", zap.Error(logErr))
		}
	}

	return questions, err
}

func (g *Generator) generate(ctx context.Context, count int, log *zap.Logger) ([]Question, int, error) {
	rows, err := g.source.ReadCatalog(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("read catalog: %w", err)
	}
	if len(rows) < g.config.MinCatalogSize {
		return nil, 0, fmt.Errorf("%w: need at least %d products, catalog has %d",
			ErrDataInsufficient, g.config.MinCatalogSize, len(rows))
	}

	selected := g.pick(rows, count)
	if len(selected) < count {
		log.Warn("fewer unique products than requested",
			zap.Int("requested", count),
			zap.Int("available", len(selected)),
		)
	}

	questions := make([]Question, 0, len(selected))
	short := 0
	for i, correct := range selected {
		res := distractor.SelectWithTiers(correct, rows, g.config.Distractors, g.rng)
		if res.Short(g.config.Distractors) {
			short++
			log.Warn("not enough distractors",
				zap.String("code", correct.OriginalCode),
				zap.Int("wanted", g.config.Distractors),
				zap.Int("found", len(res.Picked)),
			)
		}
		questions = append(questions, g.build(ctx, i+1, correct, res.Picked))
	}
	return questions, short, nil
}

// pick shuffles a copy of rows and keeps the first count rows with
// distinct composite keys.
func (g *Generator) pick(rows []catalog.ProductRow, count int) []catalog.ProductRow {
	shuffled := slices.Clone(rows)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	used := make(map[catalog.CompositeKey]bool, count)
	selected := make([]catalog.ProductRow, 0, count)
	for _, r := range shuffled {
		if len(selected) >= count {
			break
		}
		if used[r.CompositeKey()] {
			continue
		}
		used[r.CompositeKey()] = true
		selected = append(selected, r)
	}
	return selected
}

func (g *Generator) build(ctx context.Context, number int, correct catalog.ProductRow, wrongs []catalog.ProductRow) Question {
	options := make([]AnswerOption, 0, len(wrongs)+1)
	options = append(options, AnswerOption{ID: 1, BrandName: correct.Brand, ColorName: correct.ColorName, IsCorrect: true})
	for i, w := range wrongs {
		options = append(options, AnswerOption{ID: i + 2, BrandName: w.Brand, ColorName: w.ColorName})
	}
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	p := imageurl.Product{
		OriginalCode: correct.OriginalCode,
		Brand:        correct.Brand,
		ColorName:    correct.ColorName,
		WearPeriod:   correct.WearPeriod,
	}

	return Question{
		QuestionNumber:    number,
		LensImageURL:      g.resolver.Resolve(ctx, p, imageurl.Lens),
		ThumbnailImageURL: g.resolver.Resolve(ctx, p, imageurl.Thumbnail),
		CorrectAnswer: CorrectAnswer{
			OriginalCode: correct.OriginalCode,
			Brand:        correct.Brand,
			ColorName:    correct.ColorName,
			WearPeriod:   correct.WearPeriod,
		},
		Options: options,
		Hint1:   Hint1{Dia: correct.Dia, GDia: correct.GDia, BC: correct.BC},
		Hint2:   Hint2{Comment: correct.Comment},
	}
}

// GetQuizQuestions generates the default number of questions and reports
// the outcome as a Result. It never fails.
func (g *Generator) GetQuizQuestions(ctx context.Context) Result {
	return g.Result(ctx, g.config.Count)
}

// Result is Generate wrapped for a transport boundary: errors become a
// failed Result with an empty question list and the error in Message.
func (g *Generator) Result(ctx context.Context, count int) Result {
	questions, err := g.Generate(ctx, count)
	if err != nil {
		g.logger.Error("quiz generation failed", zap.Error(err))
		return Result{
			Success:   false,
			Questions: []Question{},
			Message:   "クイズ生成に失敗しました: " + err.Error(),
		}
	}
	return Result{
		Success:   true,
		Questions: questions,
		Message:   fmt.Sprintf("%d問の問題を生成しました", len(questions)),
	}
}

// lockedRand serializes access to a *rand.Rand, which is not safe for
// concurrent use.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}
