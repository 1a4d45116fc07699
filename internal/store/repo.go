package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Probe events only.
	ImageType   string // image_type = ImageType when set
	MissingOnly bool   // found = 0
}

// ProbeEventData captures one image existence check.
type ProbeEventData struct {
	URL       string
	ImageType string
	Found     bool
	LatencyMs int64
}

// ProbeEvent is a stored ProbeEventData.
type ProbeEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ProbeEventData
}

// ProbeStat aggregates probes per image type.
type ProbeStat struct {
	ImageType    string
	Probes       int
	Found        int
	AvgLatencyMs int64
}

// GenerationEventData captures one question generation run.
type GenerationEventData struct {
	RunID     string
	Requested int
	Generated int

	// ShortDistractors counts questions that got fewer than the
	// configured number of wrong answers.
	ShortDistractors int

	Success      bool
	ErrorMessage string
	LatencyMs    int64
}

// GenerationEvent is a stored GenerationEventData.
type GenerationEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	GenerationEventData
}

// EventRepo provides append and query access to diagnostic events.
type EventRepo interface {
	// AppendProbe records an image existence check.
	AppendProbe(ctx context.Context, data ProbeEventData) error

	// AppendGeneration records a question generation run.
	AppendGeneration(ctx context.Context, data GenerationEventData) error

	// QueryProbeEvents returns probe events, newest first.
	QueryProbeEvents(ctx context.Context, opts QueryOpts) ([]ProbeEvent, error)

	// QueryGenerationEvents returns generation events, newest first.
	QueryGenerationEvents(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error)

	// ProbeStatsByImageType aggregates all probe events per image type.
	ProbeStatsByImageType(ctx context.Context) ([]ProbeStat, error)
}
