package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo with plain SQL and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendProbe(ctx context.Context, data ProbeEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO probe_events (sequence, timestamp_ms, url, image_type, found, latency_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.URL, data.ImageType, boolToInt(data.Found), data.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("save probe event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendGeneration(ctx context.Context, data GenerationEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO generation_events
		 (sequence, timestamp_ms, run_id, requested, generated, short_distractors, success, error_message, latency_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.RunID, data.Requested, data.Generated,
		data.ShortDistractors, boolToInt(data.Success), data.ErrorMessage, data.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("save generation event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryProbeEvents(ctx context.Context, opts QueryOpts) ([]ProbeEvent, error) {
	where, args := opts.probeWhereClause()
	query := `SELECT id, sequence, timestamp_ms, url, image_type, found, latency_ms FROM probe_events` +
		where + ` ORDER BY sequence DESC` + opts.limitClause()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query probe events: %w", err)
	}
	defer rows.Close()

	var out []ProbeEvent
	for rows.Next() {
		var (
			e     ProbeEvent
			ts    int64
			found int
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.URL, &e.ImageType, &found, &e.LatencyMs); err != nil {
			return nil, fmt.Errorf("scan probe event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		e.Found = found != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) QueryGenerationEvents(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error) {
	where, args := opts.whereClause()
	query := `SELECT id, sequence, timestamp_ms, run_id, requested, generated, short_distractors, success, error_message, latency_ms
		FROM generation_events` + where + ` ORDER BY sequence DESC` + opts.limitClause()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query generation events: %w", err)
	}
	defer rows.Close()

	var out []GenerationEvent
	for rows.Next() {
		var (
			e       GenerationEvent
			ts      int64
			success int
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.RunID, &e.Requested, &e.Generated,
			&e.ShortDistractors, &success, &e.ErrorMessage, &e.LatencyMs); err != nil {
			return nil, fmt.Errorf("scan generation event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		e.Success = success != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) ProbeStatsByImageType(ctx context.Context) ([]ProbeStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT image_type, COUNT(*), COALESCE(SUM(found), 0), CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER)
		 FROM probe_events GROUP BY image_type ORDER BY image_type`)
	if err != nil {
		return nil, fmt.Errorf("query probe stats: %w", err)
	}
	defer rows.Close()

	var out []ProbeStat
	for rows.Next() {
		var st ProbeStat
		if err := rows.Scan(&st.ImageType, &st.Probes, &st.Found, &st.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan probe stats: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (o QueryOpts) whereClause() (string, []any) {
	conds, args := o.conditions()
	return joinConditions(conds), args
}

// probeWhereClause adds the probe-only filters to whereClause.
func (o QueryOpts) probeWhereClause() (string, []any) {
	conds, args := o.conditions()
	if o.ImageType != "" {
		conds = append(conds, "image_type = ?")
		args = append(args, o.ImageType)
	}
	if o.MissingOnly {
		conds = append(conds, "found = 0")
	}
	return joinConditions(conds), args
}

func (o QueryOpts) conditions() ([]string, []any) {
	var (
		conds []string
		args  []any
	)
	if o.After > 0 {
		conds = append(conds, "sequence > ?")
		args = append(args, o.After)
	}
	if o.Before > 0 {
		conds = append(conds, "sequence < ?")
		args = append(args, o.Before)
	}
	if !o.From.IsZero() {
		conds = append(conds, "timestamp_ms >= ?")
		args = append(args, o.From.UnixMilli())
	}
	if !o.To.IsZero() {
		conds = append(conds, "timestamp_ms <= ?")
		args = append(args, o.To.UnixMilli())
	}
	return conds, args
}

func joinConditions(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func (o QueryOpts) limitClause() string {
	if o.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", o.Limit)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
