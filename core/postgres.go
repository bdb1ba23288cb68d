package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"calendar-assistant/pkg/resources"
)

// ArchiveEntry is one row of the append-only event log.
type ArchiveEntry struct {
	Id         int64     `json:"id"`
	EventId    int64     `json:"event_id"`
	Op         string    `json:"op"`
	Title      string    `json:"title"`
	Day        int       `json:"day"`
	Hour       int       `json:"hour"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Archive is the external persistence collaborator. The in-memory
// store stays authoritative; the archive only journals mutations so a
// session can be reconstructed or inspected later. Failures are the
// caller's to log, never to surface.
type Archive interface {
	RecordCreated(ctx context.Context, event CalendarEvent) error
	RecordUpdated(ctx context.Context, event CalendarEvent) error
	RecordDeleted(ctx context.Context, id int64) error
	RecentEntries(ctx context.Context, limit int) ([]ArchiveEntry, error)
}

type archive struct {
	tracer  trace.Tracer
	metrics *DBMetrics
	pool    resources.DBInstance
}

func NewArchive(pool resources.DBInstance) Archive {
	return &archive{
		tracer:  otel.GetTracerProvider().Tracer("calendar-assistant/core"),
		metrics: NewDBMetrics(),
		pool:    pool,
	}
}

func (a *archive) RecordCreated(ctx context.Context, event CalendarEvent) error {
	return a.record(ctx, "record_created", "created", event.Id, event.Title, event.Day, event.Hour)
}

func (a *archive) RecordUpdated(ctx context.Context, event CalendarEvent) error {
	return a.record(ctx, "record_updated", "updated", event.Id, event.Title, event.Day, event.Hour)
}

func (a *archive) RecordDeleted(ctx context.Context, id int64) error {
	return a.record(ctx, "record_deleted", "deleted", id, "", 0, 0)
}

func (a *archive) record(ctx context.Context, op, kind string, eventId int64, title string, day, hour int) error {
	start := time.Now()

	var err error

	defer func() { a.metrics.Observe(ctx, op, start, err) }()

	ctx, span := a.tracer.Start(ctx, "archive."+op)
	defer span.End()

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO event_log (event_id, op, title, day, hour) VALUES ($1, $2, $3, $4, $5)",
		eventId, kind, title, day, hour)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to insert log entry: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (a *archive) RecentEntries(ctx context.Context, limit int) ([]ArchiveEntry, error) {
	start := time.Now()

	var err error

	defer func() { a.metrics.Observe(ctx, "recent_entries", start, err) }()

	ctx, span := a.tracer.Start(ctx, "archive.RecentEntries")
	defer span.End()

	rows, err := a.pool.Query(ctx,
		`SELECT id, event_id, op, title, day, hour, recorded_at
		 FROM event_log
		 ORDER BY recorded_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query event log: %w", err)
	}
	defer rows.Close()

	entries := make([]ArchiveEntry, 0, limit)

	for rows.Next() {
		var e ArchiveEntry

		err = rows.Scan(&e.Id, &e.EventId, &e.Op, &e.Title, &e.Day, &e.Hour, &e.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}

	return entries, nil
}

// nopArchive keeps the wiring uniform when no database is configured.
type nopArchive struct{}

func NewNopArchive() Archive { return nopArchive{} }

func (nopArchive) RecordCreated(context.Context, CalendarEvent) error { return nil }

func (nopArchive) RecordUpdated(context.Context, CalendarEvent) error { return nil }

func (nopArchive) RecordDeleted(context.Context, int64) error { return nil }

func (nopArchive) RecentEntries(context.Context, int) ([]ArchiveEntry, error) {
	return []ArchiveEntry{}, nil
}

/*

 */

type DBMetrics struct {
	qTotal   metric.Int64Counter
	qErrors  metric.Int64Counter
	qLatency metric.Float64Histogram
}

func NewDBMetrics() *DBMetrics {
	meter := otel.Meter("calendar-assistant/db")

	qTotal, _ := meter.Int64Counter("db.query.total")
	qErrors, _ := meter.Int64Counter("db.query.errors.total")
	qLatency, _ := meter.Float64Histogram("db.query.duration.ms")

	return &DBMetrics{qTotal: qTotal, qErrors: qErrors, qLatency: qLatency}
}

func (m *DBMetrics) Observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "postgres"),
		attribute.String("db.operation", op),
	}

	m.qTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	ms := float64(time.Since(start).Milliseconds())
	m.qLatency.Record(ctx, ms, metric.WithAttributes(attrs...))

	if err != nil {
		m.qErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
