// Package store keeps a history of chord analyses in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/RyanBlaney/sonido-chords/report"
)

// ErrNotFound is returned when no analysis has the requested id
var ErrNotFound = errors.New("analysis not found")

// Record is one stored analysis
type Record struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Report    report.Report `json:"report"`
}

// Summary is the list view of a record
type Summary struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Source        string    `json:"source"`
	TotalDuration float64   `json:"total_duration"`
	Segments      int       `json:"segments"`
}

// Store is a SQLite-backed analysis history
type Store struct {
	db     *sql.DB
	dbPath string
	logger logging.Logger
}

// Open opens (creating if needed) the database at dbPath and ensures the
// schema exists
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Store{
		db:     db,
		dbPath: dbPath,
		logger: logging.WithFields(logging.Fields{
			"component": "store",
			"path":      dbPath,
		}),
	}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts rec and returns its id. A fresh UUID is assigned when rec has
// none, and CreatedAt defaults to now.
func (s *Store) Save(ctx context.Context, rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO analyses (id, source, total_duration, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Report.Source, rec.Report.TotalDuration, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert analysis: %w", err)
	}

	for i, seg := range rec.Report.Progression {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO segments (analysis_id, position, chord, start_time, end_time, duration)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, i, seg.Chord.String(), seg.StartTime, seg.EndTime, seg.Duration,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert segment %d: %w", i, err)
		}
	}

	for chord, count := range rec.Report.Statistics {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chord_counts (analysis_id, chord, count) VALUES (?, ?, ?)`,
			rec.ID, chord.String(), count,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert count for %s: %w", chord, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit analysis: %w", err)
	}

	s.logger.Debug("Analysis saved", logging.Fields{
		"id":       rec.ID,
		"source":   rec.Report.Source,
		"segments": len(rec.Report.Progression),
	})
	return rec.ID, nil
}

// Get loads the full record with id
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}

	rec := &Record{ID: id}
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT source, total_duration, created_at FROM analyses WHERE id = ?`, id,
	).Scan(&rec.Report.Source, &rec.Report.TotalDuration, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}
	rec.CreatedAt = time.Unix(0, createdAt)

	if rec.Report.Progression, err = s.segments(ctx, id); err != nil {
		return nil, err
	}
	if rec.Report.Statistics, err = s.counts(ctx, id); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) segments(ctx context.Context, id string) ([]tonal.ChordSegment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chord, start_time, end_time, duration FROM segments
		 WHERE analysis_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	segments := []tonal.ChordSegment{}
	for rows.Next() {
		var name string
		var seg tonal.ChordSegment
		if err := rows.Scan(&name, &seg.StartTime, &seg.EndTime, &seg.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan segment row: %w", err)
		}
		if seg.Chord, err = tonal.ParseChord(name); err != nil {
			return nil, fmt.Errorf("corrupt segment row: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

func (s *Store) counts(ctx context.Context, id string) (tonal.ChordStatistics, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chord, count FROM chord_counts WHERE analysis_id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chord counts: %w", err)
	}
	defer rows.Close()

	stats := tonal.ChordStatistics{}
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan chord count row: %w", err)
		}
		chord, err := tonal.ParseChord(name)
		if err != nil {
			return nil, fmt.Errorf("corrupt chord count row: %w", err)
		}
		stats[chord] = count
	}
	return stats, rows.Err()
}

// List returns up to limit summaries, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.source, a.total_duration, a.created_at,
		       (SELECT COUNT(*) FROM segments s WHERE s.analysis_id = a.id)
		FROM analyses a
		ORDER BY a.created_at DESC, a.rowid DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var sum Summary
		var createdAt int64
		if err := rows.Scan(&sum.ID, &sum.Source, &sum.TotalDuration, &createdAt, &sum.Segments); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		sum.CreatedAt = time.Unix(0, createdAt)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Delete removes the record with id and its rows
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"segments", "chord_counts"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE analysis_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	} else if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	s.logger.Debug("Analysis deleted", logging.Fields{"id": id})
	return nil
}
