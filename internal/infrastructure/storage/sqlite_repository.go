package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/infrastructure/storage/migrations"
	"CoreTaxSentiment/internal/ports"
)

// insertBatch bounds rows per INSERT to stay under SQLite's variable limit.
const insertBatch = 200

// timeLayout is fixed width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepository persists run history into a local SQLite file.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

var _ ports.RunRepository = (*SQLiteRepository)(nil)

// OpenSQLite opens (or creates) the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	r := &SQLiteRepository{db: db, path: path}
	if err := r.migrate(context.Background(), migrations.FS); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// NewSQLiteRepository wires an already opened sql.DB. Migrations are not run.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Path returns the database file path.
func (r *SQLiteRepository) Path() string {
	return r.path
}

func (r *SQLiteRepository) migrate(ctx context.Context, fsys fs.FS) error {
	if _, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := sq.Insert("schema_migrations").
			Columns("version", "applied_at").
			Values(version, time.Now().UTC().Format(time.RFC3339)).
			RunWith(r.db).
			ExecContext(ctx); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

// SaveRun stores the run with its records, keywords and topics in one
// transaction. A run without an ID gets a fresh UUID.
func (r *SQLiteRepository) SaveRun(ctx context.Context, run domain.Run) error {
	if r.db == nil {
		return nil
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := saveRun(ctx, tx, run); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func saveRun(ctx context.Context, tx *sql.Tx, run domain.Run) error {
	labeled := 0
	for _, rec := range run.Records {
		if rec.Labeled() {
			labeled++
		}
	}

	if _, err := sq.Insert("runs").
		Options("OR REPLACE").
		Columns("id", "variant", "started_at", "finished_at", "total_records", "labeled_records").
		Values(run.ID, run.Variant, formatTime(run.StartedAt), formatTime(run.FinishedAt), len(run.Records), labeled).
		RunWith(tx).
		ExecContext(ctx); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, table := range []string{"records", "keywords", "topics"} {
		if _, err := sq.Delete(table).Where(sq.Eq{"run_id": run.ID}).RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for start := 0; start < len(run.Records); start += insertBatch {
		end := min(start+insertBatch, len(run.Records))
		q := sq.Insert("records").Columns(
			"run_id", "position", "source", "date", "text", "normalized", "stemmed", "sentiment", "score", "topic",
		)
		for i := start; i < end; i++ {
			rec := run.Records[i]
			var (
				label any
				score any
				topic any
			)
			if rec.Sentiment != nil {
				label, score = string(rec.Sentiment.Label), rec.Sentiment.Score
			}
			if rec.Topic != nil {
				topic = rec.Topic.ID
			}
			q = q.Values(run.ID, i, string(rec.Source), rec.Date, rec.Text, rec.Normalized, rec.Stemmed, label, score, topic)
		}
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert records %d-%d: %w", start, end-1, err)
		}
	}

	labels := make([]string, 0, len(run.Keywords))
	for l := range run.Keywords {
		labels = append(labels, string(l))
	}
	sort.Strings(labels)
	for _, l := range labels {
		words := run.Keywords[domain.Label(l)]
		if len(words) == 0 {
			continue
		}
		q := sq.Insert("keywords").Columns("run_id", "label", "rank", "term")
		for rank, w := range words {
			q = q.Values(run.ID, l, rank+1, w)
		}
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert keywords for %s: %w", l, err)
		}
	}

	if len(run.Topics) > 0 {
		q := sq.Insert("topics").Columns("run_id", "topic_id", "name", "label", "size", "terms")
		for _, t := range run.Topics {
			terms, err := json.Marshal(t.Terms)
			if err != nil {
				return fmt.Errorf("marshal topic %d terms: %w", t.ID, err)
			}
			q = q.Values(run.ID, t.ID, t.Name, t.Label, t.Size, string(terms))
		}
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert topics: %w", err)
		}
	}
	return nil
}

// ListRuns returns the latest runs, newest first. limit <= 0 returns all.
func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if r.db == nil {
		return nil, nil
	}

	q := sq.Select("id", "variant", "started_at", "finished_at", "total_records", "labeled_records").
		From("runs").
		OrderBy("started_at DESC", "id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	rows, err := q.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	var out []domain.RunSummary
	for rows.Next() {
		var (
			s                 domain.RunSummary
			started, finished string
		)
		if err := rows.Scan(&s.ID, &s.Variant, &started, &finished, &s.TotalRecords, &s.LabeledRecords); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.StartedAt = parseTime(started)
		s.FinishedAt = parseTime(finished)
		out = append(out, s)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return out, nil
}

// RunKeywords returns the stored keywords of a run grouped by label.
func (r *SQLiteRepository) RunKeywords(ctx context.Context, runID string) (domain.KeywordSet, error) {
	if r.db == nil {
		return domain.KeywordSet{}, nil
	}
	rows, err := sq.Select("label", "term").
		From("keywords").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("label", "rank").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	set := domain.KeywordSet{}
	for rows.Next() {
		var label, term string
		if err := rows.Scan(&label, &term); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		set[domain.Label(label)] = append(set[domain.Label(label)], term)
	}
	return set, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
