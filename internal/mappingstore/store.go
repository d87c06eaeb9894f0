package mappingstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mudlark/internal/logging"
)

// ErrRunNotFound reports an unknown run id or prefix.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun reports a run id prefix matching more than one run.
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

// Store manages mapping persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open creates or connects to the mapping database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("mapping database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure mapping db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "mappingstore"),
	}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Save writes rec in a single transaction. A missing run id is generated and
// written back to rec.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	if rec.Run.ID == "" {
		rec.Run.ID = NewRunID()
	} else if _, err := uuid.Parse(rec.Run.ID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", rec.Run.ID, err)
	}
	if rec.Run.CreatedAt.IsZero() {
		rec.Run.CreatedAt = time.Now().UTC()
	}

	err := retryOnBusy(ctx, func() error {
		return s.saveTx(ctx, rec)
	})
	if err != nil {
		return fmt.Errorf("save run %s: %w", rec.Run.ID, err)
	}
	s.logger.Info("mapping run saved",
		logging.String(logging.FieldRunID, rec.Run.ID),
		logging.Int("asset_labels", len(rec.Labels)),
		logging.Int("columns", len(rec.Columns)),
		logging.String(logging.FieldEventType, "mapping_run_saved"),
	)
	return nil
}

func (s *Store) saveTx(ctx context.Context, rec *Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	run := rec.Run
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, output, text_column, seed, row_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(createdAtLayout), run.Source, run.Output, run.TextColumn, run.Seed, run.Rows,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	labelStmt, err := tx.PrepareContext(ctx, "INSERT INTO asset_labels (run_id, key, label) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare asset label insert: %w", err)
	}
	defer labelStmt.Close()
	for _, l := range rec.Labels {
		if _, err := labelStmt.ExecContext(ctx, run.ID, l.Key, l.Label); err != nil {
			return fmt.Errorf("insert asset label %q: %w", l.Key, err)
		}
	}

	termStmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO asset_terms (run_id, term, label) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare asset term insert: %w", err)
	}
	defer termStmt.Close()
	for _, term := range rec.Terms {
		if _, err := termStmt.ExecContext(ctx, run.ID, term.Term, term.Label); err != nil {
			return fmt.Errorf("insert asset term %q: %w", term.Term, err)
		}
	}

	for i, spec := range rec.ColumnSpecs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO run_columns (run_id, column_name, output_name, handler, position) VALUES (?, ?, ?, ?, ?)",
			run.ID, spec.Name, spec.OutputName, spec.Handler, i,
		); err != nil {
			return fmt.Errorf("insert column spec %q: %w", spec.Name, err)
		}
	}

	valueStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO column_values (run_id, column_name, position, raw, output) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare column value insert: %w", err)
	}
	defer valueStmt.Close()
	for column, values := range rec.Columns {
		for i, v := range values {
			if _, err := valueStmt.ExecContext(ctx, run.ID, column, i, v.Raw, v.Output); err != nil {
				return fmt.Errorf("insert column %q value: %w", column, err)
			}
		}
	}

	return tx.Commit()
}

// ListRuns returns every run, newest first, with mapping counts.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.source, r.output, r.text_column, r.seed, r.row_count,
		       (SELECT COUNT(1) FROM asset_labels a WHERE a.run_id = r.id),
		       (SELECT COUNT(1) FROM run_columns c WHERE c.run_id = r.id)
		FROM runs r
		ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ResolveID expands a run id prefix, or "latest", to a full run id.
func (s *Store) ResolveID(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty run id", ErrRunNotFound)
	}
	if ref == "latest" {
		var id string
		err := s.db.QueryRowContext(ctx, "SELECT id FROM runs ORDER BY created_at DESC, id LIMIT 1").Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: no runs recorded", ErrRunNotFound)
		}
		if err != nil {
			return "", fmt.Errorf("resolve latest run: %w", err)
		}
		return id, nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM runs WHERE id LIKE ? ESCAPE '\\' ORDER BY id LIMIT 2", escapeLike(ref)+"%")
	if err != nil {
		return "", fmt.Errorf("resolve run %q: %w", ref, err)
	}
	defer rows.Close()
	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan run id: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousRun, ref)
	}
}

// Load returns the full record of the run identified by ref.
func (s *Store) Load(ctx context.Context, ref string) (*Record, error) {
	id, err := s.ResolveID(ctx, ref)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.created_at, r.source, r.output, r.text_column, r.seed, r.row_count,
		       (SELECT COUNT(1) FROM asset_labels a WHERE a.run_id = r.id),
		       (SELECT COUNT(1) FROM run_columns c WHERE c.run_id = r.id)
		FROM runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}
	rec := &Record{Run: run, Columns: make(map[string][]ColumnValue)}

	if err := s.loadLabels(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.loadTerms(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.loadColumnSpecs(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.loadColumns(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) loadLabels(ctx context.Context, rec *Record) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, label FROM asset_labels WHERE run_id = ? ORDER BY CAST(SUBSTR(label, 6) AS INTEGER), key", rec.Run.ID)
	if err != nil {
		return fmt.Errorf("load asset labels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l AssetLabel
		if err := rows.Scan(&l.Key, &l.Label); err != nil {
			return fmt.Errorf("scan asset label: %w", err)
		}
		rec.Labels = append(rec.Labels, l)
	}
	return rows.Err()
}

func (s *Store) loadTerms(ctx context.Context, rec *Record) error {
	rows, err := s.db.QueryContext(ctx, "SELECT term, label FROM asset_terms WHERE run_id = ? ORDER BY term", rec.Run.ID)
	if err != nil {
		return fmt.Errorf("load asset terms: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t Term
		if err := rows.Scan(&t.Term, &t.Label); err != nil {
			return fmt.Errorf("scan asset term: %w", err)
		}
		rec.Terms = append(rec.Terms, t)
	}
	return rows.Err()
}

func (s *Store) loadColumnSpecs(ctx context.Context, rec *Record) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT column_name, output_name, handler FROM run_columns WHERE run_id = ? ORDER BY position", rec.Run.ID)
	if err != nil {
		return fmt.Errorf("load column specs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var spec ColumnSpec
		if err := rows.Scan(&spec.Name, &spec.OutputName, &spec.Handler); err != nil {
			return fmt.Errorf("scan column spec: %w", err)
		}
		rec.ColumnSpecs = append(rec.ColumnSpecs, spec)
	}
	return rows.Err()
}

func (s *Store) loadColumns(ctx context.Context, rec *Record) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT column_name, raw, output FROM column_values WHERE run_id = ? ORDER BY column_name, position", rec.Run.ID)
	if err != nil {
		return fmt.Errorf("load column values: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			column string
			v      ColumnValue
		)
		if err := rows.Scan(&column, &v.Raw, &v.Output); err != nil {
			return fmt.Errorf("scan column value: %w", err)
		}
		rec.Columns[column] = append(rec.Columns[column], v)
	}
	return rows.Err()
}

// Delete removes a run and its mappings.
func (s *Store) Delete(ctx context.Context, ref string) (string, error) {
	id, err := s.ResolveID(ctx, ref)
	if err != nil {
		return "", err
	}
	err = retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
		return execErr
	})
	if err != nil {
		return "", fmt.Errorf("delete run %s: %w", id, err)
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run     Run
		created string
	)
	err := row.Scan(&run.ID, &created, &run.Source, &run.Output, &run.TextColumn, &run.Seed, &run.Rows, &run.Assets, &run.Columns)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if ts, parseErr := time.Parse(createdAtLayout, created); parseErr == nil {
		run.CreatedAt = ts
	}
	return run, nil
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
