package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quantum-lichen/LMC-Scanner/internal/diagnostic"
	"github.com/quantum-lichen/LMC-Scanner/internal/scan"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id                TEXT PRIMARY KEY,
	topic             TEXT NOT NULL,
	sentence_count    INTEGER NOT NULL,
	average_lmc       REAL NOT NULL,
	average_entropy   REAL NOT NULL,
	average_coherence REAL NOT NULL,
	degraded          INTEGER NOT NULL DEFAULT 0,
	created_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sentences (
	scan_id    TEXT NOT NULL,
	position   INTEGER NOT NULL,
	id         TEXT NOT NULL UNIQUE,
	text       TEXT NOT NULL,
	entropy    REAL NOT NULL,
	coherence  REAL NOT NULL,
	lmc_score  REAL NOT NULL,
	diagnostic TEXT NOT NULL,
	PRIMARY KEY (scan_id, position),
	FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS provenance_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	scan_id      TEXT,
	source       TEXT NOT NULL,
	provider     TEXT,
	outcome      TEXT NOT NULL,
	reason       TEXT,
	details_json TEXT,
	created_at   TEXT NOT NULL,
	FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at);
`

// #endregion schema

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a scan id is unknown.
var ErrNotFound = errors.New("scan not found")

// #region store-struct
// Store persists scan results in SQLite.
type Store struct {
	db *sql.DB
}

// Summary is a scan row without its sentences.
type Summary struct {
	ID               string    `json:"id"`
	Topic            string    `json:"topic"`
	SentenceCount    int       `json:"sentenceCount"`
	AverageLMC       float64   `json:"averageLmc"`
	AverageEntropy   float64   `json:"averageEntropy"`
	AverageCoherence float64   `json:"averageCoherence"`
	Degraded         bool      `json:"degraded"`
	CreatedAt        time.Time `json:"createdAt"`
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save
// SaveScan writes a result and its sentences in one transaction.
func (s *Store) SaveScan(ctx context.Context, r *scan.Result) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("save scan: missing id")
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scans (id, topic, sentence_count, average_lmc, average_entropy, average_coherence, degraded, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Topic, len(r.Sentences), r.AverageLMC, r.AverageEntropy, r.AverageCoherence,
		boolToInt(r.Degraded), created.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sentences (scan_id, position, id, text, entropy, coherence, lmc_score, diagnostic)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sentence: %w", err)
	}
	defer stmt.Close()

	for i, sa := range r.Sentences {
		if _, err := stmt.ExecContext(ctx, r.ID, i, sa.ID, sa.Text, sa.Entropy, sa.Coherence, sa.LMCScore, string(sa.Diagnostic)); err != nil {
			return fmt.Errorf("insert sentence %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion save

// #region get
// GetScan loads a result with its sentences in scan order.
func (s *Store) GetScan(ctx context.Context, id string) (*scan.Result, error) {
	var (
		r          scan.Result
		count      int
		degraded   int
		createdStr string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, topic, sentence_count, average_lmc, average_entropy, average_coherence, degraded, created_at
		 FROM scans WHERE id = ?`, id,
	).Scan(&r.ID, &r.Topic, &count, &r.AverageLMC, &r.AverageEntropy, &r.AverageCoherence, &degraded, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scan %s: %w", id, err)
	}
	r.Degraded = degraded != 0
	r.CreatedAt, _ = time.Parse(timeLayout, createdStr)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, entropy, coherence, lmc_score, diagnostic
		 FROM sentences WHERE scan_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get sentences %s: %w", id, err)
	}
	defer rows.Close()

	r.Sentences = make([]scan.SentenceAnalysis, 0, count)
	r.Counts = make(map[diagnostic.Category]int, len(diagnostic.Categories))
	for _, c := range diagnostic.Categories {
		r.Counts[c] = 0
	}
	for rows.Next() {
		var sa scan.SentenceAnalysis
		var d string
		if err := rows.Scan(&sa.ID, &sa.Text, &sa.Entropy, &sa.Coherence, &sa.LMCScore, &d); err != nil {
			return nil, fmt.Errorf("scan sentence: %w", err)
		}
		sa.Diagnostic = diagnostic.Category(d)
		r.Counts[sa.Diagnostic]++
		r.Sentences = append(r.Sentences, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

// #endregion get

// #region list
// ListScans returns the newest scans first. limit <= 0 means 20.
func (s *Store) ListScans(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, sentence_count, average_lmc, average_entropy, average_coherence, degraded, created_at
		 FROM scans ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var degraded int
		var createdStr string
		if err := rows.Scan(&sum.ID, &sum.Topic, &sum.SentenceCount, &sum.AverageLMC,
			&sum.AverageEntropy, &sum.AverageCoherence, &degraded, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		sum.Degraded = degraded != 0
		sum.CreatedAt, _ = time.Parse(timeLayout, createdStr)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// #endregion list

// #region delete
// DeleteScan removes a scan and its sentences.
func (s *Store) DeleteScan(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scan %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// #endregion delete

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
