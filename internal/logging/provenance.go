package logging

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// #region log-scan
// LogScan writes a provenance entry to the provenance_log table.
func LogScan(db *sql.DB, entry ScanEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO provenance_log (scan_id, source, provider, outcome, reason, details_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.ScanID),
		entry.Source,
		nullIfEmpty(entry.Provider),
		entry.Outcome,
		nullIfEmpty(entry.Reason),
		nullIfEmpty(entry.DetailsJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log scan: %w", err)
	}
	return nil
}

// #endregion log-scan

// #region recent
// Recent returns the latest provenance entries, newest first. A non-empty
// scanID restricts the result to that scan.
func Recent(db *sql.DB, scanID string, limit int) ([]ScanEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT scan_id, source, provider, outcome, reason, details_json, created_at
		FROM provenance_log`
	args := []interface{}{}
	if scanID != "" {
		query += ` WHERE scan_id = ?`
		args = append(args, scanID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query provenance: %w", err)
	}
	defer rows.Close()

	var entries []ScanEntry
	for rows.Next() {
		var (
			e                             ScanEntry
			id, provider, reason, details sql.NullString
			createdAt                     string
		)
		if err := rows.Scan(&id, &e.Source, &provider, &e.Outcome, &reason, &details, &createdAt); err != nil {
			return nil, fmt.Errorf("scan provenance row: %w", err)
		}
		e.ScanID = id.String
		e.Provider = provider.String
		e.Reason = reason.String
		e.DetailsJSON = details.String
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecordFor decodes the details of the latest successful provenance row for
// scanID. It returns nil when the scan has no such row.
func RecordFor(db *sql.DB, scanID string) (*ScanRecord, error) {
	var details sql.NullString
	err := db.QueryRow(`SELECT details_json FROM provenance_log
		WHERE scan_id = ? AND outcome = 'ok'
		ORDER BY id DESC LIMIT 1`, scanID).Scan(&details)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query provenance for %s: %w", scanID, err)
	}
	if details.String == "" {
		return nil, nil
	}
	var rec ScanRecord
	if err := json.Unmarshal([]byte(details.String), &rec); err != nil {
		return nil, fmt.Errorf("decode provenance for %s: %w", scanID, err)
	}
	return &rec, nil
}

// #endregion recent

// #region details
// MarshalRecord encodes rec for ScanEntry.DetailsJSON.
func MarshalRecord(rec ScanRecord) string {
	b, err := json.Marshal(rec)
	if err != nil {
		return ""
	}
	return string(b)
}

// #endregion details

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
