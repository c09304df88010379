// Package storage persists finished review reports so runs can be compared
// over time and served over the read-only API.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	// import db drivers
	_ "github.com/lib/pq"

	"github.com/sevigo/reviewgate/internal/core"
)

// ErrNotFound is returned when no stored report matches the query.
var ErrNotFound = errors.New("report not found")

// ReportRecord is one persisted review run.
type ReportRecord struct {
	ID        int64     `db:"id" json:"id"`
	Repo      string    `db:"repo" json:"repo"`
	Target    string    `db:"target" json:"target"`
	Status    string    `db:"status" json:"status"`
	Report    []byte    `db:"report" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Decode unmarshals the stored report document.
func (r *ReportRecord) Decode() (core.ReviewReport, error) {
	var report core.ReviewReport
	if err := json.Unmarshal(r.Report, &report); err != nil {
		return core.ReviewReport{}, fmt.Errorf("decoding stored report %d: %w", r.ID, err)
	}
	return report, nil
}

// Store defines the interface for all report history operations.
type Store interface {
	SaveReport(ctx context.Context, repo string, report core.ReviewReport) error
	LatestReport(ctx context.Context, repo, target string) (*ReportRecord, error)
	ListReports(ctx context.Context, repo string, limit int) ([]ReportRecord, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a new Store
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

// SaveReport inserts a finished report.
func (s *postgresStore) SaveReport(ctx context.Context, repo string, report core.ReviewReport) error {
	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	query := `INSERT INTO reports (repo, target, status, report, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err = s.db.ExecContext(ctx, query, repo, report.Target, string(report.Status), doc, time.Now())
	return err
}

// LatestReport retrieves the most recent report for a repo and target. An
// empty target matches any target.
func (s *postgresStore) LatestReport(ctx context.Context, repo, target string) (*ReportRecord, error) {
	query := `
		SELECT id, repo, target, status, report, created_at
		FROM reports
		WHERE repo = $1 AND ($2 = '' OR target = $2)
		ORDER BY created_at DESC
		LIMIT 1`

	var rec ReportRecord
	err := s.db.GetContext(ctx, &rec, query, repo, target)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListReports returns recent reports for a repo, newest first.
func (s *postgresStore) ListReports(ctx context.Context, repo string, limit int) ([]ReportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, repo, target, status, report, created_at
		FROM reports
		WHERE repo = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var recs []ReportRecord
	if err := s.db.SelectContext(ctx, &recs, query, repo, limit); err != nil {
		return nil, err
	}
	return recs, nil
}
