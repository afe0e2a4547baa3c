package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tmcke/portview/internal/domain"
)

// Snapshot is one stored import.
type Snapshot struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// SnapshotRepo stores and restores record sets. Only the latest
// snapshot is kept: Replace is wholesale.
type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

// Replace drops any existing snapshot and stores records under name.
// Rows whose source hash repeats within the snapshot are counted as
// skipped rather than stored twice.
func (r *SnapshotRepo) Replace(ctx context.Context, name string, records []domain.ProjectRecord) (Snapshot, int, error) {
	snap := Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: Now(),
	}
	skipped := 0

	err := WithTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
			return fmt.Errorf("clear snapshots: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots(id, name, created_at) VALUES(?, ?, ?)`,
			snap.ID, snap.Name, snap.CreatedAt); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
		for i, rec := range records {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO projects(
			 id, snapshot_id, position, portfolio, program, name, external_id, manager,
			 status, budget, spent, start_date, previous_end, current_end,
			 department, rd_category, funding_source, notes, source_hash)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
			`,
				uuid.NewString(), snap.ID, i,
				rec.Portfolio, rec.Program, rec.Name, rec.ExternalID, rec.Manager,
				string(rec.Status), rec.Budget, rec.Spent,
				rec.Start, rec.PreviousEnd, rec.CurrentEnd,
				rec.Department, rec.RDCategory, rec.FundingSource, rec.Notes,
				hashSource(rec))
			if err != nil {
				if strings.Contains(err.Error(), "UNIQUE") {
					skipped++
					continue
				}
				return fmt.Errorf("insert project %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, 0, err
	}
	return snap, skipped, nil
}

// Load returns the stored records in import order, plus the snapshot
// metadata. A missing snapshot returns an empty slice, not an error.
func (r *SnapshotRepo) Load(ctx context.Context) ([]domain.ProjectRecord, Snapshot, error) {
	var snap Snapshot
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM snapshots ORDER BY created_at DESC LIMIT 1`).
		Scan(&snap.ID, &snap.Name, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, Snapshot{}, nil
	}
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT portfolio, program, name, external_id, manager, status, budget, spent,
	       start_date, previous_end, current_end, department, rd_category,
	       funding_source, notes
	FROM projects WHERE snapshot_id = ? ORDER BY position`, snap.ID)
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("load projects: %w", err)
	}
	defer rows.Close()

	var records []domain.ProjectRecord
	for rows.Next() {
		rec, err := scanProject(rows)
		if err != nil {
			return nil, Snapshot{}, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, Snapshot{}, err
	}
	return records, snap, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(s scanner) (domain.ProjectRecord, error) {
	var rec domain.ProjectRecord
	var externalID, manager, department, rdCategory, fundingSource, notes sql.NullString
	var status string
	var start, previousEnd, currentEnd sql.NullTime

	err := s.Scan(&rec.Portfolio, &rec.Program, &rec.Name, &externalID, &manager,
		&status, &rec.Budget, &rec.Spent,
		&start, &previousEnd, &currentEnd,
		&department, &rdCategory, &fundingSource, &notes)
	if err != nil {
		return rec, fmt.Errorf("scan project: %w", err)
	}

	rec.ExternalID = externalID.String
	rec.Manager = manager.String
	rec.Status = domain.Status(status)
	rec.Department = department.String
	rec.RDCategory = rdCategory.String
	rec.FundingSource = fundingSource.String
	rec.Notes = notes.String
	if start.Valid {
		t := start.Time
		rec.Start = &t
	}
	if previousEnd.Valid {
		t := previousEnd.Time
		rec.PreviousEnd = &t
	}
	if currentEnd.Valid {
		t := currentEnd.Time
		rec.CurrentEnd = &t
	}
	return rec, nil
}

func hashSource(rec domain.ProjectRecord) string {
	joined := strings.Join([]string{
		rec.Portfolio, rec.Program, rec.Name, rec.ExternalID,
		fmt.Sprintf("%.2f", rec.Budget), fmt.Sprintf("%.2f", rec.Spent),
	}, "|")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}
