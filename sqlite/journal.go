package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/harvest"
)

// Compile-time interface verification.
var _ harvest.JournalService = (*JournalService)(nil)

// JournalService implements harvest.JournalService using SQLite.
type JournalService struct {
	db *DB
}

// NewJournalService creates a new JournalService.
func NewJournalService(db *DB) *JournalService {
	return &JournalService{db: db}
}

// CreateJobRecord stores a new record.
func (s *JournalService) CreateJobRecord(ctx context.Context, rec *harvest.JobRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO job_records (job_id, kind, platform, method, target, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.JobID, rec.Kind, rec.Platform, rec.Method, rec.Target, string(rec.State),
		rec.CreatedAt.Format(time.RFC3339), rec.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindJobRecordByID retrieves a record by job ID.
func (s *JournalService) FindJobRecordByID(ctx context.Context, jobID string) (*harvest.JobRecord, error) {
	var rec harvest.JobRecord
	var state, createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT job_id, kind, platform, method, target, state, created_at, updated_at
		FROM job_records
		WHERE job_id = ?
	`, jobID).Scan(&rec.JobID, &rec.Kind, &rec.Platform, &rec.Method, &rec.Target,
		&state, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "job record not found")
	}
	if err != nil {
		return nil, err
	}

	rec.State = harvest.JobState(state)
	if rec.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &rec, nil
}

// FindJobRecords retrieves records matching the filter, newest first.
func (s *JournalService) FindJobRecords(ctx context.Context, filter harvest.JobRecordFilter) ([]*harvest.JobRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT job_id, kind, platform, method, target, state, created_at, updated_at FROM job_records WHERE 1=1")

	if filter.JobID != nil {
		query.WriteString(" AND job_id = ?")
		args = append(args, *filter.JobID)
	}
	if filter.State != nil {
		query.WriteString(" AND state = ?")
		args = append(args, string(*filter.State))
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*harvest.JobRecord
	for rows.Next() {
		var rec harvest.JobRecord
		var state, createdAt, updatedAt string

		if err := rows.Scan(&rec.JobID, &rec.Kind, &rec.Platform, &rec.Method, &rec.Target,
			&state, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		rec.State = harvest.JobState(state)
		if rec.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if rec.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		records = append(records, &rec)
	}

	return records, rows.Err()
}

// UpdateJobState sets the state of an existing record.
func (s *JournalService) UpdateJobState(ctx context.Context, jobID string, state harvest.JobState) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE job_records SET state = ?, updated_at = ? WHERE job_id = ?
	`, string(state), time.Now().UTC().Format(time.RFC3339), jobID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return harvest.Errorf(harvest.ENOTFOUND, "job record not found")
	}
	return nil
}

// DeleteJobRecord permanently removes a record.
func (s *JournalService) DeleteJobRecord(ctx context.Context, jobID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM job_records WHERE job_id = ?`, jobID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return harvest.Errorf(harvest.ENOTFOUND, "job record not found")
	}
	return nil
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
