package harvest

import (
	"context"
	"time"
)

// JobRecord is a journal entry for a triggered job. The journal exists so
// a CLI process can trigger a long-running job, exit, and download the
// result later; the polling core itself keeps no persisted state.
type JobRecord struct {
	JobID     string    `json:"jobId"`
	Kind      string    `json:"kind"`     // trigger kind (unlock, dataset, crawl)
	Platform  string    `json:"platform"` // registry platform, if any
	Method    string    `json:"method"`   // registry method, if any
	Target    string    `json:"target"`   // first URL or input summary
	State     JobState  `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *JobRecord) Validate() error {
	if r.JobID == "" {
		return Errorf(EINVALID, "job record ID required")
	}
	if r.Kind == "" {
		return Errorf(EINVALID, "job record kind required")
	}
	return nil
}

// JobRecordFilter represents a filter for FindJobRecords.
type JobRecordFilter struct {
	JobID *string   `json:"jobId"`
	State *JobState `json:"state"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// JournalService records triggered jobs for later resumption.
type JournalService interface {
	// CreateJobRecord stores a new record.
	CreateJobRecord(ctx context.Context, rec *JobRecord) error

	// FindJobRecordByID retrieves a record by job ID.
	// Returns ENOTFOUND if the record does not exist.
	FindJobRecordByID(ctx context.Context, jobID string) (*JobRecord, error)

	// FindJobRecords retrieves records matching the filter, newest first.
	FindJobRecords(ctx context.Context, filter JobRecordFilter) ([]*JobRecord, error)

	// UpdateJobState sets the state of an existing record.
	// Returns ENOTFOUND if the record does not exist.
	UpdateJobState(ctx context.Context, jobID string, state JobState) error

	// DeleteJobRecord permanently removes a record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteJobRecord(ctx context.Context, jobID string) error
}
