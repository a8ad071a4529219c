package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.JournalService = (*JournalService)(nil)

// JournalService is a mock implementation of harvest.JournalService.
type JournalService struct {
	CreateJobRecordFn   func(ctx context.Context, rec *harvest.JobRecord) error
	FindJobRecordByIDFn func(ctx context.Context, jobID string) (*harvest.JobRecord, error)
	FindJobRecordsFn    func(ctx context.Context, filter harvest.JobRecordFilter) ([]*harvest.JobRecord, error)
	UpdateJobStateFn    func(ctx context.Context, jobID string, state harvest.JobState) error
	DeleteJobRecordFn   func(ctx context.Context, jobID string) error
}

func (s *JournalService) CreateJobRecord(ctx context.Context, rec *harvest.JobRecord) error {
	return s.CreateJobRecordFn(ctx, rec)
}

func (s *JournalService) FindJobRecordByID(ctx context.Context, jobID string) (*harvest.JobRecord, error) {
	return s.FindJobRecordByIDFn(ctx, jobID)
}

func (s *JournalService) FindJobRecords(ctx context.Context, filter harvest.JobRecordFilter) ([]*harvest.JobRecord, error) {
	return s.FindJobRecordsFn(ctx, filter)
}

func (s *JournalService) UpdateJobState(ctx context.Context, jobID string, state harvest.JobState) error {
	return s.UpdateJobStateFn(ctx, jobID, state)
}

func (s *JournalService) DeleteJobRecord(ctx context.Context, jobID string) error {
	return s.DeleteJobRecordFn(ctx, jobID)
}
