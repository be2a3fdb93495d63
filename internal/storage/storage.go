// Package storage defines the run ledger: batch runs and per-document outcomes.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/sift/internal/models"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// Storage records batch runs and the outcome of every document they process.
type Storage interface {
	// Run operations
	CreateRun(ctx context.Context, run *models.Run) error
	FinishRun(ctx context.Context, id string, finishedAt time.Time, processed, failed int) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*models.Run, error)

	// Document outcomes
	RecordDocument(ctx context.Context, rec *models.DocumentRecord) error
	ListDocuments(ctx context.Context, runID string) ([]*models.DocumentRecord, error)

	// Stats; an empty status counts every document.
	CountRuns(ctx context.Context) (int64, error)
	CountDocuments(ctx context.Context, status string) (int64, error)

	Close() error
}

// Status collects ledger counts and the most recent runs.
func Status(ctx context.Context, s Storage, recent int) (*models.LedgerStatus, error) {
	var st models.LedgerStatus
	var err error
	if st.Runs, err = s.CountRuns(ctx); err != nil {
		return nil, err
	}
	if st.Documents, err = s.CountDocuments(ctx, ""); err != nil {
		return nil, err
	}
	if st.Succeeded, err = s.CountDocuments(ctx, models.StatusOK); err != nil {
		return nil, err
	}
	if st.Failed, err = s.CountDocuments(ctx, models.StatusFailed); err != nil {
		return nil, err
	}
	if recent > 0 {
		if st.RecentRuns, err = s.ListRuns(ctx, recent); err != nil {
			return nil, err
		}
	}
	return &st, nil
}
