// Package repository persists jobs, users and the e-mail watcher's bookkeeping.
// Every job query is scoped by owner; list results are sorted by date
// descending, then creation time descending.
package repository

import (
	"context"

	"github.com/justsurfingit/jobhunter/internal/filter"
	"github.com/justsurfingit/jobhunter/internal/models"
)

type JobStore interface {
	FindAll(ctx context.Context, ownerID string, c filter.Criteria) ([]models.Job, error)
	FindOne(ctx context.Context, ownerID, id string) (*models.Job, error)
	Insert(ctx context.Context, job *models.Job) error
	// Update overwrites the stored record matching job.ID and job.OwnerID.
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, ownerID, id string) error
	// ReplaceAll swaps the owner's whole collection atomically.
	ReplaceAll(ctx context.Context, ownerID string, jobs []models.Job) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	SaveHistoryID(ctx context.Context, userID string, historyID uint64) error
}

type MailboxStore interface {
	IsProcessed(ctx context.Context, messageID string) (bool, error)
	MarkProcessed(ctx context.Context, messageID, ownerID string) error
}

// Store is the full persistence surface used by the API.
type Store interface {
	JobStore
	UserStore
	MailboxStore
	Ping(ctx context.Context) error
	Close() error
}
