package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/justsurfingit/jobhunter/internal/dtos"
	"github.com/justsurfingit/jobhunter/internal/filter"
	"github.com/justsurfingit/jobhunter/internal/lifecycle"
	"github.com/justsurfingit/jobhunter/internal/models"
	"github.com/justsurfingit/jobhunter/internal/repository"
	"github.com/justsurfingit/jobhunter/internal/stats"
)

// JobService runs the read-modify-write cycle around the lifecycle engine.
// Concurrent edits of one record are last-write-wins.
type JobService struct {
	store repository.JobStore
	log   *slog.Logger
	// Now is the clock used for timeline entries and statistics windows.
	Now func() time.Time
}

func NewJobService(store repository.JobStore, log *slog.Logger) *JobService {
	return &JobService{store: store, log: log, Now: time.Now}
}

func (s *JobService) List(ctx context.Context, ownerID string, c filter.Criteria) ([]models.Job, error) {
	return s.store.FindAll(ctx, ownerID, c)
}

func (s *JobService) Get(ctx context.Context, ownerID, id string) (*models.Job, error) {
	return s.store.FindOne(ctx, ownerID, id)
}

func (s *JobService) Create(ctx context.Context, ownerID string, req dtos.JobCreationRequest) (*models.Job, error) {
	job, err := lifecycle.CreateFromPayload(ownerID, req, s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, &job); err != nil {
		return nil, err
	}
	s.log.Info("job created", "user_id", ownerID, "job_id", job.ID, "company", job.Company)
	return &job, nil
}

func (s *JobService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.log.Info("job deleted", "user_id", ownerID, "job_id", id)
	return nil
}

// mutate loads the record, computes its next state and stores it.
func (s *JobService) mutate(ctx context.Context, ownerID, id string, next func(models.Job, time.Time) (models.Job, error)) (*models.Job, error) {
	current, err := s.store.FindOne(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	job, err := next(*current, s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobService) Patch(ctx context.Context, ownerID, id string, patch dtos.JobPatchRequest) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, now time.Time) (models.Job, error) {
		return lifecycle.ApplyPatch(j, patch, now)
	})
}

func (s *JobService) ChangeStatus(ctx context.Context, ownerID, id string, status models.Status) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, now time.Time) (models.Job, error) {
		return lifecycle.ChangeStatus(j, status, now)
	})
}

func (s *JobService) ChangeDate(ctx context.Context, ownerID, id, date string) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, now time.Time) (models.Job, error) {
		return lifecycle.ChangeDate(j, date, now)
	})
}

func (s *JobService) ToggleArchive(ctx context.Context, ownerID, id string) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, now time.Time) (models.Job, error) {
		return lifecycle.ToggleArchive(j, now), nil
	})
}

func (s *JobService) AddHistoryEntry(ctx context.Context, ownerID, id string, entry dtos.HistoryEntryRequest) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, now time.Time) (models.Job, error) {
		return lifecycle.AppendHistoryEntry(j, entry, now)
	})
}

func (s *JobService) RemoveHistoryEntry(ctx context.Context, ownerID, id string, index int) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, _ time.Time) (models.Job, error) {
		return lifecycle.RemoveHistoryEntry(j, index)
	})
}

func (s *JobService) AddResource(ctx context.Context, ownerID, id string, r dtos.ResourceRequest) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, _ time.Time) (models.Job, error) {
		return lifecycle.AddResource(j, r)
	})
}

func (s *JobService) RemoveResource(ctx context.Context, ownerID, id string, index int) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, _ time.Time) (models.Job, error) {
		return lifecycle.RemoveResource(j, index)
	})
}

func (s *JobService) AddReminder(ctx context.Context, ownerID, id, text string) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, _ time.Time) (models.Job, error) {
		return lifecycle.AddReminder(j, text)
	})
}

func (s *JobService) RemoveReminder(ctx context.Context, ownerID, id string, index int) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, _ time.Time) (models.Job, error) {
		return lifecycle.RemoveReminder(j, index)
	})
}

func (s *JobService) AddNote(ctx context.Context, ownerID, id, text string) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, _ time.Time) (models.Job, error) {
		return lifecycle.AddNote(j, text)
	})
}

func (s *JobService) RemoveNote(ctx context.Context, ownerID, id string, index int) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, _ time.Time) (models.Job, error) {
		return lifecycle.RemoveNote(j, index)
	})
}

// RecordEmail applies a status read from a recruiter e-mail and logs the
// message on the timeline in the same write.
func (s *JobService) RecordEmail(ctx context.Context, ownerID, id string, status models.Status, subject, summary string) (*models.Job, error) {
	return s.mutate(ctx, ownerID, id, func(j models.Job, now time.Time) (models.Job, error) {
		j, err := lifecycle.ChangeStatus(j, status, now)
		if err != nil {
			return j, err
		}
		j, err = lifecycle.AppendHistoryEntry(j, dtos.HistoryEntryRequest{
			Title:    "Email: " + subject,
			Subtitle: summary,
			Icon:     models.IconMessage,
		}, now)
		if err != nil {
			return j, err
		}
		j.LastContactAt = &now
		return j, nil
	})
}

func (s *JobService) Stats(ctx context.Context, ownerID string) (stats.Stats, error) {
	jobs, err := s.store.FindAll(ctx, ownerID, filter.Criteria{})
	if err != nil {
		return stats.Stats{}, err
	}
	return stats.Compute(jobs, s.Now()), nil
}

func (s *JobService) Pool(ctx context.Context, ownerID string, card stats.Card, period filter.Period) ([]models.Job, error) {
	jobs, err := s.store.FindAll(ctx, ownerID, filter.Criteria{})
	if err != nil {
		return nil, err
	}
	return stats.Pool(card, jobs, period, s.Now()), nil
}

// Import replaces the owner's collection. Every record is validated before
// anything is written; records get fresh ids and keep supplied timestamps.
func (s *JobService) Import(ctx context.Context, ownerID string, req dtos.ImportRequest) ([]models.Job, error) {
	now := s.Now()
	if err := dtos.ValidateImport(&req, now); err != nil {
		return nil, err
	}
	jobs := make([]models.Job, 0, len(req.Jobs))
	for _, item := range req.Jobs {
		job, err := lifecycle.CreateFromPayload(ownerID, item.JobCreationRequest, now)
		if err != nil {
			return nil, err
		}
		if item.CreatedAt != nil {
			job.CreatedAt = *item.CreatedAt
		}
		if item.UpdatedAt != nil {
			job.UpdatedAt = *item.UpdatedAt
		}
		jobs = append(jobs, job)
	}
	if err := s.store.ReplaceAll(ctx, ownerID, jobs); err != nil {
		return nil, err
	}
	s.log.Info("jobs imported", "user_id", ownerID, "count", len(jobs))
	return s.store.FindAll(ctx, ownerID, filter.Criteria{})
}

// Export returns the full collection, archived records included.
func (s *JobService) Export(ctx context.Context, ownerID string) (dtos.ExportDocument, error) {
	jobs, err := s.store.FindAll(ctx, ownerID, filter.Criteria{})
	if err != nil {
		return dtos.ExportDocument{}, err
	}
	return dtos.ExportDocument{ExportedAt: s.Now().UTC(), Jobs: jobs}, nil
}
