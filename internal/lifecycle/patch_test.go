package lifecycle

import (
	"errors"
	"testing"

	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"github.com/justsurfingit/jobhunter/internal/dtos"
	"github.com/justsurfingit/jobhunter/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestApplyPatchDateThenStatus(t *testing.T) {
	t.Parallel()

	job := newJob(t, nil)
	got, err := ApplyPatch(job, dtos.JobPatchRequest{
		Date:   ptr("2024-01-08"),
		Status: ptr(models.StatusInterview),
		Notes:  []string{"recruiter replied"},
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Date != "2024-01-08" || got.Status != models.StatusInterview {
		t.Fatalf("fields not applied: %+v", got)
	}
	if len(got.History) != 2 || got.History[0].Subtitle != "Jan 08, 2024" || got.History[1].Title != "Status changed to Interview" {
		t.Fatalf("history = %+v", got.History)
	}
	if len(got.Notes) != 1 {
		t.Fatalf("notes = %v", got.Notes)
	}
	if job.Date != "2024-01-10" {
		t.Fatal("input record was mutated")
	}
}

func TestApplyPatchHistoryDisablesSynthesis(t *testing.T) {
	t.Parallel()

	job := newJob(t, nil)
	got, err := ApplyPatch(job, dtos.JobPatchRequest{
		Status:  ptr(models.StatusRejected),
		History: []dtos.HistoryEntryRequest{{Title: "Imported", CreatedAt: "2024-01-02"}},
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusRejected || len(got.History) != 1 || got.History[0].Title != "Imported" {
		t.Fatalf("history must be replaced verbatim: %+v", got.History)
	}
}

func TestApplyPatchClearsOptionalFields(t *testing.T) {
	t.Parallel()

	job := newJob(t, func(r *dtos.JobCreationRequest) {
		r.NextFollowUpAt = "2024-01-20T09:00:00Z"
		r.WorkModel = models.WorkModelRemote
	})
	if job.NextFollowUpAt == nil {
		t.Fatal("follow-up not set on create")
	}
	got, err := ApplyPatch(job, dtos.JobPatchRequest{
		NextFollowUpAt: ptr(""),
		WorkModel:      ptr(models.WorkModel("")),
		Resources:      []dtos.ResourceRequest{},
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.NextFollowUpAt != nil || got.WorkModel != "" || got.Resources == nil || len(got.Resources) != 0 {
		t.Fatalf("fields not cleared: %+v", got)
	}
	if job.NextFollowUpAt == nil {
		t.Fatal("input record was mutated")
	}
}

func TestApplyPatchRejectsInvalid(t *testing.T) {
	t.Parallel()

	job := newJob(t, nil)
	_, err := ApplyPatch(job, dtos.JobPatchRequest{Title: ptr("  "), Track: ptr(models.Track("DATA"))}, now)
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected two field errors, got %v", err)
	}
}

func TestApplyPatchWithHistoryRejectsBlankStatusAndDate(t *testing.T) {
	t.Parallel()

	job := newJob(t, nil)
	_, err := ApplyPatch(job, dtos.JobPatchRequest{
		Status:  ptr(models.Status("")),
		Date:    ptr(""),
		History: []dtos.HistoryEntryRequest{},
	}, now)
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected status and date errors, got %v", err)
	}
}
