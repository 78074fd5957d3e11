package lifecycle

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"github.com/justsurfingit/jobhunter/internal/dtos"
	"github.com/justsurfingit/jobhunter/internal/models"
	"gorm.io/datatypes"
)

var now = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func newJob(t *testing.T, mutate func(*dtos.JobCreationRequest)) models.Job {
	t.Helper()
	req := dtos.JobCreationRequest{
		Title:   "Backend Engineer",
		Company: "Acme",
		Track:   models.TrackFullStack,
		Status:  models.StatusApplied,
		Date:    "2024-01-10",
	}
	if mutate != nil {
		mutate(&req)
	}
	job, err := CreateFromPayload("owner-1", req, now)
	if err != nil {
		t.Fatalf("CreateFromPayload: %v", err)
	}
	return job
}

func TestCreateFromPayload(t *testing.T) {
	t.Parallel()

	job := newJob(t, nil)
	if job.ID == "" || job.OwnerID != "owner-1" {
		t.Fatalf("identity not assigned: %+v", job)
	}
	if job.Priority != models.PriorityMedium || job.Archived {
		t.Fatalf("defaults not applied: priority=%s archived=%v", job.Priority, job.Archived)
	}
	want := datatypes.JSONSlice[models.TimelineEntry]{{
		Title:     TitleSubmitted,
		Subtitle:  "Jan 10, 2024",
		Icon:      models.IconCheck,
		CreatedAt: "2024-01-15T00:00:00Z",
	}}
	if !reflect.DeepEqual(job.History, want) {
		t.Fatalf("history = %+v, want %+v", job.History, want)
	}
}

func TestCreateFromPayloadDefaultsDate(t *testing.T) {
	t.Parallel()

	job := newJob(t, func(r *dtos.JobCreationRequest) { r.Date = "" })
	if job.Date != "2024-01-15" {
		t.Fatalf("date = %q, want today", job.Date)
	}
	if len(job.History) != 1 {
		t.Fatalf("history length = %d", len(job.History))
	}
}

func TestCreateFromPayloadKeepsSuppliedHistory(t *testing.T) {
	t.Parallel()

	job := newJob(t, func(r *dtos.JobCreationRequest) {
		r.History = []dtos.HistoryEntryRequest{
			{Title: "Found on LinkedIn", CreatedAt: "2024-01-01"},
			{Title: "Referral sent"},
		}
	})
	if len(job.History) != 2 || job.History[0].Title != "Found on LinkedIn" {
		t.Fatalf("supplied history not kept: %+v", job.History)
	}
}

func TestCreateFromPayloadRejectsInvalid(t *testing.T) {
	t.Parallel()

	_, err := CreateFromPayload("owner-1", dtos.JobCreationRequest{Title: "x", Track: "AI", Status: "Maybe"}, now)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChangeStatusNoOp(t *testing.T) {
	t.Parallel()

	job := newJob(t, nil)
	got, err := ChangeStatus(job, job.Status, now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, job) {
		t.Fatalf("same status must be a no-op")
	}
}

func TestChangeStatusAppendsInOrder(t *testing.T) {
	t.Parallel()

	job := newJob(t, nil)
	first, err := ChangeStatus(job, models.StatusInterview, now)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ChangeStatus(first, models.StatusOffer, now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(second.History) != len(job.History)+2 {
		t.Fatalf("history length = %d", len(second.History))
	}
	tail := second.History[len(second.History)-2:]
	if tail[0].Title != "Status changed to Interview" || tail[1].Title != "Status changed to Offer" {
		t.Fatalf("entries out of order: %+v", tail)
	}
	if tail[1].Subtitle != `Changed from "Interview" to "Offer" on Jan 15, 2024` {
		t.Fatalf("subtitle = %q", tail[1].Subtitle)
	}
	if len(job.History) != 1 || job.Status != models.StatusApplied {
		t.Fatal("input record was mutated")
	}
}

func TestChangeStatusSeedsEmptyHistory(t *testing.T) {
	t.Parallel()

	job := models.Job{Status: models.StatusApplied, Date: "2024-01-10"}
	got, err := ChangeStatus(job, models.StatusInterview, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.History) != 2 {
		t.Fatalf("history = %+v", got.History)
	}
	submitted, changed := got.History[0], got.History[1]
	if submitted.Title != TitleSubmitted || submitted.Subtitle != "Jan 10, 2024" || submitted.CreatedAt != "2024-01-10T00:00:00Z" {
		t.Fatalf("submitted entry = %+v", submitted)
	}
	if changed.Title != "Status changed to Interview" || changed.CreatedAt != "2024-01-15T00:00:00Z" {
		t.Fatalf("status entry = %+v", changed)
	}
	if got.Status != models.StatusInterview {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestChangeStatusRejectsUnknown(t *testing.T) {
	t.Parallel()

	if _, err := ChangeStatus(newJob(t, nil), "Ghosted", now); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChangeDateIsIdempotent(t *testing.T) {
	t.Parallel()

	job := newJob(t, nil)
	job, _ = ChangeStatus(job, models.StatusInterview, now)

	once, err := ChangeDate(job, "2024-01-05", now)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := ChangeDate(once, "2024-01-05", now)
	if err != nil {
		t.Fatal(err)
	}
	if len(twice.History) != len(job.History) {
		t.Fatalf("history grew from %d to %d", len(job.History), len(twice.History))
	}
	if twice.Date != "2024-01-05" || twice.History[0].Subtitle != "Jan 05, 2024" || twice.History[0].CreatedAt != "2024-01-05T00:00:00Z" {
		t.Fatalf("submitted entry not rewritten: %+v", twice.History[0])
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatal("second call changed the record")
	}
}

func TestChangeDatePrependsMissingEntry(t *testing.T) {
	t.Parallel()

	job := models.Job{Date: "2024-01-10", History: datatypes.JSONSlice[models.TimelineEntry]{{Title: "Call", Icon: models.IconClock}}}
	got, err := ChangeDate(job, "2024-01-08", now)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.History) != 2 || got.History[0].Title != TitleSubmitted || got.History[1].Title != "Call" {
		t.Fatalf("history = %+v", got.History)
	}
	if _, err := ChangeDate(job, "soon", now); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestToggleArchiveTwice(t *testing.T) {
	t.Parallel()

	job := newJob(t, func(r *dtos.JobCreationRequest) { r.Status = models.StatusInterview })
	archived := ToggleArchive(job, now)
	if !archived.Archived || archived.Status != models.StatusInterview {
		t.Fatalf("archive must keep status: %+v", archived)
	}
	last := archived.History[len(archived.History)-1]
	if last.Title != TitleArchived || last.Subtitle != "Status: Interview" {
		t.Fatalf("archive entry = %+v", last)
	}

	restored := ToggleArchive(archived, now)
	if restored.Archived != job.Archived {
		t.Fatal("archived flag not restored")
	}
	if len(restored.History) != len(job.History)+2 {
		t.Fatalf("expected two more entries, got %d", len(restored.History)-len(job.History))
	}
	if restored.History[len(restored.History)-1].Title != TitleUnarchived {
		t.Fatalf("unarchive entry = %+v", restored.History[len(restored.History)-1])
	}
}

func TestHistoryEntries(t *testing.T) {
	t.Parallel()

	job := newJob(t, nil)
	job, err := AppendHistoryEntry(job, dtos.HistoryEntryRequest{Title: "Phone screen"}, now)
	if err != nil {
		t.Fatal(err)
	}
	added := job.History[1]
	if added.Icon != models.IconClock || added.CreatedAt != "2024-01-15T00:00:00Z" {
		t.Fatalf("defaults not applied: %+v", added)
	}
	if _, err := AppendHistoryEntry(job, dtos.HistoryEntryRequest{Title: " "}, now); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("blank title must be rejected, got %v", err)
	}

	tests := []struct {
		name  string
		index int
	}{
		{"submitted entry", 0},
		{"negative", -1},
		{"past the end", 2},
	}
	for _, tt := range tests {
		if _, err := RemoveHistoryEntry(job, tt.index); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", tt.name, err)
		}
	}

	got, err := RemoveHistoryEntry(job, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.History) != 1 || len(job.History) != 2 {
		t.Fatalf("removal wrong: got %d entries, input %d", len(got.History), len(job.History))
	}
}

func TestListOperations(t *testing.T) {
	t.Parallel()

	job := newJob(t, nil)
	historyLen := len(job.History)

	job, err := AddResource(job, dtos.ResourceRequest{Label: "Posting", Href: "https://acme.dev/jobs/1"})
	if err != nil {
		t.Fatal(err)
	}
	job, _ = AddReminder(job, "send thank-you note")
	job, _ = AddNote(job, "team uses Go")
	job, _ = AddNote(job, "salary negotiable")

	if len(job.Resources) != 1 || len(job.Reminders) != 1 || len(job.Notes) != 2 {
		t.Fatalf("lists = %+v %+v %+v", job.Resources, job.Reminders, job.Notes)
	}
	if len(job.History) != historyLen {
		t.Fatal("list operations must not touch history")
	}

	job, err = RemoveNote(job, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(job.Notes) != 1 || job.Notes[0] != "salary negotiable" {
		t.Fatalf("notes = %v", job.Notes)
	}
	if _, err := RemoveReminder(job, 3); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := AddResource(job, dtos.ResourceRequest{Href: "https://x"}); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("resource without label must be rejected, got %v", err)
	}
	if _, err := AddReminder(job, "  "); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("blank reminder must be rejected, got %v", err)
	}
	job, _ = RemoveResource(job, 0)
	job, _ = RemoveReminder(job, 0)
	if len(job.Resources) != 0 || len(job.Reminders) != 0 {
		t.Fatal("positional removal failed")
	}
}
