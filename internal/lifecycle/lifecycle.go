// Package lifecycle computes the next state of a job record. Every function
// takes the current record by value and returns a new one; inputs are never
// mutated and nothing here performs I/O. Timestamps are derived from the now
// argument, and bare calendar dates are read in now's location.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"github.com/justsurfingit/jobhunter/internal/dtos"
	"github.com/justsurfingit/jobhunter/internal/models"
	"gorm.io/datatypes"
)

const (
	TitleSubmitted  = "Application submitted"
	TitleArchived   = "Application archived"
	TitleUnarchived = "Application unarchived"
)

func timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

func submittedEntry(date string, loc *time.Location, createdAt string) models.TimelineEntry {
	return models.TimelineEntry{
		Title:     TitleSubmitted,
		Subtitle:  models.DisplayDate(date, loc),
		Icon:      models.IconCheck,
		CreatedAt: createdAt,
	}
}

// dateStamp is the createdAt of a submitted entry derived from the record's
// date rather than from the moment of the edit.
func dateStamp(date string, loc *time.Location) string {
	t, err := models.ParseTime(date, loc)
	if err != nil {
		return ""
	}
	return timestamp(t)
}

func submittedIndex(history []models.TimelineEntry) int {
	for i, e := range history {
		if e.Title == TitleSubmitted || e.Icon == models.IconCheck {
			return i
		}
	}
	return -1
}

// CreateFromPayload validates req and builds a new record for ownerID. When
// the payload carries no history the timeline starts with a single
// "Application submitted" entry stamped with now.
func CreateFromPayload(ownerID string, req dtos.JobCreationRequest, now time.Time) (models.Job, error) {
	if err := dtos.ValidateCreate(&req, now); err != nil {
		return models.Job{}, err
	}
	loc := now.Location()

	job := models.Job{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		Title:            req.Title,
		Company:          req.Company,
		Track:            req.Track,
		Status:           req.Status,
		Date:             req.Date,
		Location:         req.Location,
		ExternalLink:     req.ExternalLink,
		EmploymentType:   req.EmploymentType,
		WorkModel:        req.WorkModel,
		Seniority:        req.Seniority,
		Description:      req.Description,
		Responsibilities: append(datatypes.JSONSlice[string]{}, req.Responsibilities...),
		Benefits:         append(datatypes.JSONSlice[string]{}, req.Benefits...),
		AdditionalInfo:   req.AdditionalInfo,
		RecruiterName:    req.RecruiterName,
		PostedAt:         optionalTime(req.PostedAt, loc),
		CVVersion:        req.CVVersion,
		Priority:         req.Priority,
		Notes:            append(datatypes.JSONSlice[string]{}, req.Notes...),
		MessageSent:      req.MessageSent,
		NextFollowUpAt:   optionalTime(req.NextFollowUpAt, loc),
		LastContactAt:    optionalTime(req.LastContactAt, loc),
		Resources:        resourcesFrom(req.Resources),
		Reminders:        append(datatypes.JSONSlice[string]{}, req.Reminders...),
		Archived:         req.Archived,
	}
	if len(req.History) == 0 {
		job.History = datatypes.JSONSlice[models.TimelineEntry]{submittedEntry(job.Date, loc, timestamp(now))}
	} else {
		job.History = historyFrom(req.History)
	}
	job.Normalize()
	return job, nil
}

// ChangeStatus moves the record to status and records the transition. Setting
// the current status again returns the record unchanged. A record without any
// history first gets its "Application submitted" entry, dated from Date.
func ChangeStatus(job models.Job, status models.Status, now time.Time) (models.Job, error) {
	if !status.Valid() {
		return job, apperrors.NewValidationError("status", "unknown status "+string(status))
	}
	if status == job.Status {
		return job, nil
	}
	out := job.Clone()
	loc := now.Location()
	if len(out.History) == 0 {
		out.History = append(out.History, submittedEntry(out.Date, loc, dateStamp(out.Date, loc)))
	}
	out.History = append(out.History, models.TimelineEntry{
		Title:     "Status changed to " + string(status),
		Subtitle:  fmt.Sprintf("Changed from %q to %q on %s", string(job.Status), string(status), now.Format("Jan 02, 2006")),
		Icon:      models.IconActivity,
		CreatedAt: timestamp(now),
	})
	out.Status = status
	return out, nil
}

// ChangeDate sets the application date and rewrites the "Application
// submitted" entry to match, prepending one when the timeline lacks it. This
// is the only in-place edit the timeline allows.
func ChangeDate(job models.Job, date string, now time.Time) (models.Job, error) {
	date = strings.TrimSpace(date)
	loc := now.Location()
	if _, err := models.ParseTime(date, loc); err != nil {
		return job, apperrors.NewValidationError("date", "must be an ISO-8601 date or timestamp")
	}
	out := job.Clone()
	out.Date = date
	if i := submittedIndex(out.History); i >= 0 {
		out.History[i].Subtitle = models.DisplayDate(date, loc)
		out.History[i].CreatedAt = dateStamp(date, loc)
		return out, nil
	}
	history := make(datatypes.JSONSlice[models.TimelineEntry], 0, len(out.History)+1)
	history = append(history, submittedEntry(date, loc, dateStamp(date, loc)))
	out.History = append(history, out.History...)
	return out, nil
}

// ToggleArchive flips the archived flag and records it. Status is left as is.
func ToggleArchive(job models.Job, now time.Time) models.Job {
	out := job.Clone()
	out.Archived = !out.Archived
	title := TitleUnarchived
	if out.Archived {
		title = TitleArchived
	}
	out.History = append(out.History, models.TimelineEntry{
		Title:     title,
		Subtitle:  "Status: " + string(out.Status),
		Icon:      models.IconActivity,
		CreatedAt: timestamp(now),
	})
	return out
}

// AppendHistoryEntry adds a user supplied event to the end of the timeline.
// Missing icon and createdAt default to the clock icon and now.
func AppendHistoryEntry(job models.Job, entry dtos.HistoryEntryRequest, now time.Time) (models.Job, error) {
	entry.Title = strings.TrimSpace(entry.Title)
	if err := dtos.Struct(&entry); err != nil {
		return job, err
	}
	e := historyEntry(entry)
	if e.Icon == "" {
		e.Icon = models.IconClock
	}
	if e.CreatedAt == "" {
		e.CreatedAt = timestamp(now)
	}
	out := job.Clone()
	out.History = append(out.History, e)
	return out, nil
}

// RemoveHistoryEntry drops the entry at index. The "Application submitted"
// entry is the timeline's anchor and cannot be removed.
func RemoveHistoryEntry(job models.Job, index int) (models.Job, error) {
	if index < 0 || index >= len(job.History) {
		return job, indexError("index", index, len(job.History))
	}
	if submittedIndex(job.History) == index {
		return job, apperrors.NewValidationError("index", "the application submitted entry cannot be removed")
	}
	out := job.Clone()
	out.History = append(out.History[:index], out.History[index+1:]...)
	return out, nil
}

func indexError(field string, index, n int) error {
	return apperrors.NewValidationError(field, fmt.Sprintf("index %d out of range [0, %d)", index, n))
}

func optionalTime(s string, loc *time.Location) *time.Time {
	if s == "" {
		return nil
	}
	t, err := models.ParseTime(s, loc)
	if err != nil {
		return nil
	}
	return &t
}

func historyEntry(e dtos.HistoryEntryRequest) models.TimelineEntry {
	return models.TimelineEntry{Title: e.Title, Subtitle: e.Subtitle, Icon: e.Icon, CreatedAt: e.CreatedAt}
}

func historyFrom(in []dtos.HistoryEntryRequest) datatypes.JSONSlice[models.TimelineEntry] {
	out := make(datatypes.JSONSlice[models.TimelineEntry], len(in))
	for i, e := range in {
		out[i] = historyEntry(e)
	}
	return out
}

func resourcesFrom(in []dtos.ResourceRequest) datatypes.JSONSlice[models.Resource] {
	out := make(datatypes.JSONSlice[models.Resource], len(in))
	for i, r := range in {
		out[i] = models.Resource{Label: r.Label, Href: r.Href}
	}
	return out
}
