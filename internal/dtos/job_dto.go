package dtos

import (
	"strings"
	"time"

	"github.com/justsurfingit/jobhunter/internal/models"
)

// JobExtractionRequest carries a raw job posting for LLM extraction.
type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" validate:"required"`
	URL     string `json:"url"`
}

type ResourceRequest struct {
	Label string `json:"label" validate:"required"`
	Href  string `json:"href"`
}

type HistoryEntryRequest struct {
	Title     string `json:"title" validate:"required"`
	Subtitle  string `json:"subtitle"`
	Icon      string `json:"icon"`
	CreatedAt string `json:"createdAt" validate:"isodate"`
}

// JobCreationRequest is the payload for a new job record. Optional string
// fields stay empty when absent; Date and Priority are defaulted by
// ValidateCreate.
type JobCreationRequest struct {
	Title   string        `json:"title" validate:"required"`
	Company string        `json:"company" validate:"required"`
	Track   models.Track  `json:"track" validate:"required,track"`
	Status  models.Status `json:"status" validate:"required,status"`
	Date    string        `json:"date" validate:"isodate"`

	Location         string                `json:"location"`
	ExternalLink     string                `json:"externalLink"`
	EmploymentType   models.EmploymentType `json:"employmentType" validate:"employment"`
	WorkModel        models.WorkModel      `json:"workModel" validate:"workmodel"`
	Seniority        models.Seniority      `json:"seniority" validate:"seniority"`
	Description      string                `json:"description"`
	Responsibilities []string              `json:"responsibilities"`
	Benefits         []string              `json:"benefits"`
	AdditionalInfo   string                `json:"additionalInfo"`
	RecruiterName    string                `json:"recruiterName"`
	PostedAt         string                `json:"postedAt" validate:"isodate"`
	CVVersion        string                `json:"cvVersion"`

	Priority       models.Priority `json:"priority" validate:"priority"`
	Notes          []string        `json:"notes"`
	MessageSent    bool            `json:"messageSent"`
	NextFollowUpAt string          `json:"nextFollowUpAt" validate:"isodate"`
	LastContactAt  string          `json:"lastContactAt" validate:"isodate"`

	Resources []ResourceRequest     `json:"resources" validate:"dive"`
	Reminders []string              `json:"reminders"`
	History   []HistoryEntryRequest `json:"history" validate:"dive"`
	Archived  bool                  `json:"archived"`
}

func (r *JobCreationRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Company = strings.TrimSpace(r.Company)
	r.Date = strings.TrimSpace(r.Date)
	r.Resources = trimResources(r.Resources)
	r.History = trimHistory(r.History)
}

// trimResources and trimHistory copy before trimming; request slices may be
// shared with the caller.
func trimResources(in []ResourceRequest) []ResourceRequest {
	if in == nil {
		return nil
	}
	out := make([]ResourceRequest, len(in))
	for i, r := range in {
		r.Label = strings.TrimSpace(r.Label)
		out[i] = r
	}
	return out
}

func trimHistory(in []HistoryEntryRequest) []HistoryEntryRequest {
	if in == nil {
		return nil
	}
	out := make([]HistoryEntryRequest, len(in))
	for i, e := range in {
		e.Title = strings.TrimSpace(e.Title)
		out[i] = e
	}
	return out
}

func (r *JobCreationRequest) fillLists() {
	for _, l := range []*[]string{&r.Responsibilities, &r.Benefits, &r.Notes, &r.Reminders} {
		if *l == nil {
			*l = []string{}
		}
	}
	if r.Resources == nil {
		r.Resources = []ResourceRequest{}
	}
}

// JobPatchRequest is a partial update. Nil scalars and nil lists are absent;
// an empty list clears the field. A non-nil History replaces the timeline.
// Required fields use min=1 because "required" is satisfied by any non-nil
// pointer.
type JobPatchRequest struct {
	Title   *string        `json:"title" validate:"omitnil,min=1"`
	Company *string        `json:"company" validate:"omitnil,min=1"`
	Track   *models.Track  `json:"track" validate:"omitnil,min=1,track"`
	Status  *models.Status `json:"status" validate:"omitnil,min=1,status"`
	Date    *string        `json:"date" validate:"omitnil,min=1,isodate"`

	Location         *string                `json:"location"`
	ExternalLink     *string                `json:"externalLink"`
	EmploymentType   *models.EmploymentType `json:"employmentType" validate:"omitnil,employment"`
	WorkModel        *models.WorkModel      `json:"workModel" validate:"omitnil,workmodel"`
	Seniority        *models.Seniority      `json:"seniority" validate:"omitnil,seniority"`
	Description      *string                `json:"description"`
	Responsibilities []string               `json:"responsibilities"`
	Benefits         []string               `json:"benefits"`
	AdditionalInfo   *string                `json:"additionalInfo"`
	RecruiterName    *string                `json:"recruiterName"`
	PostedAt         *string                `json:"postedAt" validate:"omitnil,isodate"`
	CVVersion        *string                `json:"cvVersion"`

	Priority       *models.Priority `json:"priority" validate:"omitnil,min=1,priority"`
	Notes          []string         `json:"notes"`
	MessageSent    *bool            `json:"messageSent"`
	NextFollowUpAt *string          `json:"nextFollowUpAt" validate:"omitnil,isodate"`
	LastContactAt  *string          `json:"lastContactAt" validate:"omitnil,isodate"`

	Resources []ResourceRequest     `json:"resources" validate:"dive"`
	Reminders []string              `json:"reminders"`
	History   []HistoryEntryRequest `json:"history" validate:"dive"`
	Archived  *bool                 `json:"archived"`
}

func (r *JobPatchRequest) normalize() {
	r.Title = trimmed(r.Title)
	r.Company = trimmed(r.Company)
	r.Date = trimmed(r.Date)
	r.Resources = trimResources(r.Resources)
	r.History = trimHistory(r.History)
}

type StatusChangeRequest struct {
	Status models.Status `json:"status" validate:"required,status"`
}

type DateChangeRequest struct {
	Date string `json:"date" validate:"required,isodate"`
}

// TextRequest carries a single reminder or note.
type TextRequest struct {
	Text string `json:"text" validate:"required"`
}

// ImportedJob is one record of an import document. Timestamps are kept when
// supplied.
type ImportedJob struct {
	JobCreationRequest
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// ImportRequest replaces the whole collection of the caller.
type ImportRequest struct {
	Jobs []ImportedJob `json:"jobs" validate:"required,dive"`
}

// ExportDocument is the body of GET /jobs/export; it is accepted back by
// the import endpoint.
type ExportDocument struct {
	ExportedAt time.Time    `json:"exportedAt"`
	Jobs       []models.Job `json:"jobs"`
}
