package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Avatar       string `json:"avatar,omitempty"`

	// Gmail History API bookmark for the e-mail watcher.
	LastHistoryID uint64 `json:"-"`
}

// Resource is an external reference link attached to a job.
type Resource struct {
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
}

// TimelineEntry is one event of a job's history. CreatedAt is an ISO-8601
// string, kept verbatim so client supplied timelines round-trip unchanged.
type TimelineEntry struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Icon      string `json:"icon,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Job is one job application record.
type Job struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string    `gorm:"size:36;index;not null" json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title   string `gorm:"not null" json:"title"`
	Company string `gorm:"not null" json:"company"`
	Track   Track  `gorm:"size:32" json:"track"`
	Status  Status `gorm:"size:32;index" json:"status"`
	// Date is the application date: a calendar date or a timestamp string.
	Date string `gorm:"size:40;index" json:"date"`

	Location         string                      `json:"location,omitempty"`
	ExternalLink     string                      `json:"externalLink,omitempty"`
	EmploymentType   EmploymentType              `gorm:"size:32" json:"employmentType,omitempty"`
	WorkModel        WorkModel                   `gorm:"size:32" json:"workModel,omitempty"`
	Seniority        Seniority                   `gorm:"size:32" json:"seniority,omitempty"`
	Description      string                      `gorm:"type:text" json:"description,omitempty"`
	Responsibilities datatypes.JSONSlice[string] `json:"responsibilities"`
	Benefits         datatypes.JSONSlice[string] `json:"benefits"`
	AdditionalInfo   string                      `gorm:"type:text" json:"additionalInfo,omitempty"`
	RecruiterName    string                      `json:"recruiterName,omitempty"`
	PostedAt         *time.Time                  `json:"postedAt,omitempty"`
	CVVersion        string                      `json:"cvVersion,omitempty"`

	Priority       Priority                    `gorm:"size:8" json:"priority"`
	Notes          datatypes.JSONSlice[string] `json:"notes"`
	MessageSent    bool                        `json:"messageSent"`
	NextFollowUpAt *time.Time                  `json:"nextFollowUpAt,omitempty"`
	LastContactAt  *time.Time                  `json:"lastContactAt,omitempty"`

	Resources datatypes.JSONSlice[Resource]      `json:"resources"`
	Reminders datatypes.JSONSlice[string]        `json:"reminders"`
	History   datatypes.JSONSlice[TimelineEntry] `json:"history"`

	Archived bool `gorm:"index" json:"archived"`
}

// Normalize replaces nil lists with empty ones so records never carry null
// lists on the wire or in JSON columns.
func (j *Job) Normalize() {
	if j.Responsibilities == nil {
		j.Responsibilities = datatypes.JSONSlice[string]{}
	}
	if j.Benefits == nil {
		j.Benefits = datatypes.JSONSlice[string]{}
	}
	if j.Notes == nil {
		j.Notes = datatypes.JSONSlice[string]{}
	}
	if j.Resources == nil {
		j.Resources = datatypes.JSONSlice[Resource]{}
	}
	if j.Reminders == nil {
		j.Reminders = datatypes.JSONSlice[string]{}
	}
	if j.History == nil {
		j.History = datatypes.JSONSlice[TimelineEntry]{}
	}
}

// Clone returns a deep copy; list fields and time pointers are not shared.
func (j Job) Clone() Job {
	c := j
	c.Responsibilities = append(datatypes.JSONSlice[string]{}, j.Responsibilities...)
	c.Benefits = append(datatypes.JSONSlice[string]{}, j.Benefits...)
	c.Notes = append(datatypes.JSONSlice[string]{}, j.Notes...)
	c.Resources = append(datatypes.JSONSlice[Resource]{}, j.Resources...)
	c.Reminders = append(datatypes.JSONSlice[string]{}, j.Reminders...)
	c.History = append(datatypes.JSONSlice[TimelineEntry]{}, j.History...)
	c.PostedAt = cloneTime(j.PostedAt)
	c.NextFollowUpAt = cloneTime(j.NextFollowUpAt)
	c.LastContactAt = cloneTime(j.LastContactAt)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// ProcessedEmail marks a Gmail message as already handled by the watcher.
type ProcessedEmail struct {
	ID        string `gorm:"primaryKey"`
	OwnerID   string `gorm:"size:36;index"`
	CreatedAt time.Time
}
