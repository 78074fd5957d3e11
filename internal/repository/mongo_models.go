package repository

import (
	"time"

	"github.com/justsurfingit/jobhunter/internal/models"
	"gorm.io/datatypes"
)

type jobDocument struct {
	ID        string    `bson:"_id"`
	OwnerID   string    `bson:"owner_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`

	Title   string `bson:"title"`
	Company string `bson:"company"`
	Track   string `bson:"track"`
	Status  string `bson:"status"`
	Date    string `bson:"date"`

	Location         string     `bson:"location,omitempty"`
	ExternalLink     string     `bson:"external_link,omitempty"`
	EmploymentType   string     `bson:"employment_type,omitempty"`
	WorkModel        string     `bson:"work_model,omitempty"`
	Seniority        string     `bson:"seniority,omitempty"`
	Description      string     `bson:"description,omitempty"`
	Responsibilities []string   `bson:"responsibilities"`
	Benefits         []string   `bson:"benefits"`
	AdditionalInfo   string     `bson:"additional_info,omitempty"`
	RecruiterName    string     `bson:"recruiter_name,omitempty"`
	PostedAt         *time.Time `bson:"posted_at,omitempty"`
	CVVersion        string     `bson:"cv_version,omitempty"`

	Priority       string     `bson:"priority"`
	Notes          []string   `bson:"notes"`
	MessageSent    bool       `bson:"message_sent"`
	NextFollowUpAt *time.Time `bson:"next_follow_up_at,omitempty"`
	LastContactAt  *time.Time `bson:"last_contact_at,omitempty"`

	Resources []resourceDocument `bson:"resources"`
	Reminders []string           `bson:"reminders"`
	History   []timelineDocument `bson:"history"`
	Archived  bool               `bson:"archived"`
}

type resourceDocument struct {
	Label string `bson:"label"`
	Href  string `bson:"href,omitempty"`
}

type timelineDocument struct {
	Title     string `bson:"title"`
	Subtitle  string `bson:"subtitle"`
	Icon      string `bson:"icon,omitempty"`
	CreatedAt string `bson:"created_at,omitempty"`
}

func toJobDocument(j *models.Job) *jobDocument {
	d := &jobDocument{
		ID:               j.ID,
		OwnerID:          j.OwnerID,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
		Title:            j.Title,
		Company:          j.Company,
		Track:            string(j.Track),
		Status:           string(j.Status),
		Date:             j.Date,
		Location:         j.Location,
		ExternalLink:     j.ExternalLink,
		EmploymentType:   string(j.EmploymentType),
		WorkModel:        string(j.WorkModel),
		Seniority:        string(j.Seniority),
		Description:      j.Description,
		Responsibilities: nonNil(j.Responsibilities),
		Benefits:         nonNil(j.Benefits),
		AdditionalInfo:   j.AdditionalInfo,
		RecruiterName:    j.RecruiterName,
		PostedAt:         j.PostedAt,
		CVVersion:        j.CVVersion,
		Priority:         string(j.Priority),
		Notes:            nonNil(j.Notes),
		MessageSent:      j.MessageSent,
		NextFollowUpAt:   j.NextFollowUpAt,
		LastContactAt:    j.LastContactAt,
		Reminders:        nonNil(j.Reminders),
		Archived:         j.Archived,
		Resources:        make([]resourceDocument, len(j.Resources)),
		History:          make([]timelineDocument, len(j.History)),
	}
	for i, r := range j.Resources {
		d.Resources[i] = resourceDocument{Label: r.Label, Href: r.Href}
	}
	for i, e := range j.History {
		d.History[i] = timelineDocument{Title: e.Title, Subtitle: e.Subtitle, Icon: e.Icon, CreatedAt: e.CreatedAt}
	}
	return d
}

func fromJobDocument(d *jobDocument) models.Job {
	j := models.Job{
		ID:               d.ID,
		OwnerID:          d.OwnerID,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		Title:            d.Title,
		Company:          d.Company,
		Track:            models.Track(d.Track),
		Status:           models.Status(d.Status),
		Date:             d.Date,
		Location:         d.Location,
		ExternalLink:     d.ExternalLink,
		EmploymentType:   models.EmploymentType(d.EmploymentType),
		WorkModel:        models.WorkModel(d.WorkModel),
		Seniority:        models.Seniority(d.Seniority),
		Description:      d.Description,
		Responsibilities: datatypes.JSONSlice[string](d.Responsibilities),
		Benefits:         datatypes.JSONSlice[string](d.Benefits),
		AdditionalInfo:   d.AdditionalInfo,
		RecruiterName:    d.RecruiterName,
		PostedAt:         d.PostedAt,
		CVVersion:        d.CVVersion,
		Priority:         models.Priority(d.Priority),
		Notes:            datatypes.JSONSlice[string](d.Notes),
		MessageSent:      d.MessageSent,
		NextFollowUpAt:   d.NextFollowUpAt,
		LastContactAt:    d.LastContactAt,
		Reminders:        datatypes.JSONSlice[string](d.Reminders),
		Archived:         d.Archived,
		Resources:        make(datatypes.JSONSlice[models.Resource], len(d.Resources)),
		History:          make(datatypes.JSONSlice[models.TimelineEntry], len(d.History)),
	}
	for i, r := range d.Resources {
		j.Resources[i] = models.Resource{Label: r.Label, Href: r.Href}
	}
	for i, e := range d.History {
		j.History[i] = models.TimelineEntry{Title: e.Title, Subtitle: e.Subtitle, Icon: e.Icon, CreatedAt: e.CreatedAt}
	}
	j.Normalize()
	return j
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

type userDocument struct {
	ID            string    `bson:"_id"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
	Name          string    `bson:"name"`
	Email         string    `bson:"email"`
	PasswordHash  string    `bson:"password_hash"`
	Avatar        string    `bson:"avatar,omitempty"`
	LastHistoryID int64     `bson:"last_history_id"`
}

func toUserDocument(u *models.User) *userDocument {
	return &userDocument{
		ID:            u.ID,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		Name:          u.Name,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Avatar:        u.Avatar,
		LastHistoryID: int64(u.LastHistoryID),
	}
}

func fromUserDocument(d *userDocument) *models.User {
	return &models.User{
		ID:            d.ID,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Avatar:        d.Avatar,
		LastHistoryID: uint64(d.LastHistoryID),
	}
}
