package lifecycle

import (
	"time"

	"github.com/justsurfingit/jobhunter/internal/dtos"
	"github.com/justsurfingit/jobhunter/internal/models"
	"gorm.io/datatypes"
)

// ApplyPatch applies a partial update. A patch carrying history replaces the
// timeline verbatim and sets date and status without synthesizing entries.
// Otherwise a date change runs through ChangeDate first and a status change
// through ChangeStatus after it.
func ApplyPatch(job models.Job, patch dtos.JobPatchRequest, now time.Time) (models.Job, error) {
	if err := dtos.ValidatePatch(&patch); err != nil {
		return job, err
	}
	loc := now.Location()
	out := job.Clone()

	setString(&out.Title, patch.Title)
	setString(&out.Company, patch.Company)
	setString(&out.Location, patch.Location)
	setString(&out.ExternalLink, patch.ExternalLink)
	setString(&out.Description, patch.Description)
	setString(&out.AdditionalInfo, patch.AdditionalInfo)
	setString(&out.RecruiterName, patch.RecruiterName)
	setString(&out.CVVersion, patch.CVVersion)
	if patch.Track != nil {
		out.Track = *patch.Track
	}
	if patch.EmploymentType != nil {
		out.EmploymentType = *patch.EmploymentType
	}
	if patch.WorkModel != nil {
		out.WorkModel = *patch.WorkModel
	}
	if patch.Seniority != nil {
		out.Seniority = *patch.Seniority
	}
	if patch.Priority != nil {
		out.Priority = *patch.Priority
	}
	if patch.MessageSent != nil {
		out.MessageSent = *patch.MessageSent
	}
	if patch.Archived != nil {
		out.Archived = *patch.Archived
	}
	setTime(&out.PostedAt, patch.PostedAt, loc)
	setTime(&out.NextFollowUpAt, patch.NextFollowUpAt, loc)
	setTime(&out.LastContactAt, patch.LastContactAt, loc)

	if patch.Responsibilities != nil {
		out.Responsibilities = append(datatypes.JSONSlice[string]{}, patch.Responsibilities...)
	}
	if patch.Benefits != nil {
		out.Benefits = append(datatypes.JSONSlice[string]{}, patch.Benefits...)
	}
	if patch.Notes != nil {
		out.Notes = append(datatypes.JSONSlice[string]{}, patch.Notes...)
	}
	if patch.Reminders != nil {
		out.Reminders = append(datatypes.JSONSlice[string]{}, patch.Reminders...)
	}
	if patch.Resources != nil {
		out.Resources = resourcesFrom(patch.Resources)
	}

	if patch.History != nil {
		out.History = historyFrom(patch.History)
		setString(&out.Date, patch.Date)
		if patch.Status != nil {
			out.Status = *patch.Status
		}
		return out, nil
	}

	var err error
	if patch.Date != nil && *patch.Date != out.Date {
		if out, err = ChangeDate(out, *patch.Date, now); err != nil {
			return job, err
		}
	}
	if patch.Status != nil {
		if out, err = ChangeStatus(out, *patch.Status, now); err != nil {
			return job, err
		}
	}
	return out, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// setTime clears the field on an empty string.
func setTime(dst **time.Time, v *string, loc *time.Location) {
	if v == nil {
		return
	}
	*dst = optionalTime(*v, loc)
}
