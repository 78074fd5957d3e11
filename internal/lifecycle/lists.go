package lifecycle

import (
	"strings"

	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"github.com/justsurfingit/jobhunter/internal/dtos"
	"github.com/justsurfingit/jobhunter/internal/models"
)

// Resources, reminders and notes are plain ordered lists: append and
// positional removal, without timeline entries.

func AddResource(job models.Job, r dtos.ResourceRequest) (models.Job, error) {
	r.Label = strings.TrimSpace(r.Label)
	if err := dtos.Struct(&r); err != nil {
		return job, err
	}
	out := job.Clone()
	out.Resources = append(out.Resources, models.Resource{Label: r.Label, Href: strings.TrimSpace(r.Href)})
	return out, nil
}

func RemoveResource(job models.Job, index int) (models.Job, error) {
	if index < 0 || index >= len(job.Resources) {
		return job, indexError("index", index, len(job.Resources))
	}
	out := job.Clone()
	out.Resources = append(out.Resources[:index], out.Resources[index+1:]...)
	return out, nil
}

func AddReminder(job models.Job, text string) (models.Job, error) {
	text, err := requiredText(text)
	if err != nil {
		return job, err
	}
	out := job.Clone()
	out.Reminders = append(out.Reminders, text)
	return out, nil
}

func RemoveReminder(job models.Job, index int) (models.Job, error) {
	if index < 0 || index >= len(job.Reminders) {
		return job, indexError("index", index, len(job.Reminders))
	}
	out := job.Clone()
	out.Reminders = append(out.Reminders[:index], out.Reminders[index+1:]...)
	return out, nil
}

func AddNote(job models.Job, text string) (models.Job, error) {
	text, err := requiredText(text)
	if err != nil {
		return job, err
	}
	out := job.Clone()
	out.Notes = append(out.Notes, text)
	return out, nil
}

func RemoveNote(job models.Job, index int) (models.Job, error) {
	if index < 0 || index >= len(job.Notes) {
		return job, indexError("index", index, len(job.Notes))
	}
	out := job.Clone()
	out.Notes = append(out.Notes[:index], out.Notes[index+1:]...)
	return out, nil
}

func requiredText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.NewValidationError("text", "is required")
	}
	return text, nil
}
