// Package filter selects the visible subset of a job collection. The same
// criteria are pushed down into the stores' queries.
package filter

import (
	"slices"
	"strings"

	"github.com/justsurfingit/jobhunter/internal/models"
)

// All matches every track or status.
const All = "all"

type Criteria struct {
	Search string
	Track  string
	Status string
	// Archived selects one partition; nil keeps both.
	Archived *bool
}

// SearchTerm is the lowercased, trimmed search text.
func (c Criteria) SearchTerm() string {
	return strings.ToLower(strings.TrimSpace(c.Search))
}

// TrackValue and StatusValue return "" when the criterion matches everything.
func (c Criteria) TrackValue() string  { return exact(c.Track) }
func (c Criteria) StatusValue() string { return exact(c.Status) }

func exact(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, All) {
		return ""
	}
	return v
}

// Matches is the AND of the search, track, status and archived predicates.
func (c Criteria) Matches(j *models.Job) bool {
	if term := c.SearchTerm(); term != "" &&
		!strings.Contains(strings.ToLower(j.Company), term) &&
		!strings.Contains(strings.ToLower(j.Title), term) {
		return false
	}
	if v := c.TrackValue(); v != "" && string(j.Track) != v {
		return false
	}
	if v := c.StatusValue(); v != "" && string(j.Status) != v {
		return false
	}
	if c.Archived != nil && j.Archived != *c.Archived {
		return false
	}
	return true
}

// Apply returns the matching jobs in their original order.
func Apply(jobs []models.Job, c Criteria) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for i := range jobs {
		if c.Matches(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}
	return out
}

// Partition splits jobs into the active and archived sections.
func Partition(jobs []models.Job) (active, archived []models.Job) {
	active = make([]models.Job, 0, len(jobs))
	archived = make([]models.Job, 0)
	for _, j := range jobs {
		if j.Archived {
			archived = append(archived, j)
		} else {
			active = append(active, j)
		}
	}
	return active, archived
}

// Sort orders jobs by date descending, then createdAt descending. ISO-8601
// strings of the same shape compare in time order.
func Sort(jobs []models.Job) {
	slices.SortStableFunc(jobs, func(a, b models.Job) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
