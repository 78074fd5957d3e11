package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/justsurfingit/jobhunter/internal/models"
)

// Period is a drill-down window anchored at now.
type Period string

const (
	PeriodYear  Period = "year"
	PeriodMonth Period = "month"
	PeriodWeek  Period = "week"
	PeriodDay   Period = "day"
)

var Periods = []Period{PeriodYear, PeriodMonth, PeriodWeek, PeriodDay}

// ParsePeriod accepts one of the period names; empty means month.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PeriodMonth, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// PeriodStart is the first instant of the window in now's location. The week
// is the last seven calendar days including today.
func PeriodStart(p Period, now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()
	switch p {
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	case PeriodWeek:
		return time.Date(y, m, d-6, 0, 0, 0, 0, loc)
	case PeriodDay:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
}

// WithinPeriod reports whether t lies in [PeriodStart(p, now), now].
func WithinPeriod(t time.Time, p Period, now time.Time) bool {
	return !t.Before(PeriodStart(p, now)) && !t.After(now)
}

// DateFunc extracts the date a pool is windowed on.
type DateFunc func(j *models.Job) (time.Time, bool)

// ApplicationDate reads Job.Date in loc.
func ApplicationDate(loc *time.Location) DateFunc {
	return func(j *models.Job) (time.Time, bool) { return j.DateTime(loc) }
}

// OfferDate reads the offer event date in loc.
func OfferDate(loc *time.Location) DateFunc {
	return func(j *models.Job) (time.Time, bool) { return j.OfferEventTime(loc) }
}

// ByPeriod keeps the jobs whose date falls in the window. Jobs without a
// parseable date are dropped.
func ByPeriod(jobs []models.Job, p Period, now time.Time, date DateFunc) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for i := range jobs {
		if t, ok := date(&jobs[i]); ok && WithinPeriod(t, p, now) {
			out = append(out, jobs[i])
		}
	}
	return out
}
