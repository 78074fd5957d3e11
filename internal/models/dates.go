package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the calendar-date form of Job.Date.
const DateLayout = "2006-01-02"

// Layouts without a zone are interpreted in the caller's location.
var localLayouts = []string{
	DateLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// ParseTime parses an ISO-8601 date or timestamp. A bare calendar date is
// local midnight in loc; timestamps carrying a zone are used as-is.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ValidDate reports whether s is accepted by ParseTime.
func ValidDate(s string) bool {
	_, err := ParseTime(s, time.UTC)
	return err == nil
}

// DateTime is the application date of the job in loc.
func (j *Job) DateTime(loc *time.Location) (time.Time, bool) {
	t, err := ParseTime(j.Date, loc)
	return t, err == nil
}

var offerKeywords = regexp.MustCompile(`(?i)proposta|oferta|offer|aceit|accepted`)

// IsOfferEvent reports whether a timeline title records a proposal or an
// acceptance.
func IsOfferEvent(title string) bool {
	return offerKeywords.MatchString(title)
}

// OfferEventTime is when the job reached the offer stage: the createdAt of the
// most recent offer-like history entry, falling back to UpdatedAt, then Date.
// Only the most recent offer entry is considered; older ones are never used.
func (j *Job) OfferEventTime(loc *time.Location) (time.Time, bool) {
	for i := len(j.History) - 1; i >= 0; i-- {
		e := j.History[i]
		if !IsOfferEvent(e.Title) {
			continue
		}
		if t, err := ParseTime(e.CreatedAt, loc); e.CreatedAt != "" && err == nil {
			return t, true
		}
		break
	}
	if !j.UpdatedAt.IsZero() {
		return j.UpdatedAt, true
	}
	return j.DateTime(loc)
}

// FollowUpOverdue reports whether a scheduled follow-up has passed.
func (j *Job) FollowUpOverdue(now time.Time) bool {
	return j.NextFollowUpAt != nil && j.NextFollowUpAt.Before(now)
}

// DisplayDate renders a date the way timeline subtitles show it, e.g.
// "Jan 10, 2024". Unparseable input is returned unchanged.
func DisplayDate(s string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t, err := ParseTime(s, loc)
	if err != nil {
		return s
	}
	return t.In(loc).Format("Jan 02, 2006")
}
