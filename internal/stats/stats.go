// Package stats derives the dashboard counters from a user's job collection.
// Nothing is cached: every call walks the collection once.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/justsurfingit/jobhunter/internal/filter"
	"github.com/justsurfingit/jobhunter/internal/models"
)

type Stats struct {
	// Non-Lead applications dated this month, archived included.
	Total int `json:"total"`
	// Active records in an in-progress status.
	Process int `json:"process"`
	// Active offers whose offer event happened this month.
	Offers int `json:"offers"`
	// Active in-progress records with an overdue follow-up.
	Ghosted int `json:"ghosted"`
	// Leads saved this month.
	Leads int `json:"leads"`
}

// Compute evaluates the five counters at now. Bare dates are local midnight
// in now's location.
func Compute(jobs []models.Job, now time.Time) Stats {
	var s Stats
	loc := now.Location()
	inMonth := func(t time.Time, ok bool) bool {
		return ok && filter.WithinPeriod(t, filter.PeriodMonth, now)
	}
	for i := range jobs {
		j := &jobs[i]
		if j.Status.IsLead() {
			if inMonth(j.DateTime(loc)) {
				s.Leads++
			}
		} else if inMonth(j.DateTime(loc)) {
			s.Total++
		}
		if j.Archived {
			continue
		}
		if j.Status.InProgress() {
			s.Process++
			if j.FollowUpOverdue(now) {
				s.Ghosted++
			}
		}
		if j.Status.IsOffer() && inMonth(j.OfferEventTime(loc)) {
			s.Offers++
		}
	}
	return s
}

// Card names one dashboard counter.
type Card string

const (
	CardTotal   Card = "total"
	CardProcess Card = "process"
	CardOffers  Card = "offers"
	CardGhosted Card = "ghosted"
	CardLeads   Card = "leads"
)

var Cards = []Card{CardTotal, CardProcess, CardOffers, CardGhosted, CardLeads}

func ParseCard(s string) (Card, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Cards {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown card %q", s)
}

// Pool returns the records behind one card, restricted to period. Offers are
// windowed on the offer event date, the ghosted pool is not windowed at all
// and every other pool uses the application date. The result is sorted like
// the job list.
func Pool(card Card, jobs []models.Job, period filter.Period, now time.Time) []models.Job {
	loc := now.Location()
	byDate := filter.ApplicationDate(loc)

	var out []models.Job
	switch card {
	case CardTotal:
		out = filter.ByPeriod(keep(jobs, func(j *models.Job) bool { return !j.Status.IsLead() }), period, now, byDate)
	case CardProcess:
		out = filter.ByPeriod(keep(jobs, func(j *models.Job) bool { return !j.Archived && j.Status.InProgress() }), period, now, byDate)
	case CardOffers:
		out = filter.ByPeriod(keep(jobs, func(j *models.Job) bool { return !j.Archived && j.Status.IsOffer() }), period, now, filter.OfferDate(loc))
	case CardLeads:
		out = filter.ByPeriod(keep(jobs, func(j *models.Job) bool { return j.Status.IsLead() }), period, now, byDate)
	case CardGhosted:
		out = keep(jobs, func(j *models.Job) bool {
			return !j.Archived && j.Status.InProgress() && j.FollowUpOverdue(now)
		})
	default:
		out = []models.Job{}
	}
	filter.Sort(out)
	return out
}

func keep(jobs []models.Job, pred func(*models.Job) bool) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for i := range jobs {
		if pred(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}
	return out
}
