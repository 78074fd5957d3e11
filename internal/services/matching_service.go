package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/justsurfingit/jobhunter/internal/filter"
	"github.com/justsurfingit/jobhunter/internal/models"
	"github.com/justsurfingit/jobhunter/internal/repository"
)

// MatcherService links an incoming e-mail to the applications it may be
// about.
type MatcherService struct {
	jobs repository.JobStore
}

func NewMatcherService(jobs repository.JobStore) *MatcherService {
	return &MatcherService{jobs: jobs}
}

// FindCandidates returns the owner's open applications whose company the
// e-mail mentions.
func (s *MatcherService) FindCandidates(ctx context.Context, ownerID, subject, rawSender string) ([]models.Job, error) {
	archived := false
	jobs, err := s.jobs.FindAll(ctx, ownerID, filter.Criteria{Archived: &archived})
	if err != nil {
		return nil, err
	}
	open := jobs[:0:0]
	for _, j := range jobs {
		if !j.Status.Concluding() {
			open = append(open, j)
		}
	}
	return matchJobs(open, subject, rawSender), nil
}

// matchJobs tries the rules in order: subject line, sender display name,
// sender domain. The first rule with any hit wins.
func matchJobs(jobs []models.Job, subject, rawSender string) []models.Job {
	// "Stripe Recruiting <jobs@stripe.com>" -> name and address
	var senderName, senderAddr string
	if addr, err := mail.ParseAddress(rawSender); err == nil {
		senderName = strings.ToLower(addr.Name)
		senderAddr = strings.ToLower(addr.Address)
	} else {
		senderAddr = strings.ToLower(rawSender)
	}
	var domain string
	if _, d, ok := strings.Cut(senderAddr, "@"); ok {
		domain = d
	}

	rules := []string{strings.ToLower(subject), senderName, domain}
	for _, haystack := range rules {
		if haystack == "" {
			continue
		}
		var hits []models.Job
		for _, j := range jobs {
			company := strings.ToLower(strings.TrimSpace(j.Company))
			// Short names like "X" or "Go" match everything.
			if len(company) < 3 {
				continue
			}
			if strings.Contains(haystack, company) {
				hits = append(hits, j)
			}
		}
		if len(hits) > 0 {
			return hits
		}
	}
	return nil
}
