package services

import (
	"context"
	"testing"

	"github.com/justsurfingit/jobhunter/internal/models"
)

func TestMatchJobs(t *testing.T) {
	t.Parallel()

	jobs := []models.Job{
		{ID: "stripe-1", Company: "Stripe"},
		{ID: "stripe-2", Company: "stripe"},
		{ID: "acme", Company: "Acme Corp"},
		{ID: "go", Company: "Go"},
	}
	tests := []struct {
		name    string
		subject string
		sender  string
		want    []string
	}{
		{"subject", "Update on your application to Stripe", "noreply@greenhouse.io", []string{"stripe-1", "stripe-2"}},
		{"sender name", "Your application", "Acme Corp Talent <talent@acmecorp.com>", []string{"acme"}},
		{"sender domain", "Next steps", "jobs@stripe.com", []string{"stripe-1", "stripe-2"}},
		{"subject wins over sender", "Acme Corp interview", "Stripe <jobs@stripe.com>", []string{"acme"}},
		{"short names ignored", "Let's go", "go@example.com", nil},
		{"no match", "Weekly digest", "news@example.com", nil},
	}
	for _, tt := range tests {
		got := matchJobs(jobs, tt.subject, tt.sender)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %d jobs, want %v", tt.name, len(got), tt.want)
			continue
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Errorf("%s: got %s at %d, want %s", tt.name, got[i].ID, i, tt.want[i])
			}
		}
	}
}

func TestFindCandidatesSkipsClosedAndArchived(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	jobs, store := newJobService(t)

	open, _ := jobs.Create(ctx, "u1", creation("Go Developer", "Stripe", models.StatusApplied, "2024-01-10"))
	_, _ = jobs.Create(ctx, "u1", creation("Data Engineer", "Stripe", models.StatusRejected, "2024-01-09"))
	archived, _ := jobs.Create(ctx, "u1", creation("SRE", "Stripe", models.StatusInterview, "2024-01-08"))
	_, _ = jobs.ToggleArchive(ctx, "u1", archived.ID)
	_, _ = jobs.Create(ctx, "u2", creation("Go Developer", "Stripe", models.StatusApplied, "2024-01-10"))

	got, err := NewMatcherService(store).FindCandidates(ctx, "u1", "Stripe interview", "jobs@stripe.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != open.ID {
		t.Fatalf("candidates = %+v", got)
	}
}
