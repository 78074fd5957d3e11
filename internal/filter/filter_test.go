package filter

import (
	"reflect"
	"testing"
	"time"

	"github.com/justsurfingit/jobhunter/internal/models"
)

func sample() []models.Job {
	return []models.Job{
		{ID: "1", Title: "Go Developer", Company: "Acme", Track: models.TrackFullStack, Status: models.StatusApplied, Date: "2024-01-10"},
		{ID: "2", Title: "ML Engineer", Company: "DeepCorp", Track: models.TrackAI, Status: models.StatusInterview, Date: "2024-01-12", Archived: true},
		{ID: "3", Title: "SRE", Company: "Cloudy", Track: models.TrackCloud, Status: models.StatusLead, Date: "2024-01-01"},
	}
}

func ids(jobs []models.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func TestApplyEmptyCriteriaIsIdentity(t *testing.T) {
	t.Parallel()

	jobs := sample()
	for _, c := range []Criteria{{}, {Search: "", Track: All, Status: All}, {Search: "  ", Track: "ALL"}} {
		if got := Apply(jobs, c); !reflect.DeepEqual(got, jobs) {
			t.Errorf("Apply(%+v) = %v", c, ids(got))
		}
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	yes, no := true, false
	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"search company case-insensitive", Criteria{Search: "deepcorp"}, []string{"2"}},
		{"search title", Criteria{Search: "developer"}, []string{"1"}},
		{"track", Criteria{Track: "CLOUD"}, []string{"3"}},
		{"status", Criteria{Status: "Interview", Track: All}, []string{"2"}},
		{"search and track", Criteria{Search: "e", Track: "AI"}, []string{"2"}},
		{"archived partition", Criteria{Archived: &yes}, []string{"2"}},
		{"active partition", Criteria{Archived: &no}, []string{"1", "3"}},
		{"no match", Criteria{Search: "nothing"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(Apply(sample(), tt.c)); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	t.Parallel()

	active, archived := Partition(sample())
	if !reflect.DeepEqual(ids(active), []string{"1", "3"}) || !reflect.DeepEqual(ids(archived), []string{"2"}) {
		t.Fatalf("active=%v archived=%v", ids(active), ids(archived))
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jobs := []models.Job{
		{ID: "old", Date: "2024-01-01", CreatedAt: base},
		{ID: "same-day-early", Date: "2024-01-05", CreatedAt: base},
		{ID: "same-day-late", Date: "2024-01-05", CreatedAt: base.Add(time.Hour)},
		{ID: "new", Date: "2024-02-01", CreatedAt: base},
	}
	Sort(jobs)
	want := []string{"new", "same-day-late", "same-day-early", "old"}
	if got := ids(jobs); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPeriodStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 3, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		p    Period
		want time.Time
	}{
		{PeriodYear, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodMonth, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodWeek, time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)},
		{PeriodDay, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := PeriodStart(tt.p, now); !got.Equal(tt.want) {
			t.Errorf("PeriodStart(%s) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestByPeriod(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC)
	jobs := sample()

	if got := ids(ByPeriod(jobs, PeriodWeek, now, ApplicationDate(time.UTC))); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("week = %v", got)
	}
	if got := ids(ByPeriod(jobs, PeriodDay, now, ApplicationDate(time.UTC))); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("day = %v", got)
	}
	future := []models.Job{{ID: "f", Date: "2024-01-13"}}
	if got := ByPeriod(future, PeriodMonth, now, ApplicationDate(time.UTC)); len(got) != 0 {
		t.Fatalf("dates after now are outside the window: %v", ids(got))
	}
}

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	if p, err := ParsePeriod(""); err != nil || p != PeriodMonth {
		t.Fatalf("empty = %q, %v", p, err)
	}
	if p, err := ParsePeriod("Week"); err != nil || p != PeriodWeek {
		t.Fatalf("Week = %q, %v", p, err)
	}
	if _, err := ParsePeriod("decade"); err == nil {
		t.Fatal("expected error")
	}
}
