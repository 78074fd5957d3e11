package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/justsurfingit/jobhunter/internal/logger"
	"github.com/justsurfingit/jobhunter/internal/models"
)

func TestNewLLMServiceWithoutKey(t *testing.T) {
	t.Parallel()
	svc, err := NewLLMService(context.Background(), "", "gemini-2.5-flash", logger.Discard())
	if !errors.Is(err, ErrLLMDisabled) || svc != nil {
		t.Fatalf("NewLLMService = %v, %v", svc, err)
	}
}

func TestExtractJobDetails(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: fixedReply("```json\n" + `{
		"title": " Backend Engineer ",
		"company": "Acme",
		"location": "Berlin",
		"employmentType": "fulltime",
		"workModel": "Hybrid",
		"seniority": "Staff",
		"responsibilities": ["Build APIs"],
		"benefits": null,
		"postedAt": "last week"
	}` + "\n```")}
	svc := NewLLMServiceWithModel(model, logger.Discard())

	raw := strings.Repeat("x", maxExtractInput+500)
	draft, err := svc.ExtractJobDetails(context.Background(), raw, "https://acme.test/jobs/1")
	if err != nil {
		t.Fatalf("ExtractJobDetails: %v", err)
	}
	if draft.Title != "Backend Engineer" || draft.Company != "Acme" || draft.ExternalLink != "https://acme.test/jobs/1" {
		t.Fatalf("draft = %+v", draft)
	}
	if draft.EmploymentType != models.EmploymentFullTime || draft.WorkModel != models.WorkModelHybrid {
		t.Fatalf("enums = %q %q", draft.EmploymentType, draft.WorkModel)
	}
	if draft.Seniority != "" || draft.PostedAt != "" {
		t.Fatalf("invalid values kept: %q %q", draft.Seniority, draft.PostedAt)
	}
	if draft.Status != models.StatusLead || draft.Benefits == nil {
		t.Fatalf("defaults = %q %v", draft.Status, draft.Benefits)
	}
	if strings.Contains(model.prompts[0], raw) {
		t.Fatal("input was not truncated")
	}
}

func TestExtractJobDetailsBadResponse(t *testing.T) {
	t.Parallel()
	svc := NewLLMServiceWithModel(&fakeModel{reply: fixedReply("I could not find a job here.")}, logger.Discard())
	if _, err := svc.ExtractJobDetails(context.Background(), "<html></html>", ""); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestParseEmailAnalysis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		resp    string
		want    models.Status
		wantErr bool
	}{
		{`{"status":"Interview","summary":"call booked"}`, models.StatusInterview, false},
		{"Sure!\n```json\n{\"status\":\"Rejected\",\"summary\":\"no\"}\n```", models.StatusRejected, false},
		{`{"status":"NO_CHANGE","summary":"newsletter"}`, "", false},
		{`{"status":"UNKNOWN","summary":""}`, "", false},
		{`{"status":"Hired","summary":""}`, "", true},
		{`not json`, "", true},
	}
	for _, tt := range tests {
		got, err := parseEmailAnalysis(tt.resp)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseEmailAnalysis(%q) error = %v", tt.resp, err)
			continue
		}
		if got.Status != tt.want {
			t.Errorf("parseEmailAnalysis(%q) = %q, want %q", tt.resp, got.Status, tt.want)
		}
	}
}

func TestIdentifyJobRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	titles := []string{"Go Developer", "Platform Engineer"}

	for reply, want := range map[string]int{"2": 1, " 1\n": 0, "0": -1, "3": -1, "banana": -1} {
		svc := NewLLMServiceWithModel(&fakeModel{reply: fixedReply(reply)}, logger.Discard())
		got, err := svc.IdentifyJobRole(ctx, titles, "Interview", "")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("reply %q: got %d, want %d", reply, got, want)
		}
	}
}
