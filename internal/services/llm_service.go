package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/justsurfingit/jobhunter/internal/dtos"
	"github.com/justsurfingit/jobhunter/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// ErrLLMDisabled is returned when no Gemini API key is configured.
var ErrLLMDisabled = errors.New("llm extraction is not configured")

const (
	maxExtractInput = 20000
	maxEmailInput   = 4000

	// Status values the e-mail analysis may return besides a job status.
	verdictNoChange = "NO_CHANGE"
	verdictUnknown  = "UNKNOWN"
)

type LLMService struct {
	client llms.Model
	log    *slog.Logger
}

// NewLLMService connects to Gemini. It returns ErrLLMDisabled when apiKey
// is empty so callers can run without the LLM features.
func NewLLMService(ctx context.Context, apiKey, model string, log *slog.Logger) (*LLMService, error) {
	if apiKey == "" {
		return nil, ErrLLMDisabled
	}
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return NewLLMServiceWithModel(client, log), nil
}

func NewLLMServiceWithModel(client llms.Model, log *slog.Logger) *LLMService {
	return &LLMService{client: client, log: log}
}

const jobExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g., Senior Backend Engineer)",
    "company": "Name of the company (e.g., Google, StartupInc)",
    "location": "Job location or 'Remote'",
    "employmentType": "one of FullTime, PartTime, Contract, Internship",
    "workModel": "one of remote, hybrid, on-site",
    "seniority": "one of Intern, Junior, Mid, Senior, Lead",
    "description": "A clean summary of the job. Remove HTML tags.",
    "responsibilities": ["Array", "of", "responsibilities"],
    "benefits": ["Array", "of", "benefits"],
    "recruiterName": "Recruiter or hiring manager if named",
    "postedAt": "Posting date as YYYY-MM-DD"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

type extractedJob struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	EmploymentType   string   `json:"employmentType"`
	WorkModel        string   `json:"workModel"`
	Seniority        string   `json:"seniority"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Benefits         []string `json:"benefits"`
	RecruiterName    string   `json:"recruiterName"`
	PostedAt         string   `json:"postedAt"`
}

// ExtractJobDetails turns a raw posting into a draft creation payload. The
// draft is not stored; values the model got wrong are dropped.
func (s *LLMService) ExtractJobDetails(ctx context.Context, rawHTML, url string) (dtos.JobCreationRequest, error) {
	if len(rawHTML) > maxExtractInput {
		rawHTML = rawHTML[:maxExtractInput]
	}
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.client, fmt.Sprintf(jobExtractionPrompt, rawHTML))
	if err != nil {
		return dtos.JobCreationRequest{}, fmt.Errorf("extract job details: %w", err)
	}
	var out extractedJob
	if err := json.Unmarshal([]byte(cleanJSON(resp)), &out); err != nil {
		s.log.Warn("unparseable extraction response", "err", err)
		return dtos.JobCreationRequest{}, fmt.Errorf("decode extraction response: %w", err)
	}
	return draftFromExtraction(out, url), nil
}

func draftFromExtraction(e extractedJob, url string) dtos.JobCreationRequest {
	draft := dtos.JobCreationRequest{
		Title:            strings.TrimSpace(e.Title),
		Company:          strings.TrimSpace(e.Company),
		Status:           models.StatusLead,
		Location:         e.Location,
		ExternalLink:     url,
		Description:      e.Description,
		Responsibilities: nonNilStrings(e.Responsibilities),
		Benefits:         nonNilStrings(e.Benefits),
		RecruiterName:    e.RecruiterName,
		Priority:         models.DefaultPriority,
	}
	draft.EmploymentType = matchEnum(models.EmploymentTypes, e.EmploymentType)
	draft.WorkModel = matchEnum(models.WorkModels, e.WorkModel)
	draft.Seniority = matchEnum(models.Seniorities, e.Seniority)
	if models.ValidDate(e.PostedAt) {
		draft.PostedAt = e.PostedAt
	}
	return draft
}

const emailStatusPrompt = `
You read recruiting e-mails for a job seeker. The e-mail below concerns an application at %q.
Decide the application status it implies.

Answer with JSON only: {"status": "<STATUS>", "summary": "<one sentence summary>"}
STATUS must be one of: %s, NO_CHANGE, UNKNOWN.
Use NO_CHANGE when the e-mail does not move the application forward or back.

SUBJECT: %s
BODY:
%s
`

// EmailAnalysis is the LLM verdict for one recruiter e-mail. Status is
// empty when the e-mail does not change the application.
type EmailAnalysis struct {
	Status  models.Status
	Summary string
}

func (s *LLMService) AnalyzeEmailStatus(ctx context.Context, company, subject, body string) (EmailAnalysis, error) {
	if len(body) > maxEmailInput {
		body = body[:maxEmailInput]
	}
	statuses := make([]string, len(models.Statuses))
	for i, st := range models.Statuses {
		statuses[i] = string(st)
	}
	prompt := fmt.Sprintf(emailStatusPrompt, company, strings.Join(statuses, ", "), subject, body)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.client, prompt, llms.WithTemperature(0))
	if err != nil {
		return EmailAnalysis{}, fmt.Errorf("analyze email: %w", err)
	}
	return parseEmailAnalysis(resp)
}

func parseEmailAnalysis(resp string) (EmailAnalysis, error) {
	var out struct {
		Status  string `json:"status"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp)), &out); err != nil {
		return EmailAnalysis{}, fmt.Errorf("decode email analysis: %w", err)
	}
	out.Status = strings.TrimSpace(out.Status)
	switch status := models.Status(out.Status); {
	case out.Status == verdictNoChange, out.Status == verdictUnknown:
		return EmailAnalysis{Summary: out.Summary}, nil
	case status.Valid():
		return EmailAnalysis{Status: status, Summary: out.Summary}, nil
	default:
		return EmailAnalysis{}, fmt.Errorf("email analysis returned unknown status %q", out.Status)
	}
}

const jobRolePrompt = `
A job seeker applied to several roles at the same company. Which role is this e-mail about?

ROLES:
%s
SUBJECT: %s
BODY:
%s

Answer with the role number only. Answer 0 if you cannot tell.
`

// IdentifyJobRole picks which of titles the e-mail refers to. It returns -1
// when the model cannot tell.
func (s *LLMService) IdentifyJobRole(ctx context.Context, titles []string, subject, body string) (int, error) {
	if len(body) > maxEmailInput {
		body = body[:maxEmailInput]
	}
	var list strings.Builder
	for i, t := range titles {
		fmt.Fprintf(&list, "%d. %s\n", i+1, t)
	}
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.client, fmt.Sprintf(jobRolePrompt, list.String(), subject, body), llms.WithTemperature(0))
	if err != nil {
		return -1, fmt.Errorf("identify job role: %w", err)
	}
	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(resp), "%d", &n); err != nil || n < 1 || n > len(titles) {
		return -1, nil
	}
	return n - 1, nil
}

// cleanJSON strips markdown fences and any prose around the JSON object.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}

// matchEnum returns the value of values equal to s ignoring case, or "".
func matchEnum[T ~string](values []T, s string) T {
	s = strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(string(v), s) {
			return v
		}
	}
	return ""
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
