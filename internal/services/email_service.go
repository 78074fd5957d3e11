package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/justsurfingit/jobhunter/internal/repository"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

const (
	// Keywords a recruiter e-mail subject usually carries.
	bootstrapQuery = "subject:(application OR interview OR update OR offer OR rejected OR status) newer_than:7d"
	bootstrapLimit = 50
	syncTimeout    = 2 * time.Minute
)

// EmailService polls the owner's Gmail inbox and moves matching applications
// forward based on what recruiters write.
type EmailService struct {
	gmail   *gmail.Service
	store   repository.Store
	jobs    *JobService
	matcher *MatcherService
	llm     *LLMService
	log     *slog.Logger

	ownerEmail string
	interval   time.Duration
	retryDelay time.Duration
}

func NewEmailService(client *gmail.Service, store repository.Store, jobs *JobService, llm *LLMService, ownerEmail string, interval time.Duration, log *slog.Logger) *EmailService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &EmailService{
		gmail:      client,
		store:      store,
		jobs:       jobs,
		matcher:    NewMatcherService(store),
		llm:        llm,
		log:        log.With("component", "email_watcher"),
		ownerEmail: strings.ToLower(strings.TrimSpace(ownerEmail)),
		interval:   interval,
		retryDelay: time.Second,
	}
}

// StartWatcher syncs once right away and then every interval until ctx is
// cancelled.
func (s *EmailService) StartWatcher(ctx context.Context) {
	s.log.Info("email watcher started", "owner", s.ownerEmail, "interval", s.interval)
	go func() {
		s.runCycle(ctx)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info("email watcher stopped")
				return
			case <-ticker.C:
				s.runCycle(ctx)
			}
		}
	}()
}

func (s *EmailService) runCycle(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()
	if err := s.SyncEmails(ctx); err != nil && ctx.Err() == nil {
		s.log.Error("email sync failed", "err", err)
	}
}

// SyncEmails runs one cycle: a 7 day bootstrap scan on first run or when the
// history bookmark expired, the History API otherwise.
func (s *EmailService) SyncEmails(ctx context.Context) error {
	owner, err := s.store.FindByEmail(ctx, s.ownerEmail)
	if err != nil {
		return fmt.Errorf("load watcher owner %q: %w", s.ownerEmail, err)
	}

	var (
		messages     []*gmail.Message
		newHistoryID uint64
	)
	if owner.LastHistoryID == 0 {
		s.log.Info("first run, running bootstrap sync")
		messages, newHistoryID, err = s.performFullSync(ctx)
	} else {
		messages, newHistoryID, err = s.performIncrementalSync(ctx, owner.LastHistoryID)
		if isHistoryExpiredError(err) {
			s.log.Warn("history id expired, falling back to bootstrap sync", "history_id", owner.LastHistoryID)
			messages, newHistoryID, err = s.performFullSync(ctx)
		}
	}
	if err != nil {
		return err
	}

	if len(messages) > 0 {
		s.log.Info("processing candidate emails", "count", len(messages))
	}
	for _, msg := range messages {
		done, err := s.store.IsProcessed(ctx, msg.Id)
		if err != nil {
			return err
		}
		if done {
			continue
		}
		s.processSingleEmail(ctx, owner.ID, msg)
		if err := s.store.MarkProcessed(ctx, msg.Id, owner.ID); err != nil {
			return err
		}
	}

	// The bookmark moves even when nothing matched so the window is not
	// scanned again.
	if newHistoryID > owner.LastHistoryID {
		if err := s.store.SaveHistoryID(ctx, owner.ID, newHistoryID); err != nil {
			return err
		}
		s.log.Debug("history bookmark updated", "history_id", newHistoryID)
	}
	return nil
}

func (s *EmailService) performFullSync(ctx context.Context) ([]*gmail.Message, uint64, error) {
	var resp *gmail.ListMessagesResponse
	err := s.retry(ctx, 3, func() error {
		var e error
		resp, e = s.gmail.Users.Messages.List("me").Q(bootstrapQuery).MaxResults(bootstrapLimit).Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}

	// The profile's current history id becomes the new anchor.
	profile, err := s.gmail.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("get profile: %w", err)
	}
	return s.expandMessages(ctx, resp.Messages), profile.HistoryId, nil
}

func (s *EmailService) performIncrementalSync(ctx context.Context, startID uint64) ([]*gmail.Message, uint64, error) {
	var (
		added     []*gmail.Message
		historyID uint64
		pageToken string
	)
	for {
		var resp *gmail.ListHistoryResponse
		err := s.retry(ctx, 3, func() error {
			call := s.gmail.Users.History.List("me").StartHistoryId(startID).HistoryTypes("messageAdded")
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			var e error
			resp, e = call.Context(ctx).Do()
			return e
		})
		if err != nil {
			return nil, 0, err
		}
		for _, h := range resp.History {
			for _, m := range h.MessagesAdded {
				if m.Message != nil {
					added = append(added, m.Message)
				}
			}
		}
		historyID = resp.HistoryId
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return s.expandMessages(ctx, added), historyID, nil
}

// expandMessages fetches headers and bodies. Messages that keep failing are
// skipped.
func (s *EmailService) expandMessages(ctx context.Context, refs []*gmail.Message) []*gmail.Message {
	var full []*gmail.Message
	for _, ref := range refs {
		var msg *gmail.Message
		err := s.retry(ctx, 2, func() error {
			var e error
			msg, e = s.gmail.Users.Messages.Get("me", ref.Id).Context(ctx).Do()
			return e
		})
		if err != nil {
			s.log.Warn("skipping message", "message_id", ref.Id, "err", err)
			continue
		}
		full = append(full, msg)
	}
	return full
}

// processSingleEmail matches the e-mail to an application, asks the LLM
// what it means and records the outcome.
func (s *EmailService) processSingleEmail(ctx context.Context, ownerID string, msg *gmail.Message) {
	headers := parseHeaders(msg)
	subject := headers["Subject"]
	sender := headers["From"]
	log := s.log.With("message_id", msg.Id, "subject", shorten(subject, 40))

	candidates, err := s.matcher.FindCandidates(ctx, ownerID, subject, sender)
	if err != nil {
		log.Error("match failed", "err", err)
		return
	}
	if len(candidates) == 0 {
		log.Debug("skipped: no tracked company", "from", sender)
		return
	}
	body := getEmailBody(msg)

	target := candidates[0]
	if len(candidates) > 1 {
		titles := make([]string, len(candidates))
		for i, j := range candidates {
			titles[i] = j.Title
		}
		log.Info("ambiguous match, asking llm", "titles", titles)
		idx, err := s.llm.IdentifyJobRole(ctx, titles, subject, body)
		if err != nil {
			log.Error("role identification failed", "err", err)
			return
		}
		if idx < 0 {
			log.Info("skipped: llm could not pick a job")
			return
		}
		target = candidates[idx]
	}
	log = log.With("job_id", target.ID, "company", target.Company)

	analysis, err := s.llm.AnalyzeEmailStatus(ctx, target.Company, subject, body)
	if err != nil {
		log.Error("email analysis failed", "err", err)
		return
	}
	if analysis.Status == "" || analysis.Status == target.Status {
		log.Info("no status change", "status", target.Status, "summary", analysis.Summary)
		return
	}

	if _, err := s.jobs.RecordEmail(ctx, ownerID, target.ID, analysis.Status, subject, analysis.Summary); err != nil {
		log.Error("status update failed", "err", err)
		return
	}
	log.Info("status updated from email", "from", target.Status, "to", analysis.Status)
}

// retry runs f with exponential backoff. A 404 fails fast so the caller can
// switch to a bootstrap sync.
func (s *EmailService) retry(ctx context.Context, attempts int, f func() error) error {
	sleep := s.retryDelay
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if isHistoryExpiredError(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		s.log.Warn("gmail api error, retrying", "err", err, "backoff", sleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}

func isHistoryExpiredError(err error) bool {
	var gErr *googleapi.Error
	return errors.As(err, &gErr) && gErr.Code == http.StatusNotFound
}

func parseHeaders(msg *gmail.Message) map[string]string {
	res := make(map[string]string)
	if msg.Payload == nil {
		return res
	}
	for _, h := range msg.Payload.Headers {
		res[h.Name] = h.Value
	}
	return res
}

// getEmailBody prefers the top-level body, then text/plain, then text/html,
// searching nested multipart sections.
func getEmailBody(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}
	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		return decodeBody(msg.Payload.Body.Data)
	}
	for _, mime := range []string{"text/plain", "text/html"} {
		if data := findPart(msg.Payload.Parts, mime); data != "" {
			return decodeBody(data)
		}
	}
	return ""
}

func findPart(parts []*gmail.MessagePart, mime string) string {
	for _, p := range parts {
		if p.MimeType == mime && p.Body != nil && p.Body.Data != "" {
			return p.Body.Data
		}
		if data := findPart(p.Parts, mime); data != "" {
			return data
		}
	}
	return ""
}

// decodeBody accepts padded and unpadded base64url.
func decodeBody(data string) string {
	d, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		d, _ = base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	}
	return string(d)
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
