package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/justsurfingit/jobhunter/internal/database"
	"github.com/justsurfingit/jobhunter/internal/logger"
	"github.com/justsurfingit/jobhunter/internal/repository"
	"github.com/tmc/langchaingo/llms"
)

var now = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *repository.GormStore {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s := repository.NewGormStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newJobService(t *testing.T) (*JobService, *repository.GormStore) {
	t.Helper()
	store := newStore(t)
	svc := NewJobService(store, logger.Discard())
	svc.Now = func() time.Time { return now }
	return svc, store
}

// fakeModel answers prompts with reply and records what it was asked.
type fakeModel struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (m *fakeModel) GenerateContent(_ context.Context, msgs []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	var prompt strings.Builder
	for _, msg := range msgs {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt.WriteString(text.Text)
			}
		}
	}
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt.String())
	m.mu.Unlock()

	if m.reply == nil {
		return nil, errors.New("no reply configured")
	}
	out, err := m.reply(prompt.String())
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: out}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, opts...)
}

func (m *fakeModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func fixedReply(s string) func(string) (string, error) {
	return func(string) (string, error) { return s, nil }
}
