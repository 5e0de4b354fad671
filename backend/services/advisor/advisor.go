// Package advisor generates AI performance reports and answers gig
// work questions through a hosted LLM.
package advisor

import (
	"context"
	"errors"
	"time"

	"gigworks/backend/models"
	"gigworks/backend/observability"
	"gigworks/backend/services/analytics"
)

// ErrNotConfigured is returned when no LLM backend was configured.
var ErrNotConfigured = errors.New("LLM backend is not configured")

// LLMClient is the hosted text-generation backend. Implementations
// must be safe for concurrent use.
type LLMClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Service builds prompts and dispatches them to the LLM backend.
type Service struct {
	llm LLMClient
}

func NewService(llm LLMClient) *Service {
	return &Service{llm: llm}
}

// PerformanceReport generates the formal performance report for one
// dataset from its computed analytics and a small sample of rows.
func (s *Service) PerformanceReport(ctx context.Context, dataset models.Dataset, summary analytics.Summary, platforms []analytics.PlatformStat, bestWeekday string, sample []models.GigRecord) (string, error) {
	prompt := BuildReportPrompt(dataset, summary, platforms, bestWeekday, sample)
	return s.generate(ctx, "report", prompt)
}

// AnswerQuestion generates a structured expert answer to a free-form
// gig work question.
func (s *Service) AnswerQuestion(ctx context.Context, question string) (string, error) {
	return s.generate(ctx, "question", BuildQuestionPrompt(question))
}

func (s *Service) generate(ctx context.Context, kind, prompt string) (string, error) {
	if s.llm == nil {
		return "", ErrNotConfigured
	}

	start := time.Now()
	text, err := s.llm.GenerateText(ctx, prompt)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	observability.RecordLLMRequest(kind, outcome, time.Since(start))
	if err != nil {
		return "", err
	}

	return text, nil
}
