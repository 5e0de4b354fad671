package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"gigworks/backend/models"
	"gigworks/backend/services/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	lastPrompt string
	reply      string
	err        error
}

func (f *fakeLLM) GenerateText(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

func testDataset() models.Dataset {
	return models.Dataset{
		Name:        "january",
		RowCount:    31,
		PeriodStart: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestPerformanceReportPrompt(t *testing.T) {
	llm := &fakeLLM{reply: "report text"}
	svc := NewService(llm)

	summary := analytics.Summary{
		TotalEarnings: 1500,
		TotalHours:    100,
		AvgHourlyRate: 15,
		TotalJobs:     31,
		ActiveDays:    31,
	}
	platforms := []analytics.PlatformStat{
		{Platform: "Uber", TotalEarnings: 900, AvgEarnings: 45, EarningsShare: 0.6},
	}
	sample := []models.GigRecord{
		{Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Platform: "Uber", Hours: 4, Earnings: 80},
	}

	out, err := svc.PerformanceReport(context.Background(), testDataset(), summary, platforms, "Friday", sample)
	require.NoError(t, err)
	assert.Equal(t, "report text", out)

	assert.Contains(t, llm.lastPrompt, "# Gig Work Performance Analysis Report")
	assert.Contains(t, llm.lastPrompt, "## Executive Summary")
	assert.Contains(t, llm.lastPrompt, "## Action Plan")
	assert.Contains(t, llm.lastPrompt, "Hourly earnings: $15.00")
	assert.Contains(t, llm.lastPrompt, "Best weekday by average earnings: Friday")
	assert.Contains(t, llm.lastPrompt, "Uber: $900.00 total")
	assert.Contains(t, llm.lastPrompt, "2023-01-01,Uber,4.0,80.00")
}

func TestReportPromptSampleCap(t *testing.T) {
	var records []models.GigRecord
	for i := 0; i < 20; i++ {
		records = append(records, models.GigRecord{
			Date:     time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Platform: "Uber",
			Hours:    4,
			Earnings: 100,
		})
	}

	prompt := BuildReportPrompt(testDataset(), analytics.Summary{}, nil, "", records)

	// Only the first few rows are inlined
	assert.Contains(t, prompt, "2023-01-05,")
	assert.NotContains(t, prompt, "2023-01-06,")
}

func TestAnswerQuestionPrompt(t *testing.T) {
	llm := &fakeLLM{reply: "answer"}
	svc := NewService(llm)

	out, err := svc.AnswerQuestion(context.Background(), "When should I drive?")
	require.NoError(t, err)
	assert.Equal(t, "answer", out)

	assert.Contains(t, llm.lastPrompt, "Question: When should I drive?")
	assert.Contains(t, llm.lastPrompt, "### Thesis Statement")
	assert.Contains(t, llm.lastPrompt, "### Implementation Strategy")
}

func TestGenerateErrors(t *testing.T) {
	llmErr := errors.New("quota exceeded")
	svc := NewService(&fakeLLM{err: llmErr})

	_, err := svc.AnswerQuestion(context.Background(), "anything")
	assert.ErrorIs(t, err, llmErr)
}

func TestNotConfigured(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.AnswerQuestion(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
