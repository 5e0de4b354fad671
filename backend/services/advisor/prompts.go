package advisor

import (
	"fmt"
	"strings"
	"time"

	"gigworks/backend/models"
	"gigworks/backend/services/analytics"
)

// How many rows of raw data get inlined into the report prompt.
const promptSampleRows = 5

// BuildReportPrompt renders the performance-report prompt: a sectioned
// business report request fed with the dataset's computed metrics and
// a few raw rows for context.
func BuildReportPrompt(dataset models.Dataset, summary analytics.Summary, platforms []analytics.PlatformStat, bestWeekday string, sample []models.GigRecord) string {
	var b strings.Builder

	b.WriteString("As a gig economy expert, create a comprehensive performance report for a gig worker.\n\n")
	fmt.Fprintf(&b, "Current Date: %s\n", time.Now().Format("January 2, 2006"))
	fmt.Fprintf(&b, "Dataset: %s (%d records, %s to %s)\n\n",
		dataset.Name, dataset.RowCount,
		dataset.PeriodStart.Format("2006-01-02"), dataset.PeriodEnd.Format("2006-01-02"))

	b.WriteString("Data Sample:\n")
	b.WriteString("date,platform,hours,earnings\n")
	for i, r := range sample {
		if i >= promptSampleRows {
			break
		}
		fmt.Fprintf(&b, "%s,%s,%.1f,%.2f\n",
			r.Date.Format("2006-01-02"), r.Platform, r.Hours, r.Earnings)
	}

	b.WriteString("\nComputed Metrics:\n")
	fmt.Fprintf(&b, "- Total earnings: $%.2f over %.1f hours (%d jobs, %d active days)\n",
		summary.TotalEarnings, summary.TotalHours, summary.TotalJobs, summary.ActiveDays)
	fmt.Fprintf(&b, "- Hourly earnings: $%.2f\n", summary.AvgHourlyRate)
	if summary.EarningsPerMile > 0 {
		fmt.Fprintf(&b, "- Earnings per mile: $%.2f\n", summary.EarningsPerMile)
	}
	if bestWeekday != "" {
		fmt.Fprintf(&b, "- Best weekday by average earnings: %s\n", bestWeekday)
	}
	for _, p := range platforms {
		fmt.Fprintf(&b, "- %s: $%.2f total, $%.2f per job, %.0f%% of earnings\n",
			p.Platform, p.TotalEarnings, p.AvgEarnings, p.EarningsShare*100)
	}

	b.WriteString(`
Format your response as a formal business report with these sections:

# Gig Work Performance Analysis Report

## Executive Summary
- Overall performance rating (1-5 stars)
- Key achievements
- Growth potential

## Performance Metrics
- Hourly earnings
- Efficiency metrics
- Platform comparisons

## Optimal Strategy Analysis
### Best Performing Days
- Detailed day-by-day analysis
- Expected earnings potential

### Peak Time Windows
- Hourly breakdown of profitability
- Platform-specific recommendations

## Action Plan
1. Primary recommendation with ROI estimate
2. Secondary recommendation
3. Risk mitigation strategies

## Future Projections
- 30-day earnings forecast
- Growth opportunities
- Sustainability considerations

Use professional business language with data-driven insights. Include specific numbers and percentages where possible.`)

	return b.String()
}

// BuildQuestionPrompt renders the advisor chat prompt for a free-form
// question.
func BuildQuestionPrompt(question string) string {
	var b strings.Builder

	b.WriteString("As a gig economy professor, answer with academic rigor:\n\n")
	fmt.Fprintf(&b, "Question: %s\n", question)
	b.WriteString(`
Structure your response with:

### Thesis Statement
[Core argument]

### Supporting Data
- Statistic 1 with source
- Statistic 2 with source

### Case Studies
1. Relevant example 1
2. Relevant example 2

### Implementation Strategy
- Step-by-step action plan
- Expected outcomes

### References
- Academic sources
- Industry reports`)

	return b.String()
}
