// Package analytics computes descriptive statistics over gig records.
// Aggregation happens in Go rather than SQL so the numbers are the
// same no matter which GORM dialect backs the records.
package analytics

import (
	"sort"
	"time"

	"gigworks/backend/models"
)

// Summary holds the headline metrics for one dataset.
type Summary struct {
	TotalEarnings   float64 `json:"total_earnings"`
	TotalHours      float64 `json:"total_hours"`
	AvgHourlyRate   float64 `json:"avg_hourly_rate"`
	TotalJobs       int     `json:"total_jobs"`
	TotalMiles      float64 `json:"total_miles,omitempty"`
	EarningsPerMile float64 `json:"earnings_per_mile,omitempty"`
	ActiveDays      int     `json:"active_days"`
	Platforms       int     `json:"platforms"`
}

// WeekPoint is one bucket of the weekly earnings trend.
type WeekPoint struct {
	WeekStart time.Time `json:"week_start"`
	Earnings  float64   `json:"earnings"`
	Hours     float64   `json:"hours"`
	Jobs      int       `json:"jobs"`
}

// PlatformStat is the per-platform breakdown row.
type PlatformStat struct {
	Platform      string  `json:"platform"`
	TotalEarnings float64 `json:"total_earnings"`
	AvgEarnings   float64 `json:"avg_earnings"`
	TotalHours    float64 `json:"total_hours"`
	AvgHours      float64 `json:"avg_hours"`
	Jobs          int     `json:"jobs"`
	EarningsShare float64 `json:"earnings_share"`
}

// WeekdayStat aggregates records by day of week.
type WeekdayStat struct {
	Weekday       string  `json:"weekday"`
	TotalEarnings float64 `json:"total_earnings"`
	AvgEarnings   float64 `json:"avg_earnings"`
	Jobs          int     `json:"jobs"`
}

// Summarize computes the headline metrics. Hour and mile divisors are
// floored at 1, matching how the dashboard guards against zero totals.
func Summarize(records []models.GigRecord, hasMiles bool) Summary {
	var s Summary
	days := make(map[string]struct{})
	platforms := make(map[string]struct{})

	for _, r := range records {
		s.TotalEarnings += r.Earnings
		s.TotalHours += r.Hours
		s.TotalMiles += r.Miles
		days[r.Date.Format("2006-01-02")] = struct{}{}
		platforms[r.Platform] = struct{}{}
	}

	s.TotalJobs = len(records)
	s.ActiveDays = len(days)
	s.Platforms = len(platforms)
	s.AvgHourlyRate = s.TotalEarnings / max1(s.TotalHours)
	if hasMiles {
		s.EarningsPerMile = s.TotalEarnings / max1(s.TotalMiles)
	} else {
		s.TotalMiles = 0
	}

	return s
}

// WeeklyTrend buckets records into weeks starting Monday and returns
// them in chronological order.
func WeeklyTrend(records []models.GigRecord) []WeekPoint {
	buckets := make(map[time.Time]*WeekPoint)

	for _, r := range records {
		start := weekStart(r.Date)
		point, ok := buckets[start]
		if !ok {
			point = &WeekPoint{WeekStart: start}
			buckets[start] = point
		}
		point.Earnings += r.Earnings
		point.Hours += r.Hours
		point.Jobs++
	}

	trend := make([]WeekPoint, 0, len(buckets))
	for _, point := range buckets {
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].WeekStart.Before(trend[j].WeekStart)
	})

	return trend
}

// PlatformBreakdown aggregates records per platform, ordered by total
// earnings descending.
func PlatformBreakdown(records []models.GigRecord) []PlatformStat {
	var totalEarnings float64
	byPlatform := make(map[string]*PlatformStat)

	for _, r := range records {
		stat, ok := byPlatform[r.Platform]
		if !ok {
			stat = &PlatformStat{Platform: r.Platform}
			byPlatform[r.Platform] = stat
		}
		stat.TotalEarnings += r.Earnings
		stat.TotalHours += r.Hours
		stat.Jobs++
		totalEarnings += r.Earnings
	}

	stats := make([]PlatformStat, 0, len(byPlatform))
	for _, stat := range byPlatform {
		stat.AvgEarnings = stat.TotalEarnings / float64(stat.Jobs)
		stat.AvgHours = stat.TotalHours / float64(stat.Jobs)
		if totalEarnings > 0 {
			stat.EarningsShare = stat.TotalEarnings / totalEarnings
		}
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalEarnings != stats[j].TotalEarnings {
			return stats[i].TotalEarnings > stats[j].TotalEarnings
		}
		return stats[i].Platform < stats[j].Platform
	})

	return stats
}

// WeekdayProfile aggregates records per day of week (Monday first) and
// names the best weekday by average earnings. Weekdays with no records
// are omitted.
func WeekdayProfile(records []models.GigRecord) ([]WeekdayStat, string) {
	byDay := make(map[time.Weekday]*WeekdayStat)

	for _, r := range records {
		day := r.Date.Weekday()
		stat, ok := byDay[day]
		if !ok {
			stat = &WeekdayStat{Weekday: day.String()}
			byDay[day] = stat
		}
		stat.TotalEarnings += r.Earnings
		stat.Jobs++
	}

	// Monday..Sunday ordering
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}

	var best string
	var bestAvg float64
	stats := make([]WeekdayStat, 0, len(byDay))
	for _, day := range order {
		stat, ok := byDay[day]
		if !ok {
			continue
		}
		stat.AvgEarnings = stat.TotalEarnings / float64(stat.Jobs)
		if stat.AvgEarnings > bestAvg {
			bestAvg = stat.AvgEarnings
			best = stat.Weekday
		}
		stats = append(stats, *stat)
	}

	return stats, best
}

func weekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7 // days since Monday
	return t.AddDate(0, 0, -offset)
}

func max1(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}
