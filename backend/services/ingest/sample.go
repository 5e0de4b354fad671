package ingest

import (
	"math"
	"math/rand"
	"time"
)

const sampleDays = 90

var samplePlatforms = []string{"Uber", "DoorDash", "Lyft"}

var sampleStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// SampleRows builds the canned demo dataset: 90 consecutive days of
// plausible gig work across three platforms. The same seed yields the
// same dataset.
func SampleRows(seed int64) []Row {
	rng := rand.New(rand.NewSource(seed))

	rows := make([]Row, 0, sampleDays)
	for day := 0; day < sampleDays; day++ {
		rows = append(rows, Row{
			Date:     sampleStart.AddDate(0, 0, day),
			Platform: samplePlatforms[rng.Intn(len(samplePlatforms))],
			Hours:    float64(2 + rng.Intn(6)),
			Earnings: float64(50 + rng.Intn(150)),
			Miles:    math.Round((5+rng.Float64()*45)*10) / 10,
		})
	}

	return rows
}

// SampleResult wraps SampleRows in the same shape ParseCSV produces.
func SampleResult(seed int64) *Result {
	rows := SampleRows(seed)
	return &Result{
		Rows:        rows,
		HasMiles:    true,
		PeriodStart: rows[0].Date,
		PeriodEnd:   rows[len(rows)-1].Date,
	}
}
