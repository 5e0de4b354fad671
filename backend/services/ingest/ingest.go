// Package ingest parses and validates gig-work CSV data.
//
// A dataset needs the columns date, platform, hours and earnings; a
// miles column is optional. Header matching is forgiving: names are
// trimmed, lowercased and spaces become underscores, so " Earnings "
// and "earnings" are the same column.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxUploadBytes caps the accepted upload size.
	MaxUploadBytes = 10 << 20
	// MaxRows caps the number of data rows in one dataset.
	MaxRows = 100_000
)

var ErrEmptyFile = errors.New("CSV file is empty")

var requiredColumns = []string{"date", "platform", "hours", "earnings"}

// Accepted layouts for the date column, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// Row is one validated gig-work entry.
type Row struct {
	Date     time.Time
	Platform string
	Hours    float64
	Earnings float64
	Miles    float64
}

// Result is a parsed dataset.
type Result struct {
	Rows        []Row
	HasMiles    bool
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// ParseCSV reads and validates a gig-work CSV file.
func ParseCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("could not read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeHeader(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	milesIdx, hasMiles := columns["miles"]

	result := &Result{HasMiles: hasMiles}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		row, err := parseRow(record, columns, milesIdx, hasMiles)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		result.Rows = append(result.Rows, row)
		if len(result.Rows) > MaxRows {
			return nil, fmt.Errorf("dataset exceeds %d rows", MaxRows)
		}

		if result.PeriodStart.IsZero() || row.Date.Before(result.PeriodStart) {
			result.PeriodStart = row.Date
		}
		if row.Date.After(result.PeriodEnd) {
			result.PeriodEnd = row.Date
		}
	}

	if len(result.Rows) == 0 {
		return nil, ErrEmptyFile
	}

	return result, nil
}

func parseRow(record []string, columns map[string]int, milesIdx int, hasMiles bool) (Row, error) {
	var row Row

	date, err := parseDate(record[columns["date"]])
	if err != nil {
		return row, err
	}
	row.Date = date

	row.Platform = strings.TrimSpace(record[columns["platform"]])
	if row.Platform == "" {
		row.Platform = "unknown"
	}

	row.Hours, err = parseNumber("hours", record[columns["hours"]])
	if err != nil {
		return row, err
	}

	row.Earnings, err = parseNumber("earnings", record[columns["earnings"]])
	if err != nil {
		return row, err
	}

	if hasMiles {
		row.Miles, err = parseNumber("miles", record[milesIdx])
		if err != nil {
			return row, err
		}
	}

	return row, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format in date column: %q", value)
}

func parseNumber(column, value string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %q", column, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative %s value: %q", column, value)
	}
	return n, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

// WriteCSV writes rows in the canonical column order. The miles column
// is included only when the dataset carries it.
func WriteCSV(w io.Writer, rows []Row, includeMiles bool) error {
	writer := csv.NewWriter(w)

	header := []string{"date", "platform", "hours", "earnings"}
	if includeMiles {
		header = append(header, "miles")
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.Date.Format("2006-01-02"),
			row.Platform,
			strconv.FormatFloat(row.Hours, 'f', -1, 64),
			strconv.FormatFloat(row.Earnings, 'f', -1, 64),
		}
		if includeMiles {
			record = append(record, strconv.FormatFloat(row.Miles, 'f', 1, 64))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
