package models

import (
	"time"

	"gorm.io/gorm"
)

// Dataset source values.
const (
	SourceUpload = "upload"
	SourceSample = "sample"
)

type Dataset struct {
	gorm.Model
	UserID      uint   `gorm:"index"`
	Name        string `gorm:"not null"`
	Source      string `gorm:"default:upload"` // upload, sample
	RowCount    int
	HasMiles    bool
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// GigRecord is a single gig-work entry: one day of work on one platform.
// Miles is zero when the dataset has no miles column.
type GigRecord struct {
	gorm.Model
	DatasetID uint      `gorm:"index"`
	UserID    uint      `gorm:"index"`
	Date      time.Time `gorm:"index"`
	Platform  string
	Hours     float64
	Earnings  float64
	Miles     float64
}
