package controllers

import (
	"strconv"
	"time"

	"gigworks/backend/config"
	"gigworks/backend/models"
	"gigworks/backend/services/analytics"
	"gigworks/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AnalyticsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAnalyticsController(db *gorm.DB, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{DB: db, Cfg: cfg}
}

// GetSummary returns the headline metrics for one dataset.
func (ac *AnalyticsController) GetSummary(c *fiber.Ctx) error {
	dataset, records, ferr := ac.loadDataset(c)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"dataset_id": dataset.ID,
		"summary":    analytics.Summarize(records, dataset.HasMiles),
	})
}

// GetWeeklyTrend returns weekly earnings/hours buckets for the trend chart.
func (ac *AnalyticsController) GetWeeklyTrend(c *fiber.Ctx) error {
	dataset, records, ferr := ac.loadDataset(c)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"dataset_id": dataset.ID,
		"trend":      analytics.WeeklyTrend(records),
	})
}

// GetPlatformBreakdown returns the per-platform comparison table.
func (ac *AnalyticsController) GetPlatformBreakdown(c *fiber.Ctx) error {
	dataset, records, ferr := ac.loadDataset(c)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"dataset_id": dataset.ID,
		"platforms":  analytics.PlatformBreakdown(records),
	})
}

// GetWeekdayProfile returns per-weekday aggregates and the best weekday.
func (ac *AnalyticsController) GetWeekdayProfile(c *fiber.Ctx) error {
	dataset, records, ferr := ac.loadDataset(c)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr)
	}

	weekdays, best := analytics.WeekdayProfile(records)
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"dataset_id":   dataset.ID,
		"weekdays":     weekdays,
		"best_weekday": best,
	})
}

// GetPlatformStats returns service-wide counters (admin only).
func (ac *AnalyticsController) GetPlatformStats(c *fiber.Ctx) error {
	var stats struct {
		TotalUsers    int64 `json:"total_users"`
		ActiveUsers   int64 `json:"active_users"`
		TotalDatasets int64 `json:"total_datasets"`
		TotalRecords  int64 `json:"total_records"`
		TotalReports  int64 `json:"total_reports"`
	}

	ac.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	ac.DB.Model(&models.LoginHistory{}).
		Where("login_time > ?", time.Now().AddDate(0, 0, -30)).
		Distinct("user_id").
		Count(&stats.ActiveUsers)
	ac.DB.Model(&models.Dataset{}).Count(&stats.TotalDatasets)
	ac.DB.Model(&models.GigRecord{}).Count(&stats.TotalRecords)
	ac.DB.Model(&models.Report{}).Count(&stats.TotalReports)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"stats":     stats,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// loadDataset resolves the :id param to an owned dataset and fetches
// its records ordered by date. On failure it returns a non-nil
// *fiber.Error for the caller to send; nothing is written here.
func (ac *AnalyticsController) loadDataset(c *fiber.Ctx) (*models.Dataset, []models.GigRecord, *fiber.Error) {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	datasetID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid dataset ID")
	}

	var dataset models.Dataset
	if err := ac.DB.First(&dataset, datasetID).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Dataset not found")
	}
	if dataset.UserID != userID {
		return nil, nil, fiber.NewError(fiber.StatusForbidden, "You don't have access to this dataset")
	}

	var records []models.GigRecord
	if err := ac.DB.Where("dataset_id = ?", dataset.ID).Order("date asc").Find(&records).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Could not query records")
	}

	return &dataset, records, nil
}
