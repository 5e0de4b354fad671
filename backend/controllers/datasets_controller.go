package controllers

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"gigworks/backend/config"
	"gigworks/backend/models"
	"gigworks/backend/observability"
	"gigworks/backend/services/ingest"
	"gigworks/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const recordBatchSize = 500

// Fixed seed so every sample.csv download is the same file.
const sampleCSVSeed = 1

type DatasetsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewDatasetsController(db *gorm.DB, cfg *config.Config) *DatasetsController {
	return &DatasetsController{DB: db, Cfg: cfg}
}

type datasetResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	RowCount    int       `json:"row_count"`
	HasMiles    bool      `json:"has_miles"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDatasetResponse(d models.Dataset) datasetResponse {
	return datasetResponse{
		ID:          d.ID,
		Name:        d.Name,
		Source:      d.Source,
		RowCount:    d.RowCount,
		HasMiles:    d.HasMiles,
		PeriodStart: d.PeriodStart,
		PeriodEnd:   d.PeriodEnd,
		CreatedAt:   d.CreatedAt,
	}
}

// Upload godoc
// @Summary Upload a gig work CSV dataset
// @Description Parses and validates a CSV file (columns: date, platform, hours, earnings, optional miles) and stores it
// @Tags datasets
// @Accept mpfd
// @Produce json
// @Param file formData file true "CSV file"
// @Param name formData string false "Dataset name"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /datasets [post]
func (dc *DatasetsController) Upload(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "CSV file is required")
	}
	if fileHeader.Size > ingest.MaxUploadBytes {
		return utils.BadRequest(c, fmt.Sprintf("File exceeds %d MiB limit", ingest.MaxUploadBytes>>20))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.InternalServerError(c, "Could not read uploaded file")
	}
	defer file.Close()

	result, err := ingest.ParseCSV(file)
	if err != nil {
		return utils.BadRequest(c, "Data validation error: "+err.Error())
	}

	name := c.FormValue("name")
	if name == "" {
		name = fileHeader.Filename
	}
	if name == "" {
		name = "dataset-" + uuid.NewString()[:8]
	}

	dataset, err := dc.saveDataset(userID, name, models.SourceUpload, result)
	if err != nil {
		return utils.InternalServerError(c, "Could not store dataset")
	}

	return utils.Created(c, toDatasetResponse(dataset))
}

// LoadSample godoc
// @Summary Load the sample dataset
// @Description Creates a dataset from the canned 90-day sample
// @Tags datasets
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /datasets/sample [post]
func (dc *DatasetsController) LoadSample(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	result := ingest.SampleResult(time.Now().UnixNano())

	dataset, err := dc.saveDataset(userID, "Sample data", models.SourceSample, result)
	if err != nil {
		return utils.InternalServerError(c, "Could not store dataset")
	}

	return utils.Created(c, toDatasetResponse(dataset))
}

// DownloadSampleCSV serves the canned sample as a downloadable CSV so
// users can see the expected column layout.
func (dc *DatasetsController) DownloadSampleCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := ingest.WriteCSV(&buf, ingest.SampleRows(sampleCSVSeed), true); err != nil {
		return utils.InternalServerError(c, "Could not render sample CSV")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="gig_work_sample.csv"`)
	return c.Send(buf.Bytes())
}

// List returns the caller's datasets, newest first.
func (dc *DatasetsController) List(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var datasets []models.Dataset
	if err := dc.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&datasets).Error; err != nil {
		return utils.InternalServerError(c, "Could not query datasets")
	}

	responses := make([]datasetResponse, 0, len(datasets))
	for _, d := range datasets {
		responses = append(responses, toDatasetResponse(d))
	}

	return utils.Success(c, fiber.StatusOK, responses)
}

// Get returns one dataset with a page of its records.
func (dc *DatasetsController) Get(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	dataset, ferr := dc.ownedDataset(c, userID)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size", "100"))
	if pageSize < 1 || pageSize > 1000 {
		pageSize = 100
	}

	var records []models.GigRecord
	if err := dc.DB.Where("dataset_id = ?", dataset.ID).
		Order("date asc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		return utils.InternalServerError(c, "Could not query records")
	}

	return utils.Paginate(c, fiber.Map{
		"dataset": toDatasetResponse(*dataset),
		"records": records,
	}, int64(dataset.RowCount), page, pageSize)
}

// Delete removes a dataset and all of its records.
func (dc *DatasetsController) Delete(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	dataset, ferr := dc.ownedDataset(c, userID)
	if ferr != nil {
		return utils.Error(c, ferr.Code, ferr)
	}

	err = dc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", dataset.ID).Delete(&models.GigRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(dataset).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete dataset")
	}

	return utils.NoContent(c)
}

// ownedDataset loads the dataset from the :id param and enforces
// ownership. On failure it returns a non-nil *fiber.Error for the
// caller to send; nothing is written here.
func (dc *DatasetsController) ownedDataset(c *fiber.Ctx, userID uint) (*models.Dataset, *fiber.Error) {
	datasetID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid dataset ID")
	}

	var dataset models.Dataset
	if err := dc.DB.First(&dataset, datasetID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Dataset not found")
	}
	if dataset.UserID != userID {
		return nil, fiber.NewError(fiber.StatusForbidden, "You don't have access to this dataset")
	}

	return &dataset, nil
}

func (dc *DatasetsController) saveDataset(userID uint, name, source string, result *ingest.Result) (models.Dataset, error) {
	dataset := models.Dataset{
		UserID:      userID,
		Name:        name,
		Source:      source,
		RowCount:    len(result.Rows),
		HasMiles:    result.HasMiles,
		PeriodStart: result.PeriodStart,
		PeriodEnd:   result.PeriodEnd,
	}

	err := dc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dataset).Error; err != nil {
			return err
		}

		records := make([]models.GigRecord, 0, len(result.Rows))
		for _, row := range result.Rows {
			records = append(records, models.GigRecord{
				DatasetID: dataset.ID,
				UserID:    userID,
				Date:      row.Date,
				Platform:  row.Platform,
				Hours:     row.Hours,
				Earnings:  row.Earnings,
				Miles:     row.Miles,
			})
		}
		return tx.CreateInBatches(records, recordBatchSize).Error
	})
	if err != nil {
		return models.Dataset{}, err
	}

	observability.RecordIngest(source, len(result.Rows))
	return dataset, nil
}
