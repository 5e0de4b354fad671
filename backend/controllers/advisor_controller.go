package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"gigworks/backend/config"
	"gigworks/backend/models"
	"gigworks/backend/services/advisor"
	"gigworks/backend/services/analytics"
	"gigworks/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

type AdvisorController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Advisor *advisor.Service
}

func NewAdvisorController(db *gorm.DB, cfg *config.Config, svc *advisor.Service) *AdvisorController {
	return &AdvisorController{DB: db, Cfg: cfg, Advisor: svc}
}

func (ac *AdvisorController) llmTimeout() time.Duration {
	return time.Duration(ac.Cfg.LLMTimeoutSeconds) * time.Second
}

func (ac *AdvisorController) llmError(c *fiber.Ctx, err error) error {
	if errors.Is(err, advisor.ErrNotConfigured) {
		return utils.ServiceUnavailable(c, "AI advisor is not configured")
	}
	return utils.BadGateway(c, "AI advisor failed: "+err.Error())
}

// GenerateReport godoc
// @Summary Generate an AI performance report
// @Description Computes analytics for the dataset and asks the LLM for a formatted performance report
// @Tags advisor
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "dataset_id"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /advisor/report [post]
func (ac *AdvisorController) GenerateReport(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type reportInput struct {
		DatasetID uint `json:"dataset_id"`
	}
	var input reportInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var dataset models.Dataset
	if err := ac.DB.First(&dataset, input.DatasetID).Error; err != nil {
		return utils.NotFound(c, "Dataset not found")
	}
	if dataset.UserID != userID {
		return utils.Forbidden(c, "You don't have access to this dataset")
	}

	var records []models.GigRecord
	if err := ac.DB.Where("dataset_id = ?", dataset.ID).Order("date asc").Find(&records).Error; err != nil {
		return utils.InternalServerError(c, "Could not query records")
	}

	summary := analytics.Summarize(records, dataset.HasMiles)
	platforms := analytics.PlatformBreakdown(records)
	_, bestWeekday := analytics.WeekdayProfile(records)

	ctx, cancel := context.WithTimeout(c.Context(), ac.llmTimeout())
	defer cancel()

	content, err := ac.Advisor.PerformanceReport(ctx, dataset, summary, platforms, bestWeekday, records)
	if err != nil {
		return ac.llmError(c, err)
	}

	report := models.Report{
		UserID:    userID,
		DatasetID: dataset.ID,
		LLMModel:  ac.Cfg.GeminiModel,
		Content:   content,
	}
	if err := ac.DB.Create(&report).Error; err != nil {
		return utils.InternalServerError(c, "Could not store report")
	}

	return utils.Created(c, fiber.Map{
		"id":         report.ID,
		"dataset_id": report.DatasetID,
		"model":      report.LLMModel,
		"content":    report.Content,
		"created_at": report.CreatedAt,
	})
}

// ListReports returns the caller's reports, newest first.
func (ac *AdvisorController) ListReports(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var reports []models.Report
	if err := ac.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&reports).Error; err != nil {
		return utils.InternalServerError(c, "Could not query reports")
	}

	return utils.Success(c, fiber.StatusOK, reports)
}

// Chat godoc
// @Summary Ask the gig work advisor
// @Description Persists the question, asks the LLM and returns the answer
// @Tags advisor
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "message"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /advisor/chat [post]
func (ac *AdvisorController) Chat(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type chatInput struct {
		Message string `json:"message"`
	}
	var input chatInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	input.Message = strings.TrimSpace(input.Message)
	if input.Message == "" {
		return utils.BadRequest(c, "Message must not be empty")
	}

	// The question is kept even when the LLM call fails, so the user
	// can retry without retyping it.
	ac.DB.Create(&models.ChatMessage{UserID: userID, Role: models.RoleUser, Content: input.Message})

	ctx, cancel := context.WithTimeout(c.Context(), ac.llmTimeout())
	defer cancel()

	answer, err := ac.Advisor.AnswerQuestion(ctx, input.Message)
	if err != nil {
		return ac.llmError(c, err)
	}

	reply := models.ChatMessage{UserID: userID, Role: models.RoleAssistant, Content: answer}
	if err := ac.DB.Create(&reply).Error; err != nil {
		return utils.InternalServerError(c, "Could not store reply")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"role":       reply.Role,
		"content":    reply.Content,
		"created_at": reply.CreatedAt,
	})
}

// ChatHistory returns the caller's chat messages in chronological order.
func (ac *AdvisorController) ChatHistory(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var messages []models.ChatMessage
	if err := ac.DB.Where("user_id = ?", userID).Order("created_at asc").Find(&messages).Error; err != nil {
		return utils.InternalServerError(c, "Could not query chat history")
	}

	return utils.Success(c, fiber.StatusOK, messages)
}

// ChatSocket runs the live advisor chat. Each text frame from the
// client is treated as one question; the answer is written back as a
// single text frame. Both sides are persisted like the REST chat.
func (ac *AdvisorController) ChatSocket(conn *websocket.Conn) {
	defer conn.Close()

	userID, ok := conn.Locals("user_id").(uint)
	if !ok {
		return
	}

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		question := strings.TrimSpace(string(payload))
		if question == "" {
			continue
		}

		ac.DB.Create(&models.ChatMessage{UserID: userID, Role: models.RoleUser, Content: question})

		ctx, cancel := context.WithTimeout(context.Background(), ac.llmTimeout())
		answer, err := ac.Advisor.AnswerQuestion(ctx, question)
		cancel()
		if err != nil {
			if writeErr := conn.WriteJSON(fiber.Map{"error": err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		ac.DB.Create(&models.ChatMessage{UserID: userID, Role: models.RoleAssistant, Content: answer})

		if err := conn.WriteJSON(fiber.Map{"role": models.RoleAssistant, "content": answer}); err != nil {
			return
		}
	}
}
