package controllers

import (
	"gigworks/backend/config"
	"gigworks/backend/models"
	"gigworks/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

type UpdateUserRequest struct {
	Username        string `json:"username" example:"jane_driver" minLength:"3" maxLength:"20"`
	Email           string `json:"email" example:"user@example.com" format:"email"`
	OldPassword     string `json:"old_password" example:"oldPassword123" minLength:"8"`
	NewPassword     string `json:"new_password" example:"newPassword123" minLength:"8"`
	City            string `json:"city" example:"Austin"`
	PrimaryPlatform string `json:"primary_platform" example:"DoorDash"`
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns authenticated user's profile with dataset and report counts
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	var datasetCount, reportCount int64
	uc.DB.Model(&models.Dataset{}).Where("user_id = ?", userID).Count(&datasetCount)
	uc.DB.Model(&models.Report{}).Where("user_id = ?", userID).Count(&reportCount)

	var lastLogin models.LoginHistory
	uc.DB.Where("user_id = ?", userID).Order("login_time desc").First(&lastLogin)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":               user.ID,
		"username":         user.Username,
		"email":            user.Email,
		"role":             user.Role,
		"city":             user.City,
		"primary_platform": user.PrimaryPlatform,
		"datasets":         datasetCount,
		"reports":          reportCount,
		"last_login":       lastLogin.LoginTime,
	})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Updates profile fields; password change requires the old password
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateUserRequest true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	var input UpdateUserRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.City != "" {
		user.City = input.City
	}
	if input.PrimaryPlatform != "" {
		user.PrimaryPlatform = input.PrimaryPlatform
	}

	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Old password is incorrect")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashed)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update profile")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":               user.ID,
		"username":         user.Username,
		"email":            user.Email,
		"city":             user.City,
		"primary_platform": user.PrimaryPlatform,
	})
}
