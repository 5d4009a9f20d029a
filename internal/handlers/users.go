package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/selin/goaltrack-api/internal/database"
	"github.com/selin/goaltrack-api/internal/middleware"
	"github.com/selin/goaltrack-api/internal/models"
	"github.com/selin/goaltrack-api/internal/services"
)

func Profile(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	user, err := services.FindUserByID(database.DB, userID)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "Profile retrieved successfully.", fiber.Map{
		"id":          user.ID,
		"username":    user.Username,
		"email":       user.Email,
		"totalPoints": user.TotalPoints,
	})
}

func UpdateUsername(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.UpdateUsernameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.NewUsername == "" {
		return fiber.NewError(fiber.StatusBadRequest, "New username is required")
	}

	user, err := services.UpdateUsername(database.DB, userID, req.NewUsername)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "Username updated successfully.", user)
}

// RegisterDeviceToken stores the FCM token used for push notifications.
func RegisterDeviceToken(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.DeviceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Device token is required")
	}

	if err := services.SaveDeviceToken(database.DB, userID, req.Token); err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "Device token registered.", nil)
}
