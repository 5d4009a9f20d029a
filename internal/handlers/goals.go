package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/selin/goaltrack-api/internal/cache"
	"github.com/selin/goaltrack-api/internal/database"
	"github.com/selin/goaltrack-api/internal/middleware"
	"github.com/selin/goaltrack-api/internal/models"
	"github.com/selin/goaltrack-api/internal/services"
)

func CreateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	goal, err := services.CreateGoal(database.DB, userID, req)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "Goal created successfully.", goal)
}

func UpdateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to start transaction")
	}

	goal, err := services.FindGoalByID(tx, c.Params("id"))
	if err != nil {
		tx.Rollback()
		return err
	}
	if goal.UserID != userID {
		tx.Rollback()
		return fiber.NewError(fiber.StatusNotFound, "Goal not found")
	}

	goal, err = services.UpdateGoal(tx, goal, req)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update goal")
	}

	return respond(c, fiber.StatusOK, "Goal updated successfully.", goal)
}

func DeleteGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	goal, err := services.FindGoalByID(database.DB, c.Params("id"))
	if err != nil {
		return err
	}
	if goal.UserID != userID {
		return fiber.NewError(fiber.StatusNotFound, "Goal not found")
	}

	if err := services.DeleteGoal(database.DB, goal.ID.String()); err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "Goal deleted successfully.", nil)
}

// MarkGoalCompleted toggles completion for one-shot goals and turns the
// wheel for recurring ones. The whole operation, date rollover and
// points recompute included, runs in a single transaction.
func MarkGoalCompleted(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	complete := true
	var req models.CompleteGoalRequest
	if err := c.BodyParser(&req); err == nil && req.Complete != nil {
		complete = *req.Complete
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to start transaction")
	}

	goal, err := services.FindGoalByID(tx, c.Params("id"))
	if err != nil {
		tx.Rollback()
		return err
	}
	if goal.UserID != userID {
		tx.Rollback()
		return fiber.NewError(fiber.StatusNotFound, "Goal not found")
	}
	wasCompleted := goal.Completed

	goal, err = services.MarkGoalCompleted(tx, goal.ID.String(), complete)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to complete goal")
	}

	cache.InvalidateLeaderboard(c.Context())

	if goal.Recurring && goal.Completed && !wasCompleted {
		services.Push.SendToUser(userID, "Goal series complete!",
			fmt.Sprintf("You finished every occurrence of %q.", goal.Title),
			map[string]string{"goalId": goal.ID.String()})
	}

	return respond(c, fiber.StatusOK, "Goal marked as completed successfully.", goal)
}

func ListUserGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	page, size := pageParams(c)

	result, err := services.ListUserGoals(database.DB, pager, userID, page, size)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list goals")
	}

	return respond(c, fiber.StatusOK, "User goals retrieved successfully.", result)
}

func ListPublicGoals(c *fiber.Ctx) error {
	page, size := pageParams(c)

	if body, ok := cache.GetLeaderboard(c.Context(), page, size); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}

	result, err := services.ListPublicGoals(database.DB, pager, page, size)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list public goals")
	}

	res := response{
		StatusCode: fiber.StatusOK,
		Message:    "Public goals retrieved successfully.",
		Data:       result,
	}
	if body, err := json.Marshal(res); err == nil {
		cache.SetLeaderboard(c.Context(), page, size, body)
	}

	return c.Status(fiber.StatusOK).JSON(res)
}

func pageParams(c *fiber.Ctx) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page", "0"))
	size, _ = strconv.Atoi(c.Query("size", "0"))
	if page < 0 {
		page = 0
	}
	return page, size
}
