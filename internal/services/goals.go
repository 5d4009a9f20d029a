package services

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selin/goaltrack-api/internal/logger"
	"github.com/selin/goaltrack-api/internal/models"
	"github.com/selin/goaltrack-api/internal/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func FindGoalByID(db *gorm.DB, goalID string) (*models.Goal, error) {
	id, err := uuid.Parse(goalID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid goal ID")
	}

	var goal models.Goal
	if err := db.First(&goal, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Goal not found")
	}
	return &goal, nil
}

func CreateGoal(db *gorm.DB, userID uuid.UUID, req models.CreateGoalRequest) (*models.Goal, error) {
	if req.Title == "" || req.Description == "" || req.TargetCompletionDate == nil || req.Category == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Missing required fields in the payload")
	}
	if !req.Category.Valid() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid category provided")
	}
	if req.Recurring {
		if req.RecurrenceFrequency == nil || req.RecurrenceStartDate == nil || req.RecurrenceEndDate == nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Recurring goals require a frequency, start date and end date")
		}
		if !req.RecurrenceFrequency.Valid() {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid recurrence frequency provided")
		}
	}

	goal := models.Goal{
		UserID:               userID,
		Title:                req.Title,
		Description:          req.Description,
		Category:             req.Category,
		TargetCompletionDate: *req.TargetCompletionDate,
		IsPublic:             req.IsPublic,
		Recurring:            req.Recurring,
		RecurrenceFrequency:  req.RecurrenceFrequency,
		RecurrenceStartDate:  req.RecurrenceStartDate,
		RecurrenceEndDate:    req.RecurrenceEndDate,
	}
	if err := db.Create(&goal).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create goal")
	}
	return &goal, nil
}

// UpdateGoal applies a partial update on the given transaction scope.
// Flipping a goal into recurring requires the full recurrence triple
// before anything is written.
func UpdateGoal(tx *gorm.DB, goal *models.Goal, req models.UpdateGoalRequest) (*models.Goal, error) {
	if req.Recurring != nil && *req.Recurring && !goal.Recurring {
		frequency := goal.RecurrenceFrequency
		if req.RecurrenceFrequency != nil {
			frequency = req.RecurrenceFrequency
		}
		start := goal.RecurrenceStartDate
		if req.RecurrenceStartDate != nil {
			start = req.RecurrenceStartDate
		}
		end := goal.RecurrenceEndDate
		if req.RecurrenceEndDate != nil {
			end = req.RecurrenceEndDate
		}
		if frequency == nil || start == nil || end == nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Recurring goals require a frequency, start date and end date")
		}
		if !frequency.Valid() {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid recurrence frequency provided")
		}
	}
	if req.Category != nil && !req.Category.Valid() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid category provided")
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.TargetCompletionDate != nil {
		goal.TargetCompletionDate = *req.TargetCompletionDate
	}
	if req.Category != nil {
		goal.Category = *req.Category
	}
	if req.IsPublic != nil {
		goal.IsPublic = *req.IsPublic
	}
	if req.Recurring != nil {
		goal.Recurring = *req.Recurring
	}
	if req.RecurrenceFrequency != nil {
		goal.RecurrenceFrequency = req.RecurrenceFrequency
	}
	if req.RecurrenceStartDate != nil {
		goal.RecurrenceStartDate = req.RecurrenceStartDate
	}
	if req.RecurrenceEndDate != nil {
		goal.RecurrenceEndDate = req.RecurrenceEndDate
	}

	if err := tx.Save(goal).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to update goal")
	}
	return goal, nil
}

func DeleteGoal(db *gorm.DB, goalID string) error {
	goal, err := FindGoalByID(db, goalID)
	if err != nil {
		return err
	}
	if err := db.Delete(goal).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete goal")
	}
	return nil
}

// updatePoints moves the goal's pointsEarned by one category weight and
// recomputes the owner's totalPoints from scratch: the sum of positive
// pointsEarned across all of their goals. Recomputing from the goal rows
// instead of adjusting the cached total keeps the ledger drift-free.
// Everything runs on the caller's transaction scope.
func updatePoints(tx *gorm.DB, goal *models.Goal, increase bool) error {
	points := goal.Category.Points()
	if !increase {
		points = -points
	}

	goal.PointsEarned += points
	if err := tx.Save(goal).Error; err != nil {
		return err
	}

	var user models.User
	if err := tx.First(&user, "id = ?", goal.UserID).Error; err != nil {
		// Goal keeps its own delta; the cached total is left alone.
		logger.Log.Warn("points recompute skipped, goal owner not found",
			zap.String("goalId", goal.ID.String()),
			zap.String("userId", goal.UserID.String()))
		return nil
	}

	var total int64
	err := tx.Model(&models.Goal{}).
		Where("user_id = ? AND points_earned > 0", goal.UserID).
		Select("COALESCE(SUM(points_earned), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}

	user.TotalPoints = int(total)
	return tx.Save(&user).Error
}

// handleRecurringCompletion rolls a recurring goal's target date forward
// or backward one occurrence. Rolling forward past the recurrence end
// date marks the series exhausted instead of advancing the date; rolling
// backward always reverts the goal to incomplete.
func handleRecurringCompletion(tx *gorm.DB, goal *models.Goal, wheel bool) error {
	if goal.RecurrenceStartDate != nil && time.Now().Before(*goal.RecurrenceStartDate) {
		return fiber.NewError(fiber.StatusBadRequest, "Recurring goal start date has not arrived yet.")
	}

	from := goal.TargetCompletionDate
	if from.IsZero() && goal.RecurrenceStartDate != nil {
		from = *goal.RecurrenceStartDate
	}

	var frequency models.RecurrenceFrequency
	if goal.RecurrenceFrequency != nil {
		frequency = *goal.RecurrenceFrequency
	}

	if wheel {
		next, err := NextOccurrence(frequency, from)
		if err != nil {
			return err
		}
		if goal.RecurrenceEndDate != nil && next.After(*goal.RecurrenceEndDate) {
			goal.Completed = true
		} else {
			goal.TargetCompletionDate = next
		}
	} else {
		goal.TargetCompletionDate = PreviousOccurrence(frequency, from)
		goal.Completed = false
	}

	if err := tx.Save(goal).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update goal")
	}
	return nil
}

// MarkGoalCompleted is the completion state machine entry point. For
// one-shot goals complete toggles the completed flag, with a no-op when
// the requested state matches the current one. For recurring goals
// complete acts as the wheel: true advances the series, false undoes the
// latest occurrence. The points delta is decided on the completed flag
// after the rollover, so an exhausting advance awards nothing.
//
// The caller owns tx: it must Begin before and Commit or Rollback after.
func MarkGoalCompleted(tx *gorm.DB, goalID string, complete bool) (*models.Goal, error) {
	goal, err := FindGoalByID(tx, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Recurring {
		if err := handleRecurringCompletion(tx, goal, complete); err != nil {
			return nil, err
		}
		if !complete && !goal.Completed {
			if err := updatePoints(tx, goal, false); err != nil {
				return nil, err
			}
		} else if complete && !goal.Completed {
			if err := updatePoints(tx, goal, true); err != nil {
				return nil, err
			}
		}
		return goal, nil
	}

	if !complete && goal.Completed {
		goal.Completed = false
		if err := tx.Save(goal).Error; err != nil {
			return nil, err
		}
		if err := updatePoints(tx, goal, false); err != nil {
			return nil, err
		}
	} else if complete && !goal.Completed {
		goal.Completed = true
		if err := tx.Save(goal).Error; err != nil {
			return nil, err
		}
		if err := updatePoints(tx, goal, true); err != nil {
			return nil, err
		}
	}
	return goal, nil
}

func ListUserGoals(db *gorm.DB, pager *pagination.Pager, userID uuid.UUID, page, size int) (*pagination.Page, error) {
	limit, offset := pager.Pagination(page, size)

	var count int64
	if err := db.Model(&models.Goal{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}

	var goals []models.Goal
	err := db.Where("user_id = ?", userID).
		Order("created_at").
		Limit(limit).
		Offset(offset).
		Find(&goals).Error
	if err != nil {
		return nil, err
	}

	result := pagination.PagingData(goals, count, page, limit)
	return &result, nil
}

// PublicGoal is the slice of a goal exposed on the leaderboard.
type PublicGoal struct {
	PointsEarned         int             `json:"pointsEarned"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	TargetCompletionDate time.Time       `json:"targetCompletionDate"`
	Category             models.Category `json:"category"`
}

type LeaderboardEntry struct {
	Username    *string      `json:"username"`
	TotalPoints int          `json:"totalPoints"`
	Goals       []PublicGoal `json:"goals"`
}

// ListPublicGoals pages over users that have at least one completed
// public goal, each joined with those goals. Users without a qualifying
// goal are excluded from the page entirely.
func ListPublicGoals(db *gorm.DB, pager *pagination.Pager, page, size int) (*pagination.Page, error) {
	limit, offset := pager.Pagination(page, size)

	qualifying := db.Model(&models.Goal{}).
		Select("user_id").
		Where("completed = ? AND is_public = ?", true, true)

	var count int64
	if err := db.Model(&models.User{}).Where("id IN (?)", qualifying).Count(&count).Error; err != nil {
		return nil, err
	}

	var users []models.User
	err := db.Where("id IN (?)", qualifying).
		Order("total_points DESC").
		Limit(limit).
		Offset(offset).
		Preload("Goals", "completed = ? AND is_public = ?", true, true).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, user := range users {
		goals := make([]PublicGoal, 0, len(user.Goals))
		for _, g := range user.Goals {
			goals = append(goals, PublicGoal{
				PointsEarned:         g.PointsEarned,
				Title:                g.Title,
				Description:          g.Description,
				TargetCompletionDate: g.TargetCompletionDate,
				Category:             g.Category,
			})
		}
		entries = append(entries, LeaderboardEntry{
			Username:    user.Username,
			TotalPoints: user.TotalPoints,
			Goals:       goals,
		})
	}

	result := pagination.PagingData(entries, count, page, limit)
	return &result, nil
}
