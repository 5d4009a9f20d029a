package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryHealth         Category = "Health"
	CategoryFinance        Category = "Finance"
	CategoryPersonalGrowth Category = "Personal Growth"
	CategoryCareer         Category = "Career"
	CategoryRelationships  Category = "Relationships"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryHealth, CategoryFinance, CategoryPersonalGrowth, CategoryCareer, CategoryRelationships:
		return true
	}
	return false
}

// Points is the category weight added or subtracted per completion toggle.
func (c Category) Points() int {
	switch c {
	case CategoryHealth:
		return 10
	case CategoryFinance:
		return 20
	case CategoryPersonalGrowth:
		return 15
	case CategoryCareer:
		return 25
	case CategoryRelationships:
		return 30
	default:
		return 0
	}
}

type RecurrenceFrequency string

const (
	FrequencyDaily   RecurrenceFrequency = "daily"
	FrequencyWeekly  RecurrenceFrequency = "weekly"
	FrequencyMonthly RecurrenceFrequency = "monthly"
)

func (f RecurrenceFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type Goal struct {
	ID                   uuid.UUID            `json:"id" gorm:"type:uuid;primaryKey"`
	UserID               uuid.UUID            `json:"userId" gorm:"type:uuid;index;not null"`
	Title                string               `json:"title" gorm:"not null"`
	Description          string               `json:"description" gorm:"type:text;not null"`
	Category             Category             `json:"category" gorm:"not null"`
	TargetCompletionDate time.Time            `json:"targetCompletionDate" gorm:"not null"`
	Completed            bool                 `json:"completed" gorm:"not null;default:false"`
	PointsEarned         int                  `json:"pointsEarned" gorm:"not null;default:0"`
	IsPublic             bool                 `json:"isPublic" gorm:"not null;default:false"`
	Recurring            bool                 `json:"recurring" gorm:"not null;default:false"`
	RecurrenceFrequency  *RecurrenceFrequency `json:"recurrenceFrequency"`
	RecurrenceStartDate  *time.Time           `json:"recurrenceStartDate"`
	RecurrenceEndDate    *time.Time           `json:"recurrenceEndDate"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type CreateGoalRequest struct {
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	TargetCompletionDate *time.Time           `json:"targetCompletionDate"`
	Category             Category             `json:"category"`
	IsPublic             bool                 `json:"isPublic"`
	Recurring            bool                 `json:"recurring"`
	RecurrenceFrequency  *RecurrenceFrequency `json:"recurrenceFrequency"`
	RecurrenceStartDate  *time.Time           `json:"recurrenceStartDate"`
	RecurrenceEndDate    *time.Time           `json:"recurrenceEndDate"`
}

type UpdateGoalRequest struct {
	Title                *string              `json:"title"`
	Description          *string              `json:"description"`
	TargetCompletionDate *time.Time           `json:"targetCompletionDate"`
	Category             *Category            `json:"category"`
	IsPublic             *bool                `json:"isPublic"`
	Recurring            *bool                `json:"recurring"`
	RecurrenceFrequency  *RecurrenceFrequency `json:"recurrenceFrequency"`
	RecurrenceStartDate  *time.Time           `json:"recurrenceStartDate"`
	RecurrenceEndDate    *time.Time           `json:"recurrenceEndDate"`
}

type CompleteGoalRequest struct {
	Complete *bool `json:"complete"`
}
