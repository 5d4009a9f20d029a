package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username    *string   `json:"username" gorm:"uniqueIndex"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	Password    string    `json:"-"`
	GoogleID    *string   `json:"-" gorm:"uniqueIndex"`
	FCMToken    string    `json:"-" gorm:"column:fcm_token"`
	TotalPoints int       `json:"totalPoints" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Goals       []Goal    `json:"goals,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Auth DTOs
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleAuthRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type UpdateUsernameRequest struct {
	NewUsername string `json:"newUsername"`
}

type DeviceTokenRequest struct {
	Token string `json:"token"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
