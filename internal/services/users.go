package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selin/goaltrack-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return &user, nil
}

// FindOrCreateByGoogleID resolves a federated identity, creating the
// account on first login.
func FindOrCreateByGoogleID(db *gorm.DB, googleID, email string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "google_id = ?", googleID).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		Email:    email,
		GoogleID: &googleID,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create user")
	}
	return &user, nil
}

func Signup(db *gorm.DB, email, password string) (*models.User, error) {
	var existing models.User
	if err := db.First(&existing, "email = ?", email).Error; err == nil {
		return nil, fiber.NewError(fiber.StatusConflict, "User with the provided email already exists.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := models.User{
		Email:    email,
		Password: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create user")
	}
	return &user, nil
}

// CheckPassword returns the user and whether the password matched. A
// missing user or a Google-only account (no local password) both report
// a mismatch so the caller can't distinguish them.
func CheckPassword(db *gorm.DB, email, password string) (*models.User, bool) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		return nil, false
	}
	if user.Password == "" {
		return nil, false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, false
	}
	return &user, true
}

func UpdateUsername(db *gorm.DB, userID uuid.UUID, newUsername string) (*models.User, error) {
	user, err := FindUserByID(db, userID)
	if err != nil {
		return nil, err
	}

	var existing models.User
	if err := db.First(&existing, "username = ?", newUsername).Error; err == nil && existing.ID != userID {
		return nil, fiber.NewError(fiber.StatusConflict, "Username is already taken")
	}

	user.Username = &newUsername
	if err := db.Save(user).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to update username")
	}
	return user, nil
}

func SaveDeviceToken(db *gorm.DB, userID uuid.UUID, token string) error {
	user, err := FindUserByID(db, userID)
	if err != nil {
		return err
	}
	user.FCMToken = token
	if err := db.Save(user).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save device token")
	}
	return nil
}
