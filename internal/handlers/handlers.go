package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/selin/goaltrack-api/internal/config"
	"github.com/selin/goaltrack-api/internal/logger"
	"github.com/selin/goaltrack-api/internal/pagination"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	cfg       *config.Config
	pager     *pagination.Pager
	oauthConf *oauth2.Config
)

// Init wires handler-level dependencies from the loaded configuration.
func Init(c *config.Config) {
	cfg = c
	pager = pagination.New(c.DefaultPageSize)
	oauthConf = &oauth2.Config{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
		RedirectURL:  c.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/userinfo.email",
		},
		Endpoint: google.Endpoint,
	}
}

type response struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(response{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// ErrorHandler maps every error to a {statusCode, message} body.
// Unexpected failures get a generic message outside development so
// internals never leak.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	message := err.Error()
	if code == fiber.StatusInternalServerError {
		logger.Log.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err))
		if cfg != nil && cfg.Env != "development" {
			message = "Something went wrong!"
		}
	}

	return c.Status(code).JSON(response{
		StatusCode: code,
		Message:    message,
	})
}
