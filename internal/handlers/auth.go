package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/selin/goaltrack-api/internal/database"
	"github.com/selin/goaltrack-api/internal/logger"
	"github.com/selin/goaltrack-api/internal/middleware"
	"github.com/selin/goaltrack-api/internal/models"
	"github.com/selin/goaltrack-api/internal/services"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	user, err := services.Signup(database.DB, req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	return respond(c, fiber.StatusCreated, "Signup successful.", models.AuthResponse{
		Token: token,
		User:  *user,
	})
}

func Signin(c *fiber.Ctx) error {
	var req models.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	user, ok := services.CheckPassword(database.DB, req.Email, req.Password)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	return respond(c, fiber.StatusOK, "Signin successful.", models.AuthResponse{
		Token: token,
		User:  *user,
	})
}

// GoogleLogin hands the client the Google consent URL for the web flow.
func GoogleLogin(c *fiber.Ctx) error {
	authURL := oauthConf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	return respond(c, fiber.StatusOK, "Google auth URL.", authURL)
}

// GoogleCallback exchanges the authorization code, fetches the Google
// profile and signs the user in, creating the account on first login.
func GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing authorization code")
	}

	tok, err := oauthConf.Exchange(c.Context(), code)
	if err != nil {
		logger.Log.Warn("google code exchange failed", zap.Error(err))
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization code")
	}

	info, err := fetchGoogleUserInfo(tok.AccessToken)
	if err != nil {
		logger.Log.Warn("google userinfo fetch failed", zap.Error(err))
		return fiber.NewError(fiber.StatusUnauthorized, "Failed to fetch Google profile")
	}
	if info.Sub == "" || info.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email not available from Google account")
	}

	user, err := services.FindOrCreateByGoogleID(database.DB, info.Sub, info.Email)
	if err != nil {
		return err
	}

	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	return respond(c, fiber.StatusOK, "Google sign in successful.", fiber.Map{"token": token})
}

// GoogleTokenLogin verifies a Google ID token posted by mobile clients
// and signs the user in.
func GoogleTokenLogin(c *fiber.Ctx) error {
	var req models.GoogleAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.IDToken == "" {
		return fiber.NewError(fiber.StatusBadRequest, "ID token is required")
	}

	tokenInfo, err := verifyGoogleIDToken(req.IDToken)
	if err != nil {
		logger.Log.Warn("google token verification failed", zap.Error(err))
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid Google token")
	}

	// The token's aud is the iOS client ID when signing in from iOS, or
	// the web client ID from other platforms.
	if cfg.GoogleClientIDs != "" {
		valid := false
		for _, id := range strings.Split(cfg.GoogleClientIDs, ",") {
			if strings.TrimSpace(id) == tokenInfo.Aud {
				valid = true
				break
			}
		}
		if !valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token not intended for this app")
		}
	}

	if tokenInfo.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email not available from Google account")
	}

	user, err := services.FindOrCreateByGoogleID(database.DB, tokenInfo.Sub, tokenInfo.Email)
	if err != nil {
		return err
	}

	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	return respond(c, fiber.StatusOK, "Google sign in successful.", models.AuthResponse{
		Token: token,
		User:  *user,
	})
}

type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Sub           string `json:"sub"`
}

type googleUserInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// verifyGoogleIDToken verifies a Google ID token against Google's
// tokeninfo endpoint.
func verifyGoogleIDToken(idToken string) (*googleTokenInfo, error) {
	resp, err := http.Get("https://oauth2.googleapis.com/tokeninfo?id_token=" + idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token verification failed with status %d", resp.StatusCode)
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode token info: %w", err)
	}
	return &info, nil
}

func fetchGoogleUserInfo(accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequest(http.MethodGet, "https://www.googleapis.com/oauth2/v3/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	return &info, nil
}
