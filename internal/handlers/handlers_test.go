package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/selin/goaltrack-api/internal/config"
	"github.com/selin/goaltrack-api/internal/database"
	"github.com/selin/goaltrack-api/internal/handlers"
	"github.com/selin/goaltrack-api/internal/middleware"
	"github.com/selin/goaltrack-api/internal/models"
	"github.com/selin/goaltrack-api/internal/routes"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	database.DB = db
	require.NoError(t, database.Migrate())

	cfg := &config.Config{
		Env:             "development",
		JWTSecret:       "test-secret",
		DefaultPageSize: 20,
	}
	middleware.Init(cfg.JWTSecret)
	handlers.Init(cfg)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	routes.Setup(app)
	return app
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func signup(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, env := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth models.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func TestSignupAndSignin(t *testing.T) {
	app := setupApp(t)

	signup(t, app, "alice@example.com")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email": "alice@example.com", "password": "again",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodPost, "/api/auth/signin", "", fiber.Map{
		"email": "alice@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var auth models.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/signin", "", fiber.Map{
		"email": "alice@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGoalRoutesRequireAuth(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/goals/", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/goals/", "bogus-token", fiber.Map{})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGoalLifecycle(t *testing.T) {
	app := setupApp(t)
	token := signup(t, app, "bob@example.com")

	target := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	resp, env := doJSON(t, app, http.MethodPost, "/api/goals/", token, fiber.Map{
		"title":                "save money",
		"description":          "emergency fund",
		"targetCompletionDate": target,
		"category":             "Finance",
		"isPublic":             true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var goal models.Goal
	require.NoError(t, json.Unmarshal(env.Data, &goal))
	require.Equal(t, models.CategoryFinance, goal.Category)
	require.False(t, goal.Completed)

	// Complete: Finance is worth 20 points.
	resp, env = doJSON(t, app, http.MethodPut, "/api/goals/"+goal.ID.String()+"/complete", token, fiber.Map{
		"complete": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &goal))
	require.True(t, goal.Completed)
	require.Equal(t, 20, goal.PointsEarned)

	resp, env = doJSON(t, app, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile struct {
		TotalPoints int `json:"totalPoints"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	require.Equal(t, 20, profile.TotalPoints)

	// Body defaults to complete=true; already completed, so no change.
	resp, env = doJSON(t, app, http.MethodPut, "/api/goals/"+goal.ID.String()+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &goal))
	require.Equal(t, 20, goal.PointsEarned)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/goals/"+goal.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/goals/"+goal.ID.String(), token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGoalOwnershipEnforced(t *testing.T) {
	app := setupApp(t)
	owner := signup(t, app, "owner@example.com")
	stranger := signup(t, app, "stranger@example.com")

	target := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, env := doJSON(t, app, http.MethodPost, "/api/goals/", owner, fiber.Map{
		"title": "mine", "description": "hands off",
		"targetCompletionDate": target, "category": "Health",
	})
	var goal models.Goal
	require.NoError(t, json.Unmarshal(env.Data, &goal))

	resp, _ := doJSON(t, app, http.MethodPut, "/api/goals/"+goal.ID.String()+"/complete", stranger, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/goals/"+goal.ID.String(), stranger, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateGoalMissingRecurrenceFields(t *testing.T) {
	app := setupApp(t)
	token := signup(t, app, "carol@example.com")

	target := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, env := doJSON(t, app, http.MethodPost, "/api/goals/", token, fiber.Map{
		"title": "run", "description": "5k",
		"targetCompletionDate": target, "category": "Health",
	})
	var goal models.Goal
	require.NoError(t, json.Unmarshal(env.Data, &goal))

	resp, _ := doJSON(t, app, http.MethodPut, "/api/goals/"+goal.ID.String(), token, fiber.Map{
		"recurring": true,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, env = doJSON(t, app, http.MethodGet, "/api/goals/?page=0&size=10", token, nil)
	var page struct {
		Assets []models.Goal `json:"assets"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Assets, 1)
	require.False(t, page.Assets[0].Recurring)
}

func TestListUserGoalsPagination(t *testing.T) {
	app := setupApp(t)
	token := signup(t, app, "dave@example.com")

	target := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/goals/", token, fiber.Map{
			"title": fmt.Sprintf("goal %d", i), "description": "d",
			"targetCompletionDate": target, "category": "Health",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	_, env := doJSON(t, app, http.MethodGet, "/api/goals/?page=1&size=5", token, nil)
	var page struct {
		Limit       int           `json:"limit"`
		TotalPages  int           `json:"totalPages"`
		CurrentPage int           `json:"currentPage"`
		TotalItems  int64         `json:"totalItems"`
		Assets      []models.Goal `json:"assets"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Equal(t, 5, page.Limit)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, 1, page.CurrentPage)
	require.EqualValues(t, 12, page.TotalItems)
	require.Len(t, page.Assets, 5)
}

// The public leaderboard needs no token and only lists completed public
// goals.
func TestPublicLeaderboard(t *testing.T) {
	app := setupApp(t)
	token := signup(t, app, "erin@example.com")

	_, _ = doJSON(t, app, http.MethodPut, "/api/user/username", token, fiber.Map{
		"newUsername": "erin",
	})

	target := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, env := doJSON(t, app, http.MethodPost, "/api/goals/", token, fiber.Map{
		"title": "public win", "description": "d",
		"targetCompletionDate": target, "category": "Career", "isPublic": true,
	})
	var goal models.Goal
	require.NoError(t, json.Unmarshal(env.Data, &goal))
	resp, _ := doJSON(t, app, http.MethodPut, "/api/goals/"+goal.ID.String()+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A private completed goal must not leak onto the board.
	_, env = doJSON(t, app, http.MethodPost, "/api/goals/", token, fiber.Map{
		"title": "private win", "description": "d",
		"targetCompletionDate": target, "category": "Health",
	})
	require.NoError(t, json.Unmarshal(env.Data, &goal))
	resp, _ = doJSON(t, app, http.MethodPut, "/api/goals/"+goal.ID.String()+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = doJSON(t, app, http.MethodGet, "/api/goals/public?page=0&size=10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		TotalItems int64 `json:"totalItems"`
		Assets     []struct {
			Username    string `json:"username"`
			TotalPoints int    `json:"totalPoints"`
			Goals       []struct {
				Title        string `json:"title"`
				PointsEarned int    `json:"pointsEarned"`
			} `json:"goals"`
		} `json:"assets"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.EqualValues(t, 1, page.TotalItems)
	require.LessOrEqual(t, len(page.Assets), 10)
	require.Equal(t, "erin", page.Assets[0].Username)
	require.Equal(t, 35, page.Assets[0].TotalPoints)
	require.Len(t, page.Assets[0].Goals, 1)
	require.Equal(t, "public win", page.Assets[0].Goals[0].Title)
	require.Equal(t, 25, page.Assets[0].Goals[0].PointsEarned)
}

func TestUpdateUsernameConflict(t *testing.T) {
	app := setupApp(t)
	first := signup(t, app, "one@example.com")
	second := signup(t, app, "two@example.com")

	resp, _ := doJSON(t, app, http.MethodPut, "/api/user/username", first, fiber.Map{
		"newUsername": "taken",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/user/username", second, fiber.Map{
		"newUsername": "taken",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/user/username", second, fiber.Map{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
