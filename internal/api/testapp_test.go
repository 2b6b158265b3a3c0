package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pursueapp/pursue/internal/db"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "pursue-api.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	app := fiber.New()
	RegisterRoutes(app, NewHandler(database, "test-secret-key", false))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return response
}

func decodeBody(t *testing.T, response *http.Response, target any) {
	t.Helper()

	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func expectStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()

	if response.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, response.StatusCode)
	}
}

type authSession struct {
	Token  string
	UserID uint
}

func registerTestUser(t *testing.T, app *fiber.App, email string) authSession {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":        email,
		"password":     "StrongPass1",
		"display_name": "Test User",
		"timezone":     "UTC",
	})
	expectStatus(t, response, http.StatusCreated)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, response, &body)
	if body.Token == "" || body.User.ID == 0 {
		t.Fatalf("expected token and user id in register response, got %+v", body)
	}
	return authSession{Token: body.Token, UserID: body.User.ID}
}

func createTestGroup(t *testing.T, app *fiber.App, session authSession, name string) (uint, string) {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/groups", session.Token, fiber.Map{"name": name})
	expectStatus(t, response, http.StatusCreated)

	var body struct {
		Group struct {
			ID         uint   `json:"id"`
			InviteCode string `json:"invite_code"`
		} `json:"group"`
	}
	decodeBody(t, response, &body)
	if body.Group.ID == 0 || body.Group.InviteCode == "" {
		t.Fatalf("expected group id and invite code, got %+v", body)
	}
	return body.Group.ID, body.Group.InviteCode
}

func addTestGoal(t *testing.T, app *fiber.App, session authSession, groupID uint, payload fiber.Map) uint {
	t.Helper()

	path := fmt.Sprintf("/api/groups/%d/goals", groupID)
	response := doJSON(t, app, http.MethodPost, path, session.Token, payload)
	expectStatus(t, response, http.StatusCreated)

	var body struct {
		Goal struct {
			ID uint `json:"id"`
		} `json:"goal"`
	}
	decodeBody(t, response, &body)
	if body.Goal.ID == 0 {
		t.Fatalf("expected goal id, got %+v", body)
	}
	return body.Goal.ID
}
