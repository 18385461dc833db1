package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"golang.org/x/crypto/bcrypt"

	"signcraft/internal/http/handlers"
	"signcraft/internal/repos"
	"signcraft/internal/services"
)

// Seeded admin password must land hashed, never plaintext.
func TestSeededAdminPasswordHashed(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "Passw0rd!")
	db := openTestDB(t)

	var hash string
	if err := db.Get(&hash, `SELECT password_hash FROM users WHERE username='admin'`); err != nil {
		t.Fatalf("admin not seeded: %v", err)
	}
	if strings.Contains(hash, "Passw0rd!") {
		t.Fatal("hash contains plaintext password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash format: %s", hash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("Passw0rd!")); err != nil {
		t.Fatalf("seed hash does not validate known password: %v", err)
	}
}

func loginApp(t *testing.T, max int) *fiber.App {
	t.Helper()
	db := openTestDB(t)
	authSvc := services.NewAuthService(repos.NewUserRepo(db), "test-secret")
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New()
	if max > 0 {
		app.Post("/admin/login", limiter.New(limiter.Config{Max: max, Expiration: time.Minute}), authH.Login)
	} else {
		app.Post("/admin/login", authH.Login)
	}
	app.Post("/admin/logout", authH.Logout)
	return app
}

func postLogin(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestLoginFailSuccessAndCookie(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "Passw0rd!")
	app := loginApp(t, 0)

	// bad password -> uniform 401, no session cookie
	resp := postLogin(t, app, `{"username":"admin","password":"wrongpass!"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}
	if extractCookie(resp, handlers.SessionCookie) != "" {
		t.Fatal("failed login issued a session cookie")
	}

	// unknown user gets the same answer
	resp = postLogin(t, app, `{"username":"root","password":"Passw0rd!"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", resp.StatusCode)
	}

	// missing fields -> 400
	resp = postLogin(t, app, `{"username":"admin"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", resp.StatusCode)
	}

	// good creds -> ok + http-only cookie
	resp = postLogin(t, app, `{"username":"admin","password":"Passw0rd!"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on success, got %d", resp.StatusCode)
	}
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == handlers.SessionCookie {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("session cookie missing after login")
	}
	if !session.HttpOnly {
		t.Fatal("session cookie must be http-only")
	}
}

func TestLoginThrottled(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "Passw0rd!")
	app := loginApp(t, 2)

	for i := 0; i < 2; i++ {
		resp := postLogin(t, app, `{"username":"admin","password":"wrongpass!"}`)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, resp.StatusCode)
		}
	}
	resp := postLogin(t, app, `{"username":"admin","password":"wrongpass!"}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "Passw0rd!")
	app := loginApp(t, 0)

	resp, err := app.Test(httptest.NewRequest("POST", "/admin/logout", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == handlers.SessionCookie && c.Expires.After(time.Now()) {
			t.Fatal("logout did not expire the session cookie")
		}
	}
}
