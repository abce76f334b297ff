package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brightfold/landing-api/internal/http/api/handlers"
	"github.com/brightfold/landing-api/internal/models"
	"github.com/brightfold/landing-api/internal/security"
	"github.com/brightfold/landing-api/internal/session"
	"github.com/brightfold/landing-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(&models.Admin{}, &models.ContentSection{}, &models.LandingImage{}, &models.Session{}); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}

	hash, errHash := security.HashPassword("admin123")
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	if errSeed := db.Create(&models.Admin{Username: "admin", Password: hash}).Error; errSeed != nil {
		t.Fatalf("seed admin: %v", errSeed)
	}

	engine := gin.New()
	engine.Use(Recovery())
	Register(engine, Deps{
		DB:       db,
		Sessions: session.NewStore(db, time.Hour),
		Uploads:  storage.NewLocalStore(t.TempDir(), "/uploads", 5<<20),
		Cookie:   handlers.CookieOptions{Name: "landing_session", TTL: time.Hour},
		MaxBatch: 10,
	})
	return engine
}

func loginCookie(t *testing.T, engine *gin.Engine) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "admin123"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "landing_session" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestProtectedRouteRequiresSession(t *testing.T) {
	engine := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/content", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestLoginThenProtectedRouteSucceeds(t *testing.T) {
	engine := setupAPI(t)
	cookie := loginCookie(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/content", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	engine := setupAPI(t)
	cookie := loginCookie(t, engine)

	logoutReq := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	logoutReq.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, logoutReq)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected status 200, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/content", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 after logout, got %d", w.Code)
	}
}

func TestTamperedCookieRejected(t *testing.T) {
	engine := setupAPI(t)
	loginCookie(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(&http.Cookie{Name: "landing_session", Value: "forged-token"})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestUnknownRouteEnvelope(t *testing.T) {
	engine := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &env); errDecode != nil {
		t.Fatalf("decode envelope: %v", errDecode)
	}
	if env.Success || env.Message != "Route not found" {
		t.Fatalf("unexpected envelope: %s", w.Body.String())
	}
}

func TestHealthEndpointIsPublic(t *testing.T) {
	engine := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestPublicLandingRoutesNeedNoSession(t *testing.T) {
	engine := setupAPI(t)

	for _, path := range []string{
		"/api/landing/content",
		"/api/landing/images/gallery",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, w.Code)
		}
	}
}
