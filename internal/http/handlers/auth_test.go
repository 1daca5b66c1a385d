package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/sinahmd/ecommerce/internal/config"
	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/modules/users"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock := newMockDB(t)
	h := NewAuthHandler(users.NewRepo(db), config.AuthConfig{
		JWTSecret:       []byte("test-jwt-secret"),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}, false)

	r := gin.New()
	r.Use(middleware.ErrorHandler(testLogger()))
	r.POST("/login", h.Login)
	return r, mock
}

func cookieNames(res *http.Response) map[string]bool {
	names := make(map[string]bool)
	for _, ck := range res.Cookies() {
		names[ck.Name] = true
	}
	return names
}

// A successful login must carry the full cookie pair; a success body
// with a partial pair would strand the client half-authenticated.
func TestLoginSetsBothAuthCookies(t *testing.T) {
	r, mock := authTestRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(mock.NewRows([]string{"id", "email", "password_hash", "role", "is_active"}).
			AddRow("u1", "a@b.co", hash, users.RoleCustomer, true))

	body := `{"email":"a@b.co","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	names := cookieNames(w.Result())
	if !names[middleware.AccessCookie] || !names[middleware.RefreshCookie] {
		t.Errorf("cookies set = %v, want both %s and %s", names, middleware.AccessCookie, middleware.RefreshCookie)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r, mock := authTestRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(mock.NewRows([]string{"id", "email", "password_hash", "role", "is_active"}).
			AddRow("u1", "a@b.co", hash, users.RoleCustomer, true))

	body := `{"email":"a@b.co","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	names := cookieNames(w.Result())
	if names[middleware.AccessCookie] || names[middleware.RefreshCookie] {
		t.Errorf("auth cookies must not be set on a failed login: %v", names)
	}
}
