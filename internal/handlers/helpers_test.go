package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jobdeck/jobboard/internal/hash"
	"github.com/jobdeck/jobboard/internal/models"
	"github.com/jobdeck/jobboard/internal/repo"
	"github.com/jobdeck/jobboard/internal/token"
)

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Job{}, &models.Application{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	return e
}

type memBlocklist struct {
	mu sync.Mutex
	m  map[string]time.Time
}

func newMemBlocklist() *memBlocklist {
	return &memBlocklist{m: make(map[string]time.Time)}
}

func (b *memBlocklist) Add(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[jti] = time.Now().Add(ttl)
	return nil
}

func (b *memBlocklist) Contains(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.m[jti]
	return ok && time.Now().Before(exp), nil
}

type memVerifications struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemVerifications() *memVerifications {
	return &memVerifications{m: make(map[string]string)}
}

func (v *memVerifications) Save(_ context.Context, email, token string, _ time.Duration) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m[email] = token
	return nil
}

func (v *memVerifications) Get(_ context.Context, email string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.m[email], nil
}

func (v *memVerifications) Delete(_ context.Context, email string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.m, email)
	return nil
}

func jsonRequest(t *testing.T, e *echo.Echo, method, target string, payload any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func createTestUser(t *testing.T, db *gorm.DB, email, password, role string, verified bool) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &models.User{
		Username:       "test_user",
		Email:          email,
		HashedPassword: pwHash,
		Role:           role,
		IsVerified:     verified,
	}
	if err := repo.NewUserRepo(db).Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func setCurrentUser(c echo.Context, user *models.User) {
	c.Set("current_user", user)
}

func userClaims(user *models.User) token.UserClaims {
	return token.UserClaims{UserUID: user.UID.String(), Email: user.Email, Role: user.Role}
}
