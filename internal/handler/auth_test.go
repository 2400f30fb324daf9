package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poojapath/puja-booking/internal/config"
	"github.com/poojapath/puja-booking/internal/repository"
	"github.com/poojapath/puja-booking/internal/utils"
)

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		JWTKey:         "unit-test-signing-key",
		JWTIssuer:      "puja-booking",
		JWTAudience:    "puja-booking-clients",
		JWTExpiryHours: 24,
	}
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAuthHandler(testConfig(), repository.NewUserRepo(db)), mock
}

func jsonCtx(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func userRow(username, passwordHash string, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "username", "email", "password_hash", "role", "is_active",
		"created_at", "updated_at",
	}).AddRow("user-guid", username, "admin@example.com", passwordHash, "Admin",
		active, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil)
}

func TestStaffLogin_Success(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("FROM users WHERE username=\\?").
		WithArgs("admin").
		WillReturnRows(userRow("admin", utils.HashPassword("password"), true))

	c, rec := jsonCtx(t, http.MethodPost, "/api/auth/login",
		`{"username":"admin","password":"password"}`)

	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, "admin", resp["username"])
	assert.Equal(t, "Admin", resp["role"])
}

func TestStaffLogin_WrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("FROM users WHERE username=\\?").
		WithArgs("admin").
		WillReturnRows(userRow("admin", utils.HashPassword("password"), true))

	c, rec := jsonCtx(t, http.MethodPost, "/api/auth/login",
		`{"username":"admin","password":"wrong"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password")
}

func TestStaffLogin_InactiveAccountSameError(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("FROM users WHERE username=\\?").
		WithArgs("admin").
		WillReturnRows(userRow("admin", utils.HashPassword("password"), false))

	c, rec := jsonCtx(t, http.MethodPost, "/api/auth/login",
		`{"username":"admin","password":"password"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password")
}

func TestStaffLogin_UnknownUserSameError(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("FROM users WHERE username=\\?").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "username", "email", "password_hash", "role",
			"is_active", "created_at", "updated_at",
		}))

	c, rec := jsonCtx(t, http.MethodPost, "/api/auth/login",
		`{"username":"ghost","password":"password"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password")
}

func TestStaffRegister_DuplicateUsernameWinsOverEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	// Both username and email are taken; the username check runs first.
	mock.ExpectQuery(`SELECT COUNT\(1\) FROM users WHERE username=\?`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	c, rec := jsonCtx(t, http.MethodPost, "/api/auth/register",
		`{"username":"admin","email":"admin@example.com","password":"password","role":"Admin"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already exists")
}

func TestStaffRegister_RejectsUnknownRole(t *testing.T) {
	h, _ := newAuthHandler(t)

	c, rec := jsonCtx(t, http.MethodPost, "/api/auth/register",
		`{"username":"ops","email":"ops@example.com","password":"password","role":"Superuser"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid role")
}

func TestStaffRegister_Success(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT COUNT\(1\) FROM users WHERE username=\?`).
		WithArgs("ops").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COUNT\(1\) FROM users WHERE email=\?`).
		WithArgs("ops@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := jsonCtx(t, http.MethodPost, "/api/auth/register",
		`{"username":"ops","email":"ops@example.com","password":"password","role":"Manager"}`)

	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, "Manager", resp["role"])
}
