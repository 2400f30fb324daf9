package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/poojapath/puja-booking/internal/config"
	"github.com/poojapath/puja-booking/internal/model"
	"github.com/poojapath/puja-booking/internal/repository"
	"github.com/poojapath/puja-booking/internal/utils"
)

// AuthHandler bundles dependencies for the staff auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type staffRegisterReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
type staffLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type staffAuthResp struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *AuthHandler) tokenConfig() utils.TokenConfig {
	return utils.TokenConfig{
		Key:         h.Cfg.JWTKey,
		Issuer:      h.Cfg.JWTIssuer,
		Audience:    h.Cfg.JWTAudience,
		ExpiryHours: h.Cfg.JWTExpiryHours,
	}
}

// Register creates a staff user and returns a token immediately.
// Username and email must each be unused; the username check runs first
// and wins when both collide.
func (h *AuthHandler) Register(c echo.Context) error {
	var req staffRegisterReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "username, email and password are required")
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidStaffRole(role) {
		return fail(c, http.StatusBadRequest, "invalid role")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if taken, err := h.Users.ExistsByUsername(ctx, req.Username); err != nil {
		return internalError(c, "auth.register", err)
	} else if taken {
		return fail(c, http.StatusBadRequest, "Username already exists")
	}
	if taken, err := h.Users.ExistsByEmail(ctx, req.Email); err != nil {
		return internalError(c, "auth.register", err)
	} else if taken {
		return fail(c, http.StatusBadRequest, "Email already exists")
	}

	u := model.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: utils.HashPassword(req.Password),
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Users.Create(ctx, &u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return fail(c, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return fail(c, http.StatusBadRequest, "Email already exists")
		}
		return internalError(c, "auth.register", err)
	}

	access, err := utils.NewStaffToken(h.tokenConfig(), u)
	if err != nil {
		return internalError(c, "auth.register", err)
	}
	return c.JSON(http.StatusCreated, staffAuthResp{
		Token:     access.Token,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		ExpiresAt: access.Exp,
	})
}

// Login verifies credentials and returns a token.  Unknown username,
// inactive account and wrong password all produce the same generic 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req staffLoginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusUnauthorized, "Invalid username or password")
		}
		return internalError(c, "auth.login", err)
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid username or password")
	}

	access, err := utils.NewStaffToken(h.tokenConfig(), u)
	if err != nil {
		return internalError(c, "auth.login", err)
	}
	return c.JSON(http.StatusOK, staffAuthResp{
		Token:     access.Token,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		ExpiresAt: access.Exp,
	})
}

// HashPasswordDiag returns the stored form of a password together with
// a ready-made UPDATE statement.  Routed only in dev builds.
func (h *AuthHandler) HashPasswordDiag(c echo.Context) error {
	password := c.QueryParam("password")
	if password == "" {
		return fail(c, http.StatusBadRequest, "password query parameter is required")
	}
	hash := utils.HashPassword(password)
	return c.JSON(http.StatusOK, echo.Map{
		"password": password,
		"hash":     hash,
		"sql":      fmt.Sprintf("UPDATE users SET password_hash = '%s' WHERE username = 'admin';", hash),
	})
}
