package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/poojapath/puja-booking/internal/config"
	"github.com/poojapath/puja-booking/internal/model"
	"github.com/poojapath/puja-booking/internal/repository"
	"github.com/poojapath/puja-booking/internal/utils"
	"github.com/poojapath/puja-booking/internal/validate"
)

// CustomerAuthHandler serves the customer-facing login, registration
// and profile endpoints.
type CustomerAuthHandler struct {
	Cfg       config.Config
	Customers *repository.CustomerRepo
}

func NewCustomerAuthHandler(cfg config.Config, r *repository.CustomerRepo) *CustomerAuthHandler {
	return &CustomerAuthHandler{Cfg: cfg, Customers: r}
}

// ----- DTOs -----

type customerRegisterReq struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Country       string `json:"country"`
	State         string `json:"state"`
	District      string `json:"district"`
}
type customerLoginReq struct {
	EmailOrContact string `json:"emailOrContact"`
	Password       string `json:"password"`
}
type customerAuthResp struct {
	Token      string    `json:"token"`
	CustomerID string    `json:"customerId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Contact    string    `json:"contact"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func (h *CustomerAuthHandler) tokenConfig() utils.TokenConfig {
	return utils.TokenConfig{
		Key:         h.Cfg.JWTKey,
		Issuer:      h.Cfg.JWTIssuer,
		Audience:    h.Cfg.JWTAudience,
		ExpiryHours: h.Cfg.JWTExpiryHours,
	}
}

// Register validates the profile, enforces email and contact
// uniqueness, stores the customer with a hashed password and returns a
// token straight away.
func (h *CustomerAuthHandler) Register(c echo.Context) error {
	var req customerRegisterReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Password) == "" {
		return fail(c, http.StatusBadRequest, "Password is required and cannot be empty")
	}
	if err := validate.Customer(validate.CustomerProfile{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Country:       req.Country,
		State:         req.State,
		District:      req.District,
	}); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	email := strings.TrimSpace(req.Email)
	contact := strings.TrimSpace(req.ContactNumber)
	if email != "" {
		if taken, err := h.Customers.EmailTaken(ctx, email, ""); err != nil {
			return internalError(c, "customerauth.register", err)
		} else if taken {
			return fail(c, http.StatusBadRequest, "Email already exists")
		}
	}
	if taken, err := h.Customers.ContactTaken(ctx, contact, ""); err != nil {
		return internalError(c, "customerauth.register", err)
	} else if taken {
		return fail(c, http.StatusBadRequest, "Contact number already exists")
	}

	hash := utils.HashPassword(req.Password)
	cust := model.Customer{
		CustomerID:    uuid.NewString(),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		ContactNumber: contact,
		PasswordHash:  &hash,
		IsActive:      1,
		CreatedAt:     time.Now().UTC(),
	}
	if email != "" {
		cust.Email = &email
	}
	setOptional(&cust.Country, req.Country)
	setOptional(&cust.State, req.State)
	setOptional(&cust.District, req.District)

	if err := h.Customers.Create(ctx, &cust); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return fail(c, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, repository.ErrDuplicateContact):
			return fail(c, http.StatusBadRequest, "Contact number already exists")
		}
		return internalError(c, "customerauth.register", err)
	}

	access, err := utils.NewCustomerToken(h.tokenConfig(), cust)
	if err != nil {
		return internalError(c, "customerauth.register", err)
	}
	return c.JSON(http.StatusCreated, customerAuthResp{
		Token:      access.Token,
		CustomerID: cust.CustomerID,
		Name:       cust.FullName(),
		Email:      email,
		Contact:    cust.ContactNumber,
		ExpiresAt:  access.Exp,
	})
}

// Login matches the single identifier against email or contact number,
// exactly as typed.  Absent account, inactive account, no password set
// and wrong password all produce the same generic 401.
func (h *CustomerAuthHandler) Login(c echo.Context) error {
	var req customerLoginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.EmailOrContact == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "emailOrContact and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cust, err := h.Customers.GetByEmailOrContact(ctx, req.EmailOrContact)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		return internalError(c, "customerauth.login", err)
	}
	if !cust.Active() || cust.PasswordHash == nil ||
		!utils.VerifyPassword(*cust.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	access, err := utils.NewCustomerToken(h.tokenConfig(), cust)
	if err != nil {
		return internalError(c, "customerauth.login", err)
	}
	return c.JSON(http.StatusOK, customerAuthResp{
		Token:      access.Token,
		CustomerID: cust.CustomerID,
		Name:       cust.FullName(),
		Email:      deref(cust.Email),
		Contact:    cust.ContactNumber,
		ExpiresAt:  access.Exp,
	})
}

// Profile resolves the customer_id claim back to a stored customer.
// The row must still exist and still be active.
func (h *CustomerAuthHandler) Profile(c echo.Context) error {
	id, ok := c.Get("customer_id").(string)
	if !ok || id == "" {
		return fail(c, http.StatusUnauthorized, "invalid token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cust, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Customer not found")
		}
		return internalError(c, "customerauth.profile", err)
	}
	if !cust.Active() {
		return fail(c, http.StatusUnauthorized, "account is inactive")
	}
	return c.JSON(http.StatusOK, customerJSON(cust))
}

// setOptional stores a trimmed non-empty value, leaving the field nil
// otherwise.
func setOptional(dst **string, v string) {
	v = strings.TrimSpace(v)
	if v != "" {
		*dst = &v
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
