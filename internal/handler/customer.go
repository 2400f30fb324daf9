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

	"github.com/poojapath/puja-booking/internal/model"
	"github.com/poojapath/puja-booking/internal/repository"
	"github.com/poojapath/puja-booking/internal/validate"
)

// CustomerHandler serves the staff-facing customer CRUD and search
// endpoints.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

func NewCustomerHandler(r *repository.CustomerRepo) *CustomerHandler {
	return &CustomerHandler{Customers: r}
}

type customerReq struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email"`
	Country       string `json:"country"`
	State         string `json:"state"`
	District      string `json:"district"`
}

type customerResp struct {
	CustomerID    string     `json:"customerId"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	ContactNumber string     `json:"contactNumber"`
	Email         string     `json:"email"`
	Country       string     `json:"country"`
	State         string     `json:"state"`
	District      string     `json:"district"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt"`
}

func customerJSON(c model.Customer) customerResp {
	return customerResp{
		CustomerID:    c.CustomerID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		ContactNumber: c.ContactNumber,
		Email:         deref(c.Email),
		Country:       deref(c.Country),
		State:         deref(c.State),
		District:      deref(c.District),
		IsActive:      c.Active(),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func customerListJSON(cs []model.Customer) []customerResp {
	out := make([]customerResp, 0, len(cs))
	for _, c := range cs {
		out = append(out, customerJSON(c))
	}
	return out
}

func (r customerReq) profile() validate.CustomerProfile {
	return validate.CustomerProfile{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		ContactNumber: r.ContactNumber,
		Email:         r.Email,
		Country:       r.Country,
		State:         r.State,
		District:      r.District,
	}
}

// List returns every customer, newest first.
func (h *CustomerHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cs, err := h.Customers.ListAll(ctx)
	if err != nil {
		return internalError(c, "customer.list", err)
	}
	return c.JSON(http.StatusOK, customerListJSON(cs))
}

// Get returns one customer by GUID.
func (h *CustomerHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cust, err := h.Customers.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Customer not found")
		}
		return internalError(c, "customer.get", err)
	}
	return c.JSON(http.StatusOK, customerJSON(cust))
}

// SearchByEmail returns the customer with an exact email match.
func (h *CustomerHandler) SearchByEmail(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cust, err := h.Customers.GetByEmail(ctx, c.Param("email"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Customer not found")
		}
		return internalError(c, "customer.searchEmail", err)
	}
	return c.JSON(http.StatusOK, customerJSON(cust))
}

// SearchByContact returns the customer with an exact contact match.
func (h *CustomerHandler) SearchByContact(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cust, err := h.Customers.GetByContact(ctx, c.Param("contact"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Customer not found")
		}
		return internalError(c, "customer.searchContact", err)
	}
	return c.JSON(http.StatusOK, customerJSON(cust))
}

// ListByState returns customers in a state, ordered by name.
func (h *CustomerHandler) ListByState(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cs, err := h.Customers.ListByState(ctx, c.Param("state"))
	if err != nil {
		return internalError(c, "customer.listByState", err)
	}
	return c.JSON(http.StatusOK, customerListJSON(cs))
}

// Create stores a new customer record.  Validation accumulates every
// field violation into a single 400.  Customers created here carry no
// password hash and cannot log in until one is set through
// registration.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := validate.Customer(req.profile()); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	email := strings.TrimSpace(req.Email)
	contact := strings.TrimSpace(req.ContactNumber)
	if email != "" {
		if taken, err := h.Customers.EmailTaken(ctx, email, ""); err != nil {
			return internalError(c, "customer.create", err)
		} else if taken {
			return fail(c, http.StatusBadRequest, "Email already exists")
		}
	}
	if taken, err := h.Customers.ContactTaken(ctx, contact, ""); err != nil {
		return internalError(c, "customer.create", err)
	} else if taken {
		return fail(c, http.StatusBadRequest, "Contact number already exists")
	}

	cust := model.Customer{
		CustomerID:    uuid.NewString(),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		ContactNumber: contact,
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
		return internalError(c, "customer.create", err)
	}
	return c.JSON(http.StatusCreated, customerJSON(cust))
}

// Update overwrites the profile fields of an existing customer.  The
// stored row is read first so its updated_at can serve as the
// concurrency token; a token mismatch on a still-present row is a 409.
func (h *CustomerHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := validate.Customer(req.profile()); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cust, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Customer not found")
		}
		return internalError(c, "customer.update", err)
	}

	email := strings.TrimSpace(req.Email)
	contact := strings.TrimSpace(req.ContactNumber)
	if email != "" {
		if taken, err := h.Customers.EmailTaken(ctx, email, id); err != nil {
			return internalError(c, "customer.update", err)
		} else if taken {
			return fail(c, http.StatusBadRequest, "Email already exists")
		}
	}
	if taken, err := h.Customers.ContactTaken(ctx, contact, id); err != nil {
		return internalError(c, "customer.update", err)
	} else if taken {
		return fail(c, http.StatusBadRequest, "Contact number already exists")
	}

	token := cust.UpdatedAt
	cust.FirstName = strings.TrimSpace(req.FirstName)
	cust.LastName = strings.TrimSpace(req.LastName)
	cust.ContactNumber = contact
	cust.Email, cust.Country, cust.State, cust.District = nil, nil, nil, nil
	if email != "" {
		cust.Email = &email
	}
	setOptional(&cust.Country, req.Country)
	setOptional(&cust.State, req.State)
	setOptional(&cust.District, req.District)

	if err := h.Customers.Update(ctx, &cust, token); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fail(c, http.StatusNotFound, "Customer not found")
		case errors.Is(err, repository.ErrStaleWrite):
			return fail(c, http.StatusConflict, "Customer was modified by another request, please retry")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return fail(c, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, repository.ErrDuplicateContact):
			return fail(c, http.StatusBadRequest, "Contact number already exists")
		}
		return internalError(c, "customer.update", err)
	}
	return c.JSON(http.StatusOK, customerJSON(cust))
}

// Delete removes a customer.  Customers with bookings are protected by
// the restrict FK and come back as 409.
func (h *CustomerHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Customers.Delete(ctx, c.Param("id"))
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, sql.ErrNoRows):
		return fail(c, http.StatusNotFound, "Customer not found")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, "Customer has bookings and cannot be deleted")
	}
	return internalError(c, "customer.delete", err)
}

// reqCtx bounds a handler's database work.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
