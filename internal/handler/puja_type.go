package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/poojapath/puja-booking/internal/model"
	"github.com/poojapath/puja-booking/internal/repository"
	"github.com/poojapath/puja-booking/internal/validate"
)

// PujaTypeHandler serves the service catalog endpoints.  Reads are
// public; writes are admin only (enforced at the router).
type PujaTypeHandler struct {
	Types *repository.PujaTypeRepo
}

func NewPujaTypeHandler(r *repository.PujaTypeRepo) *PujaTypeHandler {
	return &PujaTypeHandler{Types: r}
}

type pujaTypeReq struct {
	PujaTypeName   string  `json:"pujaTypeName"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	ImageURL       string  `json:"imageUrl"`
	BenefitOfPooja string  `json:"benefitOfPooja"`
	PoojaDuration  string  `json:"poojaDuration"`
	RequiredThings string  `json:"requiredThings"`
	IsActive       *bool   `json:"isActive"`
}

type pujaTypeResp struct {
	PujaTypeID     int64     `json:"pujaTypeId"`
	PujaTypeName   string    `json:"pujaTypeName"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	ImageURL       string    `json:"imageUrl"`
	BenefitOfPooja string    `json:"benefitOfPooja"`
	PoojaDuration  string    `json:"poojaDuration"`
	RequiredThings string    `json:"requiredThings"`
	IsActive       bool      `json:"isActive"`
	CreatedDate    time.Time `json:"createdDate"`
}

func pujaTypeJSON(p model.PujaType) pujaTypeResp {
	return pujaTypeResp{
		PujaTypeID:     p.PujaTypeID,
		PujaTypeName:   p.PujaTypeName,
		Description:    deref(p.Description),
		Price:          p.Price,
		ImageURL:       deref(p.ImageURL),
		BenefitOfPooja: deref(p.BenefitOfPooja),
		PoojaDuration:  deref(p.PoojaDuration),
		RequiredThings: deref(p.RequiredThings),
		IsActive:       p.IsActive,
		CreatedDate:    p.CreatedDate,
	}
}

func pujaTypeListJSON(ps []model.PujaType) []pujaTypeResp {
	out := make([]pujaTypeResp, 0, len(ps))
	for _, p := range ps {
		out = append(out, pujaTypeJSON(p))
	}
	return out
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// List returns the full catalog.
func (h *PujaTypeHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ps, err := h.Types.ListAll(ctx)
	if err != nil {
		return internalError(c, "pujatype.list", err)
	}
	return c.JSON(http.StatusOK, pujaTypeListJSON(ps))
}

// ListActive returns only bookable entries.
func (h *PujaTypeHandler) ListActive(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ps, err := h.Types.ListActive(ctx)
	if err != nil {
		return internalError(c, "pujatype.listActive", err)
	}
	return c.JSON(http.StatusOK, pujaTypeListJSON(ps))
}

// Get returns one catalog entry.
func (h *PujaTypeHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Types.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Puja type not found")
		}
		return internalError(c, "pujatype.get", err)
	}
	return c.JSON(http.StatusOK, pujaTypeJSON(p))
}

// Create adds a catalog entry.  New entries default to active unless
// the request says otherwise.
func (h *PujaTypeHandler) Create(c echo.Context) error {
	var req pujaTypeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := validate.PujaType(req.PujaTypeName, req.Price, req.ImageURL); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p := model.PujaType{
		PujaTypeName: strings.TrimSpace(req.PujaTypeName),
		Price:        req.Price,
		IsActive:     active,
		CreatedDate:  time.Now().UTC(),
	}
	setOptional(&p.Description, req.Description)
	setOptional(&p.ImageURL, req.ImageURL)
	setOptional(&p.BenefitOfPooja, req.BenefitOfPooja)
	setOptional(&p.PoojaDuration, req.PoojaDuration)
	setOptional(&p.RequiredThings, req.RequiredThings)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Types.Create(ctx, &p); err != nil {
		return internalError(c, "pujatype.create", err)
	}
	return c.JSON(http.StatusCreated, pujaTypeJSON(p))
}

// Update overwrites every mutable field of an entry.
func (h *PujaTypeHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req pujaTypeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := validate.PujaType(req.PujaTypeName, req.Price, req.ImageURL); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Types.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Puja type not found")
		}
		return internalError(c, "pujatype.update", err)
	}

	p.PujaTypeName = strings.TrimSpace(req.PujaTypeName)
	p.Price = req.Price
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.Description, p.ImageURL, p.BenefitOfPooja, p.PoojaDuration, p.RequiredThings = nil, nil, nil, nil, nil
	setOptional(&p.Description, req.Description)
	setOptional(&p.ImageURL, req.ImageURL)
	setOptional(&p.BenefitOfPooja, req.BenefitOfPooja)
	setOptional(&p.PoojaDuration, req.PoojaDuration)
	setOptional(&p.RequiredThings, req.RequiredThings)

	if err := h.Types.Update(ctx, &p); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fail(c, http.StatusNotFound, "Puja type not found")
		case errors.Is(err, repository.ErrStaleWrite):
			return fail(c, http.StatusConflict, "Puja type was modified by another request, please retry")
		}
		return internalError(c, "pujatype.update", err)
	}
	return c.JSON(http.StatusOK, pujaTypeJSON(p))
}

// Deactivate hides an entry from new bookings without deleting it.
func (h *PujaTypeHandler) Deactivate(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Types.Deactivate(ctx, id)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "Puja type deactivated"})
	case errors.Is(err, sql.ErrNoRows):
		return fail(c, http.StatusNotFound, "Puja type not found")
	}
	return internalError(c, "pujatype.deactivate", err)
}

// Delete removes an entry outright; entries with bookings are blocked
// by the restrict FK and reported as 409.
func (h *PujaTypeHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Types.Delete(ctx, id)
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, sql.ErrNoRows):
		return fail(c, http.StatusNotFound, "Puja type not found")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, "Puja type has bookings and cannot be deleted")
	}
	return internalError(c, "pujatype.delete", err)
}
