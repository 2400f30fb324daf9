package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/poojapath/puja-booking/internal/middleware"
	"github.com/poojapath/puja-booking/internal/model"
	"github.com/poojapath/puja-booking/internal/queue"
	"github.com/poojapath/puja-booking/internal/repository"
	queue_publisher "github.com/poojapath/puja-booking/internal/service"
	"github.com/poojapath/puja-booking/internal/validate"
)

const dateLayout = "2006-01-02"

// BookingHandler serves the booking lifecycle endpoints.  Role checks
// that apply to whole routes live at the router; the ownership checks
// that depend on the addressed row are enforced here.
type BookingHandler struct {
	Bookings  *repository.BookingRepo
	Types     *repository.PujaTypeRepo
	Customers *repository.CustomerRepo
}

func NewBookingHandler(b *repository.BookingRepo, t *repository.PujaTypeRepo, c *repository.CustomerRepo) *BookingHandler {
	return &BookingHandler{Bookings: b, Types: t, Customers: c}
}

type bookingReq struct {
	PujaTypeID    int64   `json:"pujaTypeId"`
	CustomerID    string  `json:"customerId"`
	BookingMode   string  `json:"bookingMode"`
	PujaDate      string  `json:"pujaDate"`
	PujaTime      string  `json:"pujaTime"`
	PeopleCount   int     `json:"peopleCount"`
	Note          string  `json:"note"`
	BookingStatus string  `json:"bookingStatus"`
	TotalAmount   float64 `json:"totalAmount"`
	Currency      string  `json:"currency"`
	IsPaid        bool    `json:"isPaid"`
}

// Create stores a new booking.  A Customer principal may only book for
// itself; staff may book on behalf of any customer.  The referenced
// catalog entry and customer must exist, and the puja date may not be
// in the past.
func (h *BookingHandler) Create(c echo.Context) error {
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	p := middleware.CurrentPrincipal(c)
	if !p.IsStaff() && req.CustomerID != p.CustomerID {
		return fail(c, http.StatusForbidden, "customers can only book for themselves")
	}

	if err := validate.Booking(validate.BookingFields{
		BookingMode: req.BookingMode,
		PeopleCount: req.PeopleCount,
		TotalAmount: req.TotalAmount,
		Currency:    req.Currency,
	}); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	date, err := time.Parse(dateLayout, req.PujaDate)
	if err != nil {
		return fail(c, http.StatusBadRequest, "PujaDate must be a valid date in yyyy-MM-dd format")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return fail(c, http.StatusBadRequest, "PujaDate cannot be in the past")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pt, err := h.Types.GetByID(ctx, req.PujaTypeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusBadRequest, "Puja type not found")
		}
		return internalError(c, "booking.create", err)
	}
	if ok, err := h.Customers.Exists(ctx, req.CustomerID); err != nil {
		return internalError(c, "booking.create", err)
	} else if !ok {
		return fail(c, http.StatusBadRequest, "Customer not found")
	}

	b := model.PujaBooking{
		PujaTypeID:    req.PujaTypeID,
		CustomerID:    req.CustomerID,
		BookingMode:   req.BookingMode,
		PujaDate:      date.Format(dateLayout),
		PeopleCount:   req.PeopleCount,
		BookingStatus: model.StatusPending,
		TotalAmount:   req.TotalAmount,
		Currency:      req.Currency,
		IsPaid:        false,
		CreatedDate:   time.Now().UTC(),
	}
	setOptional(&b.PujaTime, req.PujaTime)
	setOptional(&b.Note, req.Note)

	if err := h.Bookings.Create(ctx, &b); err != nil {
		return internalError(c, "booking.create", err)
	}

	go func(ev queue.BookingCreatedEvent) {
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		_ = queue_publisher.PublishBookingCreated(pctx, ev)
	}(queue.BookingCreatedEvent{
		BookingID:    b.BookingID,
		PujaTypeID:   b.PujaTypeID,
		PujaTypeName: pt.PujaTypeName,
		CustomerID:   b.CustomerID,
		PujaDate:     b.PujaDate,
		TotalAmount:  b.TotalAmount,
		Currency:     b.Currency,
		CreatedAt:    b.CreatedDate.Format(time.RFC3339),
	})

	detail, err := h.Bookings.GetDetailByID(ctx, b.BookingID)
	if err != nil {
		return internalError(c, "booking.create", err)
	}
	return c.JSON(http.StatusCreated, detail)
}

// Get returns one booking.  A Customer principal only sees its own.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	detail, err := h.Bookings.GetDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Booking not found")
		}
		return internalError(c, "booking.get", err)
	}

	p := middleware.CurrentPrincipal(c)
	if !p.IsStaff() && detail.CustomerID != p.CustomerID {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	return c.JSON(http.StatusOK, detail)
}

// List returns every booking, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ds, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return internalError(c, "booking.list", err)
	}
	return c.JSON(http.StatusOK, ds)
}

// ListByCustomer returns one customer's bookings.  A Customer principal
// may only ask for its own GUID.
func (h *BookingHandler) ListByCustomer(c echo.Context) error {
	guid := c.Param("guid")
	p := middleware.CurrentPrincipal(c)
	if !p.IsStaff() && guid != p.CustomerID {
		return fail(c, http.StatusForbidden, "forbidden")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ds, err := h.Bookings.ListByCustomer(ctx, guid)
	if err != nil {
		return internalError(c, "booking.listByCustomer", err)
	}
	return c.JSON(http.StatusOK, ds)
}

// ListByPujaType returns bookings for one catalog entry.
func (h *BookingHandler) ListByPujaType(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ds, err := h.Bookings.ListByPujaType(ctx, id)
	if err != nil {
		return internalError(c, "booking.listByPujaType", err)
	}
	return c.JSON(http.StatusOK, ds)
}

// ListByStatus returns bookings in one lifecycle state.
func (h *BookingHandler) ListByStatus(c echo.Context) error {
	status := c.Param("status")
	if !model.ValidStatus(status) {
		return fail(c, http.StatusBadRequest, "Invalid booking status")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ds, err := h.Bookings.ListByStatus(ctx, status)
	if err != nil {
		return internalError(c, "booking.listByStatus", err)
	}
	return c.JSON(http.StatusOK, ds)
}

// ListByDateRange returns bookings between startDate and endDate
// inclusive, soonest first.
func (h *BookingHandler) ListByDateRange(c echo.Context) error {
	start, err1 := time.Parse(dateLayout, c.QueryParam("startDate"))
	end, err2 := time.Parse(dateLayout, c.QueryParam("endDate"))
	if err1 != nil || err2 != nil {
		return fail(c, http.StatusBadRequest, "startDate and endDate must be valid dates in yyyy-MM-dd format")
	}
	if end.Before(start) {
		return fail(c, http.StatusBadRequest, "endDate cannot be before startDate")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ds, err := h.Bookings.ListByDateRange(ctx, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return internalError(c, "booking.listByDateRange", err)
	}
	return c.JSON(http.StatusOK, ds)
}

// ListPendingPayments returns unpaid, non-cancelled bookings.
func (h *BookingHandler) ListPendingPayments(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ds, err := h.Bookings.ListPendingPayments(ctx)
	if err != nil {
		return internalError(c, "booking.pendingPayments", err)
	}
	return c.JSON(http.StatusOK, ds)
}

// Revenue returns the sum of paid, non-cancelled booking amounts.
func (h *BookingHandler) Revenue(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	total, err := h.Bookings.TotalRevenue(ctx)
	if err != nil {
		return internalError(c, "booking.revenue", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"totalRevenue": total})
}

// Count returns the number of non-cancelled bookings.
func (h *BookingHandler) Count(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Bookings.CountActive(ctx)
	if err != nil {
		return internalError(c, "booking.count", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"totalBookings": n})
}

// Update overwrites all mutable fields of a booking, including status
// and payment flag.  Cancelled bookings cannot be updated through this
// endpoint.
func (h *BookingHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := validate.Booking(validate.BookingFields{
		BookingMode: req.BookingMode,
		PeopleCount: req.PeopleCount,
		TotalAmount: req.TotalAmount,
		Currency:    req.Currency,
	}); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if !model.ValidStatus(req.BookingStatus) {
		return fail(c, http.StatusBadRequest, "Invalid booking status")
	}
	date, err := time.Parse(dateLayout, req.PujaDate)
	if err != nil {
		return fail(c, http.StatusBadRequest, "PujaDate must be a valid date in yyyy-MM-dd format")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Booking not found")
		}
		return internalError(c, "booking.update", err)
	}
	if b.BookingStatus == model.StatusCancelled {
		return fail(c, http.StatusBadRequest, "Cannot update a cancelled booking")
	}
	if ok, err := h.Types.Exists(ctx, req.PujaTypeID); err != nil {
		return internalError(c, "booking.update", err)
	} else if !ok {
		return fail(c, http.StatusBadRequest, "Puja type not found")
	}

	token := b.UpdatedDate
	b.PujaTypeID = req.PujaTypeID
	b.BookingMode = req.BookingMode
	b.PujaDate = date.Format(dateLayout)
	b.PeopleCount = req.PeopleCount
	b.BookingStatus = req.BookingStatus
	b.TotalAmount = req.TotalAmount
	b.Currency = req.Currency
	b.IsPaid = req.IsPaid
	b.PujaTime, b.Note = nil, nil
	setOptional(&b.PujaTime, req.PujaTime)
	setOptional(&b.Note, req.Note)

	if err := h.Bookings.Update(ctx, &b, token); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fail(c, http.StatusNotFound, "Booking not found")
		case errors.Is(err, repository.ErrStaleWrite):
			return fail(c, http.StatusConflict, "Booking was modified by another request, please retry")
		}
		return internalError(c, "booking.update", err)
	}

	detail, err := h.Bookings.GetDetailByID(ctx, id)
	if err != nil {
		return internalError(c, "booking.update", err)
	}
	return c.JSON(http.StatusOK, detail)
}

// SetStatus overwrites the lifecycle status with no transition guard,
// so it can also bring a cancelled booking back.
func (h *BookingHandler) SetStatus(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if !model.ValidStatus(req.Status) {
		return fail(c, http.StatusBadRequest, "Invalid booking status")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Bookings.SetStatus(ctx, id, req.Status)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "Booking status updated", "status": req.Status})
	case errors.Is(err, sql.ErrNoRows):
		return fail(c, http.StatusNotFound, "Booking not found")
	}
	return internalError(c, "booking.setStatus", err)
}

// SetPaymentStatus overwrites the paid flag.
func (h *BookingHandler) SetPaymentStatus(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		IsPaid bool `json:"isPaid"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Bookings.SetPaid(ctx, id, req.IsPaid)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "Payment status updated", "isPaid": req.IsPaid})
	case errors.Is(err, sql.ErrNoRows):
		return fail(c, http.StatusNotFound, "Booking not found")
	}
	return internalError(c, "booking.setPaymentStatus", err)
}

// Cancel marks a booking cancelled.  Completed bookings cannot be
// cancelled; a Customer principal may only cancel its own.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Booking not found")
		}
		return internalError(c, "booking.cancel", err)
	}

	p := middleware.CurrentPrincipal(c)
	if !p.IsStaff() && b.CustomerID != p.CustomerID {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	if b.BookingStatus == model.StatusCompleted {
		return fail(c, http.StatusBadRequest, "Cannot cancel a completed booking")
	}

	if err := h.Bookings.SetStatus(ctx, id, model.StatusCancelled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Booking not found")
		}
		return internalError(c, "booking.cancel", err)
	}

	name := ""
	if pt, err := h.Types.GetByID(ctx, b.PujaTypeID); err == nil {
		name = pt.PujaTypeName
	}
	go func(ev queue.BookingCancelledEvent) {
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		_ = queue_publisher.PublishBookingCancelled(pctx, ev)
	}(queue.BookingCancelledEvent{
		BookingID:    b.BookingID,
		PujaTypeID:   b.PujaTypeID,
		PujaTypeName: name,
		CustomerID:   b.CustomerID,
		PujaDate:     b.PujaDate,
		TotalAmount:  b.TotalAmount,
		Currency:     b.Currency,
		CancelledAt:  time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Booking cancelled"})
}

// Delete removes a booking row regardless of status.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err = h.Bookings.Delete(ctx, id)
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, sql.ErrNoRows):
		return fail(c, http.StatusNotFound, "Booking not found")
	}
	return internalError(c, "booking.delete", err)
}
