package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poojapath/puja-booking/internal/model"
	"github.com/poojapath/puja-booking/internal/repository"
)

func newBookingHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewPujaTypeRepo(db),
		repository.NewCustomerRepo(db),
	), mock
}

func bookingCtx(t *testing.T, method, target, body, role, customerID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("role", role)
	c.Set("user_id", "staff-or-cust-guid")
	if customerID != "" {
		c.Set("customer_id", customerID)
	}
	return c, rec
}

func bookingRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"booking_id", "puja_type_id", "customer_id", "booking_mode",
		"puja_date", "puja_time", "people_count", "note", "booking_status",
		"total_amount", "currency", "is_paid", "created_date", "updated_date",
	}).AddRow(int64(7), int64(3), "cust-guid", model.ModeOnline,
		time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), nil, 4, nil, status,
		2500.0, "INR", false, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), nil)
}

func pujaTypeRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"puja_type_id", "puja_type_name", "description", "price", "image_url",
		"benefit_of_pooja", "pooja_duration", "required_things", "is_active",
		"created_date",
	}).AddRow(int64(3), "Ganesh Puja", nil, 1500.0, nil, nil, nil, nil, true,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestBookingCreate_PastDateRejected(t *testing.T) {
	h, _ := newBookingHandler(t)

	body := `{"pujaTypeId":3,"customerId":"cust-guid","bookingMode":"Online","pujaDate":"2020-01-01","peopleCount":4,"totalAmount":2500,"currency":"INR"}`
	c, rec := bookingCtx(t, http.MethodPost, "/api/pujabooking", body, model.RoleAdmin, "")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PujaDate cannot be in the past")
}

func TestBookingCreate_CustomerCannotBookForOthers(t *testing.T) {
	h, _ := newBookingHandler(t)

	body := `{"pujaTypeId":3,"customerId":"someone-else","bookingMode":"Online","pujaDate":"2099-01-01","peopleCount":4,"totalAmount":2500,"currency":"INR"}`
	c, rec := bookingCtx(t, http.MethodPost, "/api/pujabooking", body, model.RoleCustomer, "cust-guid")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookingCreate_UnknownPujaTypeRejected(t *testing.T) {
	h, mock := newBookingHandler(t)

	empty := sqlmock.NewRows([]string{
		"puja_type_id", "puja_type_name", "description", "price", "image_url",
		"benefit_of_pooja", "pooja_duration", "required_things", "is_active",
		"created_date",
	})
	mock.ExpectQuery("FROM puja_types WHERE puja_type_id=\\?").
		WithArgs(int64(3)).
		WillReturnRows(empty)

	c, rec := bookingCtx(t, http.MethodPost, "/api/pujabooking",
		`{"pujaTypeId":3,"customerId":"cust-guid","bookingMode":"Online","pujaDate":"2099-01-01","peopleCount":4,"totalAmount":2500,"currency":"INR"}`,
		model.RoleAdmin, "")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Puja type not found")
}

func TestBookingCancel_PendingBecomesCancelled(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectQuery("FROM puja_bookings WHERE booking_id=\\?").
		WithArgs(int64(7)).
		WillReturnRows(bookingRow(model.StatusPending))
	mock.ExpectExec("UPDATE puja_bookings SET booking_status").
		WithArgs(model.StatusCancelled, sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM puja_types WHERE puja_type_id=\\?").
		WithArgs(int64(3)).
		WillReturnRows(pujaTypeRow())

	c, rec := bookingCtx(t, http.MethodPatch, "/api/pujabooking/7/cancel", "", model.RoleUser, "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Booking cancelled")
}

func TestBookingCancel_CompletedRejected(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectQuery("FROM puja_bookings WHERE booking_id=\\?").
		WithArgs(int64(7)).
		WillReturnRows(bookingRow(model.StatusCompleted))

	c, rec := bookingCtx(t, http.MethodPatch, "/api/pujabooking/7/cancel", "", model.RoleAdmin, "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot cancel a completed booking")
}

func TestBookingCancel_CustomerOwnershipEnforced(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectQuery("FROM puja_bookings WHERE booking_id=\\?").
		WithArgs(int64(7)).
		WillReturnRows(bookingRow(model.StatusPending))

	c, rec := bookingCtx(t, http.MethodPatch, "/api/pujabooking/7/cancel", "", model.RoleCustomer, "a-different-customer")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookingUpdate_CancelledRejected(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectQuery("FROM puja_bookings WHERE booking_id=\\?").
		WithArgs(int64(7)).
		WillReturnRows(bookingRow(model.StatusCancelled))

	body := `{"pujaTypeId":3,"bookingMode":"Online","pujaDate":"2099-01-01","peopleCount":4,"bookingStatus":"Confirmed","totalAmount":2500,"currency":"INR"}`
	c, rec := bookingCtx(t, http.MethodPut, "/api/pujabooking/7", body, model.RoleManager, "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot update a cancelled booking")
}

func TestBookingSetStatus_AcceptsAnyTransition(t *testing.T) {
	h, mock := newBookingHandler(t)

	// No prior-status read: set-status is deliberately unguarded, so a
	// cancelled booking can be brought straight back to Confirmed.
	mock.ExpectExec("UPDATE puja_bookings SET booking_status").
		WithArgs(model.StatusConfirmed, sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := bookingCtx(t, http.MethodPatch, "/api/pujabooking/7/status",
		`{"status":"Confirmed"}`, model.RoleManager, "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.SetStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingSetStatus_UnknownValueRejected(t *testing.T) {
	h, _ := newBookingHandler(t)

	c, rec := bookingCtx(t, http.MethodPatch, "/api/pujabooking/7/status",
		`{"status":"Archived"}`, model.RoleManager, "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.SetStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid booking status")
}

func TestBookingDateRange_Validation(t *testing.T) {
	h, _ := newBookingHandler(t)

	c, rec := bookingCtx(t, http.MethodGet,
		"/api/pujabooking/date-range?startDate=2026-05-10&endDate=2026-05-01",
		"", model.RoleAdmin, "")

	require.NoError(t, h.ListByDateRange(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "endDate cannot be before startDate")
}
