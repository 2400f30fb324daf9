package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poojapath/puja-booking/internal/repository"
)

func newPujaTypeHandler(t *testing.T) (*PujaTypeHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPujaTypeHandler(repository.NewPujaTypeRepo(db)), mock
}

func TestPujaTypeCreate_ValidationAccumulates(t *testing.T) {
	h, _ := newPujaTypeHandler(t)

	c, rec := jsonCtx(t, http.MethodPost, "/api/pujatype",
		`{"pujaTypeName":"ab","price":-10}`)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "PujaTypeName must be at least 3 characters")
	assert.Contains(t, body, "Price must be greater than or equal to 0")
}

func TestPujaTypeDeactivate_NotFound(t *testing.T) {
	h, mock := newPujaTypeHandler(t)

	mock.ExpectExec("UPDATE puja_types SET is_active=0").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(1\) FROM puja_types WHERE puja_type_id=\?`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	c, rec := jsonCtx(t, http.MethodPatch, "/api/pujatype/9/deactivate", "")
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, h.Deactivate(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPujaTypeDelete_RestrictedByBookings(t *testing.T) {
	h, mock := newPujaTypeHandler(t)

	mock.ExpectExec("DELETE FROM puja_types").
		WithArgs(int64(3)).
		WillReturnError(errors.New(`Error 1451 (23000): Cannot delete or update a parent row: a foreign key constraint fails`))

	c, rec := jsonCtx(t, http.MethodDelete, "/api/pujatype/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot be deleted")
}

func TestPujaTypeGet_InvalidID(t *testing.T) {
	h, _ := newPujaTypeHandler(t)

	c, rec := jsonCtx(t, http.MethodGet, "/api/pujatype/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
