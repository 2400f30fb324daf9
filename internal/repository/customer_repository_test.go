package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poojapath/puja-booking/internal/model"
)

func newCustomerRepo(t *testing.T) (*CustomerRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCustomerRepo(db), mock
}

func sampleCustomer() model.Customer {
	return model.Customer{
		CustomerID:    "11111111-2222-3333-4444-555555555555",
		FirstName:     "Asha",
		LastName:      "Iyer",
		ContactNumber: "9876543210",
		IsActive:      1,
		CreatedAt:     time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestCustomerRepo_Create_DuplicateContact(t *testing.T) {
	repo, mock := newCustomerRepo(t)
	c := sampleCustomer()

	mock.ExpectExec("INSERT INTO customers").
		WillReturnError(errors.New(`Error 1062 (23000): Duplicate entry '9876543210' for key 'customers.uq_customers_contact'`))

	err := repo.Create(context.Background(), &c)
	assert.ErrorIs(t, err, ErrDuplicateContact)
}

func TestCustomerRepo_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newCustomerRepo(t)
	c := sampleCustomer()

	mock.ExpectExec("INSERT INTO customers").
		WillReturnError(errors.New(`Error 1062 (23000): Duplicate entry 'asha@example.com' for key 'customers.uq_customers_email'`))

	err := repo.Create(context.Background(), &c)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCustomerRepo_GetByID(t *testing.T) {
	repo, mock := newCustomerRepo(t)
	c := sampleCustomer()

	rows := sqlmock.NewRows([]string{
		"customer_id", "first_name", "last_name", "contact_number", "email",
		"password_hash", "country", "state", "district", "is_active",
		"created_at", "updated_at",
	}).AddRow(c.CustomerID, c.FirstName, c.LastName, c.ContactNumber, nil,
		nil, nil, nil, nil, c.IsActive, c.CreatedAt, nil)

	mock.ExpectQuery("SELECT (.+) FROM customers WHERE customer_id=\\?").
		WithArgs(c.CustomerID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), c.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.FirstName)
	assert.Nil(t, got.Email)
	assert.Nil(t, got.UpdatedAt)
	assert.True(t, got.Active())
}

func TestCustomerRepo_Update_StaleWrite(t *testing.T) {
	repo, mock := newCustomerRepo(t)
	c := sampleCustomer()
	token := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE customers").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(1\\) FROM customers WHERE customer_id=\\?").
		WithArgs(c.CustomerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.Update(context.Background(), &c, &token)
	assert.ErrorIs(t, err, ErrStaleWrite)
}

func TestCustomerRepo_Update_RowVanished(t *testing.T) {
	repo, mock := newCustomerRepo(t)
	c := sampleCustomer()

	mock.ExpectExec("UPDATE customers").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(1\\) FROM customers WHERE customer_id=\\?").
		WithArgs(c.CustomerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := repo.Update(context.Background(), &c, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCustomerRepo_Update_Success_SetsUpdatedAt(t *testing.T) {
	repo, mock := newCustomerRepo(t)
	c := sampleCustomer()

	mock.ExpectExec("UPDATE customers").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), &c, nil))
	require.NotNil(t, c.UpdatedAt)
	assert.WithinDuration(t, time.Now().UTC(), *c.UpdatedAt, time.Minute)
}

func TestCustomerRepo_Delete_RestrictedByBookings(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectExec("DELETE FROM customers").
		WillReturnError(errors.New(`Error 1451 (23000): Cannot delete or update a parent row: a foreign key constraint fails`))

	err := repo.Delete(context.Background(), "some-guid")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCustomerRepo_Delete_NotFound(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectExec("DELETE FROM customers").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing-guid")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
