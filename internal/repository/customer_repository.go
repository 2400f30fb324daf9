package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/poojapath/puja-booking/internal/model"
)

// CustomerRepo persists customers.  Contact numbers are unique across
// the store; emails are unique when present.  All timestamp fields are
// stored in UTC.
type CustomerRepo struct{ DB *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

const customerColumns = "customer_id,first_name,last_name,contact_number,email,password_hash,country,state,district,is_active,created_at,updated_at"

// Create inserts a customer.  The caller supplies the generated GUID;
// the password hash is nil for rows created through staff CRUD.  A
// unique-key collision maps to the matching duplicate sentinel.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO customers (customer_id, first_name, last_name, contact_number, email, password_hash, country, state, district, is_active, created_at) VALUES (?,?,?,?,?,?,?,?,?,?,?)",
		c.CustomerID, c.FirstName, c.LastName, c.ContactNumber, c.Email, c.PasswordHash,
		c.Country, c.State, c.District, c.IsActive, c.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return duplicateTarget(err)
		}
		return err
	}
	return nil
}

// GetByID fetches a customer by GUID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (model.Customer, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE customer_id=? LIMIT 1", id))
}

// GetByEmail fetches a customer by exact email.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE email=? LIMIT 1", email))
}

// GetByContact fetches a customer by exact contact number.
func (r *CustomerRepo) GetByContact(ctx context.Context, contact string) (model.Customer, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE contact_number=? LIMIT 1", contact))
}

// GetByEmailOrContact matches the single login input against either the
// email or the contact number, exactly as typed.
func (r *CustomerRepo) GetByEmailOrContact(ctx context.Context, v string) (model.Customer, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE email=? OR contact_number=? LIMIT 1", v, v))
}

// ListAll returns every customer, newest first.
func (r *CustomerRepo) ListAll(ctx context.Context) ([]model.Customer, error) {
	return r.list(ctx, "SELECT "+customerColumns+" FROM customers ORDER BY created_at DESC")
}

// ListByState returns customers in a state ordered by last then first
// name.
func (r *CustomerRepo) ListByState(ctx context.Context, state string) ([]model.Customer, error) {
	return r.list(ctx, "SELECT "+customerColumns+" FROM customers WHERE state=? ORDER BY last_name, first_name", state)
}

// EmailTaken reports whether another customer (excluding excludeID, pass
// "" on create) already uses the email.
func (r *CustomerRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM customers WHERE email=? AND customer_id<>?", email, excludeID).Scan(&n)
	return n > 0, err
}

// ContactTaken reports whether another customer already uses the contact
// number.
func (r *CustomerRepo) ContactTaken(ctx context.Context, contact, excludeID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM customers WHERE contact_number=? AND customer_id<>?", contact, excludeID).Scan(&n)
	return n > 0, err
}

// Exists reports whether a customer row with the GUID is present.
func (r *CustomerRepo) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM customers WHERE customer_id=?", id).Scan(&n)
	return n > 0, err
}

// Update overwrites the profile fields of an existing customer.  The
// previously read updated_at value acts as the optimistic concurrency
// token (NULL-safe compared); when the row changed underneath the caller
// the result is ErrStaleWrite, and when it vanished sql.ErrNoRows.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer, expectedUpdatedAt *time.Time) error {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE customers
		 SET first_name=?, last_name=?, contact_number=?, email=?, country=?, state=?, district=?, updated_at=?
		 WHERE customer_id=? AND updated_at <=> ?`,
		c.FirstName, c.LastName, c.ContactNumber, c.Email, c.Country, c.State, c.District, now,
		c.CustomerID, expectedUpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return duplicateTarget(err)
		}
		return err
	}
	if err := checkAffected(res, func() (bool, error) { return r.Exists(ctx, c.CustomerID) }); err != nil {
		return err
	}
	c.UpdatedAt = &now
	return nil
}

// Delete removes a customer.  Rows still referenced by bookings are
// protected by the restrict FK and surface as ErrConflict.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM customers WHERE customer_id=?", id)
	if err != nil {
		if isRestrictDelete(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *CustomerRepo) scanOne(row *sql.Row) (model.Customer, error) {
	var c model.Customer
	var updated sql.NullTime
	err := row.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &c.ContactNumber,
		&c.Email, &c.PasswordHash, &c.Country, &c.State, &c.District,
		&c.IsActive, &c.CreatedAt, &updated)
	if updated.Valid {
		t := updated.Time
		c.UpdatedAt = &t
	}
	return c, err
}

func (r *CustomerRepo) list(ctx context.Context, query string, args ...any) ([]model.Customer, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		var updated sql.NullTime
		if err := rows.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &c.ContactNumber,
			&c.Email, &c.PasswordHash, &c.Country, &c.State, &c.District,
			&c.IsActive, &c.CreatedAt, &updated); err != nil {
			return nil, err
		}
		if updated.Valid {
			t := updated.Time
			c.UpdatedAt = &t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
