// Package repository implements the data access layer over MySQL.  This
// file defines sentinel error values shared across repositories so that
// handlers can map each failure class to the right HTTP response without
// inspecting driver error strings themselves.  Absent rows are reported
// with database/sql's ErrNoRows.
package repository

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrDuplicateUsername is returned when an insert or update collides
// with an existing staff username.  Handlers translate this to 400.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrDuplicateEmail is returned when an insert or update collides with
// an existing email, for users and customers alike.  Handlers translate
// this to 400.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrDuplicateContact is returned when a customer insert or update
// collides with an existing contact number.  Handlers translate this
// to 400.
var ErrDuplicateContact = errors.New("contact number already exists")

// ErrConflict is returned when a delete cannot proceed because dependent
// rows still reference the target, e.g. removing a puja type or customer
// that has bookings.  Handlers translate this to 409.
var ErrConflict = errors.New("conflict")

// ErrStaleWrite is returned when an optimistic update finds that the row
// changed underneath it.  The repository has already re-checked
// existence, so the row is still present and the caller may retry.
var ErrStaleWrite = errors.New("concurrent modification")

// MySQL error numbers surface inside the driver error text.  1062 is a
// unique-key violation, 1451 a restrict-FK violation on delete.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

func isRestrictDelete(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}

// duplicateTarget inspects which unique index a 1062 violation hit.  The
// index names are part of the schema, so matching on them is stable.
func duplicateTarget(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "uq_users_username"):
		return ErrDuplicateUsername
	case strings.Contains(msg, "uq_users_email"), strings.Contains(msg, "uq_customers_email"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "uq_customers_contact"):
		return ErrDuplicateContact
	}
	return err
}

// checkAffected resolves the ambiguity of a zero-row UPDATE: either the
// row is gone (ErrNoRows) or another writer got there first and the
// WHERE clause's concurrency token no longer matched (ErrStaleWrite).
// The pool connects with clientFoundRows=true, so a matched-but-unchanged
// row still counts and only a genuine WHERE miss lands here.
func checkAffected(res sql.Result, exists func() (bool, error)) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	ok, err := exists()
	if err != nil {
		return err
	}
	if !ok {
		return sql.ErrNoRows
	}
	return ErrStaleWrite
}
