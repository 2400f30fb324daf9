package model

import "time"

// Customer represents a row in the `customers` table.  Customers are a
// principal type of their own, disjoint from staff users: they may be
// created by staff through plain CRUD (in which case they have no
// password hash and cannot log in) or they may self-register, which sets
// a credential and issues a token.
//
// IsActive is stored as a small integer rather than a boolean because
// the upstream schema defines it that way; treat any non-zero value as
// active.
//
// Fields:
//  CustomerID    – GUID primary key, generated at creation.
//  FirstName     – given name, 2–120 characters after trimming.
//  LastName      – family name, 2–120 characters after trimming.
//  ContactNumber – unique contact number, 10–20 characters.
//  Email         – optional; unique when present, valid address, ≤320 chars.
//  PasswordHash  – optional base64 SHA-256 digest; nil for CRUD-created rows.
//  Country       – optional, ≤120 characters.
//  State         – optional, ≤120 characters.
//  District      – optional, ≤120 characters.
//  IsActive      – 0 inactive, non-zero active.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update (nil when never updated).
type Customer struct {
    CustomerID    string     // customers.customer_id (CHAR(36) GUID)
    FirstName     string     // customers.first_name
    LastName      string     // customers.last_name
    ContactNumber string     // customers.contact_number
    Email         *string    // customers.email (nullable)
    PasswordHash  *string    // customers.password_hash (nullable)
    Country       *string    // customers.country (nullable)
    State         *string    // customers.state (nullable)
    District      *string    // customers.district (nullable)
    IsActive      int16      // customers.is_active (tinyint, semantically boolean)
    CreatedAt     time.Time  // customers.created_at
    UpdatedAt     *time.Time // customers.updated_at (nullable)
}

// Active reports whether the customer account is usable for login and
// profile access.
func (c Customer) Active() bool { return c.IsActive != 0 }

// FullName joins first and last name the way tokens and booking
// projections display customers.
func (c Customer) FullName() string { return c.FirstName + " " + c.LastName }
