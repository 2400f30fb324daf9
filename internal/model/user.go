package model

import "time"

// Staff roles stored in users.role.  Role names are case sensitive and
// are carried verbatim in the JWT "role" claim.
const (
    RoleAdmin   = "Admin"
    RoleManager = "Manager"
    RoleUser    = "User"
)

// RoleCustomer is the fixed role claim issued to self-service customers.
// Customers never appear in the users table; the role exists only in
// tokens so that the authorization middleware can tell the two principal
// types apart.
const RoleCustomer = "Customer"

// ValidStaffRole reports whether the given role is one of the three
// staff roles accepted at registration time.
func ValidStaffRole(role string) bool {
    return role == RoleAdmin || role == RoleManager || role == RoleUser
}

// User represents a staff account as stored in the `users` table.  Staff
// accounts are created only through registration and authenticate with a
// case-sensitive username.  The json tags are omitted because these
// structs are used by the repository layer; handlers define separate
// response types with appropriate JSON shapes.
//
// Fields:
//  UserID       – GUID primary key, generated at creation.
//  Username     – unique login name (exact match, case sensitive).
//  Email        – unique email address.
//  PasswordHash – base64 SHA-256 digest of the password (see utils).
//  Role         – one of Admin, Manager, User.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update (nil when never updated).
type User struct {
    UserID       string     // users.user_id (CHAR(36) GUID)
    Username     string     // users.username
    Email        string     // users.email
    PasswordHash string     // users.password_hash
    Role         string     // users.role
    IsActive     bool       // users.is_active
    CreatedAt    time.Time  // users.created_at
    UpdatedAt    *time.Time // users.updated_at (nullable)
}
