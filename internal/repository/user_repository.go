package repository

import (
	"context"
	"database/sql"

	"github.com/poojapath/puja-booking/internal/model"
)

// UserRepo persists staff accounts.  Usernames are matched exactly and
// case-sensitively; normalization is left to callers.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "user_id,username,email,password_hash,role,is_active,created_at,updated_at"

// Create inserts a staff user.  The caller supplies the generated GUID
// and password hash.  Unique-key collisions map to the duplicate
// sentinels.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (user_id, username, email, password_hash, role, is_active, created_at) VALUES (?,?,?,?,?,?,?)",
		u.UserID, u.Username, u.Email, u.PasswordHash, u.Role, u.IsActive, u.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return duplicateTarget(err)
		}
		return err
	}
	return nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
}

// GetByID fetches a user by GUID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_id=? LIMIT 1", id))
}

// ExistsByUsername reports whether any user has the given username.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM users WHERE username=?", username).Scan(&n)
	return n > 0, err
}

// ExistsByEmail reports whether any user has the given email.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM users WHERE email=?", email).Scan(&n)
	return n > 0, err
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	var updated sql.NullTime
	err := row.Scan(&u.UserID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &updated)
	if updated.Valid {
		t := updated.Time
		u.UpdatedAt = &t
	}
	return u, err
}
