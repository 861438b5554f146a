// Package auth registers users and issues the bearer tokens that decide whether
// a caller acts as a maintainer.
package auth

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"homemeds/m/domain"
)

// ErrInvalidCredentials is returned when the email or password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Registration is the input of Register.
type Registration struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	MaintainerKey string `json:"maintainer_key,omitempty"`
}

type Store struct {
	db            *sqlx.DB
	maintainerKey string
	now           func() time.Time
}

// NewStore constructs a Store. An empty maintainerKey disables maintainer registration.
func NewStore(db *sqlx.DB, maintainerKey string) *Store {
	return &Store{db: db, maintainerKey: maintainerKey, now: time.Now}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Store) Register(ctx context.Context, reg Registration) (domain.User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	if reg.Role == "" {
		reg.Role = domain.RoleMember
	}
	if reg.Username == "" || reg.Email == "" || reg.Password == "" {
		return domain.User{}, domain.Validationf("username, email and password are required")
	}
	if reg.Role != domain.RoleMaintainer && reg.Role != domain.RoleMember {
		return domain.User{}, domain.Validationf("role must be maintainer or member")
	}
	if reg.Role == domain.RoleMaintainer && !s.validMaintainerKey(reg.MaintainerKey) {
		return domain.User{}, fmt.Errorf("register maintainer: %w", domain.ErrPermissionDenied)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("begin register: %w", err)
	}
	defer tx.Rollback()

	var taken int
	if err := tx.GetContext(ctx, &taken, `SELECT COUNT(*) FROM users WHERE email = ?`, reg.Email); err != nil {
		return domain.User{}, fmt.Errorf("check email: %w", err)
	}
	if taken > 0 {
		return domain.User{}, fmt.Errorf("%w: email already exists", domain.ErrReferentialConflict)
	}

	user := domain.User{Username: reg.Username, Email: reg.Email, Role: reg.Role, CreatedAt: domain.Timestamp(s.now())}
	res, err := tx.ExecContext(ctx, `INSERT INTO users (username, email, password, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.Username, user.Email, string(hashed), user.Role, user.CreatedAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	if user.ID, err = res.LastInsertId(); err != nil {
		return domain.User{}, fmt.Errorf("read user id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.User{}, fmt.Errorf("commit register: %w", err)
	}
	return user, nil
}

// Authenticate checks the password for email and returns the user without its hash.
func (s *Store) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT id, username, email, password, role, created_at FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	user.Password = ""
	return user, nil
}

// ResetPassword replaces the password of userID.
func (s *Store) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	if newPassword == "" {
		return domain.Validationf("new_password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, string(hashed), userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected for user %d: %w", userID, err)
	} else if n == 0 {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) validMaintainerKey(key string) bool {
	if s.maintainerKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.maintainerKey)) == 1
}
