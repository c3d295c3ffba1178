package services

import (
	"database/sql"
	"errors"
	"net/mail"
	"time"
	"unicode/utf8"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vaashuyko/wishlist-api/internal/apierr"
	"github.com/vaashuyko/wishlist-api/internal/auth"
	"github.com/vaashuyko/wishlist-api/internal/database"
	"github.com/vaashuyko/wishlist-api/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(email, username, password string) (models.User, error)
	GetUserByID(id int64) (models.User, error)
	AuthenticateUser(identifier, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

func validateRegistration(email, username, password string) error {
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return apierr.Validation("email must be a valid email address")
	}
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return apierr.Validation("username must be 3..50 chars")
	}
	if n := utf8.RuneCountInString(password); n < 6 || n > 128 {
		return apierr.Validation("password must be 6..128 chars")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) &&
		(se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT)
}

// CreateUser validates and registers a new account, hashing the password.
// A duplicate email or username yields the conflict error, whether detected
// by the pre-check or by the unique constraint under a concurrent insert.
func (s *UserService) CreateUser(email, username, password string) (models.User, error) {
	if err := validateRegistration(email, username, password); err != nil {
		return models.User{}, err
	}

	var exists int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ? OR username = ?", email, username).Scan(&exists)
	if err != nil {
		return models.User{}, err
	}
	if exists > 0 {
		return models.User{}, apierr.UserExists()
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	res, err := s.db.Exec(
		"INSERT INTO users (email, username, password_hash, created_at) VALUES (?, ?, ?, ?)",
		email, username, hash, database.FormatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a registration race; same outcome as the pre-check.
			return models.User{}, apierr.UserExists()
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:        id,
		Email:     email,
		Username:  username,
		CreatedAt: now,
	}, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, email, username, password_hash, created_at FROM users WHERE id = ?", id))
}

// getUserByIdentifier looks up a user whose email or username equals the
// identifier, in a single query.
func (s *UserService) getUserByIdentifier(identifier string) (models.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, email, username, password_hash, created_at FROM users WHERE email = ? OR username = ?",
		identifier, identifier))
}

// AuthenticateUser verifies credentials. Unknown identifier and wrong
// password are indistinguishable to the caller.
func (s *UserService) AuthenticateUser(identifier, password string) (models.User, error) {
	user, err := s.getUserByIdentifier(identifier)
	if err != nil {
		return models.User{}, apierr.InvalidCredentials()
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, apierr.InvalidCredentials()
	}
	return user, nil
}

func (s *UserService) scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var createdAt string
	if err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &createdAt); err != nil {
		return models.User{}, err
	}
	created, err := database.ParseTime(createdAt)
	if err != nil {
		return models.User{}, err
	}
	user.CreatedAt = created
	return user, nil
}
