package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nmoreau/access-portal-be/internal/auth"
	"github.com/nmoreau/access-portal-be/internal/models"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so a caller cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")
)

// ProfileUpdate carries the fields of a profile edit. Empty strings mean
// "leave unchanged", never "set to empty".
type ProfileUpdate struct {
	Username string
	Password string
	Avatar   string
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id int64) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	UpdateProfile(id int64, update ProfileUpdate) error
	Profile(id int64) (models.Profile, error)
}

// UserService provides business logic for accounts and profiles.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash, role_id, profile_pic FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.RoleID, &user.ProfilePic)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername retrieves a single user by exact, case-sensitive username.
func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash, role_id, profile_pic FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.RoleID, &user.ProfilePic)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateProfile applies a partial profile edit as a single statement, so a
// concurrent reader never observes some fields updated and others stale.
func (s *UserService) UpdateProfile(id int64, update ProfileUpdate) error {
	var sets []string
	var args []any

	if update.Username != "" {
		sets = append(sets, "username = ?")
		args = append(args, update.Username)
	}
	if update.Password != "" {
		digest, err := auth.HashPassword(update.Password)
		if err != nil {
			return err
		}
		sets = append(sets, "password_hash = ?")
		args = append(args, digest)
	}
	if update.Avatar != "" {
		sets = append(sets, "profile_pic = ?")
		args = append(args, update.Avatar)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Profile returns the read-only projection shown on the dashboard.
func (s *UserService) Profile(id int64) (models.Profile, error) {
	var profile models.Profile
	row := s.db.QueryRow(`
		SELECT u.username, r.name, u.profile_pic
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.id = ?`, id)
	err := row.Scan(&profile.Username, &profile.RoleName, &profile.ProfilePic)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, err
	}
	return profile, nil
}
