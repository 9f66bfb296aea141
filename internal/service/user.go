package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
)

const minPasswordLength = 6

type RegisterUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func RegisterUser(ctx context.Context, db *sql.DB, clock clockwork.Clock, in RegisterUserInput) (model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" {
		return model.User{}, validationErrorf("username and email are required")
	}
	if len(in.Password) < minPasswordLength {
		return model.User{}, validationErrorf("password must be at least %d characters", minPasswordLength)
	}

	var taken int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ?`, in.Username).Scan(&taken)
	if err == nil {
		return model.User{}, fmt.Errorf("%w: %s", ErrDuplicateUsername, in.Username)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    clock.Now().UTC(),
	}
	_, err = db.ExecContext(ctx, `
INSERT INTO users(id, username, email, password_hash, created_at)
VALUES(?, ?, ?, ?, ?)
`, u.ID, u.Username, u.Email, u.PasswordHash, formatStoredTime(u.CreatedAt))
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (model.User, error) {
	var u model.User
	var sex, dob sql.NullString
	var createdRaw string
	err := db.QueryRowContext(ctx, `
SELECT id, username, email, password_hash, gender, date_of_birth, created_at
FROM users
WHERE username = ?
`, strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &sex, &dob, &createdRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("%w: user %s", ErrNotFound, username)
		}
		return model.User{}, fmt.Errorf("lookup user %s: %w", username, err)
	}
	u.Sex = sex.String
	u.DateOfBirth = dob.String
	if u.CreatedAt, err = parseStoredTime(createdRaw); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// AuthenticateUser reports ErrInvalidCredentials for both an unknown
// username and a wrong password.
func AuthenticateUser(ctx context.Context, db *sql.DB, username, password string) (model.User, error) {
	u, err := GetUserByUsername(ctx, db, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}
