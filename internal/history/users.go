package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken = errors.New("username taken")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidSignup = errors.New("invalid signup")
)

// User is a registered player.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	RoundsWon    int       `json:"roundsWon"`
	BestScore    int       `json:"bestScore"`
}

// ValidateSignup enforces basic username/password rules. Failures wrap
// ErrInvalidSignup.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return fmt.Errorf("%w: username must be 3-24 chars", ErrInvalidSignup)
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: username may only use letters, numbers and underscores", ErrInvalidSignup)
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return fmt.Errorf("%w: password must be 8-72 chars", ErrInvalidSignup)
	}
	return nil
}

// CreateUser validates input, hashes the password and inserts a new user.
func (s *Store) CreateUser(ctx context.Context, username, pw string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateSignup(username, pw); err != nil {
		return nil, err
	}
	if _, err := s.FindUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(timeLayout)); err != nil {
		// A concurrent signup can pass the lookup above and still lose the insert.
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

// FindUserByUsername looks a user up case-insensitively.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
        SELECT id, username, password_hash, created_at, rounds_won, best_score
        FROM users WHERE username = ? COLLATE NOCASE`, username))
}

// FindUserByID loads a user by primary key.
func (s *Store) FindUserByID(ctx context.Context, id string) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
        SELECT id, username, password_hash, created_at, rounds_won, best_score
        FROM users WHERE id = ?`, id))
}

// CheckPassword reports whether pw matches the user's bcrypt hash.
func (u *User) CheckPassword(pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)) == nil
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u       User
		created string
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.RoundsWon, &u.BestScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}
