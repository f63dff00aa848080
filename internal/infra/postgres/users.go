package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"

	"mathchallenger/internal/domain"
)

const uniqueViolation = "23505"

// CreateUser inserts the account and its profile in one transaction, so a
// user can never exist without a role.
func (s *Store) CreateUser(ctx context.Context, user domain.User) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (user_id, role) VALUES ($1, $2)`,
		user.ID, string(user.Role))
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.userBy(ctx, `u.username = $1`, username)
}

func (s *Store) UserByID(ctx context.Context, id string) (domain.User, error) {
	return s.userBy(ctx, `u.id = $1`, id)
}

func (s *Store) userBy(ctx context.Context, where string, arg any) (domain.User, error) {
	var user domain.User
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT u.id, u.username, u.password_hash, u.created_at, p.role
		 FROM users u JOIN profiles p ON p.user_id = u.id
		 WHERE `+where, arg).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &role)
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	user.Role = domain.Role(role)
	return user, nil
}
