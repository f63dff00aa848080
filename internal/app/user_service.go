package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mathchallenger/internal/domain"
)

// UserRepository abstracts how accounts and their profiles are stored.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	UserByUsername(ctx context.Context, username string) (domain.User, error)
	UserByID(ctx context.Context, id string) (domain.User, error)
}

// TokenStore keeps opaque login tokens with a TTL (in-memory or Redis).
type TokenStore interface {
	Save(ctx context.Context, token, userID string) error
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// UserService covers registration, login, and token resolution. Every user
// gets exactly one profile role at registration; the role never changes.
type UserService struct {
	users  UserRepository
	tokens TokenStore
	now    func() time.Time
}

func NewUserService(users UserRepository, tokens TokenStore) *UserService {
	return &UserService{users: users, tokens: tokens, now: time.Now}
}

// Register validates the form, hashes the password, and creates the account.
// All validation failures are collected before reporting.
func (s *UserService) Register(ctx context.Context, username, password, role string) (domain.User, error) {
	var errs domain.ValidationErrors
	if username == "" {
		errs = append(errs, "please enter a username!")
	}
	if len(password) < 8 {
		errs = append(errs, "password must be at least 8 characters!")
	}
	parsedRole, err := domain.ParseRole(role)
	if err != nil {
		errs = append(errs, "are you a student or a teacher?")
	}
	if err := errs.OrNil(); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         parsedRole,
		CreatedAt:    s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues an opaque bearer token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		// Do not reveal whether the username exists.
		return "", domain.User{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.tokens.Save(ctx, token, user.ID); err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

// Authenticate resolves a bearer token back to its user.
func (s *UserService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.UserByID(ctx, userID)
}

// Logout revokes the token; unknown tokens are not an error.
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}
