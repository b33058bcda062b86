package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"door-command-control/internal/storage"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Users handles registration and login against the users table.
type Users struct {
	store  storage.Provider
	logger *slog.Logger
}

func NewUsers(store storage.Provider) *Users {
	return &Users{
		store:  store,
		logger: slog.With("component", "auth"),
	}
}

func (u *Users) Register(ctx context.Context, name, email, password string, role storage.Role) (*storage.User, error) {
	if !role.Valid() {
		return nil, errors.New("role must be admin or faculty")
	}

	existing, err := u.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := storage.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	id, err := u.store.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	u.logger.Info("User registered", "user_id", id, "email", email, "role", role)
	return &user, nil
}

// Login verifies credentials and returns a signed token carrying the user's
// role. The error does not distinguish unknown email from wrong password.
func (u *Users) Login(ctx context.Context, email, password string) (string, *storage.User, error) {
	user, err := u.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateJWT(NewUserClaim(user.ID, user.Role))
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
