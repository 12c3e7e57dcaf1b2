package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clipdesk/internal/domain"
	"clipdesk/internal/repo"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

func (e *Engine) CreateAdmin(ctx context.Context, email, password string) (domain.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Admin{}, invalid("email", "must be an email address")
	}
	if len(password) < 8 {
		return domain.Admin{}, invalid("password", "must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Admin{}, err
	}
	a := domain.Admin{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    e.timestamp(),
	}
	if err := e.Repo.InsertAdmin(ctx, a); err != nil {
		return domain.Admin{}, err
	}
	return a, nil
}

// Authenticate checks email and password. It returns ErrInvalidCredentials
// for both unknown emails and wrong passwords.
func (e *Engine) Authenticate(ctx context.Context, email, password string) (domain.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	a, err := e.Repo.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Admin{}, ErrInvalidCredentials
		}
		return domain.Admin{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return domain.Admin{}, ErrInvalidCredentials
	}
	return a, nil
}

func (e *Engine) CountAdmins(ctx context.Context) (int, error) {
	return e.Repo.CountAdmins(ctx)
}
