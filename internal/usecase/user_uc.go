package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	// FindOrCreateTx resolves the checkout identity by email, registering a
	// MEMBER_FREE user when none exists. Lookup is case-insensitive.
	FindOrCreateTx(ctx context.Context, tx repository.Tx, name, email, phone, whatsapp string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateRole(ctx context.Context, id string, role model.UserRole) error
}

type userUC struct {
	users repository.UserRepository
	// blockedDomains rejects disposable-mail providers at registration.
	// Empty means every domain is accepted.
	blockedDomains []string
	log            *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, blockedDomains []string, logger *zerolog.Logger) *userUC {
	norm := make([]string, 0, len(blockedDomains))
	for _, d := range blockedDomains {
		norm = append(norm, strings.ToLower(strings.TrimSpace(d)))
	}
	return &userUC{users: users, blockedDomains: norm, log: logger}
}

func (u *userUC) FindOrCreateTx(ctx context.Context, tx repository.Tx, name, email, phone, whatsapp string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}

	existing, err := u.users.FindByEmail(ctx, tx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if u.domainBlocked(email) {
		return nil, domain.ErrEmailDomainNotAllowed
	}

	user, err := model.NewUser(uuid.NewString(), name, email)
	if err != nil {
		return nil, err
	}
	user.Phone = phone
	if whatsapp == "" {
		whatsapp = phone
	}
	user.Whatsapp = whatsapp
	if err := u.users.Save(ctx, tx, user); err != nil {
		// Concurrent checkout with the same email: the other writer won.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return u.users.FindByEmail(ctx, tx, email)
		}
		return nil, err
	}
	u.log.Info().Str("user_id", user.ID).Msg("registered checkout user")
	return user, nil
}

func (u *userUC) domainBlocked(email string) bool {
	at := strings.LastIndex(email, "@")
	host := email[at+1:]
	for _, d := range u.blockedDomains {
		if host == d {
			return true
		}
	}
	return false
}

func (u *userUC) FindByID(ctx context.Context, id string) (*model.User, error) {
	return u.users.FindByID(ctx, repository.NoTX, id)
}

func (u *userUC) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.users.FindByEmail(ctx, repository.NoTX, strings.ToLower(strings.TrimSpace(email)))
}

func (u *userUC) UpdateRole(ctx context.Context, id string, role model.UserRole) error {
	return u.users.UpdateRole(ctx, repository.NoTX, id, role)
}
