package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/veldt/go_storefront/internal/domain"
	"github.com/veldt/go_storefront/internal/repository"
)

const bcryptCost = 12

// Verifier is the credential-verification collaborator: it registers
// accounts and checks email/password pairs against stored bcrypt hashes.
type Verifier struct {
	accounts repository.AccountStore
}

func NewVerifier(accounts repository.AccountStore) *Verifier {
	return &Verifier{accounts: accounts}
}

func (v *Verifier) Register(ctx context.Context, firstName, lastName, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return v.accounts.Create(ctx, domain.Account{
		Email:        strings.ToLower(email),
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hash),
	})
}

// Verify returns the account's identity record on a credential match. A
// missing account and a wrong password both come back as domain.ErrAuth so
// callers can't distinguish which one failed.
func (v *Verifier) Verify(ctx context.Context, email, password string) (domain.Account, error) {
	if email == "" || password == "" {
		return domain.Account{}, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	account, err := v.accounts.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domain.Account{}, fmt.Errorf("%w: unknown email or wrong password", domain.ErrAuth)
		}
		return domain.Account{}, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return domain.Account{}, fmt.Errorf("%w: unknown email or wrong password", domain.ErrAuth)
	}

	account.PasswordHash = ""
	return account, nil
}
