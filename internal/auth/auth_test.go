package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt/go_storefront/internal/domain"
	"github.com/veldt/go_storefront/internal/repository"
)

type mockAccountStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]domain.Account)}
}

func (m *mockAccountStore) Create(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Email]; ok {
		return repository.ErrDuplicateAccount
	}
	m.accounts[account.Email] = account
	return nil
}

func (m *mockAccountStore) FindByEmail(_ context.Context, email string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return domain.Account{}, repository.ErrAccountNotFound
	}
	return a, nil
}

func TestRegisterAndVerify(t *testing.T) {
	v := NewVerifier(newMockAccountStore())
	ctx := context.Background()

	require.NoError(t, v.Register(ctx, "Alice", "Smith", "Alice@Example.com", "hunter22"))

	account, err := v.Verify(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "Alice", account.FirstName)
	assert.Equal(t, "Smith", account.LastName)
	assert.Empty(t, account.PasswordHash, "hash never leaves the verifier")
}

func TestVerify_WrongPassword(t *testing.T) {
	v := NewVerifier(newMockAccountStore())
	ctx := context.Background()
	require.NoError(t, v.Register(ctx, "Alice", "Smith", "alice@example.com", "hunter22"))

	_, err := v.Verify(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestVerify_UnknownEmail(t *testing.T) {
	v := NewVerifier(newMockAccountStore())

	_, err := v.Verify(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	v := NewVerifier(newMockAccountStore())
	ctx := context.Background()
	require.NoError(t, v.Register(ctx, "Alice", "Smith", "alice@example.com", "hunter22"))

	err := v.Register(ctx, "Other", "Alice", "alice@example.com", "different")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegister_MissingFields(t *testing.T) {
	v := NewVerifier(newMockAccountStore())

	assert.ErrorIs(t, v.Register(context.Background(), "A", "B", "", "pw"), domain.ErrValidation)
	assert.ErrorIs(t, v.Register(context.Background(), "A", "B", "a@b.com", ""), domain.ErrValidation)
}

func TestToken_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("alice@example.com", "sess-1")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestToken_WrongSecretRejected(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).Issue("alice@example.com", "sess-1")
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestToken_ExpiredRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	token, err := issuer.Issue("alice@example.com", "sess-1")
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, domain.ErrAuth)
}
