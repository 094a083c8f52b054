package flow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redshot/mern-auth-server/account"
	"github.com/redshot/mern-auth-server/domain"
)

type mockStore struct {
	mu       sync.Mutex
	accounts map[string]*account.Account
	findErr  error
}

func newMockStore() *mockStore {
	return &mockStore{accounts: make(map[string]*account.Account)}
}

func (m *mockStore) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	acct, ok := m.accounts[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return acct, nil
}

func (m *mockStore) CreateAccount(ctx context.Context, acct *account.Account) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[acct.Email]; ok {
		return nil, domain.ErrDuplicateEmail
	}
	m.accounts[acct.Email] = acct
	return acct, nil
}

func (m *mockStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

type captureSender struct {
	mu       sync.Mutex
	messages []struct{ To, URL string }
}

func (s *captureSender) Enqueue(to, activationURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, struct{ To, URL string }{to, activationURL})
	return nil
}

func newSignupManager(store domain.AccountStore, sender ActivationSender) (*SignupManager, *TokenIssuer) {
	issuer := NewTokenIssuer([]byte("test-secret"), 10*time.Minute, 0)
	mgr := NewSignupManager(store, NewBcryptHasher(4), issuer, sender, "http://localhost:3000")
	return mgr, issuer
}

func TestSignupIssuesTokenForNewEmail(t *testing.T) {
	store := newMockStore()
	sender := &captureSender{}
	mgr, issuer := newSignupManager(store, sender)

	err := mgr.Submit(context.Background(), account.SignupRequest{
		Name: "B", Email: "b@x.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if store.count() != 0 {
		t.Error("signup must not create an account before activation")
	}

	if len(sender.messages) != 1 {
		t.Fatalf("expected 1 queued email, got %d", len(sender.messages))
	}
	msg := sender.messages[0]
	if msg.To != "b@x.com" {
		t.Errorf("expected email to b@x.com, got %s", msg.To)
	}

	prefix := "http://localhost:3000/auth/activate/"
	if !strings.HasPrefix(msg.URL, prefix) {
		t.Fatalf("unexpected activation URL: %s", msg.URL)
	}

	token := strings.TrimPrefix(msg.URL, prefix)
	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Name != "B" || claims.Email != "b@x.com" {
		t.Errorf("unexpected payload: name=%q email=%q", claims.Name, claims.Email)
	}
	if claims.Secret == "password123" {
		t.Error("token must not carry the raw password")
	}
	if !NewBcryptHasher(4).Compare("password123", claims.Secret) {
		t.Error("token secret is not a hash of the submitted password")
	}
}

func TestSignupRejectsRegisteredEmail(t *testing.T) {
	store := newMockStore()
	store.accounts["a@x.com"] = &account.Account{ID: "1", Email: "a@x.com"}
	sender := &captureSender{}
	mgr, _ := newSignupManager(store, sender)

	err := mgr.Submit(context.Background(), account.SignupRequest{
		Name: "A", Email: "a@x.com", Password: "password123",
	})
	if !errors.Is(err, domain.ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
	if len(sender.messages) != 0 {
		t.Error("no token may be issued for a registered email")
	}
}

func TestSignupStorageFailure(t *testing.T) {
	store := newMockStore()
	store.findErr = errors.New("db down")
	mgr, _ := newSignupManager(store, &captureSender{})

	err := mgr.Submit(context.Background(), account.SignupRequest{
		Name: "A", Email: "a@x.com", Password: "password123",
	})
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestSignupRateLimited(t *testing.T) {
	store := newMockStore()
	sender := &captureSender{}
	mgr, _ := newSignupManager(store, sender)
	mgr.SetRateLimit(NewMemoryRateLimiter(), 1, time.Hour)

	req := account.SignupRequest{Name: "B", Email: "b@x.com", Password: "password123"}
	if err := mgr.Submit(context.Background(), req); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	err := mgr.Submit(context.Background(), req)
	if !IsRateLimitError(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if len(sender.messages) != 1 {
		t.Errorf("expected 1 queued email, got %d", len(sender.messages))
	}
}
