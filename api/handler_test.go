package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/redshot/mern-auth-server/flow"
	"github.com/redshot/mern-auth-server/health"
	"github.com/redshot/mern-auth-server/persistence"
	"github.com/redshot/mern-auth-server/session"
)

type captureSender struct {
	mu   sync.Mutex
	urls []string
}

func (s *captureSender) Enqueue(to, activationURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(s.urls, activationURL)
	return nil
}

func postJSON(e *echo.Echo, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAPIIntegration(t *testing.T) {
	// Setup temporary database
	dbPath := "test_auth.db"
	defer os.Remove(dbPath)

	store, err := persistence.NewStorage("sqlite", dbPath, nil)
	if err != nil {
		t.Fatalf("failed to setup store: %v", err)
	}

	clientURL := "http://localhost:3000"
	sender := &captureSender{}
	hasher := flow.NewBcryptHasher(4)
	issuer := flow.NewTokenIssuer([]byte("test-secret"), 10*time.Minute, 0)

	signupManager := flow.NewSignupManager(store, hasher, issuer, sender, clientURL)
	activationManager := flow.NewActivationManager(store, issuer)
	activationManager.SetIDGenerator(func() string { return uuid.New().String() })
	loginManager := flow.NewLoginManager(store, hasher)
	sessionManager := session.NewManager(session.NewHS256Strategy([]byte("test-secret"), time.Hour))

	h := NewHandler(signupManager, activationManager, loginManager, sessionManager)
	h.SetHealthManager(health.NewManager("test", 0))

	e := echo.New()
	g := e.Group("/api")
	h.RegisterRoutes(g)

	// 1. Signup issues a token, creates nothing yet
	rec := postJSON(e, "/api/signup", map[string]string{
		"name": "B", "email": "b@x.com", "password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("signup failed with code %d: %s", rec.Code, rec.Body.String())
	}
	if len(sender.urls) != 1 {
		t.Fatalf("expected 1 activation email, got %d", len(sender.urls))
	}
	token := strings.TrimPrefix(sender.urls[0], clientURL+"/auth/activate/")

	// Signin before activation must fail: no account exists yet
	rec = postJSON(e, "/api/signin", map[string]string{
		"email": "b@x.com", "password": "password123",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("signin before activation: expected 401, got %d", rec.Code)
	}

	// 2. Activation creates the account
	rec = postJSON(e, "/api/account-activation", map[string]string{"token": token})
	if rec.Code != http.StatusOK {
		t.Fatalf("activation failed with code %d: %s", rec.Code, rec.Body.String())
	}
	var activated struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	json.Unmarshal(rec.Body.Bytes(), &activated)
	if activated.User.Email != "b@x.com" {
		t.Errorf("expected activated user b@x.com, got %q", activated.User.Email)
	}

	// 3. Replaying the token conflicts
	rec = postJSON(e, "/api/account-activation", map[string]string{"token": token})
	if rec.Code != http.StatusConflict {
		t.Errorf("token replay: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	// 4. Signup with the now-registered email conflicts
	rec = postJSON(e, "/api/signup", map[string]string{
		"name": "B", "email": "b@x.com", "password": "password123",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate signup: expected 409, got %d", rec.Code)
	}
	if len(sender.urls) != 1 {
		t.Errorf("duplicate signup must not issue a token, got %d emails", len(sender.urls))
	}

	// 5. Signin succeeds with the original password
	rec = postJSON(e, "/api/signin", map[string]string{
		"email": "b@x.com", "password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("signin failed with code %d: %s", rec.Code, rec.Body.String())
	}
	var signin struct {
		Token string `json:"token"`
	}
	json.Unmarshal(rec.Body.Bytes(), &signin)
	if signin.Token == "" {
		t.Error("expected a session token")
	}

	rec = postJSON(e, "/api/signin", map[string]string{
		"email": "b@x.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", rec.Code)
	}

	// 6. Invalid activation tokens
	rec = postJSON(e, "/api/account-activation", map[string]string{"token": "garbage"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", rec.Code)
	}

	// 7. Health endpoints
	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	recH := httptest.NewRecorder()
	e.ServeHTTP(recH, req)
	if recH.Code != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d", recH.Code)
	}
}

func TestAPIValidation(t *testing.T) {
	dbPath := "test_auth_validation.db"
	defer os.Remove(dbPath)

	store, err := persistence.NewStorage("sqlite", dbPath, nil)
	if err != nil {
		t.Fatalf("failed to setup store: %v", err)
	}

	hasher := flow.NewBcryptHasher(4)
	issuer := flow.NewTokenIssuer([]byte("test-secret"), 10*time.Minute, 0)
	h := NewHandler(
		flow.NewSignupManager(store, hasher, issuer, &captureSender{}, "http://localhost:3000"),
		flow.NewActivationManager(store, issuer),
		flow.NewLoginManager(store, hasher),
		session.NewManager(session.NewHS256Strategy([]byte("test-secret"), time.Hour)),
	)

	e := echo.New()
	h.RegisterRoutes(e.Group("/api"))

	rec := postJSON(e, "/api/signup", map[string]string{"name": "", "email": "not-an-email", "password": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid signup body: expected 400, got %d", rec.Code)
	}

	rec = postJSON(e, "/api/account-activation", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing token: expected 400, got %d", rec.Code)
	}
}
