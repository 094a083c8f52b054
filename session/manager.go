package session

// Manager handles session lifecycle operations.
// It delegates to a configured Strategy for token creation and validation.
type Manager struct {
	strategy Strategy
}

// NewManager creates a new session Manager with the given strategy.
func NewManager(strategy Strategy) *Manager {
	return &Manager{strategy: strategy}
}

func (m *Manager) Create(accountID string) (*Session, error) {
	return m.strategy.Create(accountID)
}

func (m *Manager) Validate(token string) (*Session, error) {
	return m.strategy.Validate(token)
}

func (m *Manager) Refresh(refreshToken string) (*Session, error) {
	return m.strategy.Refresh(refreshToken)
}
