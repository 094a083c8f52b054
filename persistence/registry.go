package persistence

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/redshot/mern-auth-server/domain"
)

// DialectorOpener is an alias for a function that returns a gorm.Dialector for a given DSN.
type DialectorOpener = func(string) gorm.Dialector

var (
	registryMu sync.RWMutex
	providers  = make(map[string]any)
)

// Register adds a new storage provider to the registry.
// Provider can be a DialectorOpener (for GORM) or a custom factory function
// matching func(string, any) (domain.AccountStore, error).
func Register(name string, provider any) {
	registryMu.Lock()
	defer registryMu.Unlock()
	providers[name] = provider
}

// NewStorage creates a new account store based on the registered name.
func NewStorage(name string, dsn string, extra any) (domain.AccountStore, error) {
	registryMu.RLock()
	provider, ok := providers[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("persistence: unknown storage provider %q", name)
	}

	// Case 1: Standard GORM DialectorOpener
	if opener, ok := provider.(DialectorOpener); ok {
		gormConfig, _ := extra.(*gorm.Config)
		if gormConfig == nil {
			// TranslateError turns driver unique-constraint errors into
			// gorm.ErrDuplicatedKey, which CreateAccount depends on.
			gormConfig = &gorm.Config{TranslateError: true}
		}

		db, err := gorm.Open(opener(dsn), gormConfig)
		if err != nil {
			return nil, err
		}

		repo := NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			return nil, err
		}

		return repo, nil
	}

	// Case 2: Custom Factory Function
	if factory, ok := provider.(func(string, any) (domain.AccountStore, error)); ok {
		return factory(dsn, extra)
	}

	return nil, fmt.Errorf("persistence: provider %q registered with incompatible type (expected DialectorOpener or factory)", name)
}
