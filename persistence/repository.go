// Package persistence provides the GORM-based account store.
//
// It supports sqlite (pure Go driver), postgres, and mysql through a provider
// registry, and translates driver-specific uniqueness violations into
// domain.ErrDuplicateEmail so the activation flow can rely on the database's
// unique index as its atomic check-then-act guard.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/redshot/mern-auth-server/account"
	"github.com/redshot/mern-auth-server/domain"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *gorm.DB {
	return r.db
}

func init() {
	Register("sqlite", sqlite.Open)
	Register("postgres", postgres.Open)
	Register("mysql", mysql.Open)
}

type gormAccount struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	CreatedAt    time.Time
}

func (gormAccount) TableName() string { return "accounts" }

func toAccount(rec *gormAccount) *account.Account {
	return &account.Account{
		ID:           rec.ID,
		Name:         rec.Name,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || // sqlite
		strings.Contains(msg, "duplicate key") || // postgres
		strings.Contains(msg, "Duplicate entry") // mysql
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&gormAccount{})
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	var rec gormAccount
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return toAccount(&rec), nil
}

func (r *Repository) CreateAccount(ctx context.Context, acct *account.Account) (*account.Account, error) {
	rec := gormAccount{
		ID:           acct.ID,
		Name:         acct.Name,
		Email:        acct.Email,
		PasswordHash: acct.PasswordHash,
		CreatedAt:    acct.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		// TranslateError (set by NewStorage) yields gorm.ErrDuplicatedKey for
		// the common drivers; the substring check covers versions that predate
		// their translator.
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return toAccount(&rec), nil
}
