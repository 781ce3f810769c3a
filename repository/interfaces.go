// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Kusanagi-no-Tsurugi/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint) error
}

// LinkRepository defines operations for links.
// Save surfaces gorm.ErrDuplicatedKey when the short code already exists,
// so callers can regenerate and retry.
type LinkRepository interface {
	Repository[models.Link, models.LinkFilter]
	ByShortID(ctx context.Context, shortID string) (*models.Link, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Link, error)
}

// VisitorRepository defines operations for link visits
type VisitorRepository interface {
	Repository[models.Visitor, models.VisitorFilter]
	CountByLink(ctx context.Context, linkID uint) (int64, error)
	ListByLink(ctx context.Context, linkID uint, limit, offset int) ([]*models.Visitor, error)
}

// CachedLink is the value stored in the resolution cache, keyed by short code
type CachedLink struct {
	URL    string `json:"url"`
	LinkID uint   `json:"link_id"`
}

// LinkCache is the best-effort cache in front of link resolution.
// Get returns (nil, nil) on a miss; any error is a cache failure the
// caller is expected to treat as a miss.
type LinkCache interface {
	Get(ctx context.Context, shortID string) (*CachedLink, error)
	Set(ctx context.Context, shortID string, entry CachedLink) error
	Delete(ctx context.Context, shortID string) error
}
