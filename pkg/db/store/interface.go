package store

import (
	"context"
	"errors"

	"github.com/mwantia/modkeep/pkg/db/migrations"
	"github.com/mwantia/modkeep/pkg/db/models"
)

// ErrNotFound is returned when a lookup by id, name or directory matches nothing.
var ErrNotFound = errors.New("record not found")

// InventoryStore defines the interface for inventory database operations.
// Every mutation on a store handed out by Transaction commits or rolls back
// together with the enclosing transaction.
type InventoryStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) (int, error)
	MigrationStatus(ctx context.Context) ([]migrations.MigrationStatus, error)
	Rollback(ctx context.Context) (*migrations.MigrationStatus, error)
	Health(ctx context.Context) error

	// Transaction runs fn against a store bound to a single transaction.
	// Calling Transaction on such a store nests through a savepoint.
	Transaction(ctx context.Context, fn func(tx InventoryStore) error) error

	// Mod operations
	CreateMod(ctx context.Context, mod *models.Mod) error
	GetMod(ctx context.Context, id uint) (*models.Mod, error)
	GetModByName(ctx context.Context, name string) (*models.Mod, error)
	ListMods(ctx context.Context) ([]models.Mod, error)
	ListModsByTags(ctx context.Context, tags []string) ([]models.Mod, error)
	UpdateMod(ctx context.Context, mod *models.Mod) error
	DeleteMod(ctx context.Context, id uint) error

	// Hash operations
	CreateModHash(ctx context.Context, hash *models.ModHash) error
	GetModHashes(ctx context.Context, modID uint) (map[string]string, error)
	FindHashesByFingerprint(ctx context.Context, hash string) ([]models.ModHash, error)
	DeleteModHashes(ctx context.Context, modID uint) error

	// Tag operations
	GetOrCreateTag(ctx context.Context, name string) (*models.Tag, error)
	GetTagByName(ctx context.Context, name string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListTagsWithMods(ctx context.Context, names []string) ([]models.TagWithMods, error)
	GetModTags(ctx context.Context, modID uint) ([]models.Tag, error)
	GetTagMembers(ctx context.Context, tagID uint) ([]uint, error)
	LinkModTag(ctx context.Context, modID, tagID uint) error
	UnlinkModTag(ctx context.Context, modID, tagID uint) error
	DeleteTag(ctx context.Context, id uint) error
	CleanupTags(ctx context.Context) (int64, error)
}
