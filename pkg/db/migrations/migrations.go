package migrations

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mwantia/modkeep/pkg/db/models"
	"gorm.io/gorm"
)

// ErrNothingToRollback is returned by Rollback when no migration is applied.
var ErrNothingToRollback = errors.New("no migrations to rollback")

// Migration represents a single schema version
type Migration struct {
	Version     int
	Description string
	Up          func(*gorm.DB) error
	Down        func(*gorm.DB) error
}

// migrationHistory tracks applied migrations
type migrationHistory struct {
	ID          uint   `gorm:"primaryKey"`
	Version     int    `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	AppliedAt   int64  `gorm:"autoCreateTime"`
}

// MigrationStatus represents the status of a migration
type MigrationStatus struct {
	Version     int
	Description string
	Applied     bool
}

// Migrator applies and reverts the inventory schema
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return newMigrator(db, allMigrations())
}

func newMigrator(db *gorm.DB, migrations []Migration) *Migrator {
	sorted := append([]Migration(nil), migrations...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})
	return &Migrator{db: db, migrations: sorted}
}

// Migrate runs every migration that has not been applied yet, each in its
// own transaction. It returns the number of migrations applied.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range m.migrations {
		if applied[migration.Version] {
			continue
		}

		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&migrationHistory{
				Version:     migration.Version,
				Description: migration.Description,
			}).Error
		})
		if err != nil {
			return count, fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}
		count++
	}

	return count, nil
}

// Rollback reverts the most recently applied migration.
func (m *Migrator) Rollback(ctx context.Context) (*MigrationStatus, error) {
	if err := m.ensureHistory(ctx); err != nil {
		return nil, err
	}

	var last migrationHistory
	result := m.db.WithContext(ctx).Order("version DESC").Limit(1).Find(&last)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNothingToRollback
	}

	idx := sort.Search(len(m.migrations), func(i int) bool {
		return m.migrations[i].Version >= last.Version
	})
	if idx == len(m.migrations) || m.migrations[idx].Version != last.Version {
		return nil, fmt.Errorf("migration %d not found", last.Version)
	}
	migration := m.migrations[idx]

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Down(tx); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		return tx.Delete(&last).Error
	})
	if err != nil {
		return nil, err
	}

	return &MigrationStatus{
		Version:     migration.Version,
		Description: migration.Description,
		Applied:     false,
	}, nil
}

// Status lists all known migrations and whether they are applied.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, migration := range m.migrations {
		statuses = append(statuses, MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
			Applied:     applied[migration.Version],
		})
	}

	return statuses, nil
}

func (m *Migrator) ensureHistory(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&migrationHistory{}); err != nil {
		return fmt.Errorf("failed to create migration history table: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]bool, error) {
	if err := m.ensureHistory(ctx); err != nil {
		return nil, err
	}

	var history []migrationHistory
	if err := m.db.WithContext(ctx).Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}

	versions := make(map[int]bool, len(history))
	for _, h := range history {
		versions[h.Version] = true
	}
	return versions, nil
}

// allMigrations returns all migrations in order
func allMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create mods table",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(&models.Mod{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.Mod{})
			},
		},
		{
			Version:     2,
			Description: "Create tags table",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(&models.Tag{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.Tag{})
			},
		},
		{
			Version:     3,
			Description: "Create mod_hashes table",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(&models.ModHash{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.ModHash{})
			},
		},
		{
			Version:     4,
			Description: "Create mod_tags relation table",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(&models.ModTag{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.ModTag{})
			},
		},
	}
}
