package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/modkeep/pkg/db/migrations"
	"github.com/mwantia/modkeep/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLiteStore implements InventoryStore using SQLite
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

// DB returns the underlying GORM database instance
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.path
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path     string
	LogLevel logger.LogLevel
}

// NewSQLiteStore creates a new SQLite-backed inventory store
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg.Path)), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		path: cfg.Path,
	}, nil
}

// dsn enables foreign key enforcement on every pooled connection.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// Connect initializes the database connection
func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// SQLite only supports 1 writer
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate applies pending schema migrations
func (s *SQLiteStore) Migrate(ctx context.Context) (int, error) {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

func (s *SQLiteStore) MigrationStatus(ctx context.Context) ([]migrations.MigrationStatus, error) {
	return migrations.NewMigrator(s.db).Status(ctx)
}

func (s *SQLiteStore) Rollback(ctx context.Context) (*migrations.MigrationStatus, error) {
	return migrations.NewMigrator(s.db).Rollback(ctx)
}

// Health checks database connectivity
func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Transaction(ctx context.Context, fn func(tx InventoryStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SQLiteStore{db: tx, path: s.path})
	})
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
	}
	return err
}

// Mod operations

func (s *SQLiteStore) CreateMod(ctx context.Context, mod *models.Mod) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(mod).Error
}

func (s *SQLiteStore) GetMod(ctx context.Context, id uint) (*models.Mod, error) {
	var mod models.Mod
	if err := s.db.WithContext(ctx).First(&mod, id).Error; err != nil {
		return nil, notFound(err, "mod %d", id)
	}
	return &mod, nil
}

func (s *SQLiteStore) GetModByName(ctx context.Context, name string) (*models.Mod, error) {
	var mod models.Mod
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&mod).Error; err != nil {
		return nil, notFound(err, "mod '%s'", name)
	}
	return &mod, nil
}

func (s *SQLiteStore) ListMods(ctx context.Context) ([]models.Mod, error) {
	var mods []models.Mod
	err := s.db.WithContext(ctx).Order("name").Find(&mods).Error
	return mods, err
}

// ListModsByTags returns mods linked to any of the given tags
func (s *SQLiteStore) ListModsByTags(ctx context.Context, tags []string) ([]models.Mod, error) {
	var mods []models.Mod
	if len(tags) == 0 {
		return mods, nil
	}

	linked := s.db.Model(&models.ModTag{}).
		Select("mod_tags.mod_id").
		Joins("JOIN tags ON tags.id = mod_tags.tag_id").
		Where("tags.tag IN ?", tags)

	err := s.db.WithContext(ctx).
		Where("id IN (?)", linked).
		Order("name").
		Find(&mods).Error
	return mods, err
}

func (s *SQLiteStore) UpdateMod(ctx context.Context, mod *models.Mod) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(mod).Error
}

// DeleteMod removes the hashes and tag links of a mod before the mod itself
func (s *SQLiteStore) DeleteMod(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mod_id = ?", id).Delete(&models.ModHash{}).Error; err != nil {
			return fmt.Errorf("failed to delete hashes of mod %d: %w", id, err)
		}
		if err := tx.Where("mod_id = ?", id).Delete(&models.ModTag{}).Error; err != nil {
			return fmt.Errorf("failed to delete tag links of mod %d: %w", id, err)
		}

		result := tx.Delete(&models.Mod{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("mod %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// Hash operations

func (s *SQLiteStore) CreateModHash(ctx context.Context, hash *models.ModHash) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(hash).Error
}

func (s *SQLiteStore) GetModHashes(ctx context.Context, modID uint) (map[string]string, error) {
	var hashes []models.ModHash
	if err := s.db.WithContext(ctx).Where("mod_id = ?", modID).Find(&hashes).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string, len(hashes))
	for _, h := range hashes {
		result[h.File] = h.Hash
	}
	return result, nil
}

func (s *SQLiteStore) FindHashesByFingerprint(ctx context.Context, hash string) ([]models.ModHash, error) {
	var hashes []models.ModHash
	err := s.db.WithContext(ctx).
		Preload("Mod").
		Where("hash = ?", hash).
		Order("id").
		Find(&hashes).Error
	return hashes, err
}

func (s *SQLiteStore) DeleteModHashes(ctx context.Context, modID uint) error {
	return s.db.WithContext(ctx).Where("mod_id = ?", modID).Delete(&models.ModHash{}).Error
}

// Tag operations

func (s *SQLiteStore) GetOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).
		Where(models.Tag{Name: name}).
		FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *SQLiteStore) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).Where("tag = ?", name).First(&tag).Error; err != nil {
		return nil, notFound(err, "tag '%s'", name)
	}
	return &tag, nil
}

func (s *SQLiteStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Order("tag").Find(&tags).Error
	return tags, err
}

// ListTagsWithMods returns the named tags (all tags when names is empty)
// together with their linked mods
func (s *SQLiteStore) ListTagsWithMods(ctx context.Context, names []string) ([]models.TagWithMods, error) {
	query := s.db.WithContext(ctx).Order("tag")
	if len(names) > 0 {
		query = query.Where("tag IN ?", names)
	}

	var tags []models.Tag
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}

	result := make([]models.TagWithMods, 0, len(tags))
	for _, tag := range tags {
		var mods []models.Mod
		err := s.db.WithContext(ctx).
			Joins("JOIN mod_tags ON mod_tags.mod_id = mods.id").
			Where("mod_tags.tag_id = ?", tag.ID).
			Order("mods.name").
			Find(&mods).Error
		if err != nil {
			return nil, err
		}
		result = append(result, models.TagWithMods{Tag: tag, Mods: mods})
	}
	return result, nil
}

func (s *SQLiteStore) GetModTags(ctx context.Context, modID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Joins("JOIN mod_tags ON mod_tags.tag_id = tags.id").
		Where("mod_tags.mod_id = ?", modID).
		Order("tags.tag").
		Find(&tags).Error
	return tags, err
}

func (s *SQLiteStore) GetTagMembers(ctx context.Context, tagID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.ModTag{}).
		Where("tag_id = ?", tagID).
		Order("mod_id").
		Pluck("mod_id", &ids).Error
	return ids, err
}

func (s *SQLiteStore) LinkModTag(ctx context.Context, modID, tagID uint) error {
	return s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ModTag{ModID: modID, TagID: tagID}).Error
}

func (s *SQLiteStore) UnlinkModTag(ctx context.Context, modID, tagID uint) error {
	return s.db.WithContext(ctx).
		Where("mod_id = ? AND tag_id = ?", modID, tagID).
		Delete(&models.ModTag{}).Error
}

// DeleteTag removes every link to a tag before the tag itself
func (s *SQLiteStore) DeleteTag(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.ModTag{}).Error; err != nil {
			return fmt.Errorf("failed to delete links of tag %d: %w", id, err)
		}

		result := tx.Delete(&models.Tag{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("tag %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// CleanupTags deletes every tag without links and returns how many were removed
func (s *SQLiteStore) CleanupTags(ctx context.Context) (int64, error) {
	linked := s.db.Model(&models.ModTag{}).Select("tag_id")

	result := s.db.WithContext(ctx).
		Where("id NOT IN (?)", linked).
		Delete(&models.Tag{})
	return result.RowsAffected, result.Error
}
