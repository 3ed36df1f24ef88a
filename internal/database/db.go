package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"stockscan-backend/internal/config"
	"stockscan-backend/internal/database/migrations"
	"stockscan-backend/internal/models"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Models lists every table the application owns, parents first.
var Models = []any{
	&models.Brand{},
	&models.BrandEAN{},
	&models.GenericProduct{},
	&models.Product{},
	&models.Packaging{},
	&models.AuditLog{},
}

// Init applies migrations and opens the gorm connection.
func Init(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	if cfg.Database.AutoMigrate {
		log.Warn("database.auto_migrate is set, skipping goose migrations")
	} else if err := Migrate(cfg.Database.DSN, log); err != nil {
		return nil, err
	}

	db, err := Open(postgres.Open(cfg.Database.DSN))
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}
	if err := SyncBrandNameIndex(db, cfg.Catalog.UniqueBrandNames); err != nil {
		return nil, err
	}

	log.Info("database connected, migrations applied")
	return db, nil
}

// Open wraps gorm.Open with the settings the catalog relies on.
// TranslateError turns unique violations into gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}

// Migrate runs the embedded goose migrations against dsn.
func Migrate(dsn string, log *slog.Logger) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(sqlDB, "."); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	version, err := goose.GetDBVersion(sqlDB)
	if err == nil {
		log.Info("migrations applied", "version", version)
	}
	return nil
}

// AutoMigrate creates the schema from the gorm models. Used for local
// development and tests where goose's PostgreSQL SQL does not apply.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("AutoMigrate error: %w", err)
	}
	return nil
}

const brandNameIndex = "idx_brands_name_unique"

// SyncBrandNameIndex creates or drops the unique index on brands.name so the
// store matches catalog.unique_brand_names. Concurrent registrations of the
// same name then fail with gorm.ErrDuplicatedKey instead of both committing.
func SyncBrandNameIndex(db *gorm.DB, unique bool) error {
	if !unique {
		if err := db.Exec("DROP INDEX IF EXISTS " + brandNameIndex).Error; err != nil {
			return fmt.Errorf("drop %s: %w", brandNameIndex, err)
		}
		return nil
	}
	err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS " + brandNameIndex + " ON brands (name)").Error
	if err != nil {
		return fmt.Errorf("create %s (are there brands sharing a name?): %w", brandNameIndex, err)
	}
	return nil
}
