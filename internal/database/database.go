package database

import (
	"fmt"
	"strings"

	"storefront/internal/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

type Database struct {
	DB *gorm.DB
}

type Options struct {
	// Verbose logs every statement.
	Verbose bool
}

func New(databaseURL string, opts Options) (*Database, error) {
	var db *gorm.DB
	var err error

	logLevel := logger.Warn
	if opts.Verbose {
		logLevel = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), gormConfig)
	} else {
		// PostgreSQL for production, through the lib/pq database/sql driver
		db, err = gorm.Open(postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        databaseURL,
		}), gormConfig)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &Database{DB: db}
	if err := d.Migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Migrate provisions the products table and its lookup indexes.
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate products: %w", err)
	}

	// Set-containment lookups on collections need a GIN index; sqlite scans.
	if d.Dialect() == DialectPostgres {
		err := d.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_products_collections ON products USING GIN (collections)`).Error
		if err != nil {
			return fmt.Errorf("failed to create collections index: %w", err)
		}
	}
	return nil
}

func (d *Database) Dialect() string {
	return d.DB.Dialector.Name()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
