package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/ailabs-portal-backend/config"
	"github.com/rpupo63/ailabs-portal-backend/errs"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects to the database selected by DB_TYPE (sqlite, postgres or
// supa) and verifies the connection.
func Open(cfg map[string]string) (*gorm.DB, error) {
	dbType := config.GetString(cfg, "DB_TYPE", "sqlite")

	var db *gorm.DB
	var err error
	switch dbType {
	case "postgres", "supa":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  postgresDSN(cfg, dbType),
			PreferSimpleProtocol: true,
		}), gormConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if replica := config.GetString(cfg, "DB_REPLICA_DSN", ""); replica != "" {
			err = db.Use(dbresolver.Register(dbresolver.Config{
				Replicas: []gorm.Dialector{postgres.New(postgres.Config{DSN: replica, PreferSimpleProtocol: true})},
				Policy:   dbresolver.RandomPolicy{},
			}))
			if err != nil {
				return nil, fmt.Errorf("register read replica: %w", err)
			}
			log.Info().Msg("Read replica registered")
		}
	case "sqlite":
		path := config.GetString(cfg, "SQLITE_PATH", filepath.Join("instance", "database.db"))
		db, err = openSQLite(path, gormConfig(cfg))
		if err != nil {
			return nil, err
		}
	default:
		return nil, errs.NewInvalidConfigError("DB_TYPE", dbType)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	log.Info().Str("dbType", dbType).Msg("Connected to database")
	return db, nil
}

// OpenSQLite opens a SQLite database at path; ":memory:" gives a private
// in-memory database.
func OpenSQLite(path string) (*gorm.DB, error) {
	return openSQLite(path, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
}

func openSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// one writer; also keeps ":memory:" on a single connection
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func postgresDSN(cfg map[string]string, dbType string) string {
	if url := config.GetString(cfg, "DATABASE_URL", ""); url != "" {
		return url
	}

	sslMode := "disable"
	if dbType == "supa" {
		sslMode = "require"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(cfg, "DB_HOST", "localhost"),
		config.GetString(cfg, "DB_USER", "postgres"),
		config.GetString(cfg, "DB_PASSWORD", ""),
		config.GetString(cfg, "DB_NAME", "portal"),
		config.GetString(cfg, "DB_PORT", "5432"),
		config.GetString(cfg, "DB_SSLMODE", sslMode),
	)
}

func gormConfig(cfg map[string]string) *gorm.Config {
	level := logger.Warn
	if config.GetBool(cfg, "DB_DEBUG", false) {
		level = logger.Info
	}

	gormLogger := log.With().Str("component", "gorm").Logger()
	return &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger: logger.New(
			&gormLogger,
			logger.Config{
				SlowThreshold:             2 * time.Second,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}
