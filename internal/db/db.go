package db

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"puppaka/internal/config"
	"puppaka/internal/model"
)

// Options selects and tunes the storage backend.
type Options struct {
	Backend    string
	SQLitePath string
	DSN        string
	LogLevel   logger.LogLevel
	LogOutput  io.Writer // defaults to stderr
}

// OptionsFromConfig derives Options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}
	return Options{
		Backend:    cfg.StorageBackend,
		SQLitePath: cfg.SQLitePath,
		DSN:        cfg.DatabaseDSN,
		LogLevel:   level,
	}
}

// Open returns a connected GORM DB for the selected backend.
// The memory backend keeps everything in a private SQLite database that is lost on restart.
func Open(opts Options) (*gorm.DB, error) {
	var (
		dialector gorm.Dialector
		sqliteDB  bool
	)
	switch opts.Backend {
	case config.BackendMemory:
		dialector = sqlite.Open(MemoryDSN())
		sqliteDB = true
	case config.BackendFile:
		if err := os.MkdirAll(filepath.Dir(opts.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dialector = sqlite.Open(opts.SQLitePath + "?_busy_timeout=5000&_journal_mode=WAL")
		sqliteDB = true
	case config.BackendMySQL:
		dialector = mysql.Open(opts.DSN)
	case config.BackendPostgres:
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newLogger(opts),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.Backend, err)
	}

	if sqliteDB {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		// SQLite serializes writers; one connection also keeps a memory database alive.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}
	return gormDB, nil
}

// newLogger logs slow and failed queries. Missing rows are ordinary 404s and are not logged.
func newLogger(opts Options) logger.Interface {
	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	return logger.New(log.New(out, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// MemoryDSN returns a DSN for a fresh, uniquely named in-memory SQLite database.
func MemoryDSN() string {
	return fmt.Sprintf("file:puppaka-%s?mode=memory&cache=shared", uuid.NewString())
}

// Models lists the persisted collections in creation order.
func Models() []any {
	return []any{
		&model.User{},
		&model.Post{},
		&model.Project{},
		&model.Contact{},
	}
}

// Migrate creates the four collections if they are absent.
func Migrate(ctx context.Context, gormDB *gorm.DB) error {
	if err := gormDB.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Drop removes the four collections. Used by the seed CLI's reset flag.
func Drop(ctx context.Context, gormDB *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := gormDB.WithContext(ctx).Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

// Ping checks that the underlying connection is reachable.
func Ping(ctx context.Context, gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
