package repositories

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"resumebuilder/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDatabase opens a gorm connection for the "sqlite" or "postgres" driver
// and creates the resume tables when they are missing.
func OpenDatabase(driver, dsn string, maxOpenConns int) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(withSQLiteForeignKeys(dsn))
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(os.Stderr),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if driver == "sqlite" {
		// One writer at a time; concurrent readers would otherwise trip over
		// shared-cache table locks.
		sqlDB.SetMaxOpenConns(1)
	} else if maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxOpenConns / 2)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// newGormLogger reports slow queries and real failures only. Unknown ids are
// a normal outcome of GetByID and are translated into NotFoundError there.
func newGormLogger(w io.Writer) gormlogger.Interface {
	return gormlogger.New(log.New(w, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Migrate creates the header table and the five child tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllTables()...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

func withSQLiteForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}
	return dsn + "?_foreign_keys=1"
}
