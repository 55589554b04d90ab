package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/KAsare1/fintrack-server/cmd/config"
	"github.com/KAsare1/fintrack-server/cmd/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables lists every migrated model in dependency order.
var Tables = []struct {
	Name  string
	Model interface{}
}{
	{"User", &models.User{}},
	{"Transaction", &models.Transaction{}},
}

// NewStorage opens the configured database and applies pool limits.
func NewStorage(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBURL)
	case "postgres":
		dialector = postgres.Open(cfg.DBURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	level := logger.Warn
	if !cfg.IsProduction() {
		level = logger.Info
	}

	db, err := Open(dialector, level)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)

	return db, nil
}

// Open wraps gorm.Open with the settings every connection shares. Duplicate
// key violations are translated to gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	for _, table := range Tables {
		if err := db.AutoMigrate(table.Model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", table.Name, err)
		}
	}
	return nil
}

// Drop removes the given tables, or every known table when none are given.
// Dependents go first.
func Drop(db *gorm.DB, tables []interface{}) error {
	if len(tables) == 0 {
		for i := len(Tables) - 1; i >= 0; i-- {
			tables = append(tables, Tables[i].Model)
		}
	}
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("error dropping table %T: %w", table, err)
		}
	}
	return nil
}

// Lookup resolves a table name as typed on the command line.
func Lookup(name string) (interface{}, bool) {
	for _, table := range Tables {
		if table.Name == name {
			return table.Model, true
		}
	}
	return nil, false
}
