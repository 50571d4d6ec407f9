package db

import (
	"fmt"
	"os"
	"path/filepath"

	"valeai/config"
	"valeai/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"go.uber.org/zap"
)

// Connect abre conexão com DB (sqlite3 por padrão) e faz automigrate.
// Para desligar o automigrate (ex.: schema gerenciado fora), exporte AUTOMIGRATE=0.
func Connect(conf config.Configuration, logger *zap.Logger) (*gorm.DB, error) {
	database := conf.Database
	if database == "" {
		database = "sqlite3"
	}

	var (
		db  *gorm.DB
		err error
	)

	if database == "postgres" || database == "postgresql" {
		logger.Info("db: using postgres", zap.String("host", conf.DbHost), zap.String("db", conf.DbName))
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass
		db, err = gorm.Open("postgres", path)
	} else {
		dbPath := conf.DbPath
		if dbPath == "" {
			dbPath = "data/database.sqlite"
		}
		if dir := filepath.Dir(dbPath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		logger.Info("db: using sqlite3", zap.String("path", dbPath))
		db, err = gorm.Open("sqlite3", dbPath)
		if err == nil {
			// o sqlite serializa escritas; uma conexão evita "database is locked"
			db.DB().SetMaxOpenConns(1)
		}
	}

	if err != nil {
		logger.Error("db: connect failed", zap.Error(err))
		return nil, err
	}

	db.LogMode(conf.DbLog)

	if getenv("AUTOMIGRATE", "1") == "1" {
		if err := Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// OpenMemory opens a private in-memory SQLite database, migrated. Used by tests and the CLI.
func OpenMemory() (*gorm.DB, error) {
	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	db.DB().SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.KnowledgeEntry{},
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.Conversation{},
		&models.ProcessedFile{},
		&models.LearningProgress{},
		&models.GeneratedImage{},
	).Error
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
