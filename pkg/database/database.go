package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	gormPostgres "gorm.io/driver/postgres"
	gormSqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/career-suite/internal/domain/entity"
)

// Поддерживаемые драйверы базы данных
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// NewSQLiteDB открывает (или создает) файловую базу SQLite по указанному пути.
// Каталог файла создается при необходимости.
func NewSQLiteDB(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}

	db, err := gorm.Open(gormSqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// SQLite не поддерживает параллельную запись, ограничиваем пул одним соединением
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// NewPostgresDB создает новое подключение к PostgreSQL
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Настройка пула соединений
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// MigrateDB приводит схему к актуальному состоянию. Операция идемпотентна:
// повторный запуск на уже мигрированной базе ничего не меняет.
func MigrateDB(db *gorm.DB) error {
	log.Println("[Database] Запуск миграции схемы...")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("не удалось получить *sql.DB из *gorm.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("не удалось проверить подключение к БД перед миграцией: %w", err)
	}

	err = db.AutoMigrate(
		&entity.QuizResult{},
		&entity.CandidateProfile{},
		&entity.PrepAttempt{},
		&entity.ConsentRecord{},
		&entity.AccessLogEntry{},
	)
	if err != nil {
		return fmt.Errorf("ошибка миграции схемы: %w", err)
	}

	log.Println("[Database] Миграция схемы завершена.")
	return nil
}
