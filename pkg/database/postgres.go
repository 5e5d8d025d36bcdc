package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Параметры пула соединений с PostgreSQL
const (
	maxOpenConns    = 25
	maxIdleConns    = 10
	connMaxLifetime = time.Hour
)

// NewPostgresDB открывает gorm-подключение и настраивает пул.
// В release-режиме gorm пишет в лог только предупреждения.
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	level := logger.Info
	if os.Getenv("GIN_MODE") == "release" {
		level = logger.Warn
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := GetSQLDB(db)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	return db, nil
}

// MigrateDB применяет up-миграции из каталога migrationsPath.
// Отсутствие новых миграций ошибкой не считается.
func MigrateDB(db *gorm.DB, migrationsPath string) error {
	sqlDB, err := GetSQLDB(db)
	if err != nil {
		return err
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("база недоступна перед миграцией: %w", err)
	}

	driver, err := migratePostgres.WithInstance(sqlDB, &migratePostgres.Config{})
	if err != nil {
		return fmt.Errorf("не удалось создать драйвер migrate: %w", err)
	}
	m, err := migrateV4.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("не удалось открыть миграции из '%s': %w", migrationsPath, err)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrateV4.ErrNoChange):
		log.Printf("[Migrate] Схема актуальна, миграций из '%s' не применено", migrationsPath)
	case err != nil:
		return fmt.Errorf("ошибка применения миграций: %w", err)
	default:
		version, dirty, _ := m.Version()
		log.Printf("[Migrate] Миграции применены, версия схемы %d (dirty=%t)", version, dirty)
	}
	return nil
}

// GetSQLDB возвращает *sql.DB, лежащий под gorm
func GetSQLDB(gormDB *gorm.DB) (*sql.DB, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB, nil
}

// PingPostgres возвращает проверку доступности базы для /health
func PingPostgres(gormDB *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := GetSQLDB(gormDB)
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
