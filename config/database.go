package config

import (
	"fmt"
	"log/slog"

	"garant-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB открывает подключение к Postgres и актуализирует схему.
// Подключение возвращается вызывающему: сервисы получают его явно,
// глобального состояния здесь нет.
func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("подключение к БД: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	slog.Info("Успешное подключение к базе данных")
	return db, nil
}

// Migrate актуализирует схему БД под модели сервиса.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Franchise{},
		&models.Business{},
		&models.Deal{},
		&models.DealIteration{},
		&models.Document{},
		&models.Order{},
		&models.Notification{},
		&models.SystemLog{},
	)
	if err != nil {
		return fmt.Errorf("миграция схемы: %w", err)
	}
	return nil
}
