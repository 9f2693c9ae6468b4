// Package users — справочник пользователей площадки.
package users

import (
	"context"
	"errors"

	"garant-backend/internal/dblog"
	"garant-backend/models"

	"gorm.io/gorm"
)

// ErrNotFound возвращается, когда аккаунт не удалось сопоставить пользователю.
var ErrNotFound = errors.New("пользователь не найден")

type Directory struct {
	db  *gorm.DB
	log *dblog.Logger
}

func NewDirectory(db *gorm.DB, log *dblog.Logger) *Directory {
	return &Directory{db: db, log: log}
}

// FindUserIDUniverse определяет Id пользователя по аккаунту: сначала ищет
// по email или номеру телефона, затем по коду приглашения.
func (d *Directory) FindUserIDUniverse(ctx context.Context, account string) (string, error) {
	var user models.User

	err := d.db.WithContext(ctx).
		Where("email = ? OR phone_number = ?", account, account).
		First(&user).Error
	if err == nil {
		return user.UserID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		d.log.Critical(err)
		return "", err
	}

	// По email и телефону не нашли — ищем по коду приглашения.
	err = d.db.WithContext(ctx).
		Where("code = ?", account).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		d.log.Critical(err)
		return "", err
	}

	return user.UserID, nil
}
