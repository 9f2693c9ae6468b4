// Package dblog пишет неожиданные ошибки в таблицу system_logs.
//
// Политика сервиса: ошибка хранилища сначала журналируется (тип, сообщение,
// стек вызовов), затем возвращается вызывающему. Ошибки здесь никогда не
// подавляются.
package dblog

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"garant-backend/models"

	"gorm.io/gorm"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// Critical журналирует критическую ошибку хранилища.
func (l *Logger) Critical(err error) {
	l.write("Critical", err)
}

// Error журналирует ошибку уровня операции.
func (l *Logger) Error(err error) {
	l.write("Error", err)
}

func (l *Logger) write(level string, err error) {
	if err == nil {
		return
	}

	entry := models.SystemLog{
		LogLevel:   level,
		ErrorType:  fmt.Sprintf("%T", err),
		Message:    err.Error(),
		StackTrace: string(debug.Stack()),
		DateCreate: time.Now(),
	}

	slog.Error("ошибка операции", "level", level, "error", err)

	if l.db == nil {
		return
	}
	if dbErr := l.db.Create(&entry).Error; dbErr != nil {
		// Журнал недоступен — остаётся только stderr.
		slog.Error("не удалось записать system_logs", "error", dbErr)
	}
}
