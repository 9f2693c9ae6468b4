package models

import "time"

// Notification — уведомление пользователя о смене состояния сделки.
// Запись в БД дополняется публикацией в redis и пушем в websocket-хаб.
type Notification struct {
	NotificationID int64     `gorm:"column:notification_id;primaryKey;autoIncrement" json:"notificationId"`
	UserID         string    `gorm:"column:user_id;index" json:"userId"`
	EventKind      string    `gorm:"column:event_kind" json:"eventKind"`
	Payload        string    `gorm:"column:payload" json:"payload"`
	DateCreate     time.Time `gorm:"column:date_create" json:"dateCreate"`
}

func (Notification) TableName() string { return "notifications" }
