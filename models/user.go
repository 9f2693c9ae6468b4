package models

import "time"

// User — пользователь площадки. Id пользователя — uuid-строка,
// как в остальных сервисах платформы.
type User struct {
	UserID       string    `gorm:"column:user_id;primaryKey" json:"userId"`
	Email        string    `gorm:"column:email;index" json:"email"`
	PhoneNumber  string    `gorm:"column:phone_number;index" json:"phoneNumber"`
	Code         string    `gorm:"column:code;index" json:"code"` // код приглашения
	FirstName    string    `gorm:"column:first_name" json:"firstName"`
	LastName     string    `gorm:"column:last_name" json:"lastName"`
	DateRegister time.Time `gorm:"column:date_register" json:"dateRegister"`
}

func (User) TableName() string { return "users" }
