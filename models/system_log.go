package models

import "time"

// SystemLog — запись журнала ошибок. Неожиданные ошибки пишутся сюда
// (тип, сообщение, стек) перед тем, как вернуться вызывающему.
type SystemLog struct {
	LogID      int64     `gorm:"column:log_id;primaryKey;autoIncrement" json:"logId"`
	LogLevel   string    `gorm:"column:log_level" json:"logLevel"`
	ErrorType  string    `gorm:"column:error_type" json:"errorType"`
	Message    string    `gorm:"column:message" json:"message"`
	StackTrace string    `gorm:"column:stack_trace" json:"stackTrace"`
	DateCreate time.Time `gorm:"column:date_create" json:"dateCreate"`
}

func (SystemLog) TableName() string { return "system_logs" }
