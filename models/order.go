package models

import "time"

// Статусы заказа. Строки хранятся в БД как есть.
const (
	OrderStatusHold = "Hold"
	OrderStatusPaid = "Paid"
)

// Order описывает платёж по одному этапу сделки. Заказ уникален по ключу
// (OriginalID, UserID, OrderType, Iteration, OptionalType); повторное
// холдирование той же итерации обновляет существующую запись.
type Order struct {
	OrderID        int64     `gorm:"column:order_id;primaryKey" json:"orderId"`
	OriginalID     int64     `gorm:"column:original_id;index" json:"originalId"`
	Amount         float64   `gorm:"column:amount" json:"amount"`
	TotalAmount    float64   `gorm:"column:total_amount" json:"totalAmount"`
	Commission     float64   `gorm:"column:commission" json:"commission"`
	Currency       string    `gorm:"column:currency" json:"currency"`
	DateCreate     time.Time `gorm:"column:date_create" json:"dateCreate"`
	ShortOrderName string    `gorm:"column:short_order_name" json:"shortOrderName"`
	FullOrderName  string    `gorm:"column:full_order_name" json:"fullOrderName"`
	OrderStatus    string    `gorm:"column:order_status" json:"orderStatus"`
	OrderType      string    `gorm:"column:order_type" json:"orderType"`
	ProductCount   int       `gorm:"column:product_count" json:"productCount"`
	UserID         string    `gorm:"column:user_id;index" json:"userId"`
	Iteration      int       `gorm:"column:iteration" json:"iteration"`
	OptionalType   string    `gorm:"column:optional_type" json:"optionalType"`
}

func (Order) TableName() string { return "orders" }
