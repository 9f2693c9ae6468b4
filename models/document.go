package models

import "time"

// Document описывает документ сделки: основной договор продавца/покупателя
// или нумерованный акт этапа. На пару (предмет сделки, тип) всегда существует
// не более одной актуальной записи — повторная загрузка перезаписывает её.
type Document struct {
	DocumentID     int64     `gorm:"column:document_id;primaryKey;autoIncrement" json:"documentId"`
	DateCreate     time.Time `gorm:"column:date_create" json:"dateCreate"`
	DocumentItemID int64     `gorm:"column:document_item_id;uniqueIndex:idx_documents_item_type" json:"documentItemId"`
	DocumentName   string    `gorm:"column:document_name" json:"documentName"`
	DocumentType   string    `gorm:"column:document_type;uniqueIndex:idx_documents_item_type" json:"documentType"`
	IsDealDocument bool      `gorm:"column:is_deal_document" json:"isDealDocument"`
	IsApprove      bool      `gorm:"column:is_approve_document" json:"isApproveDocument"`
	IsReject       bool      `gorm:"column:is_reject_document" json:"isRejectDocument"`
	IsSend         bool      `gorm:"column:is_send" json:"isSend"`
	UserID         string    `gorm:"column:user_id;index" json:"userId"`

	// IsPay имеет смысл только для актов: nil для договоров,
	// false после загрузки акта, true после подтверждения оплаты этапа.
	IsPay *bool `gorm:"column:is_pay" json:"isPay"`
}

func (Document) TableName() string { return "documents" }
