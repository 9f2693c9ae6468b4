package models

// Минимальные модели предметов сделки. CRUD и поиск по каталогу живут в
// отдельных сервисах площадки, здесь предметы нужны только как ссылка сделки.

// Franchise — карточка франшизы.
type Franchise struct {
	FranchiseID int64   `gorm:"column:franchise_id;primaryKey;autoIncrement" json:"franchiseId"`
	Title       string  `gorm:"column:title" json:"title"`
	UserID      string  `gorm:"column:user_id;index" json:"userId"`
	TotalInvest float64 `gorm:"column:total_invest" json:"totalInvest"`
}

func (Franchise) TableName() string { return "franchises" }

// Business — карточка готового бизнеса.
type Business struct {
	BusinessID   int64   `gorm:"column:business_id;primaryKey;autoIncrement" json:"businessId"`
	BusinessName string  `gorm:"column:business_name" json:"businessName"`
	UserID       string  `gorm:"column:user_id;index" json:"userId"`
	Price        float64 `gorm:"column:price" json:"price"`
}

func (Business) TableName() string { return "businesses" }
