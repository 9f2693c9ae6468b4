package models

// Deal описывает сделку по предмету каталога (франшизе или готовому бизнесу).
// Id сделок выдаются из собственного диапазона, начиная с 1000000.
type Deal struct {
	DealID      int64  `gorm:"column:deal_id;primaryKey" json:"dealId"`
	DealItemID  int64  `gorm:"column:deal_item_id;index" json:"dealItemId"`
	UserID      string `gorm:"column:user_id;index" json:"userId"`
	IsCompleted bool   `gorm:"column:is_completed_deal" json:"isCompletedDeal"`

	Iterations []DealIteration `gorm:"foreignKey:DealID;references:DealID" json:"dealIterations,omitempty"`
}

func (Deal) TableName() string { return "deals" }

// DealIteration — один из четырёх фиксированных этапов сделки.
// Этапы создаются вместе со сделкой и после этого не меняются.
type DealIteration struct {
	IterationID     int64  `gorm:"column:iteration_id;primaryKey;autoIncrement" json:"iterationId"`
	NumberIteration int    `gorm:"column:number_iteration" json:"numberIteration"`
	IterationName   string `gorm:"column:iteration_name" json:"iterationName"`
	IterationDetail string `gorm:"column:iteration_detail" json:"iterationDetail"`
	Position        int    `gorm:"column:position" json:"position"`
	DealID          int64  `gorm:"column:deal_id;index" json:"dealId"`
}

func (DealIteration) TableName() string { return "deal_iterations" }
