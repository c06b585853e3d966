package transaction

import "time"

type Transaction struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	Type        string    `gorm:"column:type;not null"`
	Amount      float64   `gorm:"column:amount;type:numeric(12,2);not null"`
	CategoryID  *int64    `gorm:"column:category_id"`
	Description *string   `gorm:"column:description"`
	Date        time.Time `gorm:"column:date;type:date;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
