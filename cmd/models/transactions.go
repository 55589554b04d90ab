package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// AmountScale and MaxAmount mirror the numeric(14,2) amount column.
const AmountScale = 2

var MaxAmount = decimal.New(1, 12)

type Category string

const (
	CategoryIncome  Category = "income"
	CategoryExpense Category = "expense"
)

func (c Category) Valid() bool {
	return c == CategoryIncome || c == CategoryExpense
}

type Transaction struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title     string          `gorm:"column:title;size:255;not null" json:"title"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null" json:"amount"`
	Category  Category        `gorm:"column:category;size:16;not null;index:idx_transactions_owner_category,priority:2" json:"category"`
	Icon      string          `gorm:"column:icon;size:64" json:"icon"`
	Date      time.Time       `gorm:"column:date;not null;index" json:"date"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index:idx_transactions_owner_category,priority:1" json:"userId"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"column:updated_at" json:"-"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
