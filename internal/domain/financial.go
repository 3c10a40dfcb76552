package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FinancialIncome  = "income"
	FinancialExpense = "expense"
)

// FinancialRecord is a farm-level cash movement (feed purchase, cattle sale...).
type FinancialRecord struct {
	RecordID     uuid.UUID `gorm:"column:record_id;type:uuid;primaryKey" json:"record_id"`
	FarmID       uuid.UUID `gorm:"column:farm_id;type:uuid;not null;index" json:"farm_id"`
	Type         string    `gorm:"column:type;not null" json:"type"`
	Category     string    `gorm:"column:category;not null" json:"category"`
	Description  *string   `gorm:"column:description" json:"description"`
	Amount       float64   `gorm:"column:amount;type:decimal(14,2);not null" json:"amount"`
	RecordDate   time.Time `gorm:"column:record_date;not null;index" json:"record_date"`
	RegisteredBy uuid.UUID `gorm:"column:registered_by;type:uuid" json:"registered_by"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (FinancialRecord) TableName() string {
	return "financial_records"
}

func (r *FinancialRecord) BeforeCreate(tx *gorm.DB) error {
	if r.RecordID == uuid.Nil {
		r.RecordID = uuid.New()
	}
	return nil
}
