package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedingRecord (trato) is one delivery of feed to a pen.
// CostPerKg is locked at write time from the composition effective on the
// feeding date; re-versioning the composition later never changes it.
// LeftoverKg nil means "not measured", which is different from a measured 0.
type FeedingRecord struct {
	FeedingID     uuid.UUID  `gorm:"column:feeding_id;type:uuid;primaryKey" json:"feeding_id"`
	FarmID        uuid.UUID  `gorm:"column:farm_id;type:uuid;not null;index" json:"farm_id"`
	PenID         uuid.UUID  `gorm:"column:pen_id;type:uuid;not null;index" json:"pen_id"`
	LotID         *uuid.UUID `gorm:"column:lot_id;type:uuid;index" json:"lot_id"`
	FeedTypeID    uuid.UUID  `gorm:"column:feed_type_id;type:uuid;not null" json:"feed_type_id"`
	FeedingDate   time.Time  `gorm:"column:feeding_date;not null;index" json:"feeding_date"`
	QuantityKg    float64    `gorm:"column:quantity_kg;type:decimal(12,3);not null" json:"quantity_kg"`
	LeftoverKg    *float64   `gorm:"column:leftover_kg;type:decimal(12,3)" json:"leftover_kg"`
	CostPerKg     *float64   `gorm:"column:cost_per_kg;type:decimal(12,4)" json:"cost_per_kg"`
	CompositionID *uuid.UUID `gorm:"column:composition_id;type:uuid" json:"composition_id"`
	Notes         *string    `gorm:"column:notes" json:"notes"`
	RegisteredBy  uuid.UUID  `gorm:"column:registered_by;type:uuid" json:"registered_by"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (FeedingRecord) TableName() string {
	return "feeding_records"
}

func (r *FeedingRecord) BeforeCreate(tx *gorm.DB) error {
	if r.FeedingID == uuid.Nil {
		r.FeedingID = uuid.New()
	}
	return nil
}
