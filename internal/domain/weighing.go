package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LotWeighing is one average weighing of a lot. GMDKg is the interval gain
// snapshotted at registration (vs the previous weighing, else the lot entry);
// nil when the interval was zero or the baseline was missing.
type LotWeighing struct {
	WeighingID   uuid.UUID `gorm:"column:weighing_id;type:uuid;primaryKey" json:"weighing_id"`
	FarmID       uuid.UUID `gorm:"column:farm_id;type:uuid;not null;index" json:"farm_id"`
	LotID        uuid.UUID `gorm:"column:lot_id;type:uuid;not null;index" json:"lot_id"`
	WeighingDate time.Time `gorm:"column:weighing_date;not null;index" json:"weighing_date"`
	HeadWeighed  int       `gorm:"column:head_weighed;not null" json:"head_weighed"`
	AvgWeightKg  float64   `gorm:"column:avg_weight_kg;type:decimal(10,2);not null" json:"avg_weight_kg"`
	GMDKg        *float64  `gorm:"column:gmd_kg;type:decimal(8,4)" json:"gmd_kg"`
	Notes        *string   `gorm:"column:notes" json:"notes"`
	RegisteredBy uuid.UUID `gorm:"column:registered_by;type:uuid" json:"registered_by"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (LotWeighing) TableName() string {
	return "lot_weighings"
}

func (w *LotWeighing) BeforeCreate(tx *gorm.DB) error {
	if w.WeighingID == uuid.Nil {
		w.WeighingID = uuid.New()
	}
	return nil
}
