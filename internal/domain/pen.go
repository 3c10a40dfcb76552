package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pen (baia). The optional min/max bounds feed the intake alert evaluation:
// a bound that is nil is simply not evaluated.
type Pen struct {
	PenID         uuid.UUID `gorm:"column:pen_id;type:uuid;primaryKey" json:"pen_id"`
	FarmID        uuid.UUID `gorm:"column:farm_id;type:uuid;not null;index" json:"farm_id"`
	PenNumber     string    `gorm:"column:pen_number;not null" json:"pen_number"`
	Capacity      int       `gorm:"column:capacity;not null;default:0" json:"capacity"`
	Status        string    `gorm:"column:status;not null;default:active" json:"status"`
	MinFeedKg     *float64  `gorm:"column:min_feed_kg;type:decimal(12,3)" json:"min_feed_kg"`
	MaxFeedKg     *float64  `gorm:"column:max_feed_kg;type:decimal(12,3)" json:"max_feed_kg"`
	MinLeftoverKg *float64  `gorm:"column:min_leftover_kg;type:decimal(12,3)" json:"min_leftover_kg"`
	MaxLeftoverKg *float64  `gorm:"column:max_leftover_kg;type:decimal(12,3)" json:"max_leftover_kg"`
	Notes         *string   `gorm:"column:notes" json:"notes"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Pen) TableName() string {
	return "pens"
}

func (p *Pen) BeforeCreate(tx *gorm.DB) error {
	if p.PenID == uuid.Nil {
		p.PenID = uuid.New()
	}
	return nil
}
