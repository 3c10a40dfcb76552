package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LotStatusActive = "active"
	LotStatusClosed = "closed"

	// DefaultArrobaDivisor is the negotiated kg-per-arroba used in trade.
	// It bakes in an assumed carcass yield, unlike the raw 15 kg definition.
	DefaultArrobaDivisor = 30.0
)

// Lot is the accounting unit of the feedlot: a group of animals that entered
// together and is costed together until sale or exit.
type Lot struct {
	LotID               uuid.UUID  `gorm:"column:lot_id;type:uuid;primaryKey" json:"lot_id"`
	FarmID              uuid.UUID  `gorm:"column:farm_id;type:uuid;not null;index" json:"farm_id"`
	PenID               *uuid.UUID `gorm:"column:pen_id;type:uuid;index" json:"pen_id"`
	LotCode             string     `gorm:"column:lot_code;not null" json:"lot_code"`
	Category            string     `gorm:"column:category;not null" json:"category"`
	Origin              *string    `gorm:"column:origin" json:"origin"`
	HeadCount           int        `gorm:"column:head_count;not null" json:"head_count"`
	AvgEntryWeightKg    float64    `gorm:"column:avg_entry_weight_kg;type:decimal(10,2);not null" json:"avg_entry_weight_kg"`
	EntryDate           time.Time  `gorm:"column:entry_date;not null" json:"entry_date"`
	TargetGMDKg         *float64   `gorm:"column:target_gmd_kg;type:decimal(8,4)" json:"target_gmd_kg"`
	TargetLeftoverPct   *float64   `gorm:"column:target_leftover_pct;type:decimal(6,2)" json:"target_leftover_pct"`
	PurchasePriceArroba *float64   `gorm:"column:purchase_price_arroba;type:decimal(12,2)" json:"purchase_price_arroba"`
	CarcassYieldPct     float64    `gorm:"column:carcass_yield_pct;type:decimal(6,2);not null;default:52" json:"carcass_yield_pct"`
	CostPerHeadDay      *float64   `gorm:"column:cost_per_head_day;type:decimal(12,4)" json:"cost_per_head_day"`
	ArrobaDivisor       float64    `gorm:"column:arroba_divisor;type:decimal(6,2);not null;default:30" json:"arroba_divisor"`
	Status              string     `gorm:"column:status;not null;default:active" json:"status"`
	Notes               *string    `gorm:"column:notes" json:"notes"`
	CreatedAt           time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Lot) TableName() string {
	return "lots"
}

func (l *Lot) BeforeCreate(tx *gorm.DB) error {
	if l.LotID == uuid.Nil {
		l.LotID = uuid.New()
	}
	if l.ArrobaDivisor == 0 {
		l.ArrobaDivisor = DefaultArrobaDivisor
	}
	return nil
}

// LotExtraCost is an ad hoc cost outside feed and daily operation
// (medicine, freight, vaccines).
type LotExtraCost struct {
	CostID       uuid.UUID `gorm:"column:cost_id;type:uuid;primaryKey" json:"cost_id"`
	FarmID       uuid.UUID `gorm:"column:farm_id;type:uuid;not null;index" json:"farm_id"`
	LotID        uuid.UUID `gorm:"column:lot_id;type:uuid;not null;index" json:"lot_id"`
	Description  string    `gorm:"column:description;not null" json:"description"`
	TotalAmount  float64   `gorm:"column:total_amount;type:decimal(14,2);not null" json:"total_amount"`
	CostDate     time.Time `gorm:"column:cost_date;not null" json:"cost_date"`
	RegisteredBy uuid.UUID `gorm:"column:registered_by;type:uuid" json:"registered_by"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (LotExtraCost) TableName() string {
	return "lot_extra_costs"
}

func (c *LotExtraCost) BeforeCreate(tx *gorm.DB) error {
	if c.CostID == uuid.Nil {
		c.CostID = uuid.New()
	}
	return nil
}

// LotEvent is an append-only audit row with a JSON payload
// (e.g. the reconciled closeout snapshot written when a lot is closed).
type LotEvent struct {
	EventID      uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	LotID        uuid.UUID      `gorm:"column:lot_id;type:uuid;not null;index" json:"lot_id"`
	EventType    string         `gorm:"column:event_type;not null" json:"event_type"`
	ActorUserID  *uuid.UUID     `gorm:"column:actor_user_id;type:uuid" json:"actor_user_id"`
	EventData    datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (LotEvent) TableName() string {
	return "lot_events"
}

func (e *LotEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
