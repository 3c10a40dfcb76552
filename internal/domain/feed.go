package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient (insumo) is a raw feed input. Its price is never edited in
// place: every change appends an IngredientPrice row, and CurrentPrice is
// kept as a denormalized copy of the newest one.
type Ingredient struct {
	IngredientID uuid.UUID `gorm:"column:ingredient_id;type:uuid;primaryKey" json:"ingredient_id"`
	FarmID       uuid.UUID `gorm:"column:farm_id;type:uuid;not null;index" json:"farm_id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Unit         string    `gorm:"column:unit;not null;default:kg" json:"unit"`
	CurrentPrice float64   `gorm:"column:current_price;type:decimal(12,4);not null" json:"current_price"`
	Active       bool      `gorm:"column:active;not null;default:true" json:"active"`
	Notes        *string   `gorm:"column:notes" json:"notes"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Ingredient) TableName() string {
	return "feed_ingredients"
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.IngredientID == uuid.Nil {
		i.IngredientID = uuid.New()
	}
	return nil
}

// IngredientPrice is one point of the append-only price ledger.
type IngredientPrice struct {
	PriceID      uuid.UUID `gorm:"column:price_id;type:uuid;primaryKey" json:"price_id"`
	FarmID       uuid.UUID `gorm:"column:farm_id;type:uuid;not null;index" json:"farm_id"`
	IngredientID uuid.UUID `gorm:"column:ingredient_id;type:uuid;not null;index" json:"ingredient_id"`
	Price        float64   `gorm:"column:price;type:decimal(12,4);not null" json:"price"`
	PriceDate    time.Time `gorm:"column:price_date;not null" json:"price_date"`
	RegisteredBy uuid.UUID `gorm:"column:registered_by;type:uuid" json:"registered_by"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (IngredientPrice) TableName() string {
	return "feed_ingredient_prices"
}

func (p *IngredientPrice) BeforeCreate(tx *gorm.DB) error {
	if p.PriceID == uuid.Nil {
		p.PriceID = uuid.New()
	}
	return nil
}

// FeedType (ração) is a diet. Its cost per kg is always derived from the
// newest FeedComposition, never stored on the feed type itself.
type FeedType struct {
	FeedTypeID   uuid.UUID `gorm:"column:feed_type_id;type:uuid;primaryKey" json:"feed_type_id"`
	FarmID       uuid.UUID `gorm:"column:farm_id;type:uuid;not null;index" json:"farm_id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	DryMatterPct *float64  `gorm:"column:dry_matter_pct;type:decimal(6,2)" json:"dry_matter_pct"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (FeedType) TableName() string {
	return "feed_types"
}

func (f *FeedType) BeforeCreate(tx *gorm.DB) error {
	if f.FeedTypeID == uuid.Nil {
		f.FeedTypeID = uuid.New()
	}
	return nil
}

// FeedComposition is one immutable version of a feed type's recipe.
// Versions are append-only; the current one is the highest version number,
// so there is no mutable "is current" flag to keep consistent.
type FeedComposition struct {
	CompositionID uuid.UUID `gorm:"column:composition_id;type:uuid;primaryKey" json:"composition_id"`
	FarmID        uuid.UUID `gorm:"column:farm_id;type:uuid;not null;index" json:"farm_id"`
	FeedTypeID    uuid.UUID `gorm:"column:feed_type_id;type:uuid;not null;index" json:"feed_type_id"`
	Version       int       `gorm:"column:version;not null" json:"version"`
	BaseQtyKg     float64   `gorm:"column:base_qty_kg;type:decimal(12,3);not null" json:"base_qty_kg"`
	EffectiveDate time.Time `gorm:"column:effective_date;not null" json:"effective_date"`
	TotalCost     float64   `gorm:"column:total_cost;type:decimal(14,2);not null" json:"total_cost"`
	CostPerKg     float64   `gorm:"column:cost_per_kg;type:decimal(12,4);not null" json:"cost_per_kg"`
	Notes         *string   `gorm:"column:notes" json:"notes"`
	RegisteredBy  uuid.UUID `gorm:"column:registered_by;type:uuid" json:"registered_by"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`

	Items []FeedCompositionItem `gorm:"foreignKey:CompositionID;references:CompositionID" json:"items,omitempty"`
}

func (FeedComposition) TableName() string {
	return "feed_compositions"
}

func (c *FeedComposition) BeforeCreate(tx *gorm.DB) error {
	if c.CompositionID == uuid.Nil {
		c.CompositionID = uuid.New()
	}
	return nil
}

// FeedCompositionItem is one ingredient line of a composition version.
// PricePerUnit is copied from the ledger at authoring time.
type FeedCompositionItem struct {
	ItemID        uuid.UUID `gorm:"column:item_id;type:uuid;primaryKey" json:"item_id"`
	CompositionID uuid.UUID `gorm:"column:composition_id;type:uuid;not null;index" json:"composition_id"`
	IngredientID  uuid.UUID `gorm:"column:ingredient_id;type:uuid;not null" json:"ingredient_id"`
	ProportionPct float64   `gorm:"column:proportion_pct;type:decimal(8,4);not null" json:"proportion_pct"`
	QuantityKg    float64   `gorm:"column:quantity_kg;type:decimal(12,3);not null" json:"quantity_kg"`
	PricePerUnit  float64   `gorm:"column:price_per_unit;type:decimal(12,4);not null" json:"price_per_unit"`
	TotalCost     float64   `gorm:"column:total_cost;type:decimal(14,2);not null" json:"total_cost"`
}

func (FeedCompositionItem) TableName() string {
	return "feed_composition_items"
}

func (i *FeedCompositionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ItemID == uuid.Nil {
		i.ItemID = uuid.New()
	}
	return nil
}
