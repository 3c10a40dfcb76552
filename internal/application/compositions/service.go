package compositions

import (
	"context"
	"math"
	"strings"
	"time"

	"confina-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service versions feed compositions. Versions are append-only and immutable:
// "current" is not a stored flag but the highest version number, so a reader
// can never observe zero or two current versions for the same feed type.
type Service struct {
	DB *gorm.DB
}

type ItemInput struct {
	IngredientID  uuid.UUID
	ProportionPct float64
	QuantityKg    float64
	PricePerUnit  float64
}

type VersionInput struct {
	BaseQtyKg     float64
	EffectiveDate time.Time
	Items         []ItemInput
	Notes         *string
}

// CreateFeedType registers a ration. Cost per kg is never stored here; it is
// always derived from the newest composition.
func (s *Service) CreateFeedType(ctx context.Context, farmID uuid.UUID, name string, dryMatterPct *float64) (*domain.FeedType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	ft := domain.FeedType{
		FarmID:       farmID,
		Name:         strings.TrimSpace(name),
		DryMatterPct: dryMatterPct,
	}
	if err := s.DB.WithContext(ctx).Create(&ft).Error; err != nil {
		return nil, err
	}
	return &ft, nil
}

// ListFeedTypes returns the farm's rations with their current cost per kg
// attached (nil when no composition exists yet).
func (s *Service) ListFeedTypes(ctx context.Context, farmID uuid.UUID) ([]FeedTypeView, error) {
	var fts []domain.FeedType
	if err := s.DB.WithContext(ctx).Where("farm_id = ?", farmID).Order("name").Find(&fts).Error; err != nil {
		return nil, err
	}
	out := make([]FeedTypeView, 0, len(fts))
	for _, ft := range fts {
		view := FeedTypeView{FeedType: ft}
		if cur, err := s.Current(ctx, farmID, ft.FeedTypeID); err == nil {
			view.CurrentVersion = &cur.Version
			view.CostPerKg = &cur.CostPerKg
			view.CostPerKgDryMatter = dryMatterCost(cur.CostPerKg, ft.DryMatterPct)
		} else if err != ErrCompositionNotFound {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// FeedTypeView is a ration plus its derived cost figures.
type FeedTypeView struct {
	domain.FeedType
	CurrentVersion     *int     `json:"current_version"`
	CostPerKg          *float64 `json:"cost_per_kg"`
	CostPerKgDryMatter *float64 `json:"cost_per_kg_dry_matter"`
}

// CreateVersion appends a new composition version for a feed type. Line costs,
// the total and cost per kg are recomputed here from the inputs (the client
// preview is never trusted). The whole write — version row plus items — is one
// transaction; version numbering is max(version)+1 inside it.
func (s *Service) CreateVersion(ctx context.Context, farmID, userID, feedTypeID uuid.UUID, in VersionInput) (*domain.FeedComposition, error) {
	if in.BaseQtyKg <= 0 {
		return nil, ErrInvalidBaseQty
	}
	items := make([]ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		if it.IngredientID == uuid.Nil {
			continue
		}
		if it.QuantityKg <= 0 || it.PricePerUnit <= 0 {
			return nil, ErrInvalidItem
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	var comp domain.FeedComposition
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ft domain.FeedType
		if err := tx.Where("farm_id = ? AND feed_type_id = ?", farmID, feedTypeID).First(&ft).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrFeedTypeNotFound
			}
			return err
		}

		var maxVersion int
		if err := tx.Model(&domain.FeedComposition{}).
			Where("feed_type_id = ?", feedTypeID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}

		totalCost := 0.0
		for _, it := range items {
			totalCost += it.QuantityKg * it.PricePerUnit
		}

		effective := in.EffectiveDate
		if effective.IsZero() {
			effective = time.Now().UTC().Truncate(24 * time.Hour)
		}

		comp = domain.FeedComposition{
			FarmID:        farmID,
			FeedTypeID:    feedTypeID,
			Version:       maxVersion + 1,
			BaseQtyKg:     in.BaseQtyKg,
			EffectiveDate: effective,
			TotalCost:     round2(totalCost),
			CostPerKg:     round4(totalCost / in.BaseQtyKg),
			Notes:         in.Notes,
			RegisteredBy:  userID,
		}
		if err := tx.Create(&comp).Error; err != nil {
			return err
		}

		for _, it := range items {
			row := domain.FeedCompositionItem{
				CompositionID: comp.CompositionID,
				IngredientID:  it.IngredientID,
				ProportionPct: round4(it.ProportionPct),
				QuantityKg:    it.QuantityKg,
				PricePerUnit:  round4(it.PricePerUnit),
				TotalCost:     round2(it.QuantityKg * it.PricePerUnit),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comp, nil
}

// Current returns the feed type's newest composition version.
func (s *Service) Current(ctx context.Context, farmID, feedTypeID uuid.UUID) (*domain.FeedComposition, error) {
	var comp domain.FeedComposition
	err := s.DB.WithContext(ctx).
		Where("farm_id = ? AND feed_type_id = ?", farmID, feedTypeID).
		Order("version DESC").
		First(&comp).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrCompositionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comp, nil
}

// VersionAsOf returns the composition effective on a given date: the newest
// version whose effective date is on or before it. A date preceding every
// version resolves to the first version — early feedings are costed against
// the recipe that existed then, even if backdated.
func (s *Service) VersionAsOf(ctx context.Context, farmID, feedTypeID uuid.UUID, date time.Time) (*domain.FeedComposition, error) {
	var comp domain.FeedComposition
	err := s.DB.WithContext(ctx).
		Where("farm_id = ? AND feed_type_id = ? AND effective_date <= ?", farmID, feedTypeID, date).
		Order("effective_date DESC, version DESC").
		First(&comp).Error
	if err == nil {
		return &comp, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	err = s.DB.WithContext(ctx).
		Where("farm_id = ? AND feed_type_id = ?", farmID, feedTypeID).
		Order("version ASC").
		First(&comp).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrCompositionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comp, nil
}

// CurrentCostPerKg returns the wet-basis cost of the newest version, or nil
// when the feed type has no composition yet (indeterminate, not zero).
func (s *Service) CurrentCostPerKg(ctx context.Context, farmID, feedTypeID uuid.UUID) (*float64, error) {
	comp, err := s.Current(ctx, farmID, feedTypeID)
	if err == ErrCompositionNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comp.CostPerKg, nil
}

// CostPerKgDryMatter converts the current wet cost to dry-matter basis.
// Nil when the feed type has no composition or no dry matter percentage.
func (s *Service) CostPerKgDryMatter(ctx context.Context, farmID, feedTypeID uuid.UUID) (*float64, error) {
	var ft domain.FeedType
	if err := s.DB.WithContext(ctx).Where("farm_id = ? AND feed_type_id = ?", farmID, feedTypeID).First(&ft).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrFeedTypeNotFound
		}
		return nil, err
	}
	wet, err := s.CurrentCostPerKg(ctx, farmID, feedTypeID)
	if err != nil || wet == nil {
		return nil, err
	}
	return dryMatterCost(*wet, ft.DryMatterPct), nil
}

// ListVersions returns all versions of a feed type, newest first, with items.
func (s *Service) ListVersions(ctx context.Context, farmID, feedTypeID uuid.UUID) ([]domain.FeedComposition, error) {
	var comps []domain.FeedComposition
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Where("farm_id = ? AND feed_type_id = ?", farmID, feedTypeID).
		Order("version DESC").
		Find(&comps).Error
	return comps, err
}

func dryMatterCost(wetCostPerKg float64, dryMatterPct *float64) *float64 {
	if dryMatterPct == nil || *dryMatterPct <= 0 {
		return nil
	}
	v := wetCostPerKg / (*dryMatterPct / 100)
	return &v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
