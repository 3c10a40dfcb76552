package pricing

import (
	"context"
	"strings"
	"time"

	"confina-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the ingredient price ledger. Prices are never edited in place:
// every change appends a row to feed_ingredient_prices, and the ingredient's
// current_price column is a denormalized copy of the newest one.
type Service struct {
	DB *gorm.DB
}

type IngredientInput struct {
	Name  string
	Unit  string
	Price float64
	Notes *string
}

// CreateIngredient registers an ingredient and its opening price point in one
// transaction.
func (s *Service) CreateIngredient(ctx context.Context, farmID, userID uuid.UUID, in IngredientInput) (*domain.Ingredient, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	if in.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	unit := in.Unit
	if unit == "" {
		unit = "kg"
	}

	ing := domain.Ingredient{
		FarmID:       farmID,
		Name:         strings.TrimSpace(in.Name),
		Unit:         unit,
		CurrentPrice: in.Price,
		Active:       true,
		Notes:        in.Notes,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ing).Error; err != nil {
			return err
		}
		return tx.Create(&domain.IngredientPrice{
			FarmID:       farmID,
			IngredientID: ing.IngredientID,
			Price:        in.Price,
			PriceDate:    today(),
			RegisteredBy: userID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

// UpdateIngredient updates name/unit/notes and, when the price changed,
// appends a new ledger point in the same transaction. Prior points are never
// touched.
func (s *Service) UpdateIngredient(ctx context.Context, farmID, userID, ingredientID uuid.UUID, in IngredientInput) (*domain.Ingredient, error) {
	if in.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	var ing domain.Ingredient
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("farm_id = ? AND ingredient_id = ?", farmID, ingredientID).First(&ing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrIngredientNotFound
			}
			return err
		}
		priceChanged := ing.CurrentPrice != in.Price

		if strings.TrimSpace(in.Name) != "" {
			ing.Name = strings.TrimSpace(in.Name)
		}
		if in.Unit != "" {
			ing.Unit = in.Unit
		}
		ing.Notes = in.Notes
		ing.CurrentPrice = in.Price
		if err := tx.Save(&ing).Error; err != nil {
			return err
		}

		if priceChanged {
			return tx.Create(&domain.IngredientPrice{
				FarmID:       farmID,
				IngredientID: ing.IngredientID,
				Price:        in.Price,
				PriceDate:    today(),
				RegisteredBy: userID,
			}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

// Deactivate soft-deletes an ingredient so past compositions keep resolving.
func (s *Service) Deactivate(ctx context.Context, farmID, ingredientID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&domain.Ingredient{}).
		Where("farm_id = ? AND ingredient_id = ?", farmID, ingredientID).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

// CurrentPrice returns the ingredient's present price.
func (s *Service) CurrentPrice(ctx context.Context, farmID, ingredientID uuid.UUID) (float64, error) {
	var ing domain.Ingredient
	if err := s.DB.WithContext(ctx).Where("farm_id = ? AND ingredient_id = ?", farmID, ingredientID).First(&ing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrIngredientNotFound
		}
		return 0, err
	}
	return ing.CurrentPrice, nil
}

// PriceAsOf returns the most recent ledger point dated on or before the given
// date. When no point predates it (ledger started later), the ingredient's
// current price field is the fallback.
func (s *Service) PriceAsOf(ctx context.Context, farmID, ingredientID uuid.UUID, date time.Time) (float64, error) {
	var point domain.IngredientPrice
	err := s.DB.WithContext(ctx).
		Where("farm_id = ? AND ingredient_id = ? AND price_date <= ?", farmID, ingredientID, date).
		Order("price_date DESC").
		First(&point).Error
	if err == nil {
		return point.Price, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, err
	}
	return s.CurrentPrice(ctx, farmID, ingredientID)
}

// History returns the full price ledger, newest first.
func (s *Service) History(ctx context.Context, farmID, ingredientID uuid.UUID) ([]domain.IngredientPrice, error) {
	var points []domain.IngredientPrice
	err := s.DB.WithContext(ctx).
		Where("farm_id = ? AND ingredient_id = ?", farmID, ingredientID).
		Order("price_date DESC").
		Find(&points).Error
	return points, err
}

// List returns the farm's active ingredients ordered by name.
func (s *Service) List(ctx context.Context, farmID uuid.UUID) ([]domain.Ingredient, error) {
	var ings []domain.Ingredient
	err := s.DB.WithContext(ctx).
		Where("farm_id = ? AND active = ?", farmID, true).
		Order("name").
		Find(&ings).Error
	return ings, err
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
