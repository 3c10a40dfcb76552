package lots

import (
	"context"
	"strings"
	"time"

	"confina-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages lots and their extra costs. Closing a lot is the closeout
// package's job; this one only guards that closed lots stop accepting edits.
type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	PenID               *uuid.UUID
	LotCode             string
	Category            string
	Origin              *string
	HeadCount           int
	AvgEntryWeightKg    float64
	EntryDate           time.Time
	TargetGMDKg         *float64
	TargetLeftoverPct   *float64
	PurchasePriceArroba *float64
	CarcassYieldPct     *float64
	CostPerHeadDay      *float64
	ArrobaDivisor       *float64
	Notes               *string
}

func (in CreateInput) validate() error {
	if strings.TrimSpace(in.LotCode) == "" {
		return ErrCodeRequired
	}
	if in.HeadCount <= 0 {
		return ErrInvalidHeadCount
	}
	if in.AvgEntryWeightKg <= 0 {
		return ErrInvalidWeight
	}
	if in.EntryDate.IsZero() {
		return ErrInvalidEntryDate
	}
	if in.ArrobaDivisor != nil && *in.ArrobaDivisor <= 0 {
		return ErrInvalidDivisor
	}
	return nil
}

func (s *Service) Create(ctx context.Context, farmID uuid.UUID, in CreateInput) (*domain.Lot, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	lot := domain.Lot{
		FarmID:              farmID,
		PenID:               in.PenID,
		LotCode:             strings.TrimSpace(in.LotCode),
		Category:            in.Category,
		Origin:              in.Origin,
		HeadCount:           in.HeadCount,
		AvgEntryWeightKg:    in.AvgEntryWeightKg,
		EntryDate:           in.EntryDate,
		TargetGMDKg:         in.TargetGMDKg,
		TargetLeftoverPct:   in.TargetLeftoverPct,
		PurchasePriceArroba: in.PurchasePriceArroba,
		CostPerHeadDay:      in.CostPerHeadDay,
		Status:              domain.LotStatusActive,
		Notes:               in.Notes,
	}
	if in.CarcassYieldPct != nil {
		lot.CarcassYieldPct = *in.CarcassYieldPct
	}
	if in.ArrobaDivisor != nil {
		lot.ArrobaDivisor = *in.ArrobaDivisor
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Lot{}).
			Where("farm_id = ? AND lot_code = ?", farmID, lot.LotCode).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCodeTaken
		}
		if in.PenID != nil {
			var pen domain.Pen
			if err := tx.Where("farm_id = ? AND pen_id = ?", farmID, *in.PenID).First(&pen).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ErrPenNotFound
				}
				return err
			}
		}
		return tx.Create(&lot).Error
	})
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

type UpdateInput struct {
	PenID               *uuid.UUID
	Category            *string
	Origin              *string
	TargetGMDKg         *float64
	TargetLeftoverPct   *float64
	PurchasePriceArroba *float64
	CarcassYieldPct     *float64
	CostPerHeadDay      *float64
	ArrobaDivisor       *float64
	Notes               *string
}

// Update patches the lot's negotiable and target fields. Structural fields
// (head count, entry weight, entry date) are fixed at creation because every
// derived metric is anchored on them.
func (s *Service) Update(ctx context.Context, farmID, lotID uuid.UUID, in UpdateInput) (*domain.Lot, error) {
	if in.ArrobaDivisor != nil && *in.ArrobaDivisor <= 0 {
		return nil, ErrInvalidDivisor
	}

	var lot domain.Lot
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("farm_id = ? AND lot_id = ?", farmID, lotID).First(&lot).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrLotNotFound
			}
			return err
		}
		if lot.Status == domain.LotStatusClosed {
			return ErrLotClosed
		}

		if in.PenID != nil {
			var pen domain.Pen
			if err := tx.Where("farm_id = ? AND pen_id = ?", farmID, *in.PenID).First(&pen).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ErrPenNotFound
				}
				return err
			}
			lot.PenID = in.PenID
		}
		if in.Category != nil {
			lot.Category = *in.Category
		}
		if in.Origin != nil {
			lot.Origin = in.Origin
		}
		if in.TargetGMDKg != nil {
			lot.TargetGMDKg = in.TargetGMDKg
		}
		if in.TargetLeftoverPct != nil {
			lot.TargetLeftoverPct = in.TargetLeftoverPct
		}
		if in.PurchasePriceArroba != nil {
			lot.PurchasePriceArroba = in.PurchasePriceArroba
		}
		if in.CarcassYieldPct != nil {
			lot.CarcassYieldPct = *in.CarcassYieldPct
		}
		if in.CostPerHeadDay != nil {
			lot.CostPerHeadDay = in.CostPerHeadDay
		}
		if in.ArrobaDivisor != nil {
			lot.ArrobaDivisor = *in.ArrobaDivisor
		}
		if in.Notes != nil {
			lot.Notes = in.Notes
		}
		return tx.Save(&lot).Error
	})
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func (s *Service) Get(ctx context.Context, farmID, lotID uuid.UUID) (*domain.Lot, error) {
	var lot domain.Lot
	err := s.DB.WithContext(ctx).Where("farm_id = ? AND lot_id = ?", farmID, lotID).First(&lot).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrLotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

// List returns the farm's lots, optionally filtered by status, newest entry
// first.
func (s *Service) List(ctx context.Context, farmID uuid.UUID, status string) ([]domain.Lot, error) {
	q := s.DB.WithContext(ctx).Where("farm_id = ?", farmID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var lots []domain.Lot
	err := q.Order("entry_date DESC").Find(&lots).Error
	return lots, err
}

type ExtraCostInput struct {
	Description string
	TotalAmount float64
	CostDate    time.Time
}

func (s *Service) AddExtraCost(ctx context.Context, farmID, lotID, userID uuid.UUID, in ExtraCostInput) (*domain.LotExtraCost, error) {
	if in.TotalAmount <= 0 {
		return nil, ErrInvalidCostAmount
	}

	var cost domain.LotExtraCost
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot domain.Lot
		if err := tx.Where("farm_id = ? AND lot_id = ?", farmID, lotID).First(&lot).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrLotNotFound
			}
			return err
		}
		if lot.Status == domain.LotStatusClosed {
			return ErrLotClosed
		}
		cost = domain.LotExtraCost{
			FarmID:       farmID,
			LotID:        lotID,
			Description:  in.Description,
			TotalAmount:  in.TotalAmount,
			CostDate:     in.CostDate,
			RegisteredBy: userID,
		}
		return tx.Create(&cost).Error
	})
	if err != nil {
		return nil, err
	}
	return &cost, nil
}

func (s *Service) ListExtraCosts(ctx context.Context, farmID, lotID uuid.UUID) ([]domain.LotExtraCost, error) {
	var costs []domain.LotExtraCost
	err := s.DB.WithContext(ctx).
		Where("farm_id = ? AND lot_id = ?", farmID, lotID).
		Order("cost_date DESC").
		Find(&costs).Error
	return costs, err
}

func (s *Service) DeleteExtraCost(ctx context.Context, farmID, costID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("farm_id = ? AND cost_id = ?", farmID, costID).
		Delete(&domain.LotExtraCost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCostNotFound
	}
	return nil
}
