package feeding

import (
	"context"
	"time"

	"confina-backend/internal/application/compositions"
	"confina-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service records feed deliveries. The cost per kg is resolved from the
// composition effective on the feeding date and persisted with the record in
// the same write; later re-versioning never rewrites history.
type Service struct {
	DB           *gorm.DB
	Compositions *compositions.Service
}

type CreateInput struct {
	PenID       uuid.UUID
	LotID       *uuid.UUID
	FeedTypeID  uuid.UUID
	FeedingDate time.Time
	QuantityKg  float64
	LeftoverKg  *float64
	Notes       *string
}

// Create validates and persists a feeding record with its locked cost.
// All validation happens before anything is written.
func (s *Service) Create(ctx context.Context, farmID, userID uuid.UUID, in CreateInput) (*domain.FeedingRecord, error) {
	if in.QuantityKg <= 0 {
		return nil, ErrInvalidQuantity
	}
	if in.LeftoverKg != nil {
		if *in.LeftoverKg < 0 {
			return nil, ErrNegativeLeftover
		}
		if *in.LeftoverKg > in.QuantityKg {
			return nil, ErrLeftoverExceedsDeliver
		}
	}

	var rec domain.FeedingRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pen domain.Pen
		if err := tx.Where("farm_id = ? AND pen_id = ?", farmID, in.PenID).First(&pen).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPenNotFound
			}
			return err
		}
		if in.LotID != nil {
			var lot domain.Lot
			if err := tx.Where("farm_id = ? AND lot_id = ?", farmID, *in.LotID).First(&lot).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ErrLotNotFound
				}
				return err
			}
		}

		rec = domain.FeedingRecord{
			FarmID:       farmID,
			PenID:        in.PenID,
			LotID:        in.LotID,
			FeedTypeID:   in.FeedTypeID,
			FeedingDate:  in.FeedingDate,
			QuantityKg:   in.QuantityKg,
			LeftoverKg:   in.LeftoverKg,
			Notes:        in.Notes,
			RegisteredBy: userID,
		}

		// Lock the cost inside the same transaction as the record itself.
		comp, err := s.Compositions.VersionAsOf(ctx, farmID, in.FeedTypeID, in.FeedingDate)
		if err == nil {
			rec.CostPerKg = &comp.CostPerKg
			rec.CompositionID = &comp.CompositionID
		} else if err != compositions.ErrCompositionNotFound {
			return err
		}

		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes a feeding record (farm scoped).
func (s *Service) Delete(ctx context.Context, farmID, feedingID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("farm_id = ? AND feeding_id = ?", farmID, feedingID).
		Delete(&domain.FeedingRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListFilter narrows List; zero values mean "no filter".
type ListFilter struct {
	PenID    *uuid.UUID
	LotID    *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
}

// List returns feeding records for a farm, newest first.
func (s *Service) List(ctx context.Context, farmID uuid.UUID, f ListFilter) ([]domain.FeedingRecord, error) {
	q := s.DB.WithContext(ctx).Where("farm_id = ?", farmID)
	if f.PenID != nil {
		q = q.Where("pen_id = ?", *f.PenID)
	}
	if f.LotID != nil {
		q = q.Where("lot_id = ?", *f.LotID)
	}
	if f.DateFrom != nil {
		q = q.Where("feeding_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("feeding_date <= ?", *f.DateTo)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	var recs []domain.FeedingRecord
	err := q.Order("feeding_date DESC, created_at DESC").Limit(limit).Find(&recs).Error
	return recs, err
}

// DaySummary aggregates one day's deliveries for the dashboard cards.
type DaySummary struct {
	Date        time.Time `json:"date"`
	Records     int       `json:"records"`
	PensFed     int       `json:"pens_fed"`
	TotalKg     float64   `json:"total_kg"`
	TotalCost   float64   `json:"total_cost"`
	CostUnknown int       `json:"cost_unknown"` // records with no locked or current cost
}

// Summarize aggregates the feedings of one day. Records without any cost are
// counted separately instead of being silently treated as free.
func (s *Service) Summarize(ctx context.Context, farmID uuid.UUID, date time.Time) (*DaySummary, error) {
	recs, err := s.List(ctx, farmID, ListFilter{DateFrom: &date, DateTo: &date, Limit: 1000})
	if err != nil {
		return nil, err
	}
	sum := DaySummary{Date: date, Records: len(recs)}
	pens := map[uuid.UUID]bool{}
	for _, r := range recs {
		pens[r.PenID] = true
		sum.TotalKg += r.QuantityKg
		if r.CostPerKg != nil {
			sum.TotalCost += r.QuantityKg * *r.CostPerKg
		} else {
			sum.CostUnknown++
		}
	}
	sum.PensFed = len(pens)
	return &sum, nil
}
