package weighings

import (
	"context"
	"math"
	"time"

	"confina-backend/internal/application/growth"
	"confina-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service records lot weighings. Each row snapshots the interval GMD against
// the previous weighing (or the lot entry when it is the first), matching how
// the scale sheet is read in the field.
type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	LotID        uuid.UUID
	WeighingDate time.Time
	HeadWeighed  int
	AvgWeightKg  float64
	Notes        *string
}

// Create validates and persists a weighing with its interval GMD snapshot.
func (s *Service) Create(ctx context.Context, farmID, userID uuid.UUID, in CreateInput) (*domain.LotWeighing, error) {
	if in.HeadWeighed <= 0 {
		return nil, ErrInvalidHeadCount
	}
	if in.AvgWeightKg <= 0 {
		return nil, ErrInvalidWeight
	}

	var rec domain.LotWeighing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot domain.Lot
		if err := tx.Where("farm_id = ? AND lot_id = ?", farmID, in.LotID).First(&lot).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrLotNotFound
			}
			return err
		}

		baseWeight := lot.AvgEntryWeightKg
		baseDate := lot.EntryDate
		var prev domain.LotWeighing
		err := tx.Where("lot_id = ?", in.LotID).Order("weighing_date DESC").First(&prev).Error
		if err == nil {
			baseWeight = prev.AvgWeightKg
			baseDate = prev.WeighingDate
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		rec = domain.LotWeighing{
			FarmID:       farmID,
			LotID:        in.LotID,
			WeighingDate: in.WeighingDate,
			HeadWeighed:  in.HeadWeighed,
			AvgWeightKg:  in.AvgWeightKg,
			Notes:        in.Notes,
			RegisteredBy: userID,
		}
		if baseWeight > 0 && !baseDate.IsZero() {
			if days := growth.DaysBetween(baseDate, in.WeighingDate); days > 0 {
				gmd := math.Round((in.AvgWeightKg-baseWeight)/float64(days)*10000) / 10000
				rec.GMDKg = &gmd
			}
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByLot returns a lot's weighings, newest first.
func (s *Service) ListByLot(ctx context.Context, farmID, lotID uuid.UUID) ([]domain.LotWeighing, error) {
	var recs []domain.LotWeighing
	err := s.DB.WithContext(ctx).
		Where("farm_id = ? AND lot_id = ?", farmID, lotID).
		Order("weighing_date DESC").
		Find(&recs).Error
	return recs, err
}

// MeanGMD averages the snapshotted interval GMDs of a lot; nil when no
// weighing produced one.
func (s *Service) MeanGMD(ctx context.Context, farmID, lotID uuid.UUID) (*float64, error) {
	recs, err := s.ListByLot(ctx, farmID, lotID)
	if err != nil {
		return nil, err
	}
	sum, n := 0.0, 0
	for _, r := range recs {
		if r.GMDKg != nil {
			sum += *r.GMDKg
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	mean := sum / float64(n)
	return &mean, nil
}

// Points converts stored weighings to growth reference points.
func Points(recs []domain.LotWeighing) []growth.Point {
	out := make([]growth.Point, 0, len(recs))
	for _, r := range recs {
		out = append(out, growth.Point{Date: r.WeighingDate, AvgWeightKg: r.AvgWeightKg})
	}
	return out
}
