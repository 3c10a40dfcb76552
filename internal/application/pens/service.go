package pens

import (
	"context"
	"strings"

	"confina-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Service manages pens and the feed/leftover bounds that drive intake alerts.
type Service struct {
	DB *gorm.DB
}

type Input struct {
	PenNumber     string
	Capacity      int
	MinFeedKg     *float64
	MaxFeedKg     *float64
	MinLeftoverKg *float64
	MaxLeftoverKg *float64
	Notes         *string
}

func (in Input) validate() error {
	if strings.TrimSpace(in.PenNumber) == "" {
		return ErrNumberRequired
	}
	if in.Capacity < 0 {
		return ErrInvalidCapacity
	}
	if !validBounds(in.MinFeedKg, in.MaxFeedKg) || !validBounds(in.MinLeftoverKg, in.MaxLeftoverKg) {
		return ErrInvalidFeedBound
	}
	return nil
}

func validBounds(min, max *float64) bool {
	if min != nil && *min < 0 {
		return false
	}
	if max != nil && *max < 0 {
		return false
	}
	if min != nil && max != nil && *min > *max {
		return false
	}
	return true
}

func (s *Service) Create(ctx context.Context, farmID uuid.UUID, in Input) (*domain.Pen, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	pen := domain.Pen{
		FarmID:        farmID,
		PenNumber:     strings.TrimSpace(in.PenNumber),
		Capacity:      in.Capacity,
		Status:        StatusActive,
		MinFeedKg:     in.MinFeedKg,
		MaxFeedKg:     in.MaxFeedKg,
		MinLeftoverKg: in.MinLeftoverKg,
		MaxLeftoverKg: in.MaxLeftoverKg,
		Notes:         in.Notes,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Pen{}).
			Where("farm_id = ? AND pen_number = ?", farmID, pen.PenNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrNumberTaken
		}
		return tx.Create(&pen).Error
	})
	if err != nil {
		return nil, err
	}
	return &pen, nil
}

// Update replaces the pen's editable fields wholesale; clients send the full
// pen form, so a nil bound here genuinely means "no bound".
func (s *Service) Update(ctx context.Context, farmID, penID uuid.UUID, in Input) (*domain.Pen, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var pen domain.Pen
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("farm_id = ? AND pen_id = ?", farmID, penID).First(&pen).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPenNotFound
			}
			return err
		}
		number := strings.TrimSpace(in.PenNumber)
		if number != pen.PenNumber {
			var count int64
			if err := tx.Model(&domain.Pen{}).
				Where("farm_id = ? AND pen_number = ? AND pen_id <> ?", farmID, number, penID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrNumberTaken
			}
		}
		pen.PenNumber = number
		pen.Capacity = in.Capacity
		pen.MinFeedKg = in.MinFeedKg
		pen.MaxFeedKg = in.MaxFeedKg
		pen.MinLeftoverKg = in.MinLeftoverKg
		pen.MaxLeftoverKg = in.MaxLeftoverKg
		pen.Notes = in.Notes
		return tx.Save(&pen).Error
	})
	if err != nil {
		return nil, err
	}
	return &pen, nil
}

func (s *Service) SetStatus(ctx context.Context, farmID, penID uuid.UUID, status string) error {
	if status != StatusActive && status != StatusInactive {
		return ErrInvalidStatus
	}
	res := s.DB.WithContext(ctx).Model(&domain.Pen{}).
		Where("farm_id = ? AND pen_id = ?", farmID, penID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPenNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, farmID, penID uuid.UUID) (*domain.Pen, error) {
	var pen domain.Pen
	err := s.DB.WithContext(ctx).Where("farm_id = ? AND pen_id = ?", farmID, penID).First(&pen).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrPenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pen, nil
}

func (s *Service) List(ctx context.Context, farmID uuid.UUID) ([]domain.Pen, error) {
	var pens []domain.Pen
	err := s.DB.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("pen_number ASC").
		Find(&pens).Error
	return pens, err
}
