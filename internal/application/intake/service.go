package intake

import (
	"context"
	"time"

	"confina-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service joins the day's feeding records with pen bounds and lot targets to
// produce the intake board: per-pen aggregates plus their alerts.
type Service struct {
	DB *gorm.DB
}

// PenIntake is one row of the intake board.
type PenIntake struct {
	DayIntake
	PenNumber string  `json:"pen_number"`
	LotCode   *string `json:"lot_code"`
	Alerts    []Alert `json:"alerts"`
}

// ForDate aggregates all intakes of a farm on one day and evaluates alerts.
func (s *Service) ForDate(ctx context.Context, farmID uuid.UUID, date time.Time) ([]PenIntake, error) {
	var records []domain.FeedingRecord
	if err := s.DB.WithContext(ctx).
		Where("farm_id = ? AND feeding_date = ?", farmID, date).
		Find(&records).Error; err != nil {
		return nil, err
	}

	var pens []domain.Pen
	if err := s.DB.WithContext(ctx).Where("farm_id = ?", farmID).Find(&pens).Error; err != nil {
		return nil, err
	}
	penByID := make(map[uuid.UUID]*domain.Pen, len(pens))
	for i := range pens {
		penByID[pens[i].PenID] = &pens[i]
	}

	var lots []domain.Lot
	if err := s.DB.WithContext(ctx).Where("farm_id = ?", farmID).Find(&lots).Error; err != nil {
		return nil, err
	}
	lotByID := make(map[uuid.UUID]*domain.Lot, len(lots))
	for i := range lots {
		lotByID[lots[i].LotID] = &lots[i]
	}

	intakes := Aggregate(records)
	out := make([]PenIntake, 0, len(intakes))
	for _, in := range intakes {
		row := PenIntake{DayIntake: in}
		pen := penByID[in.PenID]
		if pen != nil {
			row.PenNumber = pen.PenNumber
		}
		var lot *domain.Lot
		if in.LotID != nil {
			lot = lotByID[*in.LotID]
			if lot != nil {
				row.LotCode = &lot.LotCode
			}
		}
		row.Alerts = EvaluateAlerts(pen, lot, in)
		out = append(out, row)
	}
	return out, nil
}
