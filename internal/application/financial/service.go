package financial

import (
	"context"
	"strings"
	"time"

	"confina-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service keeps the farm-level cash ledger: incomes and expenses outside the
// per-lot cost tracking, plus period summaries for the dashboard.
type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Type        string
	Category    string
	Description *string
	Amount      float64
	RecordDate  time.Time
}

func (s *Service) Create(ctx context.Context, farmID, userID uuid.UUID, in CreateInput) (*domain.FinancialRecord, error) {
	if in.Type != domain.FinancialIncome && in.Type != domain.FinancialExpense {
		return nil, ErrInvalidType
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, ErrCategoryRequired
	}
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	rec := domain.FinancialRecord{
		FarmID:       farmID,
		Type:         in.Type,
		Category:     strings.TrimSpace(in.Category),
		Description:  in.Description,
		Amount:       in.Amount,
		RecordDate:   in.RecordDate,
		RegisteredBy: userID,
	}
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Service) Delete(ctx context.Context, farmID, recordID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("farm_id = ? AND record_id = ?", farmID, recordID).
		Delete(&domain.FinancialRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type ListFilter struct {
	Type     string
	Category string
	DateFrom time.Time
	DateTo   time.Time
}

func (s *Service) List(ctx context.Context, farmID uuid.UUID, f ListFilter) ([]domain.FinancialRecord, error) {
	q := s.DB.WithContext(ctx).Where("farm_id = ?", farmID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if !f.DateFrom.IsZero() {
		q = q.Where("record_date >= ?", f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		q = q.Where("record_date <= ?", f.DateTo)
	}
	var recs []domain.FinancialRecord
	err := q.Order("record_date DESC").Find(&recs).Error
	return recs, err
}

// Summary totals a period's movements; Balance is income minus expense.
type Summary struct {
	IncomeTotal  float64            `json:"income_total"`
	ExpenseTotal float64            `json:"expense_total"`
	Balance      float64            `json:"balance"`
	ByCategory   map[string]float64 `json:"by_category"`
}

// Summarize folds the filtered records into period totals. Category totals
// are signed: incomes add, expenses subtract.
func (s *Service) Summarize(ctx context.Context, farmID uuid.UUID, f ListFilter) (*Summary, error) {
	recs, err := s.List(ctx, farmID, f)
	if err != nil {
		return nil, err
	}
	sum := &Summary{ByCategory: make(map[string]float64)}
	for _, r := range recs {
		switch r.Type {
		case domain.FinancialIncome:
			sum.IncomeTotal += r.Amount
			sum.ByCategory[r.Category] += r.Amount
		case domain.FinancialExpense:
			sum.ExpenseTotal += r.Amount
			sum.ByCategory[r.Category] -= r.Amount
		}
	}
	sum.Balance = sum.IncomeTotal - sum.ExpenseTotal
	return sum, nil
}
