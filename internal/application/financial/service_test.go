package financial

import (
	"context"
	"testing"
	"time"

	"confina-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.FinancialRecord{}))
	return db
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestCreateValidation(t *testing.T) {
	db := setupDB(t)
	svc := &Service{DB: db}
	farmID, userID := uuid.New(), uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, farmID, userID, CreateInput{Type: "transfer", Category: "x", Amount: 10, RecordDate: day("2025-02-01")})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.Create(ctx, farmID, userID, CreateInput{Type: domain.FinancialExpense, Category: "  ", Amount: 10, RecordDate: day("2025-02-01")})
	assert.ErrorIs(t, err, ErrCategoryRequired)

	_, err = svc.Create(ctx, farmID, userID, CreateInput{Type: domain.FinancialIncome, Category: "venda", Amount: 0, RecordDate: day("2025-02-01")})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func seed(t *testing.T, svc *Service, farmID, userID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	rows := []CreateInput{
		{Type: domain.FinancialIncome, Category: "venda_gado", Amount: 150000, RecordDate: day("2025-02-10")},
		{Type: domain.FinancialExpense, Category: "racao", Amount: 42000, RecordDate: day("2025-02-12")},
		{Type: domain.FinancialExpense, Category: "racao", Amount: 8000, RecordDate: day("2025-03-02")},
		{Type: domain.FinancialExpense, Category: "frete", Amount: 3500, RecordDate: day("2025-03-05")},
	}
	for _, r := range rows {
		_, err := svc.Create(ctx, farmID, userID, r)
		require.NoError(t, err)
	}
}

func TestListFilters(t *testing.T) {
	db := setupDB(t)
	svc := &Service{DB: db}
	farmID, userID := uuid.New(), uuid.New()
	seed(t, svc, farmID, userID)
	ctx := context.Background()

	recs, err := svc.List(ctx, farmID, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, recs, 4)
	// Newest first.
	assert.Equal(t, "frete", recs[0].Category)

	recs, err = svc.List(ctx, farmID, ListFilter{Type: domain.FinancialExpense})
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	recs, err = svc.List(ctx, farmID, ListFilter{Category: "racao"})
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = svc.List(ctx, farmID, ListFilter{DateFrom: day("2025-03-01"), DateTo: day("2025-03-31")})
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = svc.List(ctx, uuid.New(), ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSummarize(t *testing.T) {
	db := setupDB(t)
	svc := &Service{DB: db}
	farmID, userID := uuid.New(), uuid.New()
	seed(t, svc, farmID, userID)

	sum, err := svc.Summarize(context.Background(), farmID, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 150000.0, sum.IncomeTotal)
	assert.Equal(t, 53500.0, sum.ExpenseTotal)
	assert.Equal(t, 96500.0, sum.Balance)
	assert.Equal(t, 150000.0, sum.ByCategory["venda_gado"])
	assert.Equal(t, -50000.0, sum.ByCategory["racao"])
	assert.Equal(t, -3500.0, sum.ByCategory["frete"])
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	svc := &Service{DB: db}
	farmID, userID := uuid.New(), uuid.New()
	ctx := context.Background()

	rec, err := svc.Create(ctx, farmID, userID, CreateInput{Type: domain.FinancialIncome, Category: "venda", Amount: 100, RecordDate: day("2025-02-01")})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New(), rec.RecordID), ErrRecordNotFound)
	require.NoError(t, svc.Delete(ctx, farmID, rec.RecordID))
	assert.ErrorIs(t, svc.Delete(ctx, farmID, rec.RecordID), ErrRecordNotFound)
}
