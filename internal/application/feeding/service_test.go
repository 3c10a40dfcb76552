package feeding

import (
	"context"
	"testing"
	"time"

	"confina-backend/internal/application/compositions"
	"confina-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Pen{}, &domain.Lot{}, &domain.FeedType{},
		&domain.FeedComposition{}, &domain.FeedCompositionItem{},
		&domain.FeedingRecord{},
	))
	return db
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func ptr(v float64) *float64 { return &v }

type fixture struct {
	svc    *Service
	comps  *compositions.Service
	farmID uuid.UUID
	userID uuid.UUID
	pen    domain.Pen
	feed   domain.FeedType
}

func setupFixture(t *testing.T) *fixture {
	db := setupDB(t)
	comps := &compositions.Service{DB: db}
	f := &fixture{
		svc:    &Service{DB: db, Compositions: comps},
		comps:  comps,
		farmID: uuid.New(),
		userID: uuid.New(),
	}
	f.pen = domain.Pen{FarmID: f.farmID, PenNumber: "12", Status: "active"}
	require.NoError(t, db.Create(&f.pen).Error)
	f.feed = domain.FeedType{FarmID: f.farmID, Name: "Terminação"}
	require.NoError(t, db.Create(&f.feed).Error)
	return f
}

func (f *fixture) addVersion(t *testing.T, effective string, costPerKg float64) *domain.FeedComposition {
	comp, err := f.comps.CreateVersion(context.Background(), f.farmID, f.userID, f.feed.FeedTypeID, compositions.VersionInput{
		BaseQtyKg:     100,
		EffectiveDate: day(effective),
		Items:         []compositions.ItemInput{{IngredientID: uuid.New(), QuantityKg: 100, PricePerUnit: costPerKg}},
	})
	require.NoError(t, err)
	return comp
}

func TestCreateLocksCostFromEffectiveVersion(t *testing.T) {
	f := setupFixture(t)
	v1 := f.addVersion(t, "2025-01-01", 1.50)
	f.addVersion(t, "2025-03-01", 2.00)

	// Feeding dated between the versions locks v1's cost, not the current one.
	rec, err := f.svc.Create(context.Background(), f.farmID, f.userID, CreateInput{
		PenID:       f.pen.PenID,
		FeedTypeID:  f.feed.FeedTypeID,
		FeedingDate: day("2025-02-10"),
		QuantityKg:  450,
	})
	require.NoError(t, err)
	require.NotNil(t, rec.CostPerKg)
	assert.Equal(t, 1.50, *rec.CostPerKg)
	require.NotNil(t, rec.CompositionID)
	assert.Equal(t, v1.CompositionID, *rec.CompositionID)
}

func TestCreateWithoutCompositionLeavesCostNil(t *testing.T) {
	f := setupFixture(t)

	rec, err := f.svc.Create(context.Background(), f.farmID, f.userID, CreateInput{
		PenID:       f.pen.PenID,
		FeedTypeID:  f.feed.FeedTypeID,
		FeedingDate: day("2025-02-10"),
		QuantityKg:  300,
	})
	require.NoError(t, err)
	assert.Nil(t, rec.CostPerKg)
	assert.Nil(t, rec.CompositionID)
}

func TestCreateValidation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.farmID, f.userID, CreateInput{PenID: f.pen.PenID, FeedTypeID: f.feed.FeedTypeID, FeedingDate: day("2025-02-10"), QuantityKg: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.svc.Create(ctx, f.farmID, f.userID, CreateInput{PenID: f.pen.PenID, FeedTypeID: f.feed.FeedTypeID, FeedingDate: day("2025-02-10"), QuantityKg: 100, LeftoverKg: ptr(-1)})
	assert.ErrorIs(t, err, ErrNegativeLeftover)

	_, err = f.svc.Create(ctx, f.farmID, f.userID, CreateInput{PenID: f.pen.PenID, FeedTypeID: f.feed.FeedTypeID, FeedingDate: day("2025-02-10"), QuantityKg: 100, LeftoverKg: ptr(120)})
	assert.ErrorIs(t, err, ErrLeftoverExceedsDeliver)

	_, err = f.svc.Create(ctx, f.farmID, f.userID, CreateInput{PenID: uuid.New(), FeedTypeID: f.feed.FeedTypeID, FeedingDate: day("2025-02-10"), QuantityKg: 100})
	assert.ErrorIs(t, err, ErrPenNotFound)

	other := uuid.New()
	_, err = f.svc.Create(ctx, f.farmID, f.userID, CreateInput{PenID: f.pen.PenID, LotID: &other, FeedTypeID: f.feed.FeedTypeID, FeedingDate: day("2025-02-10"), QuantityKg: 100})
	assert.ErrorIs(t, err, ErrLotNotFound)
}

func TestReversioningNeverRewritesHistory(t *testing.T) {
	f := setupFixture(t)
	f.addVersion(t, "2025-01-01", 1.50)

	rec, err := f.svc.Create(context.Background(), f.farmID, f.userID, CreateInput{
		PenID:       f.pen.PenID,
		FeedTypeID:  f.feed.FeedTypeID,
		FeedingDate: day("2025-02-10"),
		QuantityKg:  450,
	})
	require.NoError(t, err)

	f.addVersion(t, "2025-02-01", 2.20)

	var stored domain.FeedingRecord
	require.NoError(t, f.svc.DB.First(&stored, "feeding_id = ?", rec.FeedingID).Error)
	require.NotNil(t, stored.CostPerKg)
	assert.Equal(t, 1.50, *stored.CostPerKg)
}

func TestDelete(t *testing.T) {
	f := setupFixture(t)
	rec, err := f.svc.Create(context.Background(), f.farmID, f.userID, CreateInput{
		PenID:       f.pen.PenID,
		FeedTypeID:  f.feed.FeedTypeID,
		FeedingDate: day("2025-02-10"),
		QuantityKg:  100,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), uuid.New(), rec.FeedingID), ErrRecordNotFound)
	require.NoError(t, f.svc.Delete(context.Background(), f.farmID, rec.FeedingID))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), f.farmID, rec.FeedingID), ErrRecordNotFound)
}

func TestSummarize(t *testing.T) {
	f := setupFixture(t)
	f.addVersion(t, "2025-01-01", 2.0)
	ctx := context.Background()
	date := day("2025-02-10")

	pen2 := domain.Pen{FarmID: f.farmID, PenNumber: "13", Status: "active"}
	require.NoError(t, f.svc.DB.Create(&pen2).Error)

	// Two costed feedings on two pens plus one uncosted on a fresh feed type.
	_, err := f.svc.Create(ctx, f.farmID, f.userID, CreateInput{PenID: f.pen.PenID, FeedTypeID: f.feed.FeedTypeID, FeedingDate: date, QuantityKg: 200})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.farmID, f.userID, CreateInput{PenID: pen2.PenID, FeedTypeID: f.feed.FeedTypeID, FeedingDate: date, QuantityKg: 300})
	require.NoError(t, err)
	bare := domain.FeedType{FarmID: f.farmID, Name: "Sem custo"}
	require.NoError(t, f.svc.DB.Create(&bare).Error)
	_, err = f.svc.Create(ctx, f.farmID, f.userID, CreateInput{PenID: f.pen.PenID, FeedTypeID: bare.FeedTypeID, FeedingDate: date, QuantityKg: 50})
	require.NoError(t, err)

	sum, err := f.svc.Summarize(ctx, f.farmID, date)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Records)
	assert.Equal(t, 2, sum.PensFed)
	assert.Equal(t, 550.0, sum.TotalKg)
	assert.Equal(t, 1000.0, sum.TotalCost)
	assert.Equal(t, 1, sum.CostUnknown)
}
