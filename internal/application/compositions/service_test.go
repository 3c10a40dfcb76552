package compositions

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
	require.NoError(t, db.AutoMigrate(&domain.FeedType{}, &domain.FeedComposition{}, &domain.FeedCompositionItem{}))
	return db
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func ptr(v float64) *float64 { return &v }

func TestCreateVersionRecomputesCosts(t *testing.T) {
	db := setupDB(t)
	svc := &Service{DB: db}
	farmID, userID := uuid.New(), uuid.New()

	ft, err := svc.CreateFeedType(context.Background(), farmID, "Ração de adaptação", ptr(62.0))
	require.NoError(t, err)

	comp, err := svc.CreateVersion(context.Background(), farmID, userID, ft.FeedTypeID, VersionInput{
		BaseQtyKg:     1000,
		EffectiveDate: day("2025-01-15"),
		Items: []ItemInput{
			{IngredientID: uuid.New(), ProportionPct: 70, QuantityKg: 700, PricePerUnit: 1.80},
			{IngredientID: uuid.New(), ProportionPct: 30, QuantityKg: 300, PricePerUnit: 2.50},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, comp.Version)
	// 700*1.80 + 300*2.50 = 2010
	assert.Equal(t, 2010.0, comp.TotalCost)
	assert.Equal(t, 2.01, comp.CostPerKg)

	var items []domain.FeedCompositionItem
	require.NoError(t, db.Where("composition_id = ?", comp.CompositionID).Find(&items).Error)
	assert.Len(t, items, 2)
}

func TestCreateVersionNumbering(t *testing.T) {
	db := setupDB(t)
	svc := &Service{DB: db}
	farmID, userID := uuid.New(), uuid.New()

	ft, err := svc.CreateFeedType(context.Background(), farmID, "Terminação", nil)
	require.NoError(t, err)

	item := []ItemInput{{IngredientID: uuid.New(), QuantityKg: 500, PricePerUnit: 2.0}}
	v1, err := svc.CreateVersion(context.Background(), farmID, userID, ft.FeedTypeID, VersionInput{BaseQtyKg: 500, EffectiveDate: day("2025-01-01"), Items: item})
	require.NoError(t, err)
	v2, err := svc.CreateVersion(context.Background(), farmID, userID, ft.FeedTypeID, VersionInput{BaseQtyKg: 500, EffectiveDate: day("2025-02-01"), Items: item})
	require.NoError(t, err)
	assert.Equal(t, 1, v1.Version)
	assert.Equal(t, 2, v2.Version)

	cur, err := svc.Current(context.Background(), farmID, ft.FeedTypeID)
	require.NoError(t, err)
	assert.Equal(t, 2, cur.Version)
}

func TestCreateVersionValidation(t *testing.T) {
	db := setupDB(t)
	svc := &Service{DB: db}
	farmID, userID := uuid.New(), uuid.New()

	ft, err := svc.CreateFeedType(context.Background(), farmID, "Crescimento", nil)
	require.NoError(t, err)

	_, err = svc.CreateVersion(context.Background(), farmID, userID, ft.FeedTypeID, VersionInput{BaseQtyKg: 0})
	assert.ErrorIs(t, err, ErrInvalidBaseQty)

	_, err = svc.CreateVersion(context.Background(), farmID, userID, ft.FeedTypeID, VersionInput{BaseQtyKg: 100})
	assert.ErrorIs(t, err, ErrNoItems)

	// Blank ingredient rows are skipped, not rejected; all-blank means no items.
	_, err = svc.CreateVersion(context.Background(), farmID, userID, ft.FeedTypeID, VersionInput{
		BaseQtyKg: 100,
		Items:     []ItemInput{{IngredientID: uuid.Nil, QuantityKg: 50, PricePerUnit: 1}},
	})
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = svc.CreateVersion(context.Background(), farmID, userID, ft.FeedTypeID, VersionInput{
		BaseQtyKg: 100,
		Items:     []ItemInput{{IngredientID: uuid.New(), QuantityKg: 0, PricePerUnit: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = svc.CreateVersion(context.Background(), farmID, userID, uuid.New(), VersionInput{
		BaseQtyKg: 100,
		Items:     []ItemInput{{IngredientID: uuid.New(), QuantityKg: 50, PricePerUnit: 1}},
	})
	assert.ErrorIs(t, err, ErrFeedTypeNotFound)
}

func TestVersionAsOf(t *testing.T) {
	db := setupDB(t)
	svc := &Service{DB: db}
	farmID, userID := uuid.New(), uuid.New()

	ft, err := svc.CreateFeedType(context.Background(), farmID, "Adaptação", nil)
	require.NoError(t, err)

	mk := func(effective string, price float64) *domain.FeedComposition {
		comp, err := svc.CreateVersion(context.Background(), farmID, userID, ft.FeedTypeID, VersionInput{
			BaseQtyKg:     100,
			EffectiveDate: day(effective),
			Items:         []ItemInput{{IngredientID: uuid.New(), QuantityKg: 100, PricePerUnit: price}},
		})
		require.NoError(t, err)
		return comp
	}
	v1 := mk("2025-01-10", 1.50)
	v2 := mk("2025-03-01", 1.80)

	got, err := svc.VersionAsOf(context.Background(), farmID, ft.FeedTypeID, day("2025-02-01"))
	require.NoError(t, err)
	assert.Equal(t, v1.CompositionID, got.CompositionID)

	got, err = svc.VersionAsOf(context.Background(), farmID, ft.FeedTypeID, day("2025-03-01"))
	require.NoError(t, err)
	assert.Equal(t, v2.CompositionID, got.CompositionID)

	// Backdated before every version: the first version is the answer.
	got, err = svc.VersionAsOf(context.Background(), farmID, ft.FeedTypeID, day("2024-12-01"))
	require.NoError(t, err)
	assert.Equal(t, v1.CompositionID, got.CompositionID)

	_, err = svc.VersionAsOf(context.Background(), farmID, uuid.New(), day("2025-02-01"))
	assert.ErrorIs(t, err, ErrCompositionNotFound)
}

func TestCurrentCostPerKgIndeterminate(t *testing.T) {
	db := setupDB(t)
	svc := &Service{DB: db}
	farmID := uuid.New()

	ft, err := svc.CreateFeedType(context.Background(), farmID, "Nova ração", nil)
	require.NoError(t, err)

	// No composition yet: nil, not zero and not an error.
	cost, err := svc.CurrentCostPerKg(context.Background(), farmID, ft.FeedTypeID)
	require.NoError(t, err)
	assert.Nil(t, cost)
}

func TestCostPerKgDryMatter(t *testing.T) {
	db := setupDB(t)
	svc := &Service{DB: db}
	farmID, userID := uuid.New(), uuid.New()

	ft, err := svc.CreateFeedType(context.Background(), farmID, "Terminação", ptr(60.0))
	require.NoError(t, err)
	_, err = svc.CreateVersion(context.Background(), farmID, userID, ft.FeedTypeID, VersionInput{
		BaseQtyKg:     100,
		EffectiveDate: day("2025-01-01"),
		Items:         []ItemInput{{IngredientID: uuid.New(), QuantityKg: 100, PricePerUnit: 1.50}},
	})
	require.NoError(t, err)

	dm, err := svc.CostPerKgDryMatter(context.Background(), farmID, ft.FeedTypeID)
	require.NoError(t, err)
	require.NotNil(t, dm)
	assert.InDelta(t, 2.5, *dm, 1e-9) // 1.50 / 0.60

	// No dry matter pct: nil.
	ft2, err := svc.CreateFeedType(context.Background(), farmID, "Sem MS", nil)
	require.NoError(t, err)
	_, err = svc.CreateVersion(context.Background(), farmID, userID, ft2.FeedTypeID, VersionInput{
		BaseQtyKg:     100,
		EffectiveDate: day("2025-01-01"),
		Items:         []ItemInput{{IngredientID: uuid.New(), QuantityKg: 100, PricePerUnit: 1.50}},
	})
	require.NoError(t, err)
	dm, err = svc.CostPerKgDryMatter(context.Background(), farmID, ft2.FeedTypeID)
	require.NoError(t, err)
	assert.Nil(t, dm)
}

func TestProportionQuantityTransforms(t *testing.T) {
	assert.Equal(t, 700.0, QuantityFromProportion(70, 1000))
	assert.Equal(t, 70.0, ProportionFromQuantity(700, 1000))
	assert.Equal(t, 0.0, ProportionFromQuantity(700, 0))
}

func TestListFeedTypesAttachesCost(t *testing.T) {
	db := setupDB(t)
	svc := &Service{DB: db}
	farmID, userID := uuid.New(), uuid.New()

	withComp, err := svc.CreateFeedType(context.Background(), farmID, "Com composição", ptr(50.0))
	require.NoError(t, err)
	_, err = svc.CreateFeedType(context.Background(), farmID, "Sem composição", nil)
	require.NoError(t, err)
	_, err = svc.CreateVersion(context.Background(), farmID, userID, withComp.FeedTypeID, VersionInput{
		BaseQtyKg:     200,
		EffectiveDate: day("2025-01-01"),
		Items:         []ItemInput{{IngredientID: uuid.New(), QuantityKg: 200, PricePerUnit: 2.0}},
	})
	require.NoError(t, err)

	views, err := svc.ListFeedTypes(context.Background(), farmID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byName := map[string]FeedTypeView{}
	for _, v := range views {
		byName[v.Name] = v
	}
	with := byName["Com composição"]
	require.NotNil(t, with.CostPerKg)
	assert.Equal(t, 2.0, *with.CostPerKg)
	require.NotNil(t, with.CostPerKgDryMatter)
	assert.InDelta(t, 4.0, *with.CostPerKgDryMatter, 1e-9)

	without := byName["Sem composição"]
	assert.Nil(t, without.CostPerKg)
	assert.Nil(t, without.CurrentVersion)
}
