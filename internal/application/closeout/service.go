package closeout

import (
	"context"
	"encoding/json"
	"time"

	"confina-backend/internal/application/compositions"
	"confina-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service reconciles lot costs and performance and runs sale simulations.
// Reconcile is read-only and can be called at any point of the cycle;
// Close freezes the reconciled snapshot into the lot's event log.
type Service struct {
	DB           *gorm.DB
	Compositions *compositions.Service
}

// Reconcile loads the lot's full record set and derives its closeout.
func (s *Service) Reconcile(ctx context.Context, farmID, lotID uuid.UUID) (*Closeout, error) {
	snap, err := s.loadSnapshot(ctx, s.DB, farmID, lotID)
	if err != nil {
		return nil, err
	}
	out := Reconcile(snap.lot, snap.feedings, snap.weighings, snap.extras, snap.feedTypes, time.Now())
	return &out, nil
}

// Simulation prices a closeout at a hypothetical sale price per arroba.
type Simulation struct {
	PricePerArroba   float64  `json:"price_per_arroba"`
	SalePricePerHead *float64 `json:"sale_price_per_head"`
	MarginPerHead    *float64 `json:"margin_per_head"`
	LotResult        *float64 `json:"lot_result"`
}

// Simulate prices a reconciled lot at the given sale price. The margin needs
// the same inputs as the breakeven (final weight and purchase cost), so it is
// nil under the same missing-data conditions.
func Simulate(c Closeout, pricePerArroba float64) Simulation {
	sim := Simulation{PricePerArroba: pricePerArroba}
	if c.FinalArroba == nil {
		return sim
	}
	sale := pricePerArroba * *c.FinalArroba
	sim.SalePricePerHead = &sale
	if c.CostPerHead == nil || c.PurchaseCostPerHead == nil {
		return sim
	}
	margin := sale - *c.CostPerHead - *c.PurchaseCostPerHead
	sim.MarginPerHead = &margin
	total := margin * float64(c.HeadCount)
	sim.LotResult = &total
	return sim
}

// Simulate reconciles the lot and prices it at the given sale price.
func (s *Service) Simulate(ctx context.Context, farmID, lotID uuid.UUID, pricePerArroba float64) (*Closeout, *Simulation, error) {
	if pricePerArroba <= 0 {
		return nil, nil, ErrInvalidSalePrice
	}
	c, err := s.Reconcile(ctx, farmID, lotID)
	if err != nil {
		return nil, nil, err
	}
	sim := Simulate(*c, pricePerArroba)
	return c, &sim, nil
}

// Close marks the lot closed and freezes the reconciled snapshot as a
// lot_closed event, all in one transaction. The snapshot is what was true at
// closing time; later composition or price edits never rewrite it.
func (s *Service) Close(ctx context.Context, farmID, lotID, userID uuid.UUID, salePricePerArroba *float64) (*Closeout, error) {
	var out Closeout
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snap, err := s.loadSnapshot(ctx, tx, farmID, lotID)
		if err != nil {
			return err
		}
		if snap.lot.Status == domain.LotStatusClosed {
			return ErrLotAlreadyClosed
		}

		out = Reconcile(snap.lot, snap.feedings, snap.weighings, snap.extras, snap.feedTypes, time.Now())
		out.Status = domain.LotStatusClosed

		payload := struct {
			Closeout   Closeout    `json:"closeout"`
			Simulation *Simulation `json:"simulation,omitempty"`
		}{Closeout: out}
		if salePricePerArroba != nil && *salePricePerArroba > 0 {
			sim := Simulate(out, *salePricePerArroba)
			payload.Simulation = &sim
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		if err := tx.Model(&domain.Lot{}).
			Where("lot_id = ?", lotID).
			Update("status", domain.LotStatusClosed).Error; err != nil {
			return err
		}
		event := domain.LotEvent{
			LotID:       lotID,
			EventType:   "lot_closed",
			ActorUserID: &userID,
			EventData:   data,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type snapshot struct {
	lot       domain.Lot
	feedings  []domain.FeedingRecord
	weighings []domain.LotWeighing
	extras    []domain.LotExtraCost
	feedTypes map[uuid.UUID]FeedTypeInfo
}

func (s *Service) loadSnapshot(ctx context.Context, tx *gorm.DB, farmID, lotID uuid.UUID) (*snapshot, error) {
	snap := &snapshot{feedTypes: make(map[uuid.UUID]FeedTypeInfo)}

	if err := tx.WithContext(ctx).Where("farm_id = ? AND lot_id = ?", farmID, lotID).First(&snap.lot).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLotNotFound
		}
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("lot_id = ?", lotID).Find(&snap.feedings).Error; err != nil {
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("lot_id = ?", lotID).Order("weighing_date ASC").Find(&snap.weighings).Error; err != nil {
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("lot_id = ?", lotID).Find(&snap.extras).Error; err != nil {
		return nil, err
	}

	for _, f := range snap.feedings {
		if _, ok := snap.feedTypes[f.FeedTypeID]; ok {
			continue
		}
		var ft domain.FeedType
		if err := tx.WithContext(ctx).Where("feed_type_id = ?", f.FeedTypeID).First(&ft).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				snap.feedTypes[f.FeedTypeID] = FeedTypeInfo{}
				continue
			}
			return nil, err
		}
		cost, err := s.Compositions.CurrentCostPerKg(ctx, farmID, f.FeedTypeID)
		if err != nil {
			return nil, err
		}
		snap.feedTypes[f.FeedTypeID] = FeedTypeInfo{
			CurrentCostPerKg: cost,
			DryMatterPct:     ft.DryMatterPct,
		}
	}
	return snap, nil
}
