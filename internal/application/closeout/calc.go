package closeout

import (
	"time"

	"confina-backend/internal/application/growth"
	"confina-backend/internal/domain"

	"github.com/google/uuid"
)

// Closeout is the reconciled financial and zootechnical picture of a lot.
// Pointer fields are nil when the figure cannot be derived from the data on
// hand (missing weighing, missing purchase price, zero elapsed days). A nil
// here must reach the caller as "not available", never as zero.
type Closeout struct {
	LotID     uuid.UUID `json:"lot_id"`
	LotCode   string    `json:"lot_code"`
	HeadCount int       `json:"head_count"`
	Status    string    `json:"status"`

	DaysOnFeed    int      `json:"days_on_feed"`
	EntryWeightKg float64  `json:"entry_weight_kg"`
	FinalWeightKg *float64 `json:"final_weight_kg"`
	GMDKg         *float64 `json:"gmd_kg"`

	ArrobaDivisor         float64  `json:"arroba_divisor"`
	EntryArroba           float64  `json:"entry_arroba"`
	FinalArroba           *float64 `json:"final_arroba"`
	ArrobaProducedPerHead *float64 `json:"arroba_produced_per_head"`

	TotalKgPurchased float64  `json:"total_kg_purchased"`
	TotalKgSale      *float64 `json:"total_kg_sale"`

	Feedings       int      `json:"feedings"`
	ConsumedWetKg  float64  `json:"consumed_wet_kg"`
	ConsumedDryKg  float64  `json:"consumed_dry_kg"`
	DryIntakePctBW *float64 `json:"dry_intake_pct_bw"`

	FeedCostTotal      float64  `json:"feed_cost_total"`
	FeedCostPerHeadDay *float64 `json:"feed_cost_per_head_day"`
	OpCostPerHeadDay   *float64 `json:"op_cost_per_head_day"`
	OpCostTotal        float64  `json:"op_cost_total"`
	ExtraCostTotal     float64  `json:"extra_cost_total"`
	ExtraCostPerHead   *float64 `json:"extra_cost_per_head"`
	TotalCost          float64  `json:"total_cost"`
	CostPerHead        *float64 `json:"cost_per_head"`

	CostPerArrobaProduced *float64 `json:"cost_per_arroba_produced"`

	PurchasePricePerArroba *float64 `json:"purchase_price_per_arroba"`
	PurchaseCostPerHead    *float64 `json:"purchase_cost_per_head"`
	PurchaseCostTotal      *float64 `json:"purchase_cost_total"`

	BreakevenPricePerArroba *float64 `json:"breakeven_price_per_arroba"`

	Alerts []PerformanceAlert `json:"alerts"`
}

// PerformanceAlert flags a lot-level metric against its target.
type PerformanceAlert struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// FeedTypeInfo carries the per-ration figures the reconciler needs to cost
// legacy records and to convert wet intake to dry matter.
type FeedTypeInfo struct {
	CurrentCostPerKg *float64
	DryMatterPct     *float64
}

// Reconcile derives the full closeout from an immutable snapshot of a lot's
// records. Pure: no storage access, deterministic for a given snapshot.
//
// asOf bounds days-on-feed when the lot has no weighing yet (the original
// sheet counts to "today" in that case).
func Reconcile(
	lot domain.Lot,
	feedings []domain.FeedingRecord,
	weighings []domain.LotWeighing,
	extras []domain.LotExtraCost,
	feedTypes map[uuid.UUID]FeedTypeInfo,
	asOf time.Time,
) Closeout {
	out := Closeout{
		LotID:         lot.LotID,
		LotCode:       lot.LotCode,
		HeadCount:     lot.HeadCount,
		Status:        lot.Status,
		EntryWeightKg: lot.AvgEntryWeightKg,
		ArrobaDivisor: lot.ArrobaDivisor,
		Feedings:      len(feedings),
	}
	if out.ArrobaDivisor <= 0 {
		out.ArrobaDivisor = domain.DefaultArrobaDivisor
	}

	points := make([]growth.Point, 0, len(weighings))
	for _, w := range weighings {
		points = append(points, growth.Point{Date: w.WeighingDate, AvgWeightKg: w.AvgWeightKg})
	}
	latest := growth.Latest(points)

	// Days on feed run from entry to the last weighing, or to asOf while the
	// lot is still unweighed. Never below 1 so per-day rates stay finite.
	end := asOf
	if latest != nil {
		end = latest.Date
		out.FinalWeightKg = &latest.AvgWeightKg
	}
	out.DaysOnFeed = growth.DaysBetween(lot.EntryDate, end)
	if out.DaysOnFeed < 1 {
		out.DaysOnFeed = 1
	}

	out.GMDKg = growth.OverallGMD(points, lot.AvgEntryWeightKg, lot.EntryDate)

	// Arrobas on the negotiated divisor.
	out.EntryArroba = lot.AvgEntryWeightKg / out.ArrobaDivisor
	if out.FinalWeightKg != nil {
		fa := *out.FinalWeightKg / out.ArrobaDivisor
		out.FinalArroba = &fa
		produced := fa - out.EntryArroba
		out.ArrobaProducedPerHead = &produced
		sale := *out.FinalWeightKg * float64(lot.HeadCount)
		out.TotalKgSale = &sale
	}
	out.TotalKgPurchased = lot.AvgEntryWeightKg * float64(lot.HeadCount)

	// Consumption and feed cost. Locked cost wins; the ration's current cost
	// only covers legacy rows written before locking existed. A record with
	// neither contributes intake but no cost.
	for _, f := range feedings {
		out.ConsumedWetKg += f.QuantityKg
		info := feedTypes[f.FeedTypeID]
		if info.DryMatterPct != nil && *info.DryMatterPct > 0 {
			out.ConsumedDryKg += f.QuantityKg * (*info.DryMatterPct / 100)
		}
		switch {
		case f.CostPerKg != nil:
			out.FeedCostTotal += f.QuantityKg * *f.CostPerKg
		case info.CurrentCostPerKg != nil:
			out.FeedCostTotal += f.QuantityKg * *info.CurrentCostPerKg
		}
	}
	if out.FinalWeightKg != nil && out.ConsumedDryKg > 0 && lot.HeadCount > 0 {
		pct := out.ConsumedDryKg / float64(lot.HeadCount) / float64(out.DaysOnFeed) / *out.FinalWeightKg * 100
		out.DryIntakePctBW = &pct
	}
	if lot.HeadCount > 0 {
		perDay := out.FeedCostTotal / float64(out.DaysOnFeed) / float64(lot.HeadCount)
		out.FeedCostPerHeadDay = &perDay
	}

	// Operational cost: absent config means zero total but the per-day rate
	// stays "not informed".
	if lot.CostPerHeadDay != nil {
		out.OpCostPerHeadDay = lot.CostPerHeadDay
		out.OpCostTotal = *lot.CostPerHeadDay * float64(out.DaysOnFeed) * float64(lot.HeadCount)
	}

	for _, e := range extras {
		out.ExtraCostTotal += e.TotalAmount
	}
	if lot.HeadCount > 0 {
		perHead := out.ExtraCostTotal / float64(lot.HeadCount)
		out.ExtraCostPerHead = &perHead
	}

	out.TotalCost = out.FeedCostTotal + out.OpCostTotal + out.ExtraCostTotal
	if lot.HeadCount > 0 {
		perHead := out.TotalCost / float64(lot.HeadCount)
		out.CostPerHead = &perHead
	}

	if out.ArrobaProducedPerHead != nil && *out.ArrobaProducedPerHead > 0 && lot.HeadCount > 0 {
		v := out.TotalCost / (*out.ArrobaProducedPerHead * float64(lot.HeadCount))
		out.CostPerArrobaProduced = &v
	}

	if lot.PurchasePriceArroba != nil && *lot.PurchasePriceArroba > 0 {
		out.PurchasePricePerArroba = lot.PurchasePriceArroba
		perHead := *lot.PurchasePriceArroba * out.EntryArroba
		out.PurchaseCostPerHead = &perHead
		total := perHead * float64(lot.HeadCount)
		out.PurchaseCostTotal = &total
	}

	// Breakeven needs both the final weight and the purchase cost; anything
	// less and the honest answer is "cannot be computed".
	if out.FinalArroba != nil && *out.FinalArroba > 0 &&
		out.CostPerHead != nil && out.PurchaseCostPerHead != nil {
		v := (*out.CostPerHead + *out.PurchaseCostPerHead) / *out.FinalArroba
		out.BreakevenPricePerArroba = &v
	}

	out.Alerts = performanceAlerts(lot, out)
	return out
}

func performanceAlerts(lot domain.Lot, c Closeout) []PerformanceAlert {
	var alerts []PerformanceAlert
	if lot.TargetGMDKg != nil && c.GMDKg != nil && *c.GMDKg < *lot.TargetGMDKg*0.85 {
		alerts = append(alerts, PerformanceAlert{
			Code:     "gmd_below_target",
			Severity: "warning",
			Message:  "GMD is below 85% of the lot target",
		})
	}
	if c.FinalWeightKg == nil {
		alerts = append(alerts, PerformanceAlert{
			Code:     "no_weighing",
			Severity: "info",
			Message:  "No weighing registered; arroba and breakeven figures unavailable",
		})
	}
	if c.PurchasePricePerArroba == nil {
		alerts = append(alerts, PerformanceAlert{
			Code:     "no_purchase_price",
			Severity: "info",
			Message:  "Purchase price not configured; breakeven unavailable",
		})
	}
	return alerts
}
