package intake

import (
	"time"

	"confina-backend/internal/domain"

	"github.com/google/uuid"
)

// DayIntake is the aggregate of one pen's deliveries on one day.
// LeftoverKg stays nil when no record of the day carried a measured leftover;
// a measured zero and an unmeasured bunk are different facts, and only the
// former can trigger leftover alerts.
type DayIntake struct {
	Date        time.Time  `json:"date"`
	PenID       uuid.UUID  `json:"pen_id"`
	LotID       *uuid.UUID `json:"lot_id"`
	DeliveredKg float64    `json:"delivered_kg"`
	LeftoverKg  *float64   `json:"leftover_kg"`
	ConsumedKg  float64    `json:"consumed_kg"`
	LeftoverPct *float64   `json:"leftover_pct"`
}

// Aggregate folds feeding records into per-pen/per-day intakes.
// Consumed = delivered − leftover, with an unmeasured leftover counting as 0
// for consumption but staying unknown for alerting.
func Aggregate(records []domain.FeedingRecord) []DayIntake {
	type key struct {
		pen uuid.UUID
		day string
	}
	index := map[key]int{}
	var out []DayIntake

	for _, r := range records {
		k := key{pen: r.PenID, day: r.FeedingDate.Format("2006-01-02")}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, DayIntake{Date: r.FeedingDate, PenID: r.PenID, LotID: r.LotID})
		}
		out[i].DeliveredKg += r.QuantityKg
		if r.LeftoverKg != nil {
			if out[i].LeftoverKg == nil {
				zero := 0.0
				out[i].LeftoverKg = &zero
			}
			*out[i].LeftoverKg += *r.LeftoverKg
		}
		if out[i].LotID == nil && r.LotID != nil {
			out[i].LotID = r.LotID
		}
	}

	for i := range out {
		leftover := 0.0
		if out[i].LeftoverKg != nil {
			leftover = *out[i].LeftoverKg
		}
		out[i].ConsumedKg = out[i].DeliveredKg - leftover
		if out[i].LeftoverKg != nil && out[i].DeliveredKg > 0 {
			pct := *out[i].LeftoverKg / out[i].DeliveredKg * 100
			out[i].LeftoverPct = &pct
		}
	}
	return out
}
