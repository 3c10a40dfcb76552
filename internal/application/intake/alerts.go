package intake

import (
	"fmt"

	"confina-backend/internal/domain"
)

const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"

	CodeBelowMinDelivered = "below_min_delivered"
	CodeAboveMaxDelivered = "above_max_delivered"
	CodeBelowMinLeftover  = "below_min_leftover"
	CodeAboveMaxLeftover  = "above_max_leftover"
	CodeLeftoverHigh      = "leftover_high"
	CodeBunkEmpty         = "bunk_empty"
)

// Alert is one bound violation for a pen/day intake.
type Alert struct {
	Code     string  `json:"code"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	Value    float64 `json:"value"`
	Bound    float64 `json:"bound"`
}

// bunkEmptyPct: a measured leftover under this share of the delivered feed
// means the bunk was licked clean — intake may be compulsive and acidosis is
// a risk.
const bunkEmptyPct = 0.5

// leftoverHighFactor: a leftover beyond this multiple of the lot's target
// means feed is being wasted or intake dropped.
const leftoverHighFactor = 1.5

// EvaluateAlerts checks one day's intake against the pen's configured bounds
// and the lot's leftover target. Unconfigured bounds are skipped, and
// leftover rules only fire on measured leftovers.
func EvaluateAlerts(pen *domain.Pen, lot *domain.Lot, in DayIntake) []Alert {
	var alerts []Alert

	if pen != nil {
		if pen.MinFeedKg != nil && in.DeliveredKg < *pen.MinFeedKg {
			alerts = append(alerts, Alert{
				Code:     CodeBelowMinDelivered,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Delivered %.1f kg is below the pen minimum of %.1f kg", in.DeliveredKg, *pen.MinFeedKg),
				Value:    in.DeliveredKg,
				Bound:    *pen.MinFeedKg,
			})
		}
		if pen.MaxFeedKg != nil && in.DeliveredKg > *pen.MaxFeedKg {
			alerts = append(alerts, Alert{
				Code:     CodeAboveMaxDelivered,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Delivered %.1f kg exceeds the pen maximum of %.1f kg", in.DeliveredKg, *pen.MaxFeedKg),
				Value:    in.DeliveredKg,
				Bound:    *pen.MaxFeedKg,
			})
		}
		if in.LeftoverKg != nil {
			if pen.MinLeftoverKg != nil && *in.LeftoverKg < *pen.MinLeftoverKg {
				alerts = append(alerts, Alert{
					Code:     CodeBelowMinLeftover,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("Leftover %.1f kg is below the pen minimum of %.1f kg", *in.LeftoverKg, *pen.MinLeftoverKg),
					Value:    *in.LeftoverKg,
					Bound:    *pen.MinLeftoverKg,
				})
			}
			if pen.MaxLeftoverKg != nil && *in.LeftoverKg > *pen.MaxLeftoverKg {
				alerts = append(alerts, Alert{
					Code:     CodeAboveMaxLeftover,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("Leftover %.1f kg exceeds the pen maximum of %.1f kg", *in.LeftoverKg, *pen.MaxLeftoverKg),
					Value:    *in.LeftoverKg,
					Bound:    *pen.MaxLeftoverKg,
				})
			}
		}
	}

	if in.LeftoverPct != nil {
		if lot != nil && lot.TargetLeftoverPct != nil && *in.LeftoverPct > *lot.TargetLeftoverPct*leftoverHighFactor {
			alerts = append(alerts, Alert{
				Code:     CodeLeftoverHigh,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Leftover %.1f%% is more than 1.5x the lot target of %.1f%%", *in.LeftoverPct, *lot.TargetLeftoverPct),
				Value:    *in.LeftoverPct,
				Bound:    *lot.TargetLeftoverPct * leftoverHighFactor,
			})
		}
		if *in.LeftoverPct < bunkEmptyPct {
			alerts = append(alerts, Alert{
				Code:     CodeBunkEmpty,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("Leftover %.2f%% — bunk empty, compulsive intake risk", *in.LeftoverPct),
				Value:    *in.LeftoverPct,
				Bound:    bunkEmptyPct,
			})
		}
	}

	return alerts
}
