package growth

import (
	"sort"
	"time"
)

// Point is one weighing reference (date + average weight per head).
type Point struct {
	Date        time.Time
	AvgWeightKg float64
}

// DaysBetween returns the whole days elapsed from one date to another,
// truncating partial days.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// GMD derives the average daily gain (kg/day) from a lot's weighings.
// Precedence: the two most recent weighings; with a single weighing, the
// weighing against the lot entry; otherwise nil (cannot be derived).
// A zero or negative interval between the reference points also yields nil
// rather than an infinite or negative-by-accident rate.
func GMD(weighings []Point, entryWeightKg float64, entryDate time.Time) *float64 {
	sorted := sortedDesc(weighings)

	if len(sorted) >= 2 {
		latest, prev := sorted[0], sorted[1]
		days := DaysBetween(prev.Date, latest.Date)
		if days <= 0 {
			return nil
		}
		v := (latest.AvgWeightKg - prev.AvgWeightKg) / float64(days)
		return &v
	}

	if len(sorted) == 1 {
		if entryWeightKg <= 0 || entryDate.IsZero() {
			return nil
		}
		days := DaysBetween(entryDate, sorted[0].Date)
		if days <= 0 {
			return nil
		}
		v := (sorted[0].AvgWeightKg - entryWeightKg) / float64(days)
		return &v
	}

	return nil
}

// OverallGMD derives the gain over the whole period: latest weighing against
// the entry reference. This is the figure the lot closeout reports; the
// pairwise GMD above tracks the most recent interval.
func OverallGMD(weighings []Point, entryWeightKg float64, entryDate time.Time) *float64 {
	latest := Latest(weighings)
	if latest == nil || entryWeightKg <= 0 || entryDate.IsZero() {
		return nil
	}
	days := DaysBetween(entryDate, latest.Date)
	if days <= 0 {
		return nil
	}
	v := (latest.AvgWeightKg - entryWeightKg) / float64(days)
	return &v
}

// WeightAt returns the average weight valid at a date: the most recent
// weighing on or before it, else the entry weight.
func WeightAt(weighings []Point, entryWeightKg float64, at time.Time) float64 {
	sorted := sortedDesc(weighings)
	for _, w := range sorted {
		if !w.Date.After(at) {
			return w.AvgWeightKg
		}
	}
	return entryWeightKg
}

// Latest returns the most recent weighing, or nil if there is none.
func Latest(weighings []Point) *Point {
	sorted := sortedDesc(weighings)
	if len(sorted) == 0 {
		return nil
	}
	return &sorted[0]
}

func sortedDesc(weighings []Point) []Point {
	out := make([]Point, len(weighings))
	copy(out, weighings)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
