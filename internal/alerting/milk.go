package alerting

import (
	"sort"
	"time"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
)

const (
	// RankingWindowDays is both the trailing window and the daily-average divisor.
	RankingWindowDays = 30
	// RankingSize caps the ranking.
	RankingSize = 30
	// LowProductionDays is the look-back for low production entries.
	LowProductionDays = 7
	// LowProductionLiters is the exclusive upper bound of a low entry.
	LowProductionLiters = 4.0
)

// RankingEntry is one animal's production over the ranking window.
type RankingEntry struct {
	AnimalID     string  `json:"animalId"`
	Liters       float64 `json:"liters"`
	DailyAverage float64 `json:"dailyAverage"`
}

// RankMilk sums stored totals per animal for entries dated on or after the
// start of the UTC day RankingWindowDays before now. Ties on liters fall back
// to animal ID. The daily average always divides by RankingWindowDays.
func RankMilk(entries []models.MilkEntry, now time.Time) []RankingEntry {
	cutoff := startOfDayUTC(now.AddDate(0, 0, -RankingWindowDays))

	totals := make(map[string]float64)
	for _, m := range entries {
		d, ok := ParseDate(m.Date)
		if !ok || d.Before(cutoff) {
			continue
		}
		totals[m.AnimalID] += m.Total
	}

	ranking := make([]RankingEntry, 0, len(totals))
	for animalID, liters := range totals {
		ranking = append(ranking, RankingEntry{
			AnimalID:     animalID,
			Liters:       liters,
			DailyAverage: liters / RankingWindowDays,
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Liters != ranking[j].Liters {
			return ranking[i].Liters > ranking[j].Liters
		}
		return ranking[i].AnimalID < ranking[j].AnimalID
	})

	if len(ranking) > RankingSize {
		ranking = ranking[:RankingSize]
	}
	return ranking
}

// IsLowProduction reports whether an entry dated within the last
// LowProductionDays produced strictly less than LowProductionLiters.
func IsLowProduction(m models.MilkEntry, now time.Time) bool {
	d, ok := ParseDate(m.Date)
	if !ok {
		return false
	}
	return DaysSince(d, now) <= LowProductionDays && m.Total < LowProductionLiters
}

// LowProduction returns every low entry, most recent first.
func LowProduction(entries []models.MilkEntry, now time.Time) []models.MilkEntry {
	type dated struct {
		entry models.MilkEntry
		date  time.Time
	}

	low := make([]dated, 0)
	for _, m := range entries {
		if !IsLowProduction(m, now) {
			continue
		}
		d, _ := ParseDate(m.Date)
		low = append(low, dated{entry: m, date: d})
	}

	sort.Slice(low, func(i, j int) bool {
		a, b := low[i], low[j]
		if !a.date.Equal(b.date) {
			return a.date.After(b.date)
		}
		if !a.entry.CreatedAt.Equal(b.entry.CreatedAt) {
			return a.entry.CreatedAt.After(b.entry.CreatedAt)
		}
		return a.entry.ID < b.entry.ID
	})

	out := make([]models.MilkEntry, len(low))
	for i, d := range low {
		out[i] = d.entry
	}
	return out
}
