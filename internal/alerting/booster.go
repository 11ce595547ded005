package alerting

import (
	"time"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
)

// Tier is the urgency classification of a booster.
type Tier string

const (
	TierOverdue Tier = "overdue"
	TierD3      Tier = "d3"
	TierD10     Tier = "d10"
	TierD15     Tier = "d15"
	TierOK      Tier = "ok"
	TierDone    Tier = "done"
)

var tierSeverity = map[Tier]int{
	TierOverdue: 0,
	TierD3:      1,
	TierD10:     2,
	TierD15:     3,
	TierOK:      4,
	TierDone:    9,
}

// Severity orders tiers for display; lower is more urgent.
func (t Tier) Severity() int {
	if s, ok := tierSeverity[t]; ok {
		return s
	}
	return tierSeverity[TierOK]
}

// NeedsAttention reports whether the tier belongs in the alert feed.
func (t Tier) NeedsAttention() bool {
	switch t {
	case TierOverdue, TierD3, TierD10, TierD15:
		return true
	default:
		return false
	}
}

// ParseTier maps a filter value onto a tier.
func ParseTier(value string) (Tier, bool) {
	t := Tier(value)
	_, ok := tierSeverity[t]
	return t, ok
}

// ClassifyBooster maps a booster onto its urgency tier relative to now.
// Done is terminal and wins over any date; a missing or unparseable reference
// date is never urgent.
func ClassifyBooster(b models.Booster, now time.Time) Tier {
	if b.IsDone() {
		return TierDone
	}

	ref, ok := ParseDate(b.RefDate)
	if !ok {
		return TierOK
	}

	left := DaysUntil(ref, now)
	switch {
	case left < 0:
		return TierOverdue
	case left <= 3:
		return TierD3
	case left <= 10:
		return TierD10
	case left <= 15:
		return TierD15
	default:
		return TierOK
	}
}

// TierCounts holds the dashboard counters for pending boosters.
type TierCounts struct {
	Overdue int `json:"overdue"`
	D3      int `json:"d3"`
	D10     int `json:"d10"`
	D15     int `json:"d15"`
}

// CountTiers tallies the attention tiers across all boosters.
func CountTiers(boosters []models.Booster, now time.Time) TierCounts {
	var counts TierCounts
	for _, b := range boosters {
		switch ClassifyBooster(b, now) {
		case TierOverdue:
			counts.Overdue++
		case TierD3:
			counts.D3++
		case TierD10:
			counts.D10++
		case TierD15:
			counts.D15++
		}
	}
	return counts
}
