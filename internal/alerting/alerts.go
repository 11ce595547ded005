package alerting

import (
	"sort"
	"time"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
)

const (
	maxBoosterAlerts = 6
	maxMilkAlerts    = 4
)

// ActionMarkDone is the operator action attached to every booster alert.
const ActionMarkDone = "mark_done"

// FeedStatus distinguishes a feed that was never evaluated from one that was
// evaluated and found nothing critical.
type FeedStatus string

const (
	FeedUnchecked FeedStatus = ""
	FeedClear     FeedStatus = "clear"
	FeedAttention FeedStatus = "attention"
)

// BoosterAlert is a booster that needs attention.
type BoosterAlert struct {
	Booster models.Booster `json:"booster"`
	Tier    Tier           `json:"tier"`
	Action  string         `json:"action"`
}

// ReproAlert summarizes every animal flagged for reproduction review.
type ReproAlert struct {
	Count     int `json:"count"`
	Threshold int `json:"threshold"`
}

// Feed is the bounded, prioritized list of alerts.
type Feed struct {
	Status   FeedStatus         `json:"status"`
	Boosters []BoosterAlert     `json:"boosters"`
	LowMilk  []models.MilkEntry `json:"lowMilk"`
	Repro    *ReproAlert        `json:"repro,omitempty"`
}

// NoCriticalAlerts reports the explicit evaluated-and-empty state.
func (f Feed) NoCriticalAlerts() bool {
	return f.Status == FeedClear
}

// ComposeAlerts merges booster, low production and reproduction alerts.
// Boosters are ordered by severity, then reference date and ID.
func ComposeAlerts(boosters []models.Booster, milk []models.MilkEntry, repro []models.ReproRecord, now time.Time) Feed {
	feed := Feed{
		Boosters: boosterAlerts(boosters, now),
		LowMilk:  LowProduction(milk, now),
	}
	if len(feed.LowMilk) > maxMilkAlerts {
		feed.LowMilk = feed.LowMilk[:maxMilkAlerts]
	}

	if risk := CountReproRisk(EvaluateRepro(repro, now)); risk > 0 {
		feed.Repro = &ReproAlert{Count: risk, Threshold: OpenDaysThreshold}
	}

	if len(feed.Boosters) == 0 && len(feed.LowMilk) == 0 && feed.Repro == nil {
		feed.Status = FeedClear
	} else {
		feed.Status = FeedAttention
	}
	return feed
}

func boosterAlerts(boosters []models.Booster, now time.Time) []BoosterAlert {
	alerts := make([]BoosterAlert, 0)
	for _, b := range boosters {
		tier := ClassifyBooster(b, now)
		if !tier.NeedsAttention() {
			continue
		}
		alerts = append(alerts, BoosterAlert{Booster: b, Tier: tier, Action: ActionMarkDone})
	}

	sort.Slice(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Tier.Severity() != b.Tier.Severity() {
			return a.Tier.Severity() < b.Tier.Severity()
		}
		if a.Booster.RefDate != b.Booster.RefDate {
			return a.Booster.RefDate < b.Booster.RefDate
		}
		return a.Booster.ID < b.Booster.ID
	})

	if len(alerts) > maxBoosterAlerts {
		alerts = alerts[:maxBoosterAlerts]
	}
	return alerts
}
