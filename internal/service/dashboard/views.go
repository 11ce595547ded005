package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/ganaderia/internal/alerting"
	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/service/finance"
)

// ErrUnknownFilter is returned for a booster filter outside the known set.
var ErrUnknownFilter = errors.New("unknown booster filter")

// Booster board filters besides the tier names.
const (
	FilterAll     = "all"
	FilterPending = "pending"
	FilterDone    = "done"
)

// Metrics are the dashboard counters.
type Metrics struct {
	Boosters  alerting.TierCounts `json:"boosters"`
	LowMilk   int                 `json:"lowMilk"`
	ReproRisk int                 `json:"reproRisk"`
}

// RankedAnimal is a ranking entry with its display label.
type RankedAnimal struct {
	alerting.RankingEntry
	Label string `json:"label"`
}

// Dashboard is the home screen view model.
type Dashboard struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Metrics     Metrics         `json:"metrics"`
	Alerts      alerting.Feed   `json:"alerts"`
	Ranking     []RankedAnimal  `json:"ranking"`
	Finance     finance.Summary `json:"finance"`
	Ledger      []finance.Line  `json:"ledger"`
}

// Build derives the dashboard from a loaded snapshot. It performs no I/O.
func Build(snap models.Snapshot, now time.Time) Dashboard {
	ranking := alerting.RankMilk(snap.Milk, now)
	ranked := make([]RankedAnimal, 0, len(ranking))
	for _, r := range ranking {
		ranked = append(ranked, RankedAnimal{RankingEntry: r, Label: snap.AnimalLabel(r.AnimalID)})
	}

	return Dashboard{
		GeneratedAt: now,
		Metrics: Metrics{
			Boosters:  alerting.CountTiers(snap.Boosters, now),
			LowMilk:   len(alerting.LowProduction(snap.Milk, now)),
			ReproRisk: alerting.CountReproRisk(alerting.EvaluateRepro(snap.Repro, now)),
		},
		Alerts:  alerting.ComposeAlerts(snap.Boosters, snap.Milk, snap.Repro, now),
		Ranking: ranked,
		Finance: finance.Summarize(snap.CheeseSales, snap.MilkPurchases, snap.MilkTransports, snap.FixedCosts),
		Ledger:  finance.Ledger(snap.MilkPurchases, snap.MilkTransports, snap.FixedCosts),
	}
}

// BoosterRow is one line of the booster board.
type BoosterRow struct {
	models.Booster
	Tier        alerting.Tier `json:"tier"`
	DaysLeft    *int          `json:"daysLeft"`
	AnimalLabel string        `json:"animalLabel"`
}

// Boosters lists boosters matching the filter and a tag, name or procedure
// search, most urgent first.
func Boosters(snap models.Snapshot, now time.Time, filter, query string) ([]BoosterRow, error) {
	match, err := boosterFilter(filter)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))

	rows := make([]BoosterRow, 0)
	for _, b := range snap.Boosters {
		tier := alerting.ClassifyBooster(b, now)
		if !match(tier) {
			continue
		}
		label := snap.AnimalLabel(b.AnimalID)
		if query != "" && !containsFold(query, label, b.Procedure) {
			continue
		}

		row := BoosterRow{Booster: b, Tier: tier, AnimalLabel: label}
		if ref, ok := alerting.ParseDate(b.RefDate); ok {
			left := alerting.DaysUntil(ref, now)
			row.DaysLeft = &left
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Tier.Severity() != b.Tier.Severity() {
			return a.Tier.Severity() < b.Tier.Severity()
		}
		if a.RefDate != b.RefDate {
			return a.RefDate < b.RefDate
		}
		return a.ID < b.ID
	})
	return rows, nil
}

func boosterFilter(filter string) (func(alerting.Tier) bool, error) {
	switch f := strings.ToLower(strings.TrimSpace(filter)); f {
	case "", FilterAll:
		return func(alerting.Tier) bool { return true }, nil
	case FilterPending:
		return func(t alerting.Tier) bool { return t != alerting.TierDone }, nil
	case FilterDone:
		return func(t alerting.Tier) bool { return t == alerting.TierDone }, nil
	default:
		want, ok := alerting.ParseTier(f)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
		}
		return func(t alerting.Tier) bool { return t == want }, nil
	}
}

// ReproRow is one animal in the reproduction table.
type ReproRow struct {
	alerting.ReproStatus
	AnimalLabel string `json:"animalLabel"`
}

// Reproduction evaluates the latest record of each animal. With onlyReview
// set, only animals flagged for review are returned.
func Reproduction(snap models.Snapshot, now time.Time, onlyReview bool, query string) []ReproRow {
	query = strings.ToLower(strings.TrimSpace(query))

	rows := make([]ReproRow, 0)
	for _, st := range alerting.EvaluateRepro(snap.Repro, now) {
		if onlyReview && st.Flag != alerting.RiskNeedsReview {
			continue
		}
		label := snap.AnimalLabel(st.Record.AnimalID)
		if query != "" && !containsFold(query, label) {
			continue
		}
		rows = append(rows, ReproRow{ReproStatus: st, AnimalLabel: label})
	}
	return rows
}

// containsFold expects query already lower-cased.
func containsFold(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
