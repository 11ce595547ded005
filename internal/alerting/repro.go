package alerting

import (
	"sort"
	"time"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
)

// OpenDaysThreshold is the number of open days after which a cow needs review.
const OpenDaysThreshold = 120

// RiskFlag is the reproduction verdict for one animal. The zero value means
// the record could not be evaluated.
type RiskFlag string

const (
	RiskNone        RiskFlag = ""
	RiskOK          RiskFlag = "ok"
	RiskNeedsReview RiskFlag = "needs_review"
)

// ReproStatus is the evaluated latest record of one animal.
type ReproStatus struct {
	Record   models.ReproRecord `json:"record"`
	DaysOpen *int               `json:"daysOpen"`
	Flag     RiskFlag           `json:"flag"`
}

// LatestRepro keeps the newest record per animal: highest CreatedAt, then the
// smallest ID on ties. Output is ordered by animal ID.
func LatestRepro(records []models.ReproRecord) []models.ReproRecord {
	latest := make(map[string]models.ReproRecord, len(records))
	for _, r := range records {
		current, seen := latest[r.AnimalID]
		if !seen || newerRepro(r, current) {
			latest[r.AnimalID] = r
		}
	}

	out := make([]models.ReproRecord, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AnimalID < out[j].AnimalID })
	return out
}

func newerRepro(candidate, current models.ReproRecord) bool {
	if !candidate.CreatedAt.Equal(current.CreatedAt) {
		return candidate.CreatedAt.After(current.CreatedAt)
	}
	return candidate.ID < current.ID
}

// DaysOpen returns the days elapsed since parturition, 0 for a confirmed
// pregnancy, or nil when no parturition date can be read.
func DaysOpen(r models.ReproRecord, now time.Time) *int {
	if r.Pregnancy == models.PregnancyYes {
		zero := 0
		return &zero
	}

	parto, ok := ParseDate(r.Parturition)
	if !ok {
		return nil
	}

	days := DaysSince(parto, now)
	return &days
}

// RiskFor flags animals open for more than OpenDaysThreshold days.
func RiskFor(daysOpen *int) RiskFlag {
	if daysOpen == nil {
		return RiskNone
	}
	if *daysOpen > OpenDaysThreshold {
		return RiskNeedsReview
	}
	return RiskOK
}

// EvaluateRepro selects the latest record per animal and evaluates it.
func EvaluateRepro(records []models.ReproRecord, now time.Time) []ReproStatus {
	latest := LatestRepro(records)
	out := make([]ReproStatus, 0, len(latest))
	for _, r := range latest {
		days := DaysOpen(r, now)
		out = append(out, ReproStatus{Record: r, DaysOpen: days, Flag: RiskFor(days)})
	}
	return out
}

// CountReproRisk counts statuses flagged for review.
func CountReproRisk(statuses []ReproStatus) int {
	n := 0
	for _, s := range statuses {
		if s.Flag == RiskNeedsReview {
			n++
		}
	}
	return n
}
