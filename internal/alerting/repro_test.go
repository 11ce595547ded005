package alerting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
)

func daysAgo(n int) string {
	return fixedNow.AddDate(0, 0, -n).Format("2006-01-02")
}

func TestDaysOpen(t *testing.T) {
	t.Run("pregnant is closed regardless of parturition", func(t *testing.T) {
		for _, parto := range []string{"", daysAgo(400), "??"} {
			r := models.ReproRecord{Parturition: parto, Pregnancy: models.PregnancyYes}
			days := DaysOpen(r, fixedNow)
			require.NotNil(t, days)
			assert.Equal(t, 0, *days)
			assert.Equal(t, RiskOK, RiskFor(days))
		}
	})

	t.Run("missing parturition is not evaluable", func(t *testing.T) {
		for _, p := range []models.PregnancyDiagnosis{models.PregnancyNo, models.PregnancyUnknown} {
			r := models.ReproRecord{Parturition: "", Pregnancy: p}
			days := DaysOpen(r, fixedNow)
			assert.Nil(t, days)
			assert.Equal(t, RiskNone, RiskFor(days))
		}
	})

	t.Run("days since parturition", func(t *testing.T) {
		r := models.ReproRecord{Parturition: daysAgo(121), Pregnancy: models.PregnancyNo}
		days := DaysOpen(r, fixedNow)
		require.NotNil(t, days)
		assert.Equal(t, 121, *days)
		assert.Equal(t, RiskNeedsReview, RiskFor(days))
	})
}

func TestRiskForThreshold(t *testing.T) {
	at := func(n int) *int { return &n }
	assert.Equal(t, RiskOK, RiskFor(at(120)))
	assert.Equal(t, RiskNeedsReview, RiskFor(at(121)))
	assert.Equal(t, RiskOK, RiskFor(at(0)))
}

func TestLatestReproLatestWins(t *testing.T) {
	older := fixedNow.Add(-48 * time.Hour)
	newer := fixedNow.Add(-1 * time.Hour)

	records := []models.ReproRecord{
		{ID: "r3", AnimalID: "cow-a", Parturition: daysAgo(200), CreatedAt: newer},
		{ID: "r1", AnimalID: "cow-a", Parturition: daysAgo(10), CreatedAt: older},
		{ID: "r9", AnimalID: "cow-b", Parturition: daysAgo(10), CreatedAt: older},
		{ID: "r2", AnimalID: "cow-b", Parturition: daysAgo(300), CreatedAt: older},
	}

	latest := LatestRepro(records)
	require.Len(t, latest, 2)
	assert.Equal(t, "r3", latest[0].ID)
	// Equal timestamps resolve to the smallest ID.
	assert.Equal(t, "r2", latest[1].ID)
}

func TestEvaluateReproCountsOnlyReview(t *testing.T) {
	records := []models.ReproRecord{
		{ID: "1", AnimalID: "a", Parturition: daysAgo(150), Pregnancy: models.PregnancyNo},
		{ID: "2", AnimalID: "b", Parturition: daysAgo(150), Pregnancy: models.PregnancyYes},
		{ID: "3", AnimalID: "c", Parturition: ""},
		{ID: "4", AnimalID: "d", Parturition: daysAgo(30)},
	}

	statuses := EvaluateRepro(records, fixedNow)
	require.Len(t, statuses, 4)
	assert.Equal(t, 1, CountReproRisk(statuses))
	assert.Equal(t, RiskNone, statuses[2].Flag)
}
