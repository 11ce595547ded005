package alerting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
)

func TestComposeAlertsEmptyIsExplicitlyClear(t *testing.T) {
	boosters := []models.Booster{
		pendingAt("far", 60*day),
		{ID: "done", RefDate: "2020-01-01", Status: models.BoosterDone},
	}
	milkEntries := []models.MilkEntry{milk("1", "A", daysAgo(1), 12)}
	repro := []models.ReproRecord{{ID: "r", AnimalID: "A", Parturition: daysAgo(20)}}

	feed := ComposeAlerts(boosters, milkEntries, repro, fixedNow)

	assert.Equal(t, FeedClear, feed.Status)
	assert.True(t, feed.NoCriticalAlerts())
	assert.Empty(t, feed.Boosters)
	assert.Empty(t, feed.LowMilk)
	assert.Nil(t, feed.Repro)

	var never Feed
	assert.Equal(t, FeedUnchecked, never.Status)
	assert.False(t, never.NoCriticalAlerts())
}

func TestComposeAlertsOrdersAndBounds(t *testing.T) {
	boosters := []models.Booster{
		pendingAt("d15", 12*day),
		pendingAt("d10", 5*day),
		pendingAt("d3-late", 2*day),
		pendingAt("over", -4*day),
		pendingAt("d3-early", 1*day),
		pendingAt("d10-b", 6*day),
		pendingAt("d15-b", 14*day),
		pendingAt("ok", 30*day),
	}

	feed := ComposeAlerts(boosters, nil, nil, fixedNow)

	require.Len(t, feed.Boosters, 6)
	got := make([]string, 0, len(feed.Boosters))
	for _, a := range feed.Boosters {
		got = append(got, a.Booster.ID)
		assert.Equal(t, ActionMarkDone, a.Action)
	}
	assert.Equal(t, []string{"over", "d3-early", "d3-late", "d10", "d10-b", "d15"}, got)
	assert.Equal(t, FeedAttention, feed.Status)
}

func TestComposeAlertsLowMilkAndReproSummary(t *testing.T) {
	milkEntries := []models.MilkEntry{
		milk("1", "A", daysAgo(1), 1),
		milk("2", "B", daysAgo(2), 2),
		milk("3", "C", daysAgo(3), 3),
		milk("4", "D", daysAgo(4), 3.9),
		milk("5", "E", daysAgo(5), 0.5),
	}
	repro := []models.ReproRecord{
		{ID: "r1", AnimalID: "A", Parturition: daysAgo(200)},
		{ID: "r2", AnimalID: "B", Parturition: daysAgo(180)},
		{ID: "r3", AnimalID: "C", Parturition: daysAgo(10)},
	}

	feed := ComposeAlerts(nil, milkEntries, repro, fixedNow)

	require.Len(t, feed.LowMilk, 4)
	assert.Equal(t, "1", feed.LowMilk[0].ID)
	assert.Equal(t, "4", feed.LowMilk[3].ID)
	require.NotNil(t, feed.Repro)
	assert.Equal(t, 2, feed.Repro.Count)
	assert.Equal(t, FeedAttention, feed.Status)
}

func TestComposeAlertsIgnoresRemarkedBooster(t *testing.T) {
	doneAt := fixedNow.Add(-time.Hour)
	b := pendingAt("b", -3*day)
	b.Status = models.BoosterDone
	b.DoneAt = &doneAt

	first := ComposeAlerts([]models.Booster{b}, nil, nil, fixedNow)
	second := ComposeAlerts([]models.Booster{b, b}, nil, nil, fixedNow)

	assert.Equal(t, FeedClear, first.Status)
	assert.Equal(t, FeedClear, second.Status)
	assert.Equal(t, TierDone, ClassifyBooster(b, fixedNow))
}
