// Package dashboard loads a full snapshot of the record store and derives the
// dashboard, booster board, reproduction table and daily digest from it.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/repository"
)

const dateLayout = "2006-01-02"

// Service exposes read-side views over the record store.
type Service struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new dashboard service instance.
func NewService(store repository.Store, now func() time.Time, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, logger: logger, now: now}
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// LoadSnapshot fetches every collection before anything is derived from it.
func (s *Service) LoadSnapshot(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	targets := []struct {
		collection string
		out        any
	}{
		{repository.CollectionUsers, &snap.Users},
		{repository.CollectionAnimals, &snap.Animals},
		{repository.CollectionMilk, &snap.Milk},
		{repository.CollectionHealthEvents, &snap.HealthEvents},
		{repository.CollectionBoosters, &snap.Boosters},
		{repository.CollectionRepro, &snap.Repro},
		{repository.CollectionCheeseSales, &snap.CheeseSales},
		{repository.CollectionMilkPurchase, &snap.MilkPurchases},
		{repository.CollectionTransport, &snap.MilkTransports},
		{repository.CollectionFixedCosts, &snap.FixedCosts},
		{repository.CollectionRawBovines, &snap.RawBovines},
		{repository.CollectionMedications, &snap.Medications},
	}

	for _, t := range targets {
		if err := s.store.FetchAll(ctx, t.collection, t.out); err != nil {
			return models.Snapshot{}, fmt.Errorf("load %s: %w", t.collection, err)
		}
	}
	snap.LoadedAt = s.now()

	s.logger.Debug("snapshot loaded",
		zap.Int("animals", len(snap.Animals)),
		zap.Int("milk", len(snap.Milk)),
		zap.Int("boosters", len(snap.Boosters)),
		zap.Int("repro", len(snap.Repro)),
	)
	return snap, nil
}

// Generate loads a snapshot and builds the dashboard with the service clock.
func (s *Service) Generate(ctx context.Context) (Dashboard, error) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Build(snap, s.now()), nil
}

// Digest builds today's summary and stores it. The day is taken in loc, or in
// the clock's own zone when loc is nil. Re-running on the same day replaces
// that day's digest.
func (s *Service) Digest(ctx context.Context, loc *time.Location) (models.DailyDigest, error) {
	now := s.now()
	if loc != nil {
		now = now.In(loc)
	}
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return models.DailyDigest{}, err
	}

	digest := NewDigest(Build(snap, now), now)
	if err := s.store.Save(ctx, repository.CollectionDigests, digest.ID, digest); err != nil {
		return models.DailyDigest{}, fmt.Errorf("save digest: %w", err)
	}

	s.logger.Info("daily digest stored",
		zap.String("date", digest.Date),
		zap.Int("overdue", digest.Overdue),
		zap.Int("low_milk", digest.LowMilk),
		zap.Int("repro_risk", digest.ReproRisk),
	)
	return digest, nil
}

// NewDigest flattens a dashboard into the persisted digest record, dated by
// the calendar day of now in its own location.
func NewDigest(d Dashboard, now time.Time) models.DailyDigest {
	date := now.Format(dateLayout)
	digest := models.DailyDigest{
		ID:        "dig_" + date,
		Date:      date,
		Overdue:   d.Metrics.Boosters.Overdue,
		Due3:      d.Metrics.Boosters.D3,
		Due10:     d.Metrics.Boosters.D10,
		Due15:     d.Metrics.Boosters.D15,
		LowMilk:   d.Metrics.LowMilk,
		ReproRisk: d.Metrics.ReproRisk,
		CreatedAt: now,
	}
	if len(d.Ranking) > 0 {
		digest.TopAnimalID = d.Ranking[0].AnimalID
		digest.TopLiters = d.Ranking[0].Liters
	}
	return digest
}
