// Package herd turns operator input into stored farm records.
package herd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/repository"
	"github.com/mamadbah2/ganaderia/internal/service/finance"
)

// ErrInvalidArguments indicates the input could not be turned into a record.
var ErrInvalidArguments = errors.New("invalid record arguments")

// ErrNotFound indicates the referenced record does not exist.
var ErrNotFound = errors.New("record not found")

const dateFormat = "2006-01-02"

// DefaultProfiles are created when the profile collection is empty.
var DefaultProfiles = []string{"Administrador", "Operario"}

// deletable lists the collections operators may delete from directly.
var deletable = map[string]bool{
	repository.CollectionAnimals:      true,
	repository.CollectionMilk:         true,
	repository.CollectionHealthEvents: true,
	repository.CollectionBoosters:     true,
	repository.CollectionRepro:        true,
	repository.CollectionCheeseSales:  true,
	repository.CollectionMilkPurchase: true,
	repository.CollectionTransport:    true,
	repository.CollectionFixedCosts:   true,
	repository.CollectionRawBovines:   true,
	repository.CollectionMedications:  true,
}

// Service persists farm records. Writes are plain upserts; nothing cascades.
type Service struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
	newID  func(prefix string) string
}

// NewService constructs the records service.
func NewService(store repository.Store, now func() time.Time, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    now,
		newID:  newID,
	}
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// SeedUsers creates the default profiles when none exist.
func (s *Service) SeedUsers(ctx context.Context) error {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	for _, name := range DefaultProfiles {
		if _, err := s.CreateUser(ctx, name); err != nil {
			return err
		}
	}
	s.logger.Info("default profiles seeded", zap.Int("count", len(DefaultProfiles)))
	return nil
}

// ListUsers returns every profile.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.store.FetchAll(ctx, repository.CollectionUsers, &users); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return users, nil
}

// CreateUser adds a profile.
func (s *Service) CreateUser(ctx context.Context, name string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, fmt.Errorf("%w: profile name is required", ErrInvalidArguments)
	}
	user := models.User{ID: s.newID("user"), Name: name}
	if err := s.store.Save(ctx, repository.CollectionUsers, user.ID, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// SaveAnimal creates an animal or updates an existing one, keeping its
// identity and creation metadata.
func (s *Service) SaveAnimal(ctx context.Context, animal models.Animal) (models.Animal, error) {
	animal.Tag = strings.TrimSpace(animal.Tag)
	animal.Name = strings.TrimSpace(animal.Name)
	animal.Farm = strings.TrimSpace(animal.Farm)
	animal.Breed = strings.TrimSpace(animal.Breed)

	switch animal.Sex {
	case "":
		animal.Sex = models.SexFemale
	case models.SexFemale, models.SexMale:
	default:
		return models.Animal{}, fmt.Errorf("%w: unknown sex %q", ErrInvalidArguments, animal.Sex)
	}

	if animal.ID == "" {
		animal.ID = s.newID("ani")
		animal.CreatedAt = s.now()
	} else {
		var existing models.Animal
		err := s.store.Get(ctx, repository.CollectionAnimals, animal.ID, &existing)
		switch {
		case err == nil:
			animal.CreatedBy = existing.CreatedBy
			animal.CreatedAt = existing.CreatedAt
		case errors.Is(err, repository.ErrNotFound):
			animal.CreatedAt = s.now()
		default:
			return models.Animal{}, fmt.Errorf("load animal %s: %w", animal.ID, err)
		}
	}

	if err := s.store.Save(ctx, repository.CollectionAnimals, animal.ID, animal); err != nil {
		return models.Animal{}, err
	}
	return animal, nil
}

// MilkInput is one milking as entered by the operator.
type MilkInput struct {
	Date      string  `json:"date"`
	AnimalID  string  `json:"animalId"`
	Morning   float64 `json:"morning"`
	Evening   float64 `json:"evening"`
	CreatedBy string  `json:"createdBy"`
}

// RecordMilk stores a milking and fixes its total at write time.
func (s *Service) RecordMilk(ctx context.Context, in MilkInput) (models.MilkEntry, error) {
	if in.AnimalID == "" {
		return models.MilkEntry{}, fmt.Errorf("%w: animal is required", ErrInvalidArguments)
	}
	if in.Morning < 0 || in.Evening < 0 {
		return models.MilkEntry{}, fmt.Errorf("%w: liters must not be negative", ErrInvalidArguments)
	}

	entry := models.MilkEntry{
		ID:        s.newID("milk"),
		Date:      s.dateOrToday(in.Date),
		AnimalID:  in.AnimalID,
		Morning:   in.Morning,
		Evening:   in.Evening,
		Total:     in.Morning + in.Evening,
		CreatedBy: in.CreatedBy,
		CreatedAt: s.now(),
	}
	if err := s.store.Save(ctx, repository.CollectionMilk, entry.ID, entry); err != nil {
		return models.MilkEntry{}, err
	}
	return entry, nil
}

// HealthEventInput is a sanitary application plus its scheduled boosters.
type HealthEventInput struct {
	AnimalID  string   `json:"animalId"`
	Procedure string   `json:"procedure"`
	Date      string   `json:"date"`
	RefDates  []string `json:"refDates"`
	CreatedBy string   `json:"createdBy"`
}

// RecordHealthEvent stores the event and one pending booster per non-empty
// reference date. Each booster copies the animal's current farm.
func (s *Service) RecordHealthEvent(ctx context.Context, in HealthEventInput) (models.HealthEvent, []models.Booster, error) {
	if in.AnimalID == "" {
		return models.HealthEvent{}, nil, fmt.Errorf("%w: animal is required", ErrInvalidArguments)
	}

	farm := ""
	var animal models.Animal
	err := s.store.Get(ctx, repository.CollectionAnimals, in.AnimalID, &animal)
	switch {
	case err == nil:
		farm = animal.Farm
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Warn("health event for unknown animal", zap.String("animal_id", in.AnimalID))
	default:
		return models.HealthEvent{}, nil, fmt.Errorf("load animal %s: %w", in.AnimalID, err)
	}

	now := s.now()
	event := models.HealthEvent{
		ID:        s.newID("hev"),
		AnimalID:  in.AnimalID,
		Procedure: strings.TrimSpace(in.Procedure),
		Date:      s.dateOrToday(in.Date),
		CreatedBy: in.CreatedBy,
		CreatedAt: now,
	}
	if err := s.store.Save(ctx, repository.CollectionHealthEvents, event.ID, event); err != nil {
		return models.HealthEvent{}, nil, err
	}

	boosters := make([]models.Booster, 0, len(in.RefDates))
	for _, ref := range in.RefDates {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		b := models.Booster{
			ID:        s.newID("boo"),
			EventID:   event.ID,
			AnimalID:  in.AnimalID,
			Procedure: event.Procedure,
			RefDate:   ref,
			Farm:      farm,
			Status:    models.BoosterPending,
			CreatedBy: in.CreatedBy,
			CreatedAt: now,
		}
		if err := s.store.Save(ctx, repository.CollectionBoosters, b.ID, b); err != nil {
			return event, boosters, err
		}
		boosters = append(boosters, b)
	}

	return event, boosters, nil
}

// MarkBoosterDone moves a booster to done. A booster that is already done is
// returned untouched, so repeated or concurrent calls are safe.
func (s *Service) MarkBoosterDone(ctx context.Context, id, by string) (models.Booster, error) {
	var b models.Booster
	if err := s.store.Get(ctx, repository.CollectionBoosters, id, &b); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Booster{}, fmt.Errorf("booster %s: %w", id, ErrNotFound)
		}
		return models.Booster{}, err
	}

	if b.IsDone() {
		s.logger.Debug("booster already done", zap.String("booster_id", id))
		return b, nil
	}

	doneAt := s.now()
	b.Status = models.BoosterDone
	b.DoneAt = &doneAt
	b.DoneBy = by
	if err := s.store.Save(ctx, repository.CollectionBoosters, b.ID, b); err != nil {
		return models.Booster{}, err
	}
	return b, nil
}

// ReproInput is one breeding update as entered by the operator.
type ReproInput struct {
	AnimalID     string `json:"animalId"`
	Parturition  string `json:"parturition"`
	LastHeat     string `json:"lastHeat"`
	Insemination string `json:"insemination"`
	Pregnancy    string `json:"pregnancy"`
	CreatedBy    string `json:"createdBy"`
}

// RecordRepro appends a breeding snapshot. Older snapshots are kept.
func (s *Service) RecordRepro(ctx context.Context, in ReproInput) (models.ReproRecord, error) {
	if in.AnimalID == "" {
		return models.ReproRecord{}, fmt.Errorf("%w: animal is required", ErrInvalidArguments)
	}

	r := models.ReproRecord{
		ID:           s.newID("rep"),
		AnimalID:     in.AnimalID,
		Parturition:  strings.TrimSpace(in.Parturition),
		LastHeat:     strings.TrimSpace(in.LastHeat),
		Insemination: strings.TrimSpace(in.Insemination),
		Pregnancy:    models.ParsePregnancy(in.Pregnancy),
		CreatedBy:    in.CreatedBy,
		CreatedAt:    s.now(),
	}
	if err := s.store.Save(ctx, repository.CollectionRepro, r.ID, r); err != nil {
		return models.ReproRecord{}, err
	}
	return r, nil
}

// RecordCheeseSale stores a sale with its total.
func (s *Service) RecordCheeseSale(ctx context.Context, sale models.CheeseSale) (models.CheeseSale, error) {
	if sale.Pounds < 0 || sale.PricePerPound < 0 {
		return models.CheeseSale{}, fmt.Errorf("%w: amounts must not be negative", ErrInvalidArguments)
	}
	sale.ID = s.newID("sale")
	sale.Date = s.dateOrToday(sale.Date)
	sale.Client = strings.TrimSpace(sale.Client)
	sale.Total = finance.LineTotal(sale.Pounds, sale.PricePerPound)
	sale.CreatedAt = s.now()
	if err := s.store.Save(ctx, repository.CollectionCheeseSales, sale.ID, sale); err != nil {
		return models.CheeseSale{}, err
	}
	return sale, nil
}

// RecordMilkPurchase stores a milk purchase with its total.
func (s *Service) RecordMilkPurchase(ctx context.Context, p models.MilkPurchase) (models.MilkPurchase, error) {
	if p.Liters < 0 || p.PricePerLiter < 0 {
		return models.MilkPurchase{}, fmt.Errorf("%w: amounts must not be negative", ErrInvalidArguments)
	}
	p.ID = s.newID("buy")
	p.Period = strings.TrimSpace(p.Period)
	p.Total = finance.LineTotal(p.Liters, p.PricePerLiter)
	p.CreatedAt = s.now()
	if err := s.store.Save(ctx, repository.CollectionMilkPurchase, p.ID, p); err != nil {
		return models.MilkPurchase{}, err
	}
	return p, nil
}

// RecordMilkTransport stores a transport cost with its total.
func (s *Service) RecordMilkTransport(ctx context.Context, t models.MilkTransport) (models.MilkTransport, error) {
	if t.Value < 0 || t.Quantity < 0 {
		return models.MilkTransport{}, fmt.Errorf("%w: amounts must not be negative", ErrInvalidArguments)
	}
	t.ID = s.newID("tm")
	t.Period = strings.TrimSpace(t.Period)
	t.Total = finance.LineTotal(t.Value, t.Quantity)
	t.CreatedAt = s.now()
	if err := s.store.Save(ctx, repository.CollectionTransport, t.ID, t); err != nil {
		return models.MilkTransport{}, err
	}
	return t, nil
}

// RecordFixedCost stores a monthly expense.
func (s *Service) RecordFixedCost(ctx context.Context, c models.FixedCost) (models.FixedCost, error) {
	c.Concept = strings.TrimSpace(c.Concept)
	if c.Concept == "" {
		return models.FixedCost{}, fmt.Errorf("%w: concept is required", ErrInvalidArguments)
	}
	c.ID = s.newID("fx")
	c.CreatedAt = s.now()
	if err := s.store.Save(ctx, repository.CollectionFixedCosts, c.ID, c); err != nil {
		return models.FixedCost{}, err
	}
	return c, nil
}

// SaveRawBovine creates or updates a loose inventory row.
func (s *Service) SaveRawBovine(ctx context.Context, b models.RawBovine) (models.RawBovine, error) {
	b.TagName = strings.TrimSpace(b.TagName)
	if b.ID == "" {
		b.ID = s.newID("bru")
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	if err := s.store.Save(ctx, repository.CollectionRawBovines, b.ID, b); err != nil {
		return models.RawBovine{}, err
	}
	return b, nil
}

// SaveMedication creates or updates a medication log entry.
func (s *Service) SaveMedication(ctx context.Context, m models.Medication) (models.Medication, error) {
	m.Procedure = strings.TrimSpace(m.Procedure)
	m.Date = s.dateOrToday(m.Date)
	if m.ID == "" {
		m.ID = s.newID("med")
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}
	if err := s.store.Save(ctx, repository.CollectionMedications, m.ID, m); err != nil {
		return models.Medication{}, err
	}
	return m, nil
}

// Delete removes a record. Dependent records are left in place and render
// with a placeholder once their parent is gone.
func (s *Service) Delete(ctx context.Context, collection, id string) error {
	if !deletable[collection] {
		return fmt.Errorf("%w: collection %q", ErrInvalidArguments, collection)
	}
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidArguments)
	}
	if err := s.store.Delete(ctx, collection, id); err != nil {
		return err
	}
	s.logger.Info("record deleted", zap.String("collection", collection), zap.String("id", id))
	return nil
}

func (s *Service) dateOrToday(value string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return s.now().Format(dateFormat)
}
