// Package backup exports the whole record store into one JSON document and
// merges such documents back in.
package backup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/repository"
)

// Data holds every exported collection keyed by its collection name.
type Data struct {
	Users          []models.User          `json:"users"`
	Animals        []models.Animal        `json:"animals"`
	Milk           []models.MilkEntry     `json:"milk"`
	HealthEvents   []models.HealthEvent   `json:"healthEvents"`
	Boosters       []models.Booster       `json:"boosters"`
	Repro          []models.ReproRecord   `json:"repro"`
	CheeseSales    []models.CheeseSale    `json:"salesCheese"`
	MilkPurchases  []models.MilkPurchase  `json:"buyMilk"`
	MilkTransports []models.MilkTransport `json:"transMilk"`
	FixedCosts     []models.FixedCost     `json:"fixedCosts"`
	RawBovines     []models.RawBovine     `json:"brutos"`
	Medications    []models.Medication    `json:"meds"`
}

// Document is the bulk interchange format.
type Document struct {
	ExportedAt time.Time `json:"exportedAt"`
	Data       Data      `json:"data"`
}

// ImportResult counts upserted records per collection.
type ImportResult map[string]int

// Total returns the number of records written.
func (r ImportResult) Total() int {
	n := 0
	for _, c := range r {
		n += c
	}
	return n
}

// Service moves documents in and out of the store.
type Service struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new backup service instance.
func NewService(store repository.Store, now func() time.Time, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, logger: logger, now: now}
}

// Export reads every collection into a document.
func (s *Service) Export(ctx context.Context) (Document, error) {
	doc := Document{ExportedAt: s.now()}
	for _, c := range collections(&doc.Data) {
		if err := s.store.FetchAll(ctx, c.name, c.ptr); err != nil {
			return Document{}, fmt.Errorf("export %s: %w", c.name, err)
		}
	}
	return doc, nil
}

// Import upserts every record of the document. Existing records that are not
// in the document are kept.
func (s *Service) Import(ctx context.Context, doc Document) (ImportResult, error) {
	result := ImportResult{}
	for _, c := range collections(&doc.Data) {
		for _, rec := range c.records() {
			if rec.id == "" {
				s.logger.Warn("skip record without id", zap.String("collection", c.name))
				continue
			}
			if err := s.store.Save(ctx, c.name, rec.id, rec.doc); err != nil {
				return result, fmt.Errorf("import %s/%s: %w", c.name, rec.id, err)
			}
			result[c.name]++
		}
	}

	s.logger.Info("backup imported", zap.Int("records", result.Total()))
	return result, nil
}

type record struct {
	id  string
	doc any
}

type collection struct {
	name    string
	ptr     any
	records func() []record
}

func collections(d *Data) []collection {
	return []collection{
		{repository.CollectionUsers, &d.Users, func() []record { return recordsOf(d.Users, func(x models.User) string { return x.ID }) }},
		{repository.CollectionAnimals, &d.Animals, func() []record { return recordsOf(d.Animals, func(x models.Animal) string { return x.ID }) }},
		{repository.CollectionMilk, &d.Milk, func() []record { return recordsOf(d.Milk, func(x models.MilkEntry) string { return x.ID }) }},
		{repository.CollectionHealthEvents, &d.HealthEvents, func() []record {
			return recordsOf(d.HealthEvents, func(x models.HealthEvent) string { return x.ID })
		}},
		{repository.CollectionBoosters, &d.Boosters, func() []record { return recordsOf(d.Boosters, func(x models.Booster) string { return x.ID }) }},
		{repository.CollectionRepro, &d.Repro, func() []record { return recordsOf(d.Repro, func(x models.ReproRecord) string { return x.ID }) }},
		{repository.CollectionCheeseSales, &d.CheeseSales, func() []record {
			return recordsOf(d.CheeseSales, func(x models.CheeseSale) string { return x.ID })
		}},
		{repository.CollectionMilkPurchase, &d.MilkPurchases, func() []record {
			return recordsOf(d.MilkPurchases, func(x models.MilkPurchase) string { return x.ID })
		}},
		{repository.CollectionTransport, &d.MilkTransports, func() []record {
			return recordsOf(d.MilkTransports, func(x models.MilkTransport) string { return x.ID })
		}},
		{repository.CollectionFixedCosts, &d.FixedCosts, func() []record {
			return recordsOf(d.FixedCosts, func(x models.FixedCost) string { return x.ID })
		}},
		{repository.CollectionRawBovines, &d.RawBovines, func() []record {
			return recordsOf(d.RawBovines, func(x models.RawBovine) string { return x.ID })
		}},
		{repository.CollectionMedications, &d.Medications, func() []record {
			return recordsOf(d.Medications, func(x models.Medication) string { return x.ID })
		}},
	}
}

func recordsOf[T any](items []T, id func(T) string) []record {
	out := make([]record, 0, len(items))
	for _, it := range items {
		out = append(out, record{id: id(it), doc: it})
	}
	return out
}
