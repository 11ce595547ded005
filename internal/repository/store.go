package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Collection names shared by every Store implementation.
const (
	CollectionUsers        = "users"
	CollectionAnimals      = "animals"
	CollectionMilk         = "milk"
	CollectionHealthEvents = "healthEvents"
	CollectionBoosters     = "boosters"
	CollectionRepro        = "repro"
	CollectionCheeseSales  = "salesCheese"
	CollectionMilkPurchase = "buyMilk"
	CollectionTransport    = "transMilk"
	CollectionFixedCosts   = "fixedCosts"
	CollectionRawBovines   = "brutos"
	CollectionMedications  = "meds"
	CollectionDigests      = "digests"
)

// Store is the durable per-collection record facade.
// Save is an upsert keyed by id; concurrent writers resolve last-writer-wins.
type Store interface {
	// FetchAll decodes every record of the collection into out, which must be a pointer to a slice.
	FetchAll(ctx context.Context, collection string, out any) error
	// Get decodes the record with the given id into out or returns ErrNotFound.
	Get(ctx context.Context, collection, id string, out any) error
	Save(ctx context.Context, collection, id string, doc any) error
	Delete(ctx context.Context, collection, id string) error
	Close(ctx context.Context) error
}
