package models

import "time"

// BoosterStatus tracks whether a scheduled reinforcement was applied.
type BoosterStatus string

const (
	BoosterPending BoosterStatus = "pending"
	BoosterDone    BoosterStatus = "done"
)

// HealthEvent is one sanitary application. It is never mutated after creation.
type HealthEvent struct {
	ID        string    `bson:"_id" json:"id"`
	AnimalID  string    `bson:"animal_id" json:"animalId"`
	Procedure string    `bson:"procedure" json:"procedure"`
	Date      string    `bson:"date" json:"date"`
	CreatedBy string    `bson:"created_by" json:"createdBy"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Booster is a follow-up treatment scheduled from a HealthEvent.
// Farm is copied from the animal when the booster is created.
type Booster struct {
	ID        string        `bson:"_id" json:"id"`
	EventID   string        `bson:"event_id" json:"eventId"`
	AnimalID  string        `bson:"animal_id" json:"animalId"`
	Procedure string        `bson:"procedure" json:"procedure"`
	RefDate   string        `bson:"ref_date" json:"refDate"`
	Farm      string        `bson:"farm" json:"farm"`
	Status    BoosterStatus `bson:"status" json:"status"`
	DoneAt    *time.Time    `bson:"done_at,omitempty" json:"doneAt,omitempty"`
	DoneBy    string        `bson:"done_by,omitempty" json:"doneBy,omitempty"`
	CreatedBy string        `bson:"created_by" json:"createdBy"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
}

// IsDone reports whether the booster reached its terminal state.
func (b Booster) IsDone() bool {
	return b.Status == BoosterDone
}

// Medication is a free-form treatment log entry. The animal link is optional.
type Medication struct {
	ID          string         `bson:"_id" json:"id"`
	AnimalID    string         `bson:"animal_id,omitempty" json:"animalId,omitempty"`
	Name        string         `bson:"name" json:"name"`
	Date        string         `bson:"date" json:"date"`
	Procedure   string         `bson:"procedure" json:"procedure"`
	Responsible string         `bson:"responsible" json:"responsible"`
	Plan        string         `bson:"plan" json:"plan"`
	Cost        string         `bson:"cost" json:"cost"`
	Farm        string         `bson:"farm" json:"farm"`
	Notes       string         `bson:"notes" json:"notes"`
	Extras      map[string]any `bson:"extras,omitempty" json:"extras,omitempty"`
	CreatedBy   string         `bson:"created_by" json:"createdBy"`
	CreatedAt   time.Time      `bson:"created_at" json:"createdAt"`
}

// RawBovine is an untracked animal kept as a loose inventory row.
type RawBovine struct {
	ID         string         `bson:"_id" json:"id"`
	TagName    string         `bson:"tag_name" json:"tagName"`
	StatusNote string         `bson:"status_note" json:"statusNote"`
	Age        string         `bson:"age" json:"age"`
	Weight     string         `bson:"weight" json:"weight"`
	Extras     map[string]any `bson:"extras,omitempty" json:"extras,omitempty"`
	CreatedBy  string         `bson:"created_by" json:"createdBy"`
	CreatedAt  time.Time      `bson:"created_at" json:"createdAt"`
}
