package models

import "time"

// DailyDigest is the persisted summary of the dashboard produced by the scheduler.
type DailyDigest struct {
	ID          string    `bson:"_id" json:"id"`
	Date        string    `bson:"date" json:"date"`
	Overdue     int       `bson:"overdue" json:"overdue"`
	Due3        int       `bson:"due_3" json:"due3"`
	Due10       int       `bson:"due_10" json:"due10"`
	Due15       int       `bson:"due_15" json:"due15"`
	LowMilk     int       `bson:"low_milk" json:"lowMilk"`
	ReproRisk   int       `bson:"repro_risk" json:"reproRisk"`
	TopAnimalID string    `bson:"top_animal_id,omitempty" json:"topAnimalId,omitempty"`
	TopLiters   float64   `bson:"top_liters" json:"topLiters"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}
