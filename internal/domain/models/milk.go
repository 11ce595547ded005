package models

import "time"

// MilkEntry captures one day of milking for an animal. Total is stored at write time.
type MilkEntry struct {
	ID        string    `bson:"_id" json:"id"`
	Date      string    `bson:"date" json:"date"`
	AnimalID  string    `bson:"animal_id" json:"animalId"`
	Morning   float64   `bson:"morning" json:"morning"`
	Evening   float64   `bson:"evening" json:"evening"`
	Total     float64   `bson:"total" json:"total"`
	CreatedBy string    `bson:"created_by" json:"createdBy"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
