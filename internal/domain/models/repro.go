package models

import (
	"strings"
	"time"
)

// PregnancyDiagnosis is the result of the last pregnancy check.
type PregnancyDiagnosis string

const (
	PregnancyUnknown PregnancyDiagnosis = "unknown"
	PregnancyYes     PregnancyDiagnosis = "yes"
	PregnancyNo      PregnancyDiagnosis = "no"
)

// ParsePregnancy normalizes operator input ("SI", "sí", "yes", "no", "") into a diagnosis.
func ParsePregnancy(value string) PregnancyDiagnosis {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "si", "sí", "y", "s":
		return PregnancyYes
	case "no", "n":
		return PregnancyNo
	default:
		return PregnancyUnknown
	}
}

// ReproRecord is one breeding-cycle snapshot. Several may exist per animal;
// the newest by CreatedAt is authoritative.
type ReproRecord struct {
	ID           string             `bson:"_id" json:"id"`
	AnimalID     string             `bson:"animal_id" json:"animalId"`
	Parturition  string             `bson:"parturition" json:"parturition"`
	LastHeat     string             `bson:"last_heat" json:"lastHeat"`
	Insemination string             `bson:"insemination" json:"insemination"`
	Pregnancy    PregnancyDiagnosis `bson:"pregnancy" json:"pregnancy"`
	CreatedBy    string             `bson:"created_by" json:"createdBy"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}
