package models

import (
	"strings"
	"time"
)

// Sex enumerates the supported animal sexes.
type Sex string

const (
	SexFemale Sex = "Female"
	SexMale   Sex = "Male"
)

// ParseSex normalizes "Hembra", "Macho", "Male" and the like. Anything that is
// not recognizably male is female.
func ParseSex(value string) Sex {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "macho", "m", "male":
		return SexMale
	default:
		return SexFemale
	}
}

// Placeholder is rendered when a record points at an animal or profile that no longer exists.
const Placeholder = "—"

// Animal is the identity record for one head of cattle.
type Animal struct {
	ID        string         `bson:"_id" json:"id"`
	Tag       string         `bson:"tag" json:"tag"`
	Name      string         `bson:"name" json:"name"`
	Farm      string         `bson:"farm" json:"farm"`
	Sex       Sex            `bson:"sex" json:"sex"`
	Breed     string         `bson:"breed" json:"breed"`
	Extras    map[string]any `bson:"extras,omitempty" json:"extras,omitempty"`
	CreatedBy string         `bson:"created_by" json:"createdBy"`
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`
}

// Label returns the "tag • name" display string used across listings.
func (a Animal) Label() string {
	tag := a.Tag
	if tag == "" {
		tag = "s/a"
	}
	if a.Name == "" {
		return tag
	}
	return tag + " • " + a.Name
}

// User is an operator profile. Profiles are not authenticated.
type User struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}
