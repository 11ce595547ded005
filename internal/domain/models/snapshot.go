package models

import "time"

// Snapshot is the full record set loaded in one pass before any derivation runs.
// It is treated as immutable for the duration of a render cycle.
type Snapshot struct {
	Users          []User          `json:"users"`
	Animals        []Animal        `json:"animals"`
	Milk           []MilkEntry     `json:"milk"`
	HealthEvents   []HealthEvent   `json:"healthEvents"`
	Boosters       []Booster       `json:"boosters"`
	Repro          []ReproRecord   `json:"repro"`
	CheeseSales    []CheeseSale    `json:"salesCheese"`
	MilkPurchases  []MilkPurchase  `json:"buyMilk"`
	MilkTransports []MilkTransport `json:"transMilk"`
	FixedCosts     []FixedCost     `json:"fixedCosts"`
	RawBovines     []RawBovine     `json:"brutos"`
	Medications    []Medication    `json:"meds"`
	LoadedAt       time.Time       `json:"loadedAt"`
}

// AnimalByID returns the animal with the given id, if present.
func (s Snapshot) AnimalByID(id string) (Animal, bool) {
	for _, a := range s.Animals {
		if a.ID == id {
			return a, true
		}
	}
	return Animal{}, false
}

// AnimalLabel resolves a display label, falling back to Placeholder for dangling references.
func (s Snapshot) AnimalLabel(id string) string {
	a, ok := s.AnimalByID(id)
	if !ok {
		return Placeholder
	}
	return a.Label()
}

// UserName resolves a profile name, falling back to Placeholder.
func (s Snapshot) UserName(id string) string {
	for _, u := range s.Users {
		if u.ID == id && u.Name != "" {
			return u.Name
		}
	}
	return Placeholder
}
