package models

import "time"

// CheeseSale captures a cheese sale to a client.
type CheeseSale struct {
	ID            string    `bson:"_id" json:"id"`
	Date          string    `bson:"date" json:"date"`
	Client        string    `bson:"client" json:"client"`
	Pounds        float64   `bson:"pounds" json:"pounds"`
	PricePerPound float64   `bson:"price_per_pound" json:"pricePerPound"`
	Total         float64   `bson:"total" json:"total"` // Pounds * PricePerPound
	CreatedBy     string    `bson:"created_by" json:"createdBy"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// MilkPurchase captures milk bought from third parties over a period.
type MilkPurchase struct {
	ID            string    `bson:"_id" json:"id"`
	Period        string    `bson:"period" json:"period"`
	Liters        float64   `bson:"liters" json:"liters"`
	PricePerLiter float64   `bson:"price_per_liter" json:"pricePerLiter"`
	Total         float64   `bson:"total" json:"total"`
	CreatedBy     string    `bson:"created_by" json:"createdBy"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// MilkTransport captures milk hauling costs over a period.
type MilkTransport struct {
	ID        string    `bson:"_id" json:"id"`
	Period    string    `bson:"period" json:"period"`
	Value     float64   `bson:"value" json:"value"`
	Quantity  float64   `bson:"quantity" json:"quantity"`
	Total     float64   `bson:"total" json:"total"`
	CreatedBy string    `bson:"created_by" json:"createdBy"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// FixedCost captures a recurring monthly expense.
type FixedCost struct {
	ID           string    `bson:"_id" json:"id"`
	Concept      string    `bson:"concept" json:"concept"`
	MonthlyValue float64   `bson:"monthly_value" json:"monthlyValue"`
	CreatedBy    string    `bson:"created_by" json:"createdBy"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
