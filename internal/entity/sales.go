package entity

import "time"

// Transaction is the consolidated volume for one customer, province and calendar date.
type Transaction struct {
	CustomerID  string    `json:"customer_id"`
	Province    string    `json:"province"`
	Date        time.Time `json:"date"`
	TotalVolume float64   `json:"total_volume"`
}

// CustomerSummary aggregates a customer's transactions within one province.
type CustomerSummary struct {
	CustomerID    string    `json:"customer_id"`
	Province      string    `json:"province"`
	TotalVolume   float64   `json:"total_volume"`
	PurchaseCount int       `json:"purchase_count"`
	LastPurchase  time.Time `json:"last_purchase"`
}

// CustomerCard is the presentation view of a selected customer.
type CustomerCard struct {
	CustomerID    string  `json:"customer_id"`
	Province      string  `json:"province"`
	TotalVolume   float64 `json:"total_volume"` // rounded to 2 decimals
	PurchaseCount int     `json:"purchase_count"`
	LastPurchase  string  `json:"last_purchase"` // YYYY-MM-DD
}
