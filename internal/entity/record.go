package entity

import "time"

// RawRecord is one data row of the uploaded sheet, keyed by normalized header.
type RawRecord struct {
	Row    int               `json:"row"`
	Values map[string]string `json:"values"`
}

// TypedRecord is a RawRecord after type coercion.
type TypedRecord struct {
	Row         int       `json:"row"`
	CustomerID  string    `json:"customer_id"`
	Province    string    `json:"province"`
	Date        time.Time `json:"date"`
	Volume      float64   `json:"volume"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
}
