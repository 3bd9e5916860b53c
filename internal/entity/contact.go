package entity

// Contact is a person reachable for a customer.
type Contact struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// IsEmpty reports whether the contact carries no name, email or phone.
func (c Contact) IsEmpty() bool {
	return c.Name == "" && c.Email == "" && c.Phone == ""
}
