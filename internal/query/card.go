package query

import (
	"math"

	"github.com/joseph-ayodele/sales-tracker/constants"
	"github.com/joseph-ayodele/sales-tracker/internal/entity"
)

// RoundVolume rounds half away from zero to 2 decimals.
func RoundVolume(v float64) float64 {
	return math.Round(v*100) / 100
}

// Card formats a summary row for display.
func Card(s entity.CustomerSummary) entity.CustomerCard {
	return entity.CustomerCard{
		CustomerID:    s.CustomerID,
		Province:      s.Province,
		TotalVolume:   RoundVolume(s.TotalVolume),
		PurchaseCount: s.PurchaseCount,
		LastPurchase:  s.LastPurchase.Format(constants.DateLayout),
	}
}
