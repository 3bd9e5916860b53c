package utils

import (
	"github.com/joseph-ayodele/sales-tracker/constants"
	"github.com/joseph-ayodele/sales-tracker/internal/entity"
	"github.com/joseph-ayodele/sales-tracker/internal/query"
)

// The ToPB helpers shape entities as structpb-compatible maps: numbers are float64,
// lists are []any.

func ToPBSummary(s entity.CustomerSummary) map[string]any {
	return map[string]any{
		"customer_id":    s.CustomerID,
		"province":       s.Province,
		"total_volume":   query.RoundVolume(s.TotalVolume),
		"purchase_count": float64(s.PurchaseCount),
		"last_purchase":  s.LastPurchase.Format(constants.DateLayout),
	}
}

func ToPBCard(c entity.CustomerCard) map[string]any {
	return map[string]any{
		"customer_id":    c.CustomerID,
		"province":       c.Province,
		"total_volume":   c.TotalVolume,
		"purchase_count": float64(c.PurchaseCount),
		"last_purchase":  c.LastPurchase,
	}
}

func ToPBTransaction(tx entity.Transaction) map[string]any {
	return map[string]any{
		"customer_id":  tx.CustomerID,
		"province":     tx.Province,
		"date":         tx.Date.Format(constants.DateLayout),
		"total_volume": query.RoundVolume(tx.TotalVolume),
	}
}

func ToPBContact(c entity.Contact) map[string]any {
	return map[string]any{
		"customer_id": c.CustomerID,
		"name":        c.Name,
		"email":       c.Email,
		"phone":       c.Phone,
	}
}

func ToPBSummaries(in []entity.CustomerSummary) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, ToPBSummary(s))
	}
	return out
}

func ToPBTransactions(in []entity.Transaction) []any {
	out := make([]any, 0, len(in))
	for _, tx := range in {
		out = append(out, ToPBTransaction(tx))
	}
	return out
}

func ToPBContacts(in []entity.Contact) []any {
	out := make([]any, 0, len(in))
	for _, c := range in {
		out = append(out, ToPBContact(c))
	}
	return out
}

func ToPBStrings(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}
