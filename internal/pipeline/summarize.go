package pipeline

import (
	"sort"
	"time"

	"github.com/joseph-ayodele/sales-tracker/internal/entity"
)

type summaryKey struct {
	customer string
	province string
}

// Summarize groups transactions by customer and province. Rows are ranked by total volume
// descending; ties fall back to customer id, then province, ascending.
func Summarize(txs []entity.Transaction) []entity.CustomerSummary {
	type acc struct {
		volumes []float64
		last    time.Time
	}
	groups := make(map[summaryKey]*acc)
	for _, tx := range txs {
		k := summaryKey{customer: tx.CustomerID, province: tx.Province}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.volumes = append(a.volumes, tx.TotalVolume)
		if tx.Date.After(a.last) {
			a.last = tx.Date
		}
	}

	out := make([]entity.CustomerSummary, 0, len(groups))
	for k, a := range groups {
		out = append(out, entity.CustomerSummary{
			CustomerID:    k.customer,
			Province:      k.province,
			TotalVolume:   stableSum(a.volumes),
			PurchaseCount: len(a.volumes),
			LastPurchase:  a.last,
		})
	}
	SortSummaries(out)
	return out
}

// SortSummaries applies the ranking order in place.
func SortSummaries(s []entity.CustomerSummary) {
	sort.SliceStable(s, func(i, j int) bool {
		a, b := s[i], s[j]
		if a.TotalVolume != b.TotalVolume {
			return a.TotalVolume > b.TotalVolume
		}
		if a.CustomerID != b.CustomerID {
			return a.CustomerID < b.CustomerID
		}
		return a.Province < b.Province
	})
}
