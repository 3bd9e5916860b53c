package pipeline

import (
	"sort"
	"time"

	"github.com/joseph-ayodele/sales-tracker/internal/entity"
)

type txKey struct {
	customer string
	province string
	day      int64
}

// Consolidate merges records sharing customer, province and calendar date into one Transaction
// whose volume is the sum of theirs. Output is sorted by customer, province, date.
func Consolidate(records []entity.TypedRecord) []entity.Transaction {
	groups := make(map[txKey][]float64)
	dates := make(map[txKey]time.Time)
	for _, r := range records {
		k := txKey{customer: r.CustomerID, province: r.Province, day: r.Date.Unix()}
		groups[k] = append(groups[k], r.Volume)
		dates[k] = r.Date
	}

	out := make([]entity.Transaction, 0, len(groups))
	for k, vols := range groups {
		out = append(out, entity.Transaction{
			CustomerID:  k.customer,
			Province:    k.province,
			Date:        dates[k],
			TotalVolume: stableSum(vols),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CustomerID != b.CustomerID {
			return a.CustomerID < b.CustomerID
		}
		if a.Province != b.Province {
			return a.Province < b.Province
		}
		return a.Date.Before(b.Date)
	})
	return out
}
