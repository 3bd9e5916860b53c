// Package query answers the read-side questions of a report: which provinces exist,
// who ranks where inside one, and what a single customer bought.
package query

import (
	"fmt"
	"sort"

	"github.com/joseph-ayodele/sales-tracker/internal/entity"
)

// NotFoundError is returned when a selection names something absent from the set searched.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// Provinces returns the distinct provinces, ascending.
func Provinces(summaries []entity.CustomerSummary) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range summaries {
		if _, ok := seen[s.Province]; ok {
			continue
		}
		seen[s.Province] = struct{}{}
		out = append(out, s.Province)
	}
	sort.Strings(out)
	return out
}

// FilterByProvince keeps the rows of one province in their existing order.
// An unknown province gives an empty result.
func FilterByProvince(summaries []entity.CustomerSummary, province string) []entity.CustomerSummary {
	out := make([]entity.CustomerSummary, 0)
	for _, s := range summaries {
		if s.Province == province {
			out = append(out, s)
		}
	}
	return out
}

// FilterByCustomer finds a customer's row in an already filtered set.
func FilterByCustomer(summaries []entity.CustomerSummary, customerID string) (entity.CustomerSummary, error) {
	for _, s := range summaries {
		if s.CustomerID == customerID {
			return s, nil
		}
	}
	return entity.CustomerSummary{}, &NotFoundError{Kind: "customer", Key: customerID}
}

// History lists a customer's transactions newest first.
func History(txs []entity.Transaction, customerID string) []entity.Transaction {
	out := make([]entity.Transaction, 0)
	for _, tx := range txs {
		if tx.CustomerID == customerID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Province < out[j].Province
	})
	return out
}
