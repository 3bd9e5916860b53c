package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/joseph-ayodele/sales-tracker/constants"
	"github.com/joseph-ayodele/sales-tracker/internal/entity"
	"github.com/joseph-ayodele/sales-tracker/internal/query"
)

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(headers)
	t.SetAutoWrapText(false)
	return t
}

func formatVolume(v float64) string {
	return strconv.FormatFloat(query.RoundVolume(v), 'f', 2, 64)
}

func renderProvinces(w io.Writer, provs []string) {
	t := newTable(w, "Province")
	for _, p := range provs {
		t.Append([]string{p})
	}
	t.Render()
}

func renderRanking(w io.Writer, ranking []entity.CustomerSummary) {
	t := newTable(w, "#", "Customer", "Province", "Total kW", "Purchases", "Last purchase")
	t.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})
	for i, s := range ranking {
		t.Append([]string{
			strconv.Itoa(i + 1),
			s.CustomerID,
			s.Province,
			formatVolume(s.TotalVolume),
			strconv.Itoa(s.PurchaseCount),
			s.LastPurchase.Format(constants.DateLayout),
		})
	}
	t.Render()
}

func renderCard(w io.Writer, c entity.CustomerCard) {
	t := newTable(w, "Customer", "Province", "Total kW", "Purchases", "Last purchase")
	t.Append([]string{
		c.CustomerID,
		c.Province,
		strconv.FormatFloat(c.TotalVolume, 'f', 2, 64),
		strconv.Itoa(c.PurchaseCount),
		c.LastPurchase,
	})
	t.Render()
}

func renderHistory(w io.Writer, history []entity.Transaction) {
	t := newTable(w, "Date", "Province", "kW")
	for _, tx := range history {
		t.Append([]string{tx.Date.Format(constants.DateLayout), tx.Province, formatVolume(tx.TotalVolume)})
	}
	t.Render()
}

func renderContacts(w io.Writer, contacts []entity.Contact) {
	if len(contacts) == 0 {
		_, _ = io.WriteString(w, "no contacts\n")
		return
	}
	t := newTable(w, "Name", "Email", "Phone")
	for _, c := range contacts {
		t.Append([]string{c.Name, c.Email, c.Phone})
	}
	t.Render()
}
