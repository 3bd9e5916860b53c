package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/sales-tracker/internal/entity"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

var ranked = []entity.CustomerSummary{
	{CustomerID: "C3", Province: "Sevilla", TotalVolume: 90, PurchaseCount: 3, LastPurchase: day("2024-03-01")},
	{CustomerID: "C1", Province: "Madrid", TotalVolume: 18, PurchaseCount: 2, LastPurchase: day("2024-01-02")},
	{CustomerID: "C2", Province: "Madrid", TotalVolume: 7.5, PurchaseCount: 1, LastPurchase: day("2024-02-10")},
	{CustomerID: "C1", Province: "Toledo", TotalVolume: 1, PurchaseCount: 1, LastPurchase: day("2024-01-09")},
}

func TestProvinces(t *testing.T) {
	want := []string{"Madrid", "Sevilla", "Toledo"}
	if diff := cmp.Diff(want, Provinces(ranked)); diff != "" {
		t.Fatalf("provinces mismatch (-want +got):\n%s", diff)
	}
	if got := Provinces(nil); got == nil || len(got) != 0 {
		t.Fatalf("empty input should give empty slice: %#v", got)
	}
}

func TestFilterByProvince_KeepsRankOrder(t *testing.T) {
	got := FilterByProvince(ranked, "Madrid")
	if len(got) != 2 || got[0].CustomerID != "C1" || got[1].CustomerID != "C2" {
		t.Fatalf("madrid: %+v", got)
	}
}

func TestFilterByProvince_UnknownIsEmpty(t *testing.T) {
	got := FilterByProvince(ranked, "Valencia")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %#v", got)
	}
	if got := FilterByProvince(ranked, "madrid"); len(got) != 0 {
		t.Fatalf("match is exact: %+v", got)
	}
}

func TestFilterByProvince_PartitionsSummaries(t *testing.T) {
	total := 0
	for _, p := range Provinces(ranked) {
		total += len(FilterByProvince(ranked, p))
	}
	if total != len(ranked) {
		t.Fatalf("partition: got=%d want=%d", total, len(ranked))
	}
}

func TestFilterByCustomer(t *testing.T) {
	madrid := FilterByProvince(ranked, "Madrid")
	s, err := FilterByCustomer(madrid, "C2")
	if err != nil || s.TotalVolume != 7.5 {
		t.Fatalf("C2: %+v %v", s, err)
	}

	_, err = FilterByCustomer(madrid, "C3")
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Key != "C3" {
		t.Fatalf("expected NotFoundError for C3 outside Madrid, got %v", err)
	}
}

func TestHistory_NewestFirst(t *testing.T) {
	txs := []entity.Transaction{
		{CustomerID: "C1", Province: "Madrid", Date: day("2024-01-01"), TotalVolume: 15},
		{CustomerID: "C2", Province: "Madrid", Date: day("2024-05-01"), TotalVolume: 1},
		{CustomerID: "C1", Province: "Toledo", Date: day("2024-01-09"), TotalVolume: 1},
		{CustomerID: "C1", Province: "Madrid", Date: day("2024-01-02"), TotalVolume: 3},
		{CustomerID: "C1", Province: "Toledo", Date: day("2024-01-02"), TotalVolume: 4},
	}
	got := History(txs, "C1")
	var dates []string
	for _, tx := range got {
		dates = append(dates, tx.Date.Format("2006-01-02")+"/"+tx.Province)
	}
	want := []string{"2024-01-09/Toledo", "2024-01-02/Madrid", "2024-01-02/Toledo", "2024-01-01/Madrid"}
	if diff := cmp.Diff(want, dates); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
	if got := History(txs, "nobody"); len(got) != 0 {
		t.Fatalf("unknown customer: %+v", got)
	}
}

func TestCard(t *testing.T) {
	c := Card(entity.CustomerSummary{
		CustomerID: "C1", Province: "Madrid", TotalVolume: 18.005000001, PurchaseCount: 2, LastPurchase: day("2024-01-02"),
	})
	want := entity.CustomerCard{CustomerID: "C1", Province: "Madrid", TotalVolume: 18.01, PurchaseCount: 2, LastPurchase: "2024-01-02"}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("card mismatch (-want +got):\n%s", diff)
	}
	if got := RoundVolume(2.344); got != 2.34 {
		t.Fatalf("RoundVolume: got=%v", got)
	}
}

type fakeLister struct {
	byID map[string][]entity.Contact
}

func (f *fakeLister) List(_ context.Context, id string) ([]entity.Contact, error) {
	return f.byID[id], nil
}

func TestContactsFor_Register(t *testing.T) {
	lister := &fakeLister{byID: map[string][]entity.Contact{
		"C1": {{CustomerID: "C1", Name: "Ana"}, {CustomerID: "C1", Name: "Luis"}},
	}}
	src := NewRegisterContacts(lister)

	got, err := ContactsFor(context.Background(), "C1", src)
	if err != nil || len(got) != 2 || got[0].Name != "Ana" {
		t.Fatalf("C1: %+v %v", got, err)
	}
	got, err = ContactsFor(context.Background(), "C2", src)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("C2 should be empty, not nil: %#v %v", got, err)
	}
}

func TestContactsFor_DatasetDedupes(t *testing.T) {
	records := []entity.TypedRecord{
		{CustomerID: "C1", DisplayName: "Ana García", Email: "ana@x.es"},
		{CustomerID: "C1", DisplayName: "Ana García", Email: "ana@x.es"},
		{CustomerID: "C2", DisplayName: "Otro"},
		{CustomerID: "C1"},
		{CustomerID: "C1", DisplayName: "Luis", Phone: "600"},
	}
	got, err := ContactsFor(context.Background(), "C1", NewDatasetContacts(records))
	if err != nil {
		t.Fatal(err)
	}
	want := []entity.Contact{
		{CustomerID: "C1", Name: "Ana García", Email: "ana@x.es"},
		{CustomerID: "C1", Name: "Luis", Phone: "600"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("contacts mismatch (-want +got):\n%s", diff)
	}

	got, _ = ContactsFor(context.Background(), "C9", NewDatasetContacts(records))
	if got == nil || len(got) != 0 {
		t.Fatalf("no contacts should be empty: %#v", got)
	}
	got, _ = ContactsFor(context.Background(), "C1", nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("nil source should be empty: %#v", got)
	}
}

func TestChainContacts(t *testing.T) {
	dataset := NewDatasetContacts([]entity.TypedRecord{{CustomerID: "C1", DisplayName: "Ana"}})
	entered := NewRegisterContacts(&fakeLister{byID: map[string][]entity.Contact{"C1": {{CustomerID: "C1", Name: "Luis"}}}})
	got, err := ContactsFor(context.Background(), "C1", ChainContacts(dataset, entered))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "Ana" || got[1].Name != "Luis" {
		t.Fatalf("chained: %+v", got)
	}
}
