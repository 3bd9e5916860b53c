package pipeline

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/sales-tracker/internal/entity"
)

func typed(customer, province, date string, vol float64) entity.TypedRecord {
	return entity.TypedRecord{CustomerID: customer, Province: province, Date: day(date), Volume: vol}
}

func TestConsolidateAndSummarize_SameDayRowsMerge(t *testing.T) {
	records := []entity.TypedRecord{
		typed("C1", "Madrid", "2024-01-01", 10),
		typed("C1", "Madrid", "2024-01-01", 5),
		typed("C1", "Madrid", "2024-01-02", 3),
	}

	txs := Consolidate(records)
	wantTx := []entity.Transaction{
		{CustomerID: "C1", Province: "Madrid", Date: day("2024-01-01"), TotalVolume: 15},
		{CustomerID: "C1", Province: "Madrid", Date: day("2024-01-02"), TotalVolume: 3},
	}
	if diff := cmp.Diff(wantTx, txs); diff != "" {
		t.Fatalf("transactions mismatch (-want +got):\n%s", diff)
	}

	sums := Summarize(txs)
	wantSum := []entity.CustomerSummary{
		{CustomerID: "C1", Province: "Madrid", TotalVolume: 18, PurchaseCount: 2, LastPurchase: day("2024-01-02")},
	}
	if diff := cmp.Diff(wantSum, sums); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestConsolidate_SeparatesProvinces(t *testing.T) {
	txs := Consolidate([]entity.TypedRecord{
		typed("C1", "Madrid", "2024-01-01", 1),
		typed("C1", "Toledo", "2024-01-01", 2),
	})
	if len(txs) != 2 {
		t.Fatalf("same customer and date in two provinces must stay apart: %+v", txs)
	}
}

func randomRecords(r *rand.Rand, n int) []entity.TypedRecord {
	customers := []string{"C1", "C2", "C3", "C4"}
	provinces := []string{"Madrid", "Sevilla", "Toledo"}
	dates := []string{"2024-01-01", "2024-01-02", "2024-02-15", "2024-03-31"}
	out := make([]entity.TypedRecord, n)
	for i := range out {
		out[i] = typed(
			customers[r.Intn(len(customers))],
			provinces[r.Intn(len(provinces))],
			dates[r.Intn(len(dates))],
			r.Float64()*1000,
		)
	}
	return out
}

func TestConsolidate_OrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	records := randomRecords(r, 500)
	want := Consolidate(records)

	for i := 0; i < 5; i++ {
		shuffled := append([]entity.TypedRecord(nil), records...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if diff := cmp.Diff(want, Consolidate(shuffled)); diff != "" {
			t.Fatalf("permutation %d changed the result (-want +got):\n%s", i, diff)
		}
	}
}

func TestAggregation_ConservesVolume(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	records := randomRecords(r, 1000)

	var in float64
	for _, rec := range records {
		in += rec.Volume
	}
	var viaTx, viaSum float64
	txs := Consolidate(records)
	for _, tx := range txs {
		viaTx += tx.TotalVolume
	}
	for _, s := range Summarize(txs) {
		viaSum += s.TotalVolume
	}
	for name, got := range map[string]float64{"transactions": viaTx, "summaries": viaSum} {
		if math.Abs(got-in) > 1e-9*math.Abs(in) {
			t.Fatalf("%s total: got=%v want=%v", name, got, in)
		}
	}
}

func TestSummarize_CountMatchesDistinctDates(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	txs := Consolidate(randomRecords(r, 300))

	distinct := map[[2]string]map[int64]struct{}{}
	for _, tx := range txs {
		k := [2]string{tx.CustomerID, tx.Province}
		if distinct[k] == nil {
			distinct[k] = map[int64]struct{}{}
		}
		distinct[k][tx.Date.Unix()] = struct{}{}
	}
	for _, s := range Summarize(txs) {
		want := len(distinct[[2]string{s.CustomerID, s.Province}])
		if s.PurchaseCount != want || s.PurchaseCount < 1 {
			t.Fatalf("%s/%s count: got=%d want=%d", s.CustomerID, s.Province, s.PurchaseCount, want)
		}
	}
}

func TestSummarize_Ordering(t *testing.T) {
	txs := []entity.Transaction{
		{CustomerID: "B", Province: "Madrid", Date: day("2024-01-01"), TotalVolume: 5},
		{CustomerID: "A", Province: "Toledo", Date: day("2024-01-01"), TotalVolume: 5},
		{CustomerID: "A", Province: "Madrid", Date: day("2024-01-03"), TotalVolume: 5},
		{CustomerID: "Z", Province: "Madrid", Date: day("2024-01-01"), TotalVolume: 9},
		{CustomerID: "M", Province: "Madrid", Date: day("2024-01-01"), TotalVolume: 1},
	}
	got := Summarize(txs)
	var order [][2]string
	for _, s := range got {
		order = append(order, [2]string{s.CustomerID, s.Province})
	}
	want := [][2]string{{"Z", "Madrid"}, {"A", "Madrid"}, {"A", "Toledo"}, {"B", "Madrid"}, {"M", "Madrid"}}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].TotalVolume < got[i].TotalVolume {
			t.Fatalf("totals not descending at %d", i)
		}
	}
}

func TestAggregation_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	records := randomRecords(r, 200)
	first := Summarize(Consolidate(records))
	second := Summarize(Consolidate(records))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeat run differs (-first +second):\n%s", diff)
	}
}

func TestStableSum(t *testing.T) {
	vals := []float64{1e16, 1, -1e16, 1}
	if got := stableSum(vals); got != 2 {
		t.Fatalf("stableSum: got=%v want=2", got)
	}
	if got := stableSum(nil); got != 0 {
		t.Fatalf("empty sum: got=%v", got)
	}
}
