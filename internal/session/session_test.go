package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/sales-tracker/constants"
	"github.com/joseph-ayodele/sales-tracker/internal/common"
	"github.com/joseph-ayodele/sales-tracker/internal/entity"
	"github.com/joseph-ayodele/sales-tracker/internal/ingest"
	"github.com/joseph-ayodele/sales-tracker/internal/metrics"
	"github.com/joseph-ayodele/sales-tracker/internal/pipeline"
	"github.com/joseph-ayodele/sales-tracker/internal/query"
	"github.com/joseph-ayodele/sales-tracker/internal/schema"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func salesBook(t *testing.T) []byte {
	return workbook(t, [][]any{
		{"cliente", "provincia", "fecha", "kw", "nombre", "apellido", "email"},
		{"C1", "Madrid", "2024-01-01", 10, "Ana", "García", "ana@x.es"},
		{"C1", "Madrid", "2024-01-01", 5, "Ana", "García", "ana@x.es"},
		{"C1", "Madrid", "2024-01-02", 3},
		{"C2", "Madrid", "2024-01-03", 7},
		{"C3", "Sevilla", "2024-02-01", 40},
	})
}

func testDeps(source constants.ContactSource, backend constants.RegisterBackend) Deps {
	logger := quietLogger()
	return Deps{
		Ingestor:        ingest.NewXLSXIngestor("", 0, logger),
		Processor:       pipeline.NewProcessor(logger, schema.DefaultAliasTable()),
		Metrics:         metrics.NewRegistry(),
		ContactSource:   source,
		RegisterBackend: backend,
	}
}

func newSession(t *testing.T, deps Deps) *Session {
	t.Helper()
	s, err := New(context.Background(), deps, quietLogger())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestSession_Walkthrough(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, testDeps(constants.ContactSourceRegister, constants.RegisterBackendMemory))

	if s.State() != constants.StateNoData {
		t.Fatalf("initial state: %s", s.State())
	}
	if _, err := s.Provinces(); !errors.Is(err, common.ErrInvalidState) {
		t.Fatalf("provinces before upload: %v", err)
	}

	up, err := s.Upload(ctx, "ventas.xlsx", salesBook(t))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if s.State() != constants.StateAggregated {
		t.Fatalf("after upload: %s", s.State())
	}
	if up.Rows != 5 || up.Transactions != 4 || up.Summaries != 3 {
		t.Fatalf("upload result: %+v", up)
	}
	if diff := cmp.Diff([]string{"Madrid", "Sevilla"}, up.Provinces); diff != "" {
		t.Fatalf("provinces mismatch (-want +got):\n%s", diff)
	}

	ranking, err := s.SelectProvince("Madrid")
	if err != nil {
		t.Fatal(err)
	}
	if len(ranking) != 2 || ranking[0].CustomerID != "C1" || ranking[1].CustomerID != "C2" {
		t.Fatalf("madrid ranking: %+v", ranking)
	}

	view, err := s.SelectCustomer(ctx, "C1")
	if err != nil {
		t.Fatalf("select C1: %v", err)
	}
	wantCard := entity.CustomerCard{CustomerID: "C1", Province: "Madrid", TotalVolume: 18, PurchaseCount: 2, LastPurchase: "2024-01-02"}
	if diff := cmp.Diff(wantCard, view.Card); diff != "" {
		t.Fatalf("card mismatch (-want +got):\n%s", diff)
	}
	if len(view.History) != 2 || !view.History[0].Date.Equal(day("2024-01-02")) || view.History[1].TotalVolume != 15 {
		t.Fatalf("history: %+v", view.History)
	}
	if view.Contacts == nil || len(view.Contacts) != 0 {
		t.Fatalf("register starts empty: %#v", view.Contacts)
	}
	if s.State() != constants.StateCustomerSelected {
		t.Fatalf("after customer: %s", s.State())
	}
}

func TestSession_ContactsAreAppendOnlyPerCustomer(t *testing.T) {
	for _, backend := range []constants.RegisterBackend{constants.RegisterBackendMemory, constants.RegisterBackendSQLite} {
		t.Run(string(backend), func(t *testing.T) {
			ctx := context.Background()
			s := newSession(t, testDeps(constants.ContactSourceRegister, backend))
			if _, err := s.Upload(ctx, "ventas.xlsx", salesBook(t)); err != nil {
				t.Fatal(err)
			}
			if _, err := s.SelectProvince("Madrid"); err != nil {
				t.Fatal(err)
			}
			if _, err := s.SelectCustomer(ctx, "C1"); err != nil {
				t.Fatal(err)
			}
			if _, err := s.AddContact(ctx, "Ana", "ana@x.es", "600"); err != nil {
				t.Fatalf("add first: %v", err)
			}
			got, err := s.AddContact(ctx, "Luis", "", "601")
			if err != nil {
				t.Fatalf("add second: %v", err)
			}
			want := []entity.Contact{
				{CustomerID: "C1", Name: "Ana", Email: "ana@x.es", Phone: "600"},
				{CustomerID: "C1", Name: "Luis", Phone: "601"},
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("contacts mismatch (-want +got):\n%s", diff)
			}

			view, err := s.SelectCustomer(ctx, "C2")
			if err != nil {
				t.Fatal(err)
			}
			if len(view.Contacts) != 0 {
				t.Fatalf("C2 must not see C1 contacts: %+v", view.Contacts)
			}

			view, err = s.SelectCustomer(ctx, "C1")
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, view.Contacts); diff != "" {
				t.Fatalf("C1 contacts after reselect (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSession_ProvinceReselectClearsCustomer(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, testDeps("", ""))
	if _, err := s.Upload(ctx, "ventas.xlsx", salesBook(t)); err != nil {
		t.Fatal(err)
	}
	_, _ = s.SelectProvince("Madrid")
	if _, err := s.SelectCustomer(ctx, "C1"); err != nil {
		t.Fatal(err)
	}

	ranking, err := s.SelectProvince("Valencia")
	if err != nil {
		t.Fatal(err)
	}
	if len(ranking) != 0 {
		t.Fatalf("unknown province should be empty: %+v", ranking)
	}
	if s.State() != constants.StateProvinceSelected {
		t.Fatalf("state: %s", s.State())
	}
	if _, err := s.AddContact(ctx, "Ana", "", ""); !errors.Is(err, common.ErrInvalidState) {
		t.Fatalf("customer should be cleared: %v", err)
	}
	if _, err := s.Customer(ctx); !errors.Is(err, common.ErrInvalidState) {
		t.Fatalf("customer view should be gone: %v", err)
	}
}

func TestSession_SelectCustomerOutsideProvince(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, testDeps("", ""))
	if _, err := s.SelectCustomer(ctx, "C1"); !errors.Is(err, common.ErrInvalidState) {
		t.Fatalf("before province: %v", err)
	}
	if _, err := s.Upload(ctx, "ventas.xlsx", salesBook(t)); err != nil {
		t.Fatal(err)
	}
	_, _ = s.SelectProvince("Madrid")

	_, err := s.SelectCustomer(ctx, "C3")
	var nf *query.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if s.State() != constants.StateProvinceSelected {
		t.Fatalf("state should not change: %s", s.State())
	}
}

func TestSession_FailedUploadReturnsToNoData(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, testDeps("", ""))
	if _, err := s.Upload(ctx, "ventas.xlsx", salesBook(t)); err != nil {
		t.Fatal(err)
	}
	_, _ = s.SelectProvince("Madrid")
	_, _ = s.SelectCustomer(ctx, "C1")
	if _, err := s.AddContact(ctx, "Ana", "", ""); err != nil {
		t.Fatal(err)
	}

	noVolume := workbook(t, [][]any{{"cliente", "provincia", "fecha"}, {"C1", "Madrid", "2024-01-01"}})
	_, err := s.Upload(ctx, "otra.xlsx", noVolume)
	var mf *schema.MissingFieldsError
	if !errors.As(err, &mf) || len(mf.Missing) != 1 || mf.Missing[0] != "kw" {
		t.Fatalf("expected missing kw, got %v", err)
	}
	if s.State() != constants.StateNoData {
		t.Fatalf("state: %s", s.State())
	}
	if _, err := s.Provinces(); !errors.Is(err, common.ErrInvalidState) {
		t.Fatalf("dataset should be dropped: %v", err)
	}

	badDate := workbook(t, [][]any{{"cliente", "provincia", "fecha", "kw"}, {"C1", "Madrid", "mañana", 1}})
	_, err = s.Upload(ctx, "mala.xlsx", badDate)
	var de *pipeline.DateParseError
	if !errors.As(err, &de) || s.State() != constants.StateNoData {
		t.Fatalf("expected DateParseError and NoData, got %v / %s", err, s.State())
	}

	// The register outlives datasets within a session.
	if _, err := s.Upload(ctx, "ventas.xlsx", salesBook(t)); err != nil {
		t.Fatal(err)
	}
	_, _ = s.SelectProvince("Madrid")
	view, err := s.SelectCustomer(ctx, "C1")
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Contacts) != 1 || view.Contacts[0].Name != "Ana" {
		t.Fatalf("contacts after re-upload: %+v", view.Contacts)
	}
}

func TestSession_SameFileIsDeduplicated(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, testDeps("", ""))
	book := salesBook(t)
	first, err := s.Upload(ctx, "ventas.xlsx", book)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = s.SelectProvince("Sevilla")

	again, err := s.Upload(ctx, "ventas-copia.xlsx", book)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Deduplicated || again.DatasetID != first.DatasetID {
		t.Fatalf("expected dedup: %+v", again)
	}
	if s.State() != constants.StateProvinceSelected {
		t.Fatalf("dedup should keep the selection: %s", s.State())
	}
}

func TestSession_DatasetContactSource(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, testDeps(constants.ContactSourceDataset, constants.RegisterBackendMemory))
	if _, err := s.Upload(ctx, "ventas.xlsx", salesBook(t)); err != nil {
		t.Fatal(err)
	}
	_, _ = s.SelectProvince("Madrid")
	view, err := s.SelectCustomer(ctx, "C1")
	if err != nil {
		t.Fatal(err)
	}
	want := []entity.Contact{{CustomerID: "C1", Name: "Ana García", Email: "ana@x.es"}}
	if diff := cmp.Diff(want, view.Contacts); diff != "" {
		t.Fatalf("dataset contacts mismatch (-want +got):\n%s", diff)
	}

	got, err := s.AddContact(ctx, "Luis", "", "601")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Name != "Luis" {
		t.Fatalf("entered contacts follow dataset ones: %+v", got)
	}
}

func TestSession_Export(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, testDeps("", ""))
	if _, err := s.Export(ctx); !errors.Is(err, common.ErrInvalidState) {
		t.Fatalf("export before selection: %v", err)
	}
	if _, err := s.Upload(ctx, "ventas.xlsx", salesBook(t)); err != nil {
		t.Fatal(err)
	}
	_, _ = s.SelectProvince("Madrid")
	_, _ = s.SelectCustomer(ctx, "C1")

	b, err := s.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(b) < 4 || string(b[:2]) != "PK" {
		t.Fatalf("export should be a zip-based workbook")
	}
}

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(context.Background(), Deps{}, nil); !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
