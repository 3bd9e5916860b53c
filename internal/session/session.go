// Package session implements one user's walk through a report: upload a spreadsheet, pick a
// province, pick a customer, take notes. A session owns its dataset and contact register.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/sales-tracker/constants"
	"github.com/joseph-ayodele/sales-tracker/internal/common"
	"github.com/joseph-ayodele/sales-tracker/internal/contacts"
	"github.com/joseph-ayodele/sales-tracker/internal/entity"
	"github.com/joseph-ayodele/sales-tracker/internal/export"
	"github.com/joseph-ayodele/sales-tracker/internal/ingest"
	"github.com/joseph-ayodele/sales-tracker/internal/metrics"
	"github.com/joseph-ayodele/sales-tracker/internal/pipeline"
	"github.com/joseph-ayodele/sales-tracker/internal/query"
	"github.com/joseph-ayodele/sales-tracker/internal/schema"
)

// Deps are the collaborators a session needs. Metrics may be nil.
type Deps struct {
	Ingestor        ingest.Ingestor
	Processor       *pipeline.Processor
	Exporter        *export.Service
	Metrics         *metrics.Registry
	ContactSource   constants.ContactSource
	RegisterBackend constants.RegisterBackend
}

// UploadResult describes the dataset now loaded in the session.
type UploadResult struct {
	DatasetID    string
	Filename     string
	Deduplicated bool
	Rows         int
	Transactions int
	Summaries    int
	Provinces    []string
}

// CustomerView is everything shown once a customer is selected.
type CustomerView struct {
	Card     entity.CustomerCard
	History  []entity.Transaction
	Contacts []entity.Contact
}

type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	state    constants.SessionState
	dataset  *pipeline.Dataset
	provs    []string
	province string
	ranking  []entity.CustomerSummary
	customer *entity.CustomerSummary
	lastUsed time.Time

	deps     Deps
	register contacts.Register
	logger   *slog.Logger
}

// New opens a session with an empty contact register.
func New(ctx context.Context, deps Deps, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Ingestor == nil || deps.Processor == nil {
		return nil, common.NewAppError(common.CodeSession, "ingestor and processor are required", common.ErrInvalidInput)
	}
	if deps.Exporter == nil {
		deps.Exporter = export.NewService(logger)
	}
	if deps.ContactSource == "" {
		deps.ContactSource = constants.ContactSourceRegister
	}
	reg, err := contacts.New(ctx, deps.RegisterBackend, logger)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		CreatedAt: now,
		state:     constants.StateNoData,
		lastUsed:  now,
		deps:      deps,
		register:  reg,
		logger:    logger.With("session_id", id),
	}, nil
}

// State returns the current interaction state.
func (s *Session) State() constants.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastUsed is the time of the most recent call on the session.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Upload ingests uploaded spreadsheet bytes.
func (s *Session) Upload(ctx context.Context, filename string, content []byte) (UploadResult, error) {
	return s.load(ctx, func() (ingest.IngestionResult, error) {
		return s.deps.Ingestor.IngestBytes(ctx, filename, content)
	})
}

// UploadPath ingests a spreadsheet from disk.
func (s *Session) UploadPath(ctx context.Context, path string) (UploadResult, error) {
	return s.load(ctx, func() (ingest.IngestionResult, error) {
		return s.deps.Ingestor.IngestPath(ctx, path)
	})
}

func (s *Session) load(ctx context.Context, read func() (ingest.IngestionResult, error)) (UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	start := time.Now()

	res, err := read()
	if err != nil {
		s.reset()
		s.deps.Metrics.ObserveUpload(metrics.ResultInvalidFile, time.Since(start), 0)
		s.logger.Warn("session.upload.failed", "stage", "ingest", "err", err)
		return UploadResult{}, err
	}

	if s.dataset != nil && s.dataset.ID == res.HashHex {
		s.deps.Metrics.ObserveUpload(metrics.ResultDeduplicated, time.Since(start), 0)
		s.logger.Info("session.upload.deduplicated", "dataset_id", res.HashHex)
		out := s.uploadResult()
		out.Deduplicated = true
		return out, nil
	}

	s.reset()
	cols, err := s.deps.Processor.Validate(res.Sheet.Headers)
	if err != nil {
		s.deps.Metrics.ObserveUpload(resultFor(err), time.Since(start), 0)
		return UploadResult{}, err
	}
	s.state = constants.StateValidated

	ds, err := s.deps.Processor.Aggregate(ctx, cols, res.Sheet.Records)
	if err != nil {
		s.reset()
		s.deps.Metrics.ObserveUpload(resultFor(err), time.Since(start), 0)
		return UploadResult{}, err
	}
	ds.ID = res.HashHex
	ds.Source = res.Filename

	s.dataset = ds
	s.provs = query.Provinces(ds.Summaries)
	s.state = constants.StateAggregated

	s.deps.Metrics.ObserveUpload(metrics.ResultOK, time.Since(start), len(ds.Records))
	s.logger.Info("session.upload.ok",
		"dataset_id", ds.ID,
		"filename", ds.Source,
		"rows", len(ds.Records),
		"provinces", len(s.provs),
	)
	return s.uploadResult(), nil
}

func resultFor(err error) string {
	var mf *schema.MissingFieldsError
	var de *pipeline.DateParseError
	var ce *pipeline.TypeCoercionError
	switch {
	case errors.As(err, &mf):
		return metrics.ResultMissing
	case errors.As(err, &de), errors.As(err, &ce):
		return metrics.ResultBadValue
	}
	return metrics.ResultError
}

func (s *Session) uploadResult() UploadResult {
	return UploadResult{
		DatasetID:    s.dataset.ID,
		Filename:     s.dataset.Source,
		Rows:         len(s.dataset.Records),
		Transactions: len(s.dataset.Transactions),
		Summaries:    len(s.dataset.Summaries),
		Provinces:    append([]string(nil), s.provs...),
	}
}

// reset drops the dataset and any selection. The contact register survives.
func (s *Session) reset() {
	s.state = constants.StateNoData
	s.dataset = nil
	s.provs = nil
	s.clearProvince()
}

func (s *Session) clearProvince() {
	s.province = ""
	s.ranking = nil
	s.customer = nil
}

func (s *Session) touch() {
	s.lastUsed = time.Now().UTC()
}

func (s *Session) requireAggregated() error {
	if s.dataset == nil {
		return fmt.Errorf("%w: no dataset loaded", common.ErrInvalidState)
	}
	return nil
}

// Provinces returns the selection domain of the loaded dataset.
func (s *Session) Provinces() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err := s.requireAggregated(); err != nil {
		return nil, err
	}
	return append([]string(nil), s.provs...), nil
}

// Summaries returns the full ranking across provinces.
func (s *Session) Summaries() ([]entity.CustomerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err := s.requireAggregated(); err != nil {
		return nil, err
	}
	return append([]entity.CustomerSummary(nil), s.dataset.Summaries...), nil
}

// SelectProvince filters the ranking to one province and clears any selected customer.
// A province with no customers yields an empty ranking.
func (s *Session) SelectProvince(province string) ([]entity.CustomerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err := s.requireAggregated(); err != nil {
		return nil, err
	}
	s.clearProvince()
	s.province = province
	s.ranking = query.FilterByProvince(s.dataset.Summaries, province)
	s.state = constants.StateProvinceSelected
	s.logger.Debug("session.province.selected", "province", province, "customers", len(s.ranking))
	return append([]entity.CustomerSummary(nil), s.ranking...), nil
}

// SelectCustomer picks a customer from the current province ranking. An unknown customer is a
// *query.NotFoundError and leaves the state unchanged.
func (s *Session) SelectCustomer(ctx context.Context, customerID string) (CustomerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.state != constants.StateProvinceSelected && s.state != constants.StateCustomerSelected {
		return CustomerView{}, fmt.Errorf("%w: select a province first", common.ErrInvalidState)
	}
	sum, err := query.FilterByCustomer(s.ranking, customerID)
	if err != nil {
		return CustomerView{}, err
	}
	view, err := s.view(ctx, sum)
	if err != nil {
		return CustomerView{}, err
	}
	s.customer = &sum
	s.state = constants.StateCustomerSelected
	return view, nil
}

// Customer returns the view of the selected customer.
func (s *Session) Customer(ctx context.Context) (CustomerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.customer == nil {
		return CustomerView{}, fmt.Errorf("%w: no customer selected", common.ErrInvalidState)
	}
	return s.view(ctx, *s.customer)
}

func (s *Session) view(ctx context.Context, sum entity.CustomerSummary) (CustomerView, error) {
	cs, err := query.ContactsFor(ctx, sum.CustomerID, s.contactSource())
	if err != nil {
		return CustomerView{}, err
	}
	return CustomerView{
		Card:     query.Card(sum),
		History:  query.History(s.dataset.Transactions, sum.CustomerID),
		Contacts: cs,
	}, nil
}

func (s *Session) contactSource() query.ContactSource {
	entered := query.NewRegisterContacts(s.register)
	if s.deps.ContactSource == constants.ContactSourceDataset {
		return query.ChainContacts(query.NewDatasetContacts(s.dataset.Records), entered)
	}
	return entered
}

// AddContact appends a contact for the selected customer and returns the customer's contacts.
func (s *Session) AddContact(ctx context.Context, name, email, phone string) ([]entity.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.customer == nil {
		return nil, fmt.Errorf("%w: select a customer before adding contacts", common.ErrInvalidState)
	}
	c := entity.Contact{CustomerID: s.customer.CustomerID, Name: name, Email: email, Phone: phone}
	if err := s.register.Add(ctx, c); err != nil {
		return nil, err
	}
	s.deps.Metrics.ContactAdded()
	s.logger.Info("session.contact.added", "customer_id", c.CustomerID)
	return query.ContactsFor(ctx, c.CustomerID, s.contactSource())
}

// Export renders the current view as an XLSX workbook.
func (s *Session) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.state != constants.StateProvinceSelected && s.state != constants.StateCustomerSelected {
		return nil, fmt.Errorf("%w: select a province first", common.ErrInvalidState)
	}
	rep := export.Report{
		Source:   s.dataset.Source,
		Province: s.province,
		Ranking:  s.ranking,
	}
	if s.customer != nil {
		view, err := s.view(ctx, *s.customer)
		if err != nil {
			return nil, err
		}
		rep.Customer = &view.Card
		rep.History = view.History
		rep.Contacts = view.Contacts
	}
	return s.deps.Exporter.ReportXLSX(ctx, rep)
}

// Close releases the contact register. Its contents are gone afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return s.register.Close()
}
