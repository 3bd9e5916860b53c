package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload results.
const (
	ResultOK           = "ok"
	ResultDeduplicated = "deduplicated"
	ResultInvalidFile  = "invalid_file"
	ResultMissing      = "missing_fields"
	ResultBadValue     = "bad_value"
	ResultError        = "error"
)

type Registry struct {
	reg            *prometheus.Registry
	Uploads        *prometheus.CounterVec
	PipelineSec    prometheus.Histogram
	DatasetRows    prometheus.Histogram
	SessionsActive prometheus.Gauge
	ContactsAdded  prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_uploads_total",
		Help: "Spreadsheet uploads by result.",
	}, []string{"result"})
	pipelineSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sales_pipeline_duration_seconds",
		Help:    "Time from upload to aggregated dataset.",
		Buckets: prometheus.DefBuckets,
	})
	rows := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sales_dataset_rows",
		Help:    "Data rows per accepted spreadsheet.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	})
	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sales_sessions_active",
		Help: "Open reporting sessions.",
	})
	contacts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_contacts_added_total",
		Help: "Contacts entered into session registers.",
	})

	r.MustRegister(uploads, pipelineSec, rows, active, contacts)
	return &Registry{
		reg:            r,
		Uploads:        uploads,
		PipelineSec:    pipelineSec,
		DatasetRows:    rows,
		SessionsActive: active,
		ContactsAdded:  contacts,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// The helpers below accept a nil receiver so callers can run without metrics.

func (r *Registry) ObserveUpload(result string, elapsed time.Duration, rows int) {
	if r == nil {
		return
	}
	r.Uploads.WithLabelValues(result).Inc()
	if result == ResultOK {
		r.PipelineSec.Observe(elapsed.Seconds())
		r.DatasetRows.Observe(float64(rows))
	}
}

func (r *Registry) SessionOpened() {
	if r != nil {
		r.SessionsActive.Inc()
	}
}

func (r *Registry) SessionClosed() {
	if r != nil {
		r.SessionsActive.Dec()
	}
}

func (r *Registry) ContactAdded() {
	if r != nil {
		r.ContactsAdded.Inc()
	}
}
