package vault

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gitlite/internal/vcs"
)

var operationCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gitlite_vault_operations_total",
		Help: "Vault operations by vault, operation and result.",
	},
	[]string{"vault", "operation", "result"},
)

var operationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "gitlite_vault_operation_duration_seconds",
		Help: "Vault operation latency.",
	},
	[]string{"vault", "operation"},
)

// MetricsVault records a counter and a latency histogram per operation.
type MetricsVault struct {
	vcs.Vault
	name string
}

// NewMetricsVault instruments inner under the given vault label.
func NewMetricsVault(name string, inner vcs.Vault) *MetricsVault {
	return &MetricsVault{Vault: inner, name: name}
}

func (m *MetricsVault) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrContentNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	operationCounter.WithLabelValues(m.name, op, result).Inc()
	operationDuration.WithLabelValues(m.name, op).Observe(time.Since(start).Seconds())
}

func (m *MetricsVault) PutContent(ctx context.Context, checksum string, r io.Reader, size int64) (err error) {
	start := time.Now()
	defer func() { m.observe("put", start, err) }()
	return m.Vault.PutContent(ctx, checksum, r, size)
}

func (m *MetricsVault) GetContent(ctx context.Context, checksum string, w io.Writer) (err error) {
	start := time.Now()
	defer func() { m.observe("get", start, err) }()
	return m.Vault.GetContent(ctx, checksum, w)
}

var _ vcs.Vault = (*MetricsVault)(nil)
