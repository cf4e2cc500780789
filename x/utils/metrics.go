package utils

import (
	"context"
	"strconv"
	"time"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts handled calls by message path and
// result code, and observes how long the deliver calls take.
type Metrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

var _ tst.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors with
// given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tst",
			Name:      "calls_total",
			Help:      "Number of handled calls by phase, message path and result code.",
		}, []string{"phase", "path", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tst",
			Name:      "deliver_duration_seconds",
			Help:      "Duration of deliver calls by message path.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"path"}),
	}
	for _, c := range []prometheus.Collector{m.calls, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(errors.ErrDuplicate, "register collector: %s", err)
		}
	}
	return m, nil
}

// Check counts the call.
func (m *Metrics) Check(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Checker) (*tst.CheckResult, error) {
	res, err := next.Check(ctx, db, tx)
	m.calls.WithLabelValues("check", tst.GetPath(tx), code(err)).Inc()
	return res, err
}

// Deliver counts the call and observes its duration.
func (m *Metrics) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Deliverer) (*tst.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	path := tst.GetPath(tx)
	m.latency.WithLabelValues(path).Observe(time.Since(start).Seconds())
	m.calls.WithLabelValues("deliver", path, code(err)).Inc()
	return res, err
}

func code(err error) string {
	return strconv.FormatUint(uint64(errors.Code(err)), 10)
}
