// Package metered wraps stream buffers with Prometheus counters.
//
// A Buffer forwards every call to the buffer it wraps unchanged and records
// the outcome in streambuf_operations_total, labelled by buffer name,
// operation (put, get, sync, seek) and result (ok, eof, error).
package metered

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Deadbeetle/helper-streambufs/pkg/streambuf"
)

// Operation results used as the "result" label.
const (
	ResultOK    = "ok"
	ResultEOF   = "eof"
	ResultError = "error"
)

// Metrics holds the collectors shared by every metered Buffer.
type Metrics struct {
	ops *prometheus.CounterVec

	// own holds only ops, for Count.
	own *prometheus.Registry
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streambuf",
			Name:      "operations_total",
			Help:      "Stream buffer operations by buffer, operation and result.",
		}, []string{"buffer", "op", "result"}),
	}
	m.own = prometheus.NewRegistry()
	m.own.MustRegister(m.ops)
	if reg != nil {
		if err := reg.Register(m.ops); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Count returns the current counter value for one label combination, or 0
// if it was never observed. It does not create the series.
func (m *Metrics) Count(buffer, op, result string) float64 {
	samples, err := Snapshot(m.own)
	if err != nil {
		return 0
	}
	for _, s := range samples {
		if s.Buffer == buffer && s.Op == op && s.Result == result {
			return s.Count
		}
	}
	return 0
}

// Sample is one counter value read back from a Gatherer.
type Sample struct {
	Buffer string  `json:"buffer" yaml:"buffer"`
	Op     string  `json:"op" yaml:"op"`
	Result string  `json:"result" yaml:"result"`
	Count  float64 `json:"count" yaml:"count"`
}

// Snapshot gathers the operation counters from g.
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	var samples []Sample
	for _, mf := range families {
		if mf.GetName() != "streambuf_operations_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			s := Sample{Count: metric.GetCounter().GetValue()}
			for _, lp := range metric.GetLabel() {
				switch lp.GetName() {
				case "buffer":
					s.Buffer = lp.GetValue()
				case "op":
					s.Op = lp.GetValue()
				case "result":
					s.Result = lp.GetValue()
				}
			}
			samples = append(samples, s)
		}
	}
	return samples, nil
}

func (m *Metrics) observe(buffer, op string, err error) {
	result := ResultOK
	switch {
	case err == io.EOF:
		result = ResultEOF
	case err != nil:
		result = ResultError
	}
	m.ops.WithLabelValues(buffer, op, result).Inc()
}

// Buffer is a StreamBuffer that counts the calls it forwards.
type Buffer[C streambuf.Char] struct {
	sb      streambuf.StreamBuffer[C]
	name    string
	metrics *Metrics
}

var _ streambuf.StreamBuffer[byte] = (*Buffer[byte])(nil)

// New wraps sb. name becomes the "buffer" label.
func New[C streambuf.Char](sb streambuf.StreamBuffer[C], name string, m *Metrics) *Buffer[C] {
	return &Buffer[C]{sb: sb, name: name, metrics: m}
}

// Name returns the buffer label.
func (b *Buffer[C]) Name() string {
	return b.name
}

func (b *Buffer[C]) Put(c C) (C, error) {
	v, err := b.sb.Put(c)
	b.metrics.observe(b.name, "put", err)
	return v, err
}

func (b *Buffer[C]) Get() (C, error) {
	v, err := b.sb.Get()
	b.metrics.observe(b.name, "get", err)
	return v, err
}

func (b *Buffer[C]) Sync() error {
	err := b.sb.Sync()
	b.metrics.observe(b.name, "sync", err)
	return err
}

func (b *Buffer[C]) SeekRelative(offset int64, origin streambuf.Origin) (int64, error) {
	pos, err := b.sb.SeekRelative(offset, origin)
	b.metrics.observe(b.name, "seek", err)
	return pos, err
}

func (b *Buffer[C]) SeekAbsolute(pos int64) (int64, error) {
	p, err := b.sb.SeekAbsolute(pos)
	b.metrics.observe(b.name, "seek", err)
	return p, err
}
