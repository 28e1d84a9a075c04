package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 实时通道指标
type Metrics struct {
	Connections    prometheus.Gauge
	Participants   prometheus.Gauge
	Events         *prometheus.CounterVec
	Rejected       *prometheus.CounterVec
	PollsCompleted prometheus.Counter
	Dropped        prometheus.Counter
}

// New 创建并注册指标，registerer 为 nil 时不注册
func New(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Number of open live connections",
		}),
		Participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Number of registered participants",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Number of inbound live events processed",
		}, []string{"event"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_answers_total",
			Help:      "Number of answer submissions ignored",
		}, []string{"reason"}),
		PollsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_completed_total",
			Help:      "Number of completion events appended to history",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_connections_total",
			Help:      "Number of connections dropped because their send queue was full",
		}),
	}
	if registerer == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.Connections,
		m.Participants,
		m.Events,
		m.Rejected,
		m.PollsCompleted,
		m.Dropped,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "register metric")
		}
	}
	return m, nil
}
