package wallet

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

type metrics struct {
	operations *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keywallet",
		Name:      "operations_total",
		Help:      "Wallet operations by name and result.",
	}, []string{"operation", "result"})

	if reg != nil {
		if err := reg.Register(operations); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, err
			}
			existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, err
			}
			operations = existing
		}
	}
	return &metrics{operations: operations}, nil
}

func (m *metrics) observe(operation string, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.operations.WithLabelValues(operation, result).Inc()
}
