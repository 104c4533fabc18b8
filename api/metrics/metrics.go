// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Registerer is an interface for registering prometheus metrics
type Registerer interface {
	prometheus.Registerer
}

// Registry is an interface for prometheus registry
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// NewRegistry creates a new prometheus registry
func NewRegistry() Registry {
	return prometheus.NewRegistry()
}

// MultiGatherer is a prometheus gatherer that can gather metrics from multiple sources
type MultiGatherer interface {
	prometheus.Gatherer
	
	// Register adds a new gatherer to this multi-gatherer
	Register(string, prometheus.Gatherer) error
}

// multiGatherer implements MultiGatherer
type multiGatherer struct {
	gatherers map[string]prometheus.Gatherer
}

// NewMultiGatherer creates a new multi-gatherer
func NewMultiGatherer() MultiGatherer {
	return &multiGatherer{
		gatherers: make(map[string]prometheus.Gatherer),
	}
}

// Register adds a new gatherer
func (mg *multiGatherer) Register(name string, gatherer prometheus.Gatherer) error {
	mg.gatherers[name] = gatherer
	return nil
}

// Gather implements prometheus.Gatherer
func (mg *multiGatherer) Gather() ([]*dto.MetricFamily, error) {
	var result []*dto.MetricFamily
	for _, g := range mg.gatherers {
		metrics, err := g.Gather()
		if err != nil {
			return nil, err
		}
		result = append(result, metrics...)
	}
	return result, nil
}

// Metrics is the interface for a node's packet-forwarding metrics.
type Metrics interface {
	// PacketsForwarded tracks the number of packets this node has
	// forwarded (as opposed to locally delivered).
	PacketsForwarded() prometheus.Counter

	// DeliverySuccess tracks packets the node confirmed as delivered.
	DeliverySuccess() prometheus.Counter

	// DeliveryFailure tracks forwarding attempts that failed.
	DeliveryFailure() prometheus.Counter
}

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string, registerer prometheus.Registerer) (Metrics, error) {
	m := &metrics{
		forwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_forwarded",
			Help:      "Number of packets forwarded",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_success",
			Help:      "Number of successful deliveries",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_failure",
			Help:      "Number of failed deliveries",
		}),
	}

	if err := registerer.Register(m.forwarded); err != nil {
		return nil, err
	}
	if err := registerer.Register(m.delivered); err != nil {
		return nil, err
	}
	if err := registerer.Register(m.failed); err != nil {
		return nil, err
	}

	return m, nil
}

type metrics struct {
	forwarded prometheus.Counter
	delivered prometheus.Counter
	failed    prometheus.Counter
}

func (m *metrics) PacketsForwarded() prometheus.Counter {
	return m.forwarded
}

func (m *metrics) DeliverySuccess() prometheus.Counter {
	return m.delivered
}

func (m *metrics) DeliveryFailure() prometheus.Counter {
	return m.failed
}