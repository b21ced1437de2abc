// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-sysgov
//
// go-sysgov is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-sysgov is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-sysgov.  If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Counter represent a single counter variable, optionally split by labels.
type Counter struct {
	vec *prometheus.CounterVec
	reg *Registry
}

// MakeCounter create a new counter with the provided name and description,
// registered with reg, or the default registry when reg is nil.
func MakeCounter(metric MetricName, reg *Registry, labels ...string) *Counter {
	if reg == nil {
		reg = DefaultRegistry()
	}
	c := &Counter{
		vec: prometheus.NewCounterVec(prometheus.CounterOpts{Name: metric.Name, Help: metric.Description}, labels),
		reg: reg,
	}
	reg.Register(c.vec)
	return c
}

// Inc increases the counter by one.
func (counter *Counter) Inc(labelValues ...string) {
	counter.vec.WithLabelValues(labelValues...).Inc()
}

// AddUint64 increases the counter by x.
func (counter *Counter) AddUint64(x uint64, labelValues ...string) {
	counter.vec.WithLabelValues(labelValues...).Add(float64(x))
}

// Deregister removes the counter from its registry.
func (counter *Counter) Deregister() {
	counter.reg.Deregister(counter.vec)
}

// Gauge represent a single gauge variable.
type Gauge struct {
	G   prometheus.Gauge
	reg *Registry
}

// MakeGauge create a new gauge with the provided name and description.
func MakeGauge(metric MetricName, reg *Registry) *Gauge {
	if reg == nil {
		reg = DefaultRegistry()
	}
	g := &Gauge{
		G:   prometheus.NewGauge(prometheus.GaugeOpts{Name: metric.Name, Help: metric.Description}),
		reg: reg,
	}
	reg.Register(g.G)
	return g
}

// Set sets the value of the gauge.
func (gauge *Gauge) Set(x float64) {
	gauge.G.Set(x)
}

// Deregister removes the gauge from its registry.
func (gauge *Gauge) Deregister() {
	gauge.reg.Deregister(gauge.G)
}

// Histogram observes durations or sizes.
type Histogram struct {
	h   prometheus.Histogram
	reg *Registry
}

// MakeHistogram creates a histogram with the default prometheus buckets.
func MakeHistogram(metric MetricName, reg *Registry) *Histogram {
	if reg == nil {
		reg = DefaultRegistry()
	}
	h := &Histogram{
		h:   prometheus.NewHistogram(prometheus.HistogramOpts{Name: metric.Name, Help: metric.Description, Buckets: prometheus.DefBuckets}),
		reg: reg,
	}
	reg.Register(h.h)
	return h
}

// Observe records one value.
func (h *Histogram) Observe(x float64) {
	h.h.Observe(x)
}

// Deregister removes the histogram from its registry.
func (h *Histogram) Deregister() {
	h.reg.Deregister(h.h)
}
