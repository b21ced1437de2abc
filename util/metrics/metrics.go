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

// Package metrics holds the prometheus collectors of the node and the
// registry they are exposed from.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricName describes the name and description of a single metric
type MetricName struct {
	Name        string
	Description string
}

var (
	// LedgerRound Last round written to ledger
	LedgerRound = MetricName{Name: "sysgov_ledger_round", Description: "Last round written to ledger"}
	// LedgerActionsTotal Total number of actions applied to the ledger
	LedgerActionsTotal = MetricName{Name: "sysgov_ledger_actions_total", Description: "Total number of actions applied to the ledger"}
	// LedgerActionsRejectedTotal Total number of actions rejected, by error kind
	LedgerActionsRejectedTotal = MetricName{Name: "sysgov_ledger_actions_rejected_total", Description: "Total number of actions rejected by the ledger"}
	// LedgerBlockApplySeconds Time spent applying and committing a block
	LedgerBlockApplySeconds = MetricName{Name: "sysgov_ledger_block_apply_seconds", Description: "Time spent applying and committing a block"}
	// LedgerTotalActivatedStake Stake of voters that have cast a vote
	LedgerTotalActivatedStake = MetricName{Name: "sysgov_ledger_total_activated_stake", Description: "Core token stake of voters that have voted"}
	// LedgerTotalProducerVoteWeight Sum of all producer votes
	LedgerTotalProducerVoteWeight = MetricName{Name: "sysgov_ledger_total_producer_vote_weight", Description: "Sum of the total votes of all producers"}
	// LedgerScheduleVersion Version of the last proposed schedule
	LedgerScheduleVersion = MetricName{Name: "sysgov_ledger_schedule_version", Description: "Version of the last proposed producer schedule"}
	// APIRequestsTotal Total number of REST requests, by route and status
	APIRequestsTotal = MetricName{Name: "sysgov_api_requests_total", Description: "Total number of REST API requests"}
)

// Registry is a prometheus registry. The zero value is not usable.
type Registry struct {
	reg *prometheus.Registry
}

var defaultRegistry = MakeRegistry()

// DefaultRegistry returns the process-wide registry, which also carries the
// Go runtime and process collectors.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// MakeRegistry creates a registry with the runtime collectors attached.
func MakeRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Registry{reg: reg}
}

// Register adds c; a collector with the same name already present is
// replaced.
func (r *Registry) Register(c prometheus.Collector) {
	if err := r.reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			r.reg.Unregister(are.ExistingCollector)
			r.reg.MustRegister(c)
			return
		}
		panic(err)
	}
}

// Deregister removes c.
func (r *Registry) Deregister(c prometheus.Collector) {
	r.reg.Unregister(c)
}

// Gatherer exposes the registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
