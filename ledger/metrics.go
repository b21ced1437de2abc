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

package ledger

import (
	"time"

	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger/ledgercore"
	"github.com/sysgov/go-sysgov/util/metrics"
)

type metricsTracker struct {
	round          *metrics.Gauge
	actions        *metrics.Counter
	rejected       *metrics.Counter
	applySeconds   *metrics.Histogram
	activatedStake *metrics.Gauge
	voteWeight     *metrics.Gauge
	schedVersion   *metrics.Gauge
}

func makeMetricsTracker(reg *metrics.Registry) *metricsTracker {
	return &metricsTracker{
		round:          metrics.MakeGauge(metrics.LedgerRound, reg),
		actions:        metrics.MakeCounter(metrics.LedgerActionsTotal, reg, "type"),
		rejected:       metrics.MakeCounter(metrics.LedgerActionsRejectedTotal, reg, "kind"),
		applySeconds:   metrics.MakeHistogram(metrics.LedgerBlockApplySeconds, reg),
		activatedStake: metrics.MakeGauge(metrics.LedgerTotalActivatedStake, reg),
		voteWeight:     metrics.MakeGauge(metrics.LedgerTotalProducerVoteWeight, reg),
		schedVersion:   metrics.MakeGauge(metrics.LedgerScheduleVersion, reg),
	}
}

func (mt *metricsTracker) close() {
	mt.round.Deregister()
	mt.actions.Deregister()
	mt.rejected.Deregister()
	mt.applySeconds.Deregister()
	mt.activatedStake.Deregister()
	mt.voteWeight.Deregister()
	mt.schedVersion.Deregister()
}

func (mt *metricsTracker) newBlock(blk bookkeeping.Block, receipts []ledgercore.Receipt, delta ledgercore.StateDelta, elapsed time.Duration) {
	mt.round.Set(float64(blk.Round))
	mt.applySeconds.Observe(elapsed.Seconds())
	for _, r := range receipts {
		if r.Applied {
			mt.actions.Inc(string(r.Type))
		} else {
			mt.rejected.Inc(r.Kind)
		}
	}
	if delta.Global != nil {
		mt.activatedStake.Set(float64(delta.Global.TotalActivatedStake))
		mt.voteWeight.Set(delta.Global.TotalProducerVoteWeight)
	}
	if delta.Schedule != nil {
		mt.schedVersion.Set(float64(delta.Schedule.Version))
	}
}
