package metrics

import (
	"sync/atomic"
	"time"
)

// Collector tracks request and batch counters in-process. No persistence;
// counters reset with the process.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64

	batchesRun       uint64
	payslipsRendered uint64
	payslipsSent     uint64
	sendFailures     uint64
	quotaStops       uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordBatch(rendered, sent, failed int, quotaStopped bool) {
	atomic.AddUint64(&c.batchesRun, 1)
	atomic.AddUint64(&c.payslipsRendered, uint64(rendered))
	atomic.AddUint64(&c.payslipsSent, uint64(sent))
	atomic.AddUint64(&c.sendFailures, uint64(failed))
	if quotaStopped {
		atomic.AddUint64(&c.quotaStops, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":         total,
		"errorsTotal":           atomic.LoadUint64(&c.errorRequests),
		"avgDurationMs":         avg,
		"batchesRunTotal":       atomic.LoadUint64(&c.batchesRun),
		"payslipsRenderedTotal": atomic.LoadUint64(&c.payslipsRendered),
		"payslipsSentTotal":     atomic.LoadUint64(&c.payslipsSent),
		"sendFailuresTotal":     atomic.LoadUint64(&c.sendFailures),
		"quotaStopsTotal":       atomic.LoadUint64(&c.quotaStops),
	}
}
