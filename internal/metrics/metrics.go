package metrics

import (
	"time"

	"github.com/google/trillian/monitoring"
	"github.com/google/trillian/monitoring/prometheus"
)

// TODO: Make these members of a relayMetrics struct, rather than
// global variables.
var (
	sthFetches  monitoring.Counter   // sth fetch attempts per log
	treeSize    monitoring.Gauge     // verified tree size per log
	entries     monitoring.Counter   // entries decoded and enqueued
	submissions monitoring.Counter   // delivery outcomes
	retries     monitoring.Counter   // transient delivery failures
	queueDepth  monitoring.Gauge     // transactions awaiting delivery
	alerts      monitoring.Counter   // operator-visible failures
	cycles      monitoring.Histogram // monitor cycle latency
)

func init() {
	mf := prometheus.MetricFactory{Prefix: "ctrelay_"}
	sthFetches = mf.NewCounter("sth_fetches", "number of sth fetch attempts", "logid", "status")
	treeSize = mf.NewGauge("tree_size", "verified tree size", "logid")
	entries = mf.NewCounter("entries_processed", "number of log entries processed", "logid", "kind")
	submissions = mf.NewCounter("submissions", "number of delivered submissions", "logid", "outcome")
	retries = mf.NewCounter("submission_retries", "number of retried submissions", "logid")
	queueDepth = mf.NewGauge("queue_depth", "number of transactions awaiting delivery", "logid")
	alerts = mf.NewCounter("alerts", "number of operator-visible failures", "logid", "reason")
	// Cycles include entry and proof fetches for a whole tree
	// extension, so the buckets run from 10ms to 10 minutes.
	buckets := []float64{0.01, 0.03, 0.1, 0.3, 1, 3, 10, 30, 60, 120, 300, 600}
	cycles = mf.NewHistogramWithBuckets("cycle_latency", "monitor cycle latency in seconds",
		buckets, "logid")
}

func STHFetch(logID, status string) {
	sthFetches.Inc(logID, status)
}

func SetTreeSize(logID string, size uint64) {
	treeSize.Set(float64(size), logID)
}

func EntryProcessed(logID, kind string) {
	entries.Inc(logID, kind)
}

func Submission(logID, outcome string) {
	submissions.Inc(logID, outcome)
}

func Retry(logID string) {
	retries.Inc(logID)
}

func SetQueueDepth(logID string, n int) {
	queueDepth.Set(float64(n), logID)
}

func Alert(logID, reason string) {
	alerts.Inc(logID, reason)
}

func ObserveCycle(logID string, d time.Duration) {
	cycles.Observe(d.Seconds(), logID)
}
