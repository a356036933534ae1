// Package perf exposes counters and histograms for the running simulation,
// following the same expvar-backed metric library and naming style as the
// rest of this codebase's own dispatch-latency instrumentation. None of
// this is required for correctness — spec.md explicitly excludes timing
// and queueing from the simulated data plane — it is ambient observability
// for a host process embedding the engine.
package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	// MessagesInFlight tracks transport.Activity's InFlight counter.
	MessagesInFlight = metric.NewCounter("10s1s")
	// PendingResolutions tracks transport.Activity's Pending counter
	// (parked ARP resolutions plus live spanning-tree convergence timers).
	PendingResolutions = metric.NewCounter("10s1s")
	// DispatchLatency is published as the histogram for how long actor
	// dispatch closures take to run, in microseconds. Nothing in this
	// module records into it; actor.Core does not time its closures.
	DispatchLatency = metric.NewHistogram("1m1s")
	// QuiescenceRounds is published as the histogram for how many
	// settle-loop samples WaitQuiescence takes. Nothing in this module
	// records into it; WaitQuiescence does not count its samples.
	QuiescenceRounds = metric.NewHistogram("10s1s")
)

func init() {
	http.Handle("/debug/netsim-metrics", metric.Handler(metric.Exposed))
	expvar.Publish("netsim:MessagesInFlight", MessagesInFlight)
	expvar.Publish("netsim:PendingResolutions", PendingResolutions)
	expvar.Publish("netsim:DispatchLatency (µs)", DispatchLatency)
	expvar.Publish("netsim:QuiescenceRounds", QuiescenceRounds)
}
