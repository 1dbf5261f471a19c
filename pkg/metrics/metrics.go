// Package metrics provides Prometheus instruments for the desk scheduling
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for the application
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// UpstreamRequests counts requests to the staffing and calendar providers,
// by source and outcome.
var UpstreamRequests = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "deskcheck",
	Name:      "upstream_requests_total",
	Help:      "Requests made to upstream providers, labeled by source and outcome",
}, []string{"source", "outcome"})

// RecordsSkipped counts raw records dropped because their timestamps could
// not be parsed.
var RecordsSkipped = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "deskcheck",
	Name:      "records_skipped_total",
	Help:      "Raw upstream records skipped as malformed during timeline building",
})

// ConflictsFlagged counts intervals flagged as overlapping another
// commitment on the same person's timeline.
var ConflictsFlagged = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "deskcheck",
	Name:      "conflicts_flagged_total",
	Help:      "Busy intervals flagged as conflicting during aggregation",
})

// BlocksEvaluated counts desk blocks processed by the suggester.
var BlocksEvaluated = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "deskcheck",
	Name:      "blocks_evaluated_total",
	Help:      "Desk blocks evaluated for assignment suggestions",
})

// BlocksUnfillable counts suggester blocks where no group had an eligible
// member.
var BlocksUnfillable = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "deskcheck",
	Name:      "blocks_unfillable_total",
	Help:      "Desk blocks with no eligible staff in any group",
})

// SimulatedAssignments counts simulation picks by strategy and outcome
// (assigned or unfilled).
var SimulatedAssignments = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "deskcheck",
	Name:      "simulated_assignments_total",
	Help:      "Simulation block outcomes, labeled by strategy and outcome",
}, []string{"strategy", "outcome"})
