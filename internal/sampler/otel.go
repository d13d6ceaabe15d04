package sampler

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/partseed/partseed/internal/sampler"

// Counters use the global OTel meter and are no-ops unless an SDK is
// installed by the host process.
var (
	candidatesDrawn metric.Int64Counter
	candidatesKept  metric.Int64Counter
)

func init() {
	m := otel.Meter(instrumentationName)

	candidatesDrawn, _ = m.Int64Counter(
		"partseed.sampler.candidates_drawn",
		metric.WithDescription("Rejection-sampling candidates drawn"),
	)
	candidatesKept, _ = m.Int64Counter(
		"partseed.sampler.candidates_kept",
		metric.WithDescription("Rejection-sampling candidates accepted"),
	)
}
