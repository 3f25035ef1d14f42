package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg, reg)

	r.RecordStreamOutcome("timeout", 25)
	r.RecordStreamOutcome("timeout", 25)
	r.RecordStreamOutcome("replied", 1.2)
	r.RecordSignalComposed(3)
	r.RecordOnboardingStep("wallet_address", "invalid")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.streamOutcomes.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.streamOutcomes.WithLabelValues("replied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.signalsComposed.WithLabelValues("3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.onboardingSteps.WithLabelValues("wallet_address", "invalid")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordStreamOutcome("error", 1)
		r.RecordSignalComposed(1)
		r.RecordOnboardingStep("age", "accepted")
		r.RecordHTTPRequest("/health", "GET", 200, 0.01)
	})
	assert.NotNil(t, r.Handler())
}
