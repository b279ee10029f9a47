package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveEngineCall_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status string
	}{
		{"success", nil, "ok"},
		{"failure", errors.New("boom"), "error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := testutil.CollectAndCount(EngineCallDuration)
			ObserveEngineCall("count_"+tc.name, time.Now(), tc.err)
			after := testutil.CollectAndCount(EngineCallDuration)
			if after != before+1 {
				t.Fatalf("expected a new series, got %d -> %d", before, after)
			}
		})
	}
}

func TestSRUCounters(t *testing.T) {
	SRURequestsTotal.WithLabelValues("explain", OutcomeOK).Inc()
	if v := testutil.ToFloat64(SRURequestsTotal.WithLabelValues("explain", OutcomeOK)); v < 1 {
		t.Errorf("expected sru_requests_total >= 1, got %f", v)
	}

	SRUDiagnosticsTotal.WithLabelValues("5").Inc()
	if v := testutil.ToFloat64(SRUDiagnosticsTotal.WithLabelValues("5")); v < 1 {
		t.Errorf("expected sru_diagnostics_total >= 1, got %f", v)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	RegisterSRUMetrics()
	RegisterSRUMetrics()
	RegisterEngineMetrics()
	RegisterEngineMetrics()
}
