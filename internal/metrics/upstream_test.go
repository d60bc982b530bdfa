package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterUpstreamMetrics_Idempotent(t *testing.T) {
	RegisterUpstreamMetrics()
	RegisterUpstreamMetrics()
}

func TestUpstreamMetrics_Record(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("ok"))
	UpstreamRequestsTotal.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("ok")); got != before+1 {
		t.Errorf("upstream_requests_total = %f, want %f", got, before+1)
	}

	SchemaFields.WithLabelValues("INTEGER").Set(3)
	if got := testutil.ToFloat64(SchemaFields.WithLabelValues("INTEGER")); got != 3 {
		t.Errorf("schema_fields = %f, want 3", got)
	}
}
