package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Singleton(t *testing.T) {
	if New() != New() {
		t.Fatal("New() should return the same collector")
	}
}

func TestMetrics_RecordGatewayCall(t *testing.T) {
	m := New()
	before := testutil.ToFloat64(m.gatewayCalls.WithLabelValues(OpCreate, "error"))

	m.RecordGatewayCall(OpCreate, errors.New("boom"), 20*time.Millisecond)
	m.RecordGatewayCall(OpCreate, nil, 10*time.Millisecond)

	got := testutil.ToFloat64(m.gatewayCalls.WithLabelValues(OpCreate, "error"))
	if got != before+1 {
		t.Errorf("create/error = %v, want %v", got, before+1)
	}
}

func TestMetrics_RecordSubmission(t *testing.T) {
	m := New()
	before := testutil.ToFloat64(m.submissions.WithLabelValues("unknown"))
	m.RecordSubmission("")
	if got := testutil.ToFloat64(m.submissions.WithLabelValues("unknown")); got != before+1 {
		t.Errorf("unknown = %v, want %v", got, before+1)
	}
}

func TestMetrics_Sessions(t *testing.T) {
	m := New()
	m.UpdateSessions(3)
	if got := testutil.ToFloat64(m.sessionsActive); got != 3 {
		t.Errorf("sessions = %v, want 3", got)
	}

	before := testutil.ToFloat64(m.sessionsEvicted)
	m.RecordEviction(0)
	m.RecordEviction(2)
	if got := testutil.ToFloat64(m.sessionsEvicted); got != before+2 {
		t.Errorf("evicted = %v, want %v", got, before+2)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordGatewayCall(OpList, nil, time.Second)
	m.RecordSubmission("submitted")
	m.UpdateSessions(1)
	m.RecordEviction(1)
}
