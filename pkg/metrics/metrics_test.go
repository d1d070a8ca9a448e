package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// NewRecorder registers on the default registry, so the package shares one
// instance across tests.
var testRecorder = NewRecorder()

func TestObserveTurn(t *testing.T) {
	before := testutil.CollectAndCount(testRecorder.turnsTotal)

	testRecorder.ObserveTurn("ASKING", true, "", 25*time.Millisecond)
	testRecorder.ObserveTurn("ASKING", false, "persistence", 5*time.Millisecond)

	after := testutil.CollectAndCount(testRecorder.turnsTotal)
	if after <= before {
		t.Errorf("expected new turn series, got %d before and %d after", before, after)
	}
}

func TestObserveClassification(t *testing.T) {
	testRecorder.ObserveClassification("Hot")
	testRecorder.ObserveClassification("Hot")

	got := testutil.ToFloat64(testRecorder.classificationsTotal.WithLabelValues("Hot"))
	if got < 2 {
		t.Errorf("Hot classification count = %v, want >= 2", got)
	}
}

func TestObserveSummarizer(t *testing.T) {
	testRecorder.ObserveSummarizer("llama-3.1-8b-instant", true, 120*time.Millisecond)

	got := testutil.ToFloat64(testRecorder.summarizerTotal.WithLabelValues("llama-3.1-8b-instant", "success"))
	if got < 1 {
		t.Errorf("summarizer success count = %v, want >= 1", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.ObserveTurn("ASKING", true, "", time.Millisecond)
	r.ObserveClassification("Cold")
	r.ObserveSummarizer("mock", false, time.Millisecond)
}
