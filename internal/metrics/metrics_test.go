// ABOUTME: Tests for edit session metrics
// ABOUTME: Scrapes the handler and checks counter increments

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandlerExposesCounters(t *testing.T) {
	TapsTotal.WithLabelValues("vertex_added").Inc()
	FeaturesSavedTotal.WithLabelValues("polygon").Inc()
	UndoTotal.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	for _, name := range []string{
		`geoedit_taps_total{result="vertex_added"}`,
		`geoedit_features_saved_total{kind="polygon"}`,
		"geoedit_undo_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected %s in scrape output", name)
		}
	}
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(DeletesTotal)
	DeletesTotal.Inc()
	if got := testutil.ToFloat64(DeletesTotal); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}
