// ABOUTME: Prometheus counters for edit sessions
// ABOUTME: Registered on the default registry and served by Handler

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TapsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geoedit_taps_total",
		Help: "Total taps handled, by outcome",
	}, []string{"result"})
	UndoTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geoedit_undo_total",
		Help: "Total successful undo operations",
	})
	DeletesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geoedit_deletes_total",
		Help: "Total vertices deleted",
	})
	FeaturesSavedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geoedit_features_saved_total",
		Help: "Total features saved, by geometry kind",
	}, []string{"kind"})
	SaveFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geoedit_save_failures_total",
		Help: "Total saves rejected or failed in storage",
	})
)

func init() {
	prometheus.MustRegister(TapsTotal)
	prometheus.MustRegister(UndoTotal)
	prometheus.MustRegister(DeletesTotal)
	prometheus.MustRegister(FeaturesSavedTotal)
	prometheus.MustRegister(SaveFailuresTotal)
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
