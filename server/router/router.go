package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sfmp/server/app/controllers"
	"sfmp/server/app/metrics"
)

func NewRouter(adminCtrl *controllers.AdminController, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", adminCtrl.Health)
	mux.HandleFunc("/api/transfers", adminCtrl.ListTransfers)
	mux.HandleFunc("/api/watched", adminCtrl.ListWatched)
	if m != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	}
	return mux
}
