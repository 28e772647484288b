package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"goji.io"
	"goji.io/pat"
)

// Handler mounts the operational endpoints and hands every other path to
// the Dispatcher. The mux does no path cleaning, so slash runs reach the
// Dispatcher untouched.
func Handler(d *Dispatcher, gatherer prometheus.Gatherer) http.Handler {
	mux := goji.NewMux()

	mux.HandleFunc(pat.Get("/healthcheck"), func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	if gatherer != nil {
		mux.Handle(pat.Get("/metrics"), promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	mux.Handle(pat.New("/*"), d)
	return mux
}
