package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "volumebot_trades_total", Help: "Trade iterations by side and outcome"},
		[]string{"side", "outcome"},
	)
	WaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "volumebot_wait_seconds",
			Help:    "Delay slept between trades",
			Buckets: prometheus.LinearBuckets(5, 5, 12),
		},
	)
	BalanceLamports = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "volumebot_balance_lamports", Help: "Last observed funding account balance"},
	)
	RPCRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "volumebot_rpc_requests_total", Help: "RPC calls by method and result"},
		[]string{"method", "result"},
	)
)

func init() {
	prometheus.MustRegister(TradesTotal, WaitSeconds, BalanceLamports, RPCRequestsTotal)
}

// Serve exposes /metrics on addr in the background. An empty addr disables the listener.
func Serve(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
