package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wgapi/internal/models"
	"wgapi/internal/wg"
)

// Свой prometheus.Registry, чтобы не задевать глобальный в тестах.
var reg = prometheus.NewRegistry()

var (
	requestCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wireguard_api_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status_code"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wireguard_api_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	}, []string{"method", "endpoint"})

	peersTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wireguard_peers_total",
		Help: "Current number of WireGuard peers",
	})

	peerTransferRx = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wireguard_peer_transfer_rx_bytes",
		Help: "Received bytes for WireGuard peer",
	}, []string{"public_key"})

	peerTransferTx = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wireguard_peer_transfer_tx_bytes",
		Help: "Transmitted bytes for WireGuard peer",
	}, []string{"public_key"})

	peerLastHandshake = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wireguard_peer_last_handshake_seconds",
		Help: "Seconds since last handshake for WireGuard peer",
	}, []string{"public_key"})
)

func init() {
	reg.MustRegister(requestCount, requestDuration,
		peersTotal, peerTransferRx, peerTransferTx, peerLastHandshake)
}

// Шаблоны путей: динамические сегменты сворачиваем, иначе метки
// разрастаются по одному публичному ключу на серию.
var pathPatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`^/peers/[^/]+/config$`), "/peers/{public_key}/config"},
	{regexp.MustCompile(`^/peers/[^/]+$`), "/peers/{public_key}"},
}

// NormalizePath сворачивает динамические сегменты пути в плейсхолдеры.
func NormalizePath(path string) string {
	for _, p := range pathPatterns {
		if p.re.MatchString(path) {
			return p.repl
		}
	}
	return path
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) { w.status = code; w.ResponseWriter.WriteHeader(code) }
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Middleware считает количество и длительность запросов.
// /metrics и /health не считаем, чтобы не мерить сами себя.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		sw := &statusWriter{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(sw, r)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		endpoint := NormalizePath(r.URL.Path)
		requestCount.WithLabelValues(r.Method, endpoint, strconv.Itoa(sw.status)).Inc()
		requestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// Handler отдаёт /metrics, предварительно обновив peer-gauges по живому
// состоянию интерфейса.
func Handler(mgr wg.Manager) http.Handler {
	promh := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		updatePeerMetrics(mgr.ListPeers(r.Context()))
		promh.ServeHTTP(w, r)
	})
}

func updatePeerMetrics(peers map[string]models.Peer) {
	peersTotal.Set(float64(len(peers)))
	now := float64(time.Now().Unix())

	for publicKey, p := range peers {
		rx, err := strconv.ParseFloat(p.TransferRx, 64)
		if err != nil {
			rx = 0
		}
		peerTransferRx.WithLabelValues(publicKey).Set(rx)

		tx, err := strconv.ParseFloat(p.TransferTx, 64)
		if err != nil {
			tx = 0
		}
		peerTransferTx.WithLabelValues(publicKey).Set(tx)

		// handshake отдаём как «секунд назад»; 0 или мусор — -1
		hs, err := strconv.ParseFloat(p.LatestHandshake, 64)
		if err != nil || hs <= 0 {
			peerLastHandshake.WithLabelValues(publicKey).Set(-1)
		} else {
			peerLastHandshake.WithLabelValues(publicKey).Set(now - hs)
		}
	}
}
