package health

import (
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"wgapi/internal/models"
	"wgapi/internal/wg"
)

// Status — документ /health.
type Status struct {
	Status             string  `json:"status"`
	Version            string  `json:"version"`
	UptimeSeconds      float64 `json:"uptime_seconds"`
	WireGuardInterface string  `json:"wireguard_interface"`
	WireGuardAvailable bool    `json:"wireguard_available"`
	PeerCount          int     `json:"peer_count"`
}

// RegisterRoutes — /healthz (liveness) + /health (статус wg).
// startedAt выставляется приложением при конструировании, без глобалов.
func RegisterRoutes(r *mux.Router, mgr wg.Manager, version string, startedAt time.Time) {
	r.HandleFunc("/healthz", liveness).Methods(http.MethodGet)
	r.HandleFunc("/health", statusHandler(mgr, version, startedAt)).Methods(http.MethodGet)
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func statusHandler(mgr wg.Manager, version string, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		available := mgr.Probe(r.Context()) == nil
		peerCount := 0
		if available {
			peerCount = len(mgr.ListPeers(r.Context()))
		}

		st := Status{
			Status:             "healthy",
			Version:            version,
			UptimeSeconds:      math.Round(time.Since(startedAt).Seconds()*10) / 10,
			WireGuardInterface: mgr.Interface(),
			WireGuardAvailable: available,
			PeerCount:          peerCount,
		}
		code := http.StatusOK
		if !available {
			st.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		models.WriteJSON(w, code, st)
	}
}
