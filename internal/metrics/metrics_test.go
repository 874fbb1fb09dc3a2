package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"wgapi/internal/models"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/peers":             "/peers",
		"/peers/abc=":        "/peers/{public_key}",
		"/peers/abc=/config": "/peers/{public_key}/config",
		"/peers/xyz123=":     "/peers/{public_key}",
		"/health":            "/health",
		"/":                  "/",
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizePath(in), "path %q", in)
	}
}

func TestUpdatePeerMetrics(t *testing.T) {
	peers := map[string]models.Peer{
		"abc=": {PublicKey: "abc=", TransferRx: "100", TransferTx: "200", LatestHandshake: "0"},
		"bad=": {PublicKey: "bad=", TransferRx: "junk", TransferTx: "", LatestHandshake: "junk"},
	}

	updatePeerMetrics(peers)

	require.Equal(t, 2.0, testutil.ToFloat64(peersTotal))
	require.Equal(t, 100.0, testutil.ToFloat64(peerTransferRx.WithLabelValues("abc=")))
	require.Equal(t, 200.0, testutil.ToFloat64(peerTransferTx.WithLabelValues("abc=")))
	// мусор в числовых полях не валит экспорт
	require.Equal(t, 0.0, testutil.ToFloat64(peerTransferRx.WithLabelValues("bad=")))
	// рукопожатия не было — -1
	require.Equal(t, -1.0, testutil.ToFloat64(peerLastHandshake.WithLabelValues("abc=")))
	require.Equal(t, -1.0, testutil.ToFloat64(peerLastHandshake.WithLabelValues("bad=")))

	updatePeerMetrics(map[string]models.Peer{})
	require.Equal(t, 0.0, testutil.ToFloat64(peersTotal))
}

func TestUpdatePeerMetricsHandshakeAge(t *testing.T) {
	peers := map[string]models.Peer{
		"abc=": {PublicKey: "abc=", TransferRx: "0", TransferTx: "0", LatestHandshake: "1"},
	}

	updatePeerMetrics(peers)

	// рукопожатие в прошлом: возраст положительный и большой
	require.Greater(t, testutil.ToFloat64(peerLastHandshake.WithLabelValues("abc=")), 1e6)
}
