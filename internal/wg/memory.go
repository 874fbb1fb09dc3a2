package wg

import (
	"context"
	"fmt"
	"sync"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"wgapi/internal/models"
)

// Memory — Manager в памяти: без бинарника wg и без реестра.
// Нужен тестам HTTP-слоя и dev-запускам на машинах без WireGuard.
type Memory struct {
	mu     sync.Mutex
	iface  string
	subnet string
	pubKey string
	peers  map[string]models.Peer
	down   bool
}

func NewMemory(iface, subnet string) *Memory {
	priv, _ := wgtypes.GeneratePrivateKey()
	return &Memory{
		iface:  iface,
		subnet: subnet,
		pubKey: priv.PublicKey().String(),
		peers:  map[string]models.Peer{},
	}
}

// SetDown имитирует недоступный wg (для health-сценариев).
func (m *Memory) SetDown(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down = down
}

func (m *Memory) Interface() string { return m.iface }

func (m *Memory) ListPeers(_ context.Context) map[string]models.Peer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]models.Peer, len(m.peers))
	if m.down {
		return out
	}
	for k, v := range m.peers {
		out[k] = v
	}
	return out
}

func (m *Memory) Probe(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return fmt.Errorf("%w: interface %s is down", ErrCommandFailed, m.iface)
	}
	return nil
}

func (m *Memory) CreatePeer(_ context.Context, publicKey string, allowedIPs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return fmt.Errorf("%w: interface %s is down", ErrCommandFailed, m.iface)
	}
	m.peers[publicKey] = models.Peer{
		PublicKey:           publicKey,
		PresharedKey:        "(none)",
		Endpoint:            "(none)",
		AllowedIPs:          allowedIPs,
		LatestHandshake:     "0",
		TransferRx:          "0",
		TransferTx:          "0",
		PersistentKeepalive: "off",
	}
	return nil
}

func (m *Memory) DeletePeer(_ context.Context, publicKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return fmt.Errorf("%w: interface %s is down", ErrCommandFailed, m.iface)
	}
	delete(m.peers, publicKey)
	return nil
}

func (m *Memory) GenKeys(_ context.Context) (string, string, error) {
	priv, err := wgtypes.GeneratePrivateKey()
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	return priv.String(), priv.PublicKey().String(), nil
}

func (m *Memory) InterfaceSubnet(_ context.Context) (string, error) {
	if m.subnet == "" {
		return "", fmt.Errorf("%w: no address on %s", ErrSubnetLookup, m.iface)
	}
	return m.subnet, nil
}

func (m *Memory) InterfacePublicKey(_ context.Context) (string, error) {
	return m.pubKey, nil
}

func (m *Memory) RestorePeers(_ context.Context) int { return 0 }
