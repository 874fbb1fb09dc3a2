package wg

import (
	"context"
	"fmt"
	"strings"

	"wgapi/internal/logs"
	"wgapi/internal/models"
	"wgapi/internal/registry"
)

// CLI — боевой Manager: дёргает бинарники wg/ip и ведёт реестр пиров.
// Состояния между вызовами нет: всё живёт на интерфейсе и в реестре.
type CLI struct {
	iface string
	run   Runner
	store registry.Store
}

func NewCLI(iface string, run Runner, store registry.Store) *CLI {
	return &CLI{iface: iface, run: run, store: store}
}

func (c *CLI) Interface() string { return c.iface }

func (c *CLI) ListPeers(_ context.Context) map[string]models.Peer {
	out, err := c.run.Run("wg", "show", c.iface, "dump")
	if err != nil {
		logs.Logger.Warnf("wg dump failed: %v", err)
		return map[string]models.Peer{}
	}
	return ParseDump(out)
}

func (c *CLI) Probe(_ context.Context) error {
	_, err := c.run.Run("wg", "show", c.iface, "dump")
	return err
}

// addPeerToInterface — только живая половина создания, без реестра.
func (c *CLI) addPeerToInterface(publicKey string, allowedIPs []string) error {
	_, err := c.run.Run("wg", "set", c.iface,
		"peer", publicKey, "allowed-ips", strings.Join(allowedIPs, ","))
	return err
}

// CreatePeer: сначала интерфейс, потом реестр. Порядок важен — упавшая
// команда не оставляет фантомной записи в реестре.
func (c *CLI) CreatePeer(ctx context.Context, publicKey string, allowedIPs []string) error {
	if err := c.addPeerToInterface(publicKey, allowedIPs); err != nil {
		return err
	}
	return c.store.Save(ctx, publicKey, allowedIPs)
}

func (c *CLI) DeletePeer(ctx context.Context, publicKey string) error {
	if _, err := c.run.Run("wg", "set", c.iface, "peer", publicKey, "remove"); err != nil {
		return err
	}
	return c.store.Remove(ctx, publicKey)
}

// GenKeys: `wg genkey`, затем `wg pubkey` с приватным ключом на stdin.
func (c *CLI) GenKeys(_ context.Context) (string, string, error) {
	priv, err := c.run.Run("wg", "genkey")
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	pub, err := c.run.RunInput(priv, "wg", "pubkey")
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	return priv, pub, nil
}

// InterfaceSubnet достаёт CIDR интерфейса из `ip -o -f inet addr show`:
// первый токен с '/'.
func (c *CLI) InterfaceSubnet(_ context.Context) (string, error) {
	out, err := c.run.Run("ip", "-o", "-f", "inet", "addr", "show", c.iface)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubnetLookup, err)
	}
	for _, part := range strings.Fields(out) {
		if strings.Contains(part, "/") {
			return part, nil
		}
	}
	return "", fmt.Errorf("%w: no CIDR in output: %q", ErrSubnetLookup, out)
}

func (c *CLI) InterfacePublicKey(_ context.Context) (string, error) {
	return c.run.Run("wg", "show", c.iface, "public-key")
}

func (c *CLI) RestorePeers(ctx context.Context) int {
	logs.Logger.Infof("restoring peers to %s", c.iface)
	// в реестр не пишем: записи там уже есть
	return registry.Restore(ctx, c.store, c.addPeerToInterface)
}
