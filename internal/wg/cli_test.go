package wg

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"wgapi/internal/registry"
)

var ctx = context.Background()

type fakeRunner struct {
	outputs   map[string]string // команда → вывод
	failing   map[string]string // команда → вывод перед ошибкой
	calls     []string
	lastInput string
}

func cmdKey(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (f *fakeRunner) Run(name string, args ...string) (string, error) {
	k := cmdKey(name, args)
	f.calls = append(f.calls, k)
	if out, ok := f.failing[k]; ok {
		return out, fmt.Errorf("%w: %s: %s", ErrCommandFailed, k, out)
	}
	return f.outputs[k], nil
}

func (f *fakeRunner) RunInput(input string, name string, args ...string) (string, error) {
	f.lastInput = input
	return f.Run(name, args...)
}

type fakeStore struct {
	entries map[string]registry.Entry
	saves   []string
	removes []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]registry.Entry{}}
}

func (s *fakeStore) Load(context.Context) map[string]registry.Entry {
	out := make(map[string]registry.Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *fakeStore) Save(_ context.Context, publicKey string, allowedIPs []string) error {
	s.saves = append(s.saves, publicKey)
	s.entries[publicKey] = registry.Entry{AllowedIPs: allowedIPs}
	return nil
}

func (s *fakeStore) Remove(_ context.Context, publicKey string) error {
	s.removes = append(s.removes, publicKey)
	delete(s.entries, publicKey)
	return nil
}

func TestCLIListPeers(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"wg show wg0 dump": "abc= (none) 1.2.3.4:51820 10.0.0.2/32 0 0 0 off",
	}}
	c := NewCLI("wg0", run, newFakeStore())

	peers := c.ListPeers(ctx)

	require.Len(t, peers, 1)
	require.Equal(t, []string{"10.0.0.2/32"}, peers["abc="].AllowedIPs)
}

func TestCLIListPeersEmptyOnCommandFailure(t *testing.T) {
	run := &fakeRunner{failing: map[string]string{
		"wg show wg0 dump": "Unable to access interface: No such device",
	}}
	c := NewCLI("wg0", run, newFakeStore())

	// ошибка поглощается: пустая карта, не паника и не error
	require.Empty(t, c.ListPeers(ctx))
	require.Error(t, c.Probe(ctx))
}

func TestCLICreatePeerInterfaceThenRegistry(t *testing.T) {
	run := &fakeRunner{}
	store := newFakeStore()
	c := NewCLI("wg0", run, store)

	err := c.CreatePeer(ctx, "abc=", []string{"10.0.0.2/32", "10.0.0.3/32"})

	require.NoError(t, err)
	require.Equal(t,
		[]string{"wg set wg0 peer abc= allowed-ips 10.0.0.2/32,10.0.0.3/32"},
		run.calls)
	require.Equal(t, []string{"abc="}, store.saves)
}

func TestCLICreatePeerLiveFailureSkipsRegistry(t *testing.T) {
	run := &fakeRunner{failing: map[string]string{
		"wg set wg0 peer abc= allowed-ips 10.0.0.2/32": "Invalid argument",
	}}
	store := newFakeStore()
	c := NewCLI("wg0", run, store)

	err := c.CreatePeer(ctx, "abc=", []string{"10.0.0.2/32"})

	require.ErrorIs(t, err, ErrCommandFailed)
	require.Empty(t, store.saves)
}

func TestCLIDeletePeer(t *testing.T) {
	run := &fakeRunner{}
	store := newFakeStore()
	store.entries["abc="] = registry.Entry{AllowedIPs: []string{"10.0.0.2/32"}}
	c := NewCLI("wg0", run, store)

	require.NoError(t, c.DeletePeer(ctx, "abc="))
	require.Equal(t, []string{"wg set wg0 peer abc= remove"}, run.calls)
	require.Equal(t, []string{"abc="}, store.removes)
}

func TestCLIDeletePeerCommandFailureKeepsRegistry(t *testing.T) {
	run := &fakeRunner{failing: map[string]string{
		"wg set wg0 peer abc= remove": "No such device",
	}}
	store := newFakeStore()
	store.entries["abc="] = registry.Entry{AllowedIPs: []string{"10.0.0.2/32"}}
	c := NewCLI("wg0", run, store)

	require.Error(t, c.DeletePeer(ctx, "abc="))
	require.Empty(t, store.removes)
}

func TestCLIGenKeys(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"wg genkey": "PRIV=",
		"wg pubkey": "PUB=",
	}}
	c := NewCLI("wg0", run, newFakeStore())

	priv, pub, err := c.GenKeys(ctx)

	require.NoError(t, err)
	require.Equal(t, "PRIV=", priv)
	require.Equal(t, "PUB=", pub)
	// приватный ключ уходит второй команде на stdin
	require.Equal(t, "PRIV=", run.lastInput)
}

func TestCLIGenKeysFailure(t *testing.T) {
	run := &fakeRunner{
		outputs: map[string]string{"wg genkey": "PRIV="},
		failing: map[string]string{"wg pubkey": "Key is not the correct length"},
	}
	c := NewCLI("wg0", run, newFakeStore())

	_, _, err := c.GenKeys(ctx)

	require.ErrorIs(t, err, ErrKeyGeneration)
	require.Contains(t, err.Error(), "Key is not the correct length")
}

func TestCLIInterfaceSubnet(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"ip -o -f inet addr show wg0": "7: wg0    inet 10.13.13.1/24 scope global wg0",
	}}
	c := NewCLI("wg0", run, newFakeStore())

	subnet, err := c.InterfaceSubnet(ctx)

	require.NoError(t, err)
	require.Equal(t, "10.13.13.1/24", subnet)
}

func TestCLIInterfaceSubnetNoCIDR(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"ip -o -f inet addr show wg0": "",
	}}
	c := NewCLI("wg0", run, newFakeStore())

	_, err := c.InterfaceSubnet(ctx)

	require.ErrorIs(t, err, ErrSubnetLookup)
}

func TestCLIRestorePeers(t *testing.T) {
	run := &fakeRunner{}
	store := newFakeStore()
	store.entries["pubkey1="] = registry.Entry{AllowedIPs: []string{"10.0.0.2/32"}}
	store.entries["pubkey2="] = registry.Entry{AllowedIPs: []string{"10.0.0.3/32"}}
	c := NewCLI("wg0", run, store)

	require.Equal(t, 2, c.RestorePeers(ctx))
	require.Len(t, run.calls, 2)
	require.Contains(t, run.calls, "wg set wg0 peer pubkey1= allowed-ips 10.0.0.2/32")
	require.Contains(t, run.calls, "wg set wg0 peer pubkey2= allowed-ips 10.0.0.3/32")
	// восстановление не пишет в реестр повторно
	require.Empty(t, store.saves)
}

func TestCLIRestorePeersContinuesPastFailures(t *testing.T) {
	run := &fakeRunner{failing: map[string]string{
		"wg set wg0 peer pubkey1= allowed-ips 10.0.0.2/32": "Invalid argument",
	}}
	store := newFakeStore()
	store.entries["pubkey1="] = registry.Entry{AllowedIPs: []string{"10.0.0.2/32"}}
	store.entries["pubkey2="] = registry.Entry{AllowedIPs: []string{"10.0.0.3/32"}}
	c := NewCLI("wg0", run, store)

	require.Equal(t, 1, c.RestorePeers(ctx))
	require.Contains(t, run.calls, "wg set wg0 peer pubkey2= allowed-ips 10.0.0.3/32")
}
