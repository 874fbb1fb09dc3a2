package wg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocateNextSkipsUsedAndServerIP(t *testing.T) {
	used := map[string]struct{}{"10.0.0.2": {}, "10.0.0.3": {}}

	ip, err := AllocateNext("10.0.0.1/24", used)

	require.NoError(t, err)
	require.Equal(t, "10.0.0.4", ip)
}

func TestAllocateNextFirstFree(t *testing.T) {
	ip, err := AllocateNext("10.0.0.1/24", nil)

	require.NoError(t, err)
	require.Equal(t, "10.0.0.2", ip)
}

func TestAllocateNextExhausted(t *testing.T) {
	// в /30 два хоста: один — адрес интерфейса, второй занят
	_, err := AllocateNext("10.0.0.1/30", map[string]struct{}{"10.0.0.2": {}})

	require.ErrorIs(t, err, ErrNoFreeAddress)
}

func TestAllocateNextInvalidCIDR(t *testing.T) {
	_, err := AllocateNext("not-a-cidr", nil)

	require.ErrorIs(t, err, ErrInvalidSubnet)
}

func TestAllocateNextRejectsIPv6(t *testing.T) {
	_, err := AllocateNext("fd00::1/64", nil)

	require.ErrorIs(t, err, ErrInvalidSubnet)
}

func TestAllocateNextDeterministic(t *testing.T) {
	used := map[string]struct{}{"192.168.99.2": {}}
	for i := 0; i < 3; i++ {
		ip, err := AllocateNext("192.168.99.1/28", used)
		require.NoError(t, err)
		require.Equal(t, "192.168.99.3", ip)
	}
}
