package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDedupSuppressesFastRepeat(t *testing.T) {
	d := newDeduplicator(true, 100*time.Millisecond)
	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 4000}
	payload := []byte("PING")
	base := time.Now()

	require.False(t, d.isDuplicate(addr, payload, base))
	require.True(t, d.isDuplicate(addr, payload, base.Add(50*time.Millisecond)))
}

func TestDedupAllowsRepeatOutsideWindow(t *testing.T) {
	d := newDeduplicator(true, 100*time.Millisecond)
	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 4000}
	payload := []byte("PING")
	base := time.Now()

	require.False(t, d.isDuplicate(addr, payload, base))
	require.False(t, d.isDuplicate(addr, payload, base.Add(500*time.Millisecond)))
}

func TestDedupDisabled(t *testing.T) {
	d := newDeduplicator(false, 100*time.Millisecond)
	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 4000}
	payload := []byte("PING")
	base := time.Now()

	require.False(t, d.isDuplicate(addr, payload, base))
	require.False(t, d.isDuplicate(addr, payload, base))
}

func TestDedupDistinguishesSource(t *testing.T) {
	d := newDeduplicator(true, 100*time.Millisecond)
	a1 := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 4000}
	a2 := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 4001}
	payload := []byte("PING")
	base := time.Now()

	require.False(t, d.isDuplicate(a1, payload, base))
	require.False(t, d.isDuplicate(a2, payload, base.Add(10*time.Millisecond)))
}
