package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// multicastInterface finds an interface that supports multicast, skipping
// the test if the sandbox has none (loopback-only multicast is common on
// stripped-down CI hosts but not guaranteed).
func multicastInterface(t *testing.T) *net.Interface {
	t.Helper()
	ifaces, err := net.Interfaces()
	require.NoError(t, err)
	for _, iface := range ifaces {
		if iface.Flags&net.FlagMulticast != 0 && iface.Flags&net.FlagUp != 0 {
			return &iface
		}
	}
	t.Skip("no multicast-capable interface available in this environment")
	return nil
}

func TestSendReceiveRoundTrip(t *testing.T) {
	iface := multicastInterface(t)

	const group = "239.255.0.9"
	const port = 31999

	recv := NewReceiver(group, port, WithInterface(iface), WithDedup(false, 0))
	require.NoError(t, recv.Start())
	defer recv.Stop()

	got := make(chan []byte, 1)
	recv.Subscribe(func(data []byte, src *net.UDPAddr) {
		got <- data
	})

	// Give the worker a moment to be blocked in recvfrom before sending.
	time.Sleep(50 * time.Millisecond)

	sender, err := NewSender(group, port, 1, iface)
	require.NoError(t, err)
	defer sender.Close()

	require.NoError(t, sender.Send([]byte("hello")))

	select {
	case data := <-got:
		require.Equal(t, "hello", string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for multicast delivery")
	}
}
