// Package transport implements the multicast datagram sender and receiver
// the sequencing bus is built on: join/leave groups, send datagrams, TTL and
// loopback control, and a worker loop with duplicate suppression.
package transport

import (
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
)

// Sender holds one UDP socket configured for multicast egress: the
// requested TTL, loopback enabled so co-located subscribers see the group,
// and destination preset to group:port. It is single-threaded as far as the
// socket is concerned; callers must serialize their own sends if they share
// one Sender from multiple goroutines.
type Sender struct {
	conn    *net.UDPConn
	pconn   *ipv4.PacketConn
	dst     *net.UDPAddr
	ttl     int
	groupIf *net.Interface
}

// NewSender constructs a sender bound to groupAddr:port with the given
// multicast TTL. If iface is non-nil, egress is pinned to that interface.
func NewSender(groupAddr string, port int, ttl int, iface *net.Interface) (*Sender, error) {
	dst := &net.UDPAddr{IP: net.ParseIP(groupAddr), Port: port}
	if dst.IP == nil {
		return nil, fmt.Errorf("transport: invalid multicast address %q", groupAddr)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: 0})
	if err != nil {
		return nil, fmt.Errorf("transport: sender socket: %w", err)
	}

	pconn := ipv4.NewPacketConn(conn)
	if err := pconn.SetMulticastTTL(ttl); err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: set TTL: %w", err)
	}
	if err := pconn.SetMulticastLoopback(true); err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: set loopback: %w", err)
	}
	if iface != nil {
		if err := pconn.SetMulticastInterface(iface); err != nil {
			conn.Close()
			return nil, fmt.Errorf("transport: set egress interface: %w", err)
		}
	}

	return &Sender{conn: conn, pconn: pconn, dst: dst, ttl: ttl, groupIf: iface}, nil
}

// Send writes the full datagram to the configured group:port. It returns
// success only if the OS accepted the entire payload.
func (s *Sender) Send(data []byte) error {
	n, err := s.conn.WriteToUDP(data, s.dst)
	if err != nil {
		return fmt.Errorf("transport: send: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("transport: short write: sent %d of %d bytes", n, len(data))
	}
	return nil
}

// SendWithTTL temporarily overrides the multicast TTL for one send, then
// restores the sender's configured TTL.
func (s *Sender) SendWithTTL(data []byte, ttl int) error {
	if err := s.pconn.SetMulticastTTL(ttl); err != nil {
		return fmt.Errorf("transport: override TTL: %w", err)
	}
	sendErr := s.Send(data)
	if err := s.pconn.SetMulticastTTL(s.ttl); err != nil {
		return fmt.Errorf("transport: restore TTL: %w", err)
	}
	return sendErr
}

// Close releases the sender's socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}

// InterfaceForAddr resolves the MCAST_IF_ADDR configuration knob (spec §6)
// to a concrete interface: an empty addr means "let the OS pick", otherwise
// the interface owning that local IP is returned.
func InterfaceForAddr(addr string) (*net.Interface, error) {
	if addr == "" {
		return nil, nil
	}

	want := net.ParseIP(addr)
	if want == nil {
		return nil, fmt.Errorf("transport: invalid MCAST_IF_ADDR %q", addr)
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("transport: list interfaces: %w", err)
	}

	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if ok && ipNet.IP.Equal(want) {
				return &ifaces[i], nil
			}
		}
	}

	return nil, fmt.Errorf("transport: no interface owns address %q", addr)
}
