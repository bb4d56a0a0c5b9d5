package transport

import (
	"hash/fnv"
	"net"
	"time"
)

// dedupEntry is the one scalar "last delivery" record the receiver keeps.
// The goal is specifically to cancel the near-simultaneous duplicate some
// OSes deliver when a receiver is also on the sending host, not to catch
// arbitrary replay - so a single last-entry comparison is enough.
type dedupEntry struct {
	ip      string
	port    int
	length  int
	hash    uint32
	arrived time.Time
}

type deduplicator struct {
	enabled bool
	window  time.Duration
	last    dedupEntry
}

func newDeduplicator(enabled bool, window time.Duration) *deduplicator {
	return &deduplicator{enabled: enabled, window: window}
}

func fnv1a(data []byte) uint32 {
	h := fnv.New32a()
	h.Write(data)
	return h.Sum32()
}

// isDuplicate reports whether data from addr exactly matches the
// immediately preceding delivery and arrived within the dedup window. It
// always records the current datagram as the new "last" entry.
func (d *deduplicator) isDuplicate(addr *net.UDPAddr, data []byte, now time.Time) bool {
	if !d.enabled {
		return false
	}

	current := dedupEntry{
		ip:      addr.IP.String(),
		port:    addr.Port,
		length:  len(data),
		hash:    fnv1a(data),
		arrived: now,
	}

	dup := d.last.ip == current.ip &&
		d.last.port == current.port &&
		d.last.length == current.length &&
		d.last.hash == current.hash &&
		!d.last.arrived.IsZero() &&
		now.Sub(d.last.arrived) <= d.window

	d.last = current
	return dup
}
