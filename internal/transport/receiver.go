package transport

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

const scratchBufferSize = 64 * 1024

// Handler is invoked with a borrowed byte view of one received datagram.
// Handlers must not block indefinitely; they run on the receiver's worker.
type Handler func(data []byte, src *net.UDPAddr)

// Receiver joins one multicast group and fans out every received datagram
// to its registered handlers, after scalar duplicate suppression.
type Receiver struct {
	groupAddr string
	port      int
	iface     *net.Interface

	dedupEnabled bool
	dedupWindow  time.Duration

	conn  *net.UDPConn
	pconn *ipv4.PacketConn
	group *net.UDPAddr

	running bool
	runMu   sync.Mutex

	handlersMu sync.Mutex
	handlers   []Handler

	wg sync.WaitGroup
}

// Option configures a Receiver at construction time.
type Option func(*Receiver)

// WithInterface pins the group join to a specific interface instead of the
// system default.
func WithInterface(iface *net.Interface) Option {
	return func(r *Receiver) { r.iface = iface }
}

// WithDedup toggles duplicate suppression and sets its window. Disabled by
// passing enabled=false; window is ignored in that case.
func WithDedup(enabled bool, window time.Duration) Option {
	return func(r *Receiver) {
		r.dedupEnabled = enabled
		r.dedupWindow = window
	}
}

// NewReceiver constructs a receiver for groupAddr:port. Dedup defaults to
// enabled with a 100ms window, matching spec §4.1's default.
func NewReceiver(groupAddr string, port int, opts ...Option) *Receiver {
	r := &Receiver{
		groupAddr:    groupAddr,
		port:         port,
		dedupEnabled: true,
		dedupWindow:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers a handler invoked for every datagram delivered by the
// receiver's worker. The handler list is append-only during the receiver's
// lifetime.
func (r *Receiver) Subscribe(h Handler) {
	r.handlersMu.Lock()
	defer r.handlersMu.Unlock()
	r.handlers = append(r.handlers, h)
}

// Start creates the socket, joins the multicast group, and spawns the
// single worker goroutine. It is a compare-exchange on the running flag:
// calling Start twice is a no-op on the second call.
func (r *Receiver) Start() error {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if r.running {
		return nil
	}

	group := &net.UDPAddr{IP: net.ParseIP(r.groupAddr), Port: r.port}
	if group.IP == nil {
		return fmt.Errorf("transport: invalid multicast address %q", r.groupAddr)
	}

	// SO_REUSEADDR/SO_REUSEPORT must be set before bind: once the first
	// socket on this port has bound without them, a second co-located
	// receiver (e.g. ping, pong, and scrappy all joining EVENTS_ADDR on one
	// host, per §4.1's loopback requirement) fails with EADDRINUSE. A plain
	// net.ListenUDP followed by a post-bind setsockopt is too late.
	lc := net.ListenConfig{Control: setReuseControl}
	pc, err := lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", r.port))
	if err != nil {
		return fmt.Errorf("transport: receiver listen: %w", err)
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return fmt.Errorf("transport: receiver listen: unexpected connection type %T", pc)
	}

	pconn := ipv4.NewPacketConn(conn)
	if err := pconn.JoinGroup(r.iface, group); err != nil {
		conn.Close()
		return fmt.Errorf("transport: join group %s: %w", r.groupAddr, err)
	}

	r.conn = conn
	r.pconn = pconn
	r.group = group
	r.running = true

	r.wg.Add(1)
	go r.readLoop()

	return nil
}

// Stop leaves the group, closes the socket (which unblocks the worker's
// blocking read), and joins the worker.
func (r *Receiver) Stop() error {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if !r.running {
		return nil
	}
	r.running = false

	leaveErr := r.pconn.LeaveGroup(r.iface, r.group)
	closeErr := r.conn.Close()
	r.wg.Wait()

	if leaveErr != nil {
		return fmt.Errorf("transport: leave group: %w", leaveErr)
	}
	if closeErr != nil {
		return fmt.Errorf("transport: close socket: %w", closeErr)
	}
	return nil
}

func (r *Receiver) readLoop() {
	defer r.wg.Done()

	dedup := newDeduplicator(r.dedupEnabled, r.dedupWindow)
	buf := make([]byte, scratchBufferSize)

	for {
		n, src, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			// A closed socket during shutdown is expected and silent.
			return
		}

		if dedup.isDuplicate(src, buf[:n], time.Now()) {
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		r.dispatch(data, src)
	}
}

func (r *Receiver) dispatch(data []byte, src *net.UDPAddr) {
	r.handlersMu.Lock()
	snapshot := make([]Handler, len(r.handlers))
	copy(snapshot, r.handlers)
	r.handlersMu.Unlock()

	for _, h := range snapshot {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("transport: handler panic recovered: %v", rec)
				}
			}()
			h(data, src)
		}()
	}
}

// setReuseControl runs on the raw socket before bind, which is the only
// point at which SO_REUSEADDR/SO_REUSEPORT have any effect.
func setReuseControl(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		if err := syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1); err != nil {
			sockErr = err
			return
		}
		// SO_REUSEPORT isn't part of the portable syscall package; x/sys/unix
		// exposes it where the platform supports it.
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
			log.Printf("transport: SO_REUSEPORT unavailable, continuing without it: %v", err)
		}
	})
	if err != nil {
		return err
	}
	return sockErr
}
