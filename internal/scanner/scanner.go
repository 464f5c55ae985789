// Package scanner probes a subnet for hosts accepting connections on the adb
// TCP port and optionally inspects each reachable device.
package scanner

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/logging"
	"github.com/tungetti/adbkit/internal/proc"
)

const (
	// DefaultSubnet is scanned when no subnet is given.
	DefaultSubnet = "192.168.1"

	// DefaultPort is the port adbd listens on in TCP mode.
	DefaultPort = 5555

	// DefaultConnectTimeout bounds each TCP probe.
	DefaultConnectTimeout = 400 * time.Millisecond

	// maxHostBits caps a scan at one /24, 256 addresses.
	maxHostBits = 8
	maxHosts    = 1 << maxHostBits
)

// DialFunc opens a network connection, like net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Inspector enriches a reachable address with device details.
type Inspector interface {
	Inspect(ctx context.Context, addr netip.AddrPort) Result
}

// Options configures a Scanner.
type Options struct {
	Port           int            // TCP port to probe; defaults to DefaultPort
	ConnectTimeout time.Duration  // Per-probe timeout; defaults to DefaultConnectTimeout
	Concurrency    int            // Simultaneous probes; defaults to twice the CPU count
	Dial           DialFunc       // Defaults to a net.Dialer with ConnectTimeout
	Inspector      Inspector      // Optional; nil reports reachability only
	Logger         logging.Logger // Defaults to a no-op logger
	Progress       func(done, total int)
}

// Result describes one reachable host.
type Result struct {
	Addr      netip.AddrPort
	Connected bool // adb accepted the connection and answered
	Product   string
	Model     string
	Device    string
	SDK       string
	Mac       net.HardwareAddr
	Err       error // First failure while inspecting; nil when not inspected
}

// String renders the result in the style of "adb devices -l".
func (r Result) String() string {
	var attrs []string
	if r.Product != "" {
		attrs = append(attrs, "product:"+r.Product)
	}
	if r.Model != "" {
		attrs = append(attrs, "model:"+r.Model)
	}
	if r.Device != "" {
		attrs = append(attrs, "device:"+r.Device)
	}
	if len(r.Mac) > 0 {
		attrs = append(attrs, "mac:"+r.Mac.String())
	}
	if r.SDK != "" {
		attrs = append(attrs, "version:"+r.SDK)
	}
	return fmt.Sprintf("%s    device %s", r.Addr, strings.Join(attrs, " "))
}

// Scanner probes subnets for adb devices.
type Scanner struct {
	opts    Options
	limiter *proc.Limiter
}

// New creates a scanner, filling in defaults for unset options.
func New(opts Options) *Scanner {
	if opts.Port <= 0 {
		opts.Port = DefaultPort
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.Dial == nil {
		d := &net.Dialer{Timeout: opts.ConnectTimeout}
		opts.Dial = d.DialContext
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	limiter := proc.NewDefaultLimiter()
	if opts.Concurrency > 0 {
		limiter = proc.NewLimiter(opts.Concurrency)
	}
	return &Scanner{opts: opts, limiter: limiter}
}

// Limiter returns the limiter bounding concurrent probes.
func (s *Scanner) Limiter() *proc.Limiter {
	return s.limiter
}

// Hosts expands a subnet into the addresses to probe. A three-octet prefix
// such as "192.168.1" covers .0 through .255; CIDR notation is also accepted
// for a /24 or narrower.
func Hosts(subnet string) ([]netip.Addr, error) {
	subnet = strings.TrimSpace(subnet)
	if strings.Count(subnet, ".") == 2 && !strings.Contains(subnet, "/") {
		subnet += ".0/24"
	}
	prefix, err := netip.ParsePrefix(subnet)
	if err != nil {
		return nil, errors.Wrapf(errors.Validation, err, "invalid subnet %q", subnet).WithOp("scanner.Hosts")
	}
	prefix = prefix.Masked()

	bits := prefix.Addr().BitLen() - prefix.Bits()
	if bits > maxHostBits {
		return nil, errors.Newf(errors.Validation, "subnet %s has more than %d hosts", prefix, maxHosts).WithOp("scanner.Hosts")
	}

	hosts := make([]netip.Addr, 0, 1<<bits)
	for addr := prefix.Addr(); prefix.Contains(addr); addr = addr.Next() {
		hosts = append(hosts, addr)
	}
	return hosts, nil
}

// Scan probes every address of subnet and sends a Result for each reachable
// host. out is closed when Scan returns. Cancelling ctx stops the scan and
// returns a Cancelled error.
func (s *Scanner) Scan(ctx context.Context, subnet string, out chan<- Result) error {
	defer close(out)

	hosts, err := Hosts(subnet)
	if err != nil {
		return err
	}

	log := s.opts.Logger.WithPrefix("scanner")
	log.Debug("scanning", "subnet", subnet, "hosts", len(hosts), "port", s.opts.Port, "concurrency", s.limiter.Capacity())

	var done atomic.Int64
	total := len(hosts)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limiter.Capacity())

	for _, host := range hosts {
		addr := netip.AddrPortFrom(host, uint16(s.opts.Port))
		g.Go(func() error {
			err := s.limiter.Do(gctx, func(ctx context.Context) error {
				res, ok := s.probe(ctx, addr)
				if !ok {
					return nil
				}
				log.Debug("host reachable", "addr", addr, "connected", res.Connected)
				select {
				case out <- res:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if s.opts.Progress != nil {
				s.opts.Progress(int(done.Add(1)), total)
			}
			return err
		})
	}

	if err := g.Wait(); err != nil || ctx.Err() != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return errors.Wrap(errors.Cancelled, "scan cancelled", err).WithOp("scanner.Scan")
	}
	return nil
}

// probe reports whether addr accepts TCP connections and, when it does,
// inspects it.
func (s *Scanner) probe(ctx context.Context, addr netip.AddrPort) (Result, bool) {
	dctx, cancel := context.WithTimeout(ctx, s.opts.ConnectTimeout)
	defer cancel()

	conn, err := s.opts.Dial(dctx, "tcp", addr.String())
	if err != nil {
		return Result{}, false
	}
	conn.Close()

	if s.opts.Inspector == nil {
		return Result{Addr: addr}, true
	}
	return s.opts.Inspector.Inspect(ctx, addr), true
}
