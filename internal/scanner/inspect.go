package scanner

import (
	"context"
	"net/netip"
	"time"

	"github.com/tungetti/adbkit/internal/adb"
	"github.com/tungetti/adbkit/internal/logging"
)

// AdbInspector connects to a reachable host with adb and reads its build
// properties.
type AdbInspector struct {
	Adb            *adb.Adb
	ConnectTimeout time.Duration
	Logger         logging.Logger
}

// NewAdbInspector creates an inspector using a for every adb invocation.
func NewAdbInspector(a *adb.Adb, connectTimeout time.Duration) *AdbInspector {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	return &AdbInspector{Adb: a, ConnectTimeout: connectTimeout, Logger: a.Logger()}
}

// Inspect implements Inspector. Hosts that refuse the adb connection are
// still reported, with Connected unset and Err holding the failure. A
// property that cannot be read is left empty and the first such failure is
// kept in Err.
func (i *AdbInspector) Inspect(ctx context.Context, addr netip.AddrPort) Result {
	res := Result{Addr: addr}
	if ctx.Err() != nil {
		return res
	}

	client := i.Adb.Client(adb.TCP(addr))
	if err := client.Connect(i.ConnectTimeout); err != nil {
		i.Logger.Debug("adb connect failed", "addr", addr, "err", err)
		res.Err = err
		return res
	}
	defer func() {
		if err := client.Disconnect(); err != nil {
			i.Logger.Debug("adb disconnect failed", "addr", addr, "err", err)
		}
	}()

	res.Connected = true
	shell := client.Shell()
	for _, p := range []struct {
		key string
		dst *string
	}{
		{"ro.build.version.sdk", &res.SDK},
		{"ro.product.model", &res.Model},
		{"ro.product.device", &res.Device},
		{"ro.product.name", &res.Product},
	} {
		v, err := shell.GetProp(p.key)
		if err != nil {
			i.Logger.Debug("getprop failed", "addr", addr, "key", p.key, "err", err)
			if res.Err == nil {
				res.Err = err
			}
			continue
		}
		*p.dst = v
	}

	if root, err := shell.IsRoot(); err == nil && root {
		if mac, err := client.MacAddress("eth0"); err == nil {
			res.Mac = mac
		}
	}
	return res
}

// Ensure AdbInspector implements Inspector.
var _ Inspector = (*AdbInspector)(nil)
