package adb

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/tungetti/adbkit/internal/errors"
)

type addressKind uint8

const (
	addrAny addressKind = iota
	addrTCP
	addrSerial
	addrTransport
	addrUSB
)

// Address selects which device an adb invocation targets. The zero value
// selects whatever single device adb finds.
type Address struct {
	kind      addressKind
	tcp       netip.AddrPort
	serial    string
	transport int
}

// AnyDevice leaves device selection to adb.
var AnyDevice = Address{}

// TCP selects a device connected over the network.
func TCP(addr netip.AddrPort) Address {
	return Address{kind: addrTCP, tcp: addr}
}

// Serial selects a device by serial number, e.g. "emulator-5554".
func Serial(serial string) Address {
	return Address{kind: addrSerial, serial: serial}
}

// Transport selects a device by adb transport id.
func Transport(id int) Address {
	return Address{kind: addrTransport, transport: id}
}

// USB selects the only device attached over USB.
func USB() Address {
	return Address{kind: addrUSB}
}

// ParseAddress interprets s as "host:port", "usb", "transport_id:N" or, failing
// those, a serial number.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Address{}, errors.New(errors.Validation, "empty device address").WithOp("adb.ParseAddress")
	case strings.EqualFold(s, "usb"):
		return USB(), nil
	case strings.HasPrefix(s, "transport_id:"):
		id, err := strconv.Atoi(strings.TrimPrefix(s, "transport_id:"))
		if err != nil || id < 0 {
			return Address{}, errors.Newf(errors.Validation, "invalid transport id in %q", s).WithOp("adb.ParseAddress")
		}
		return Transport(id), nil
	}
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return TCP(ap), nil
	}
	return Serial(s), nil
}

// IsTCP reports whether the address is a network address.
func (a Address) IsTCP() bool {
	return a.kind == addrTCP
}

// AddrPort returns the network address for TCP addresses.
func (a Address) AddrPort() (netip.AddrPort, bool) {
	return a.tcp, a.kind == addrTCP
}

// Args returns the device selection flags to prepend to an adb command.
func (a Address) Args() []string {
	switch a.kind {
	case addrTCP:
		return []string{"-s", a.tcp.String()}
	case addrSerial:
		return []string{"-s", a.serial}
	case addrTransport:
		return []string{"-t", strconv.Itoa(a.transport)}
	case addrUSB:
		return []string{"-d"}
	default:
		return nil
	}
}

// String returns a short description of the address.
func (a Address) String() string {
	switch a.kind {
	case addrTCP:
		return fmt.Sprintf("ip:%s", a.tcp)
	case addrSerial:
		return fmt.Sprintf("serial:%s", a.serial)
	case addrTransport:
		return fmt.Sprintf("transport_id:%d", a.transport)
	case addrUSB:
		return "usb"
	default:
		return "any"
	}
}
