package adb

import (
	"bufio"
	"net/netip"
	"strconv"
	"strings"

	"github.com/tungetti/adbkit/internal/errors"
)

// DeviceState is the state adb reports for a device in "adb devices".
type DeviceState uint8

const (
	StateInvalid DeviceState = iota
	StateUnauthorized
	StateDisconnected
	StateOffline
	StateOnline
	StateRecovery
	StateBootloader
)

var deviceStates = map[string]DeviceState{
	"":             StateDisconnected,
	"offline":      StateOffline,
	"device":       StateOnline,
	"unauthorized": StateUnauthorized,
	"recovery":     StateRecovery,
	"bootloader":   StateBootloader,
}

func parseDeviceState(s string) DeviceState {
	if state, ok := deviceStates[s]; ok {
		return state
	}
	return StateInvalid
}

// String returns the adb spelling of the state.
func (s DeviceState) String() string {
	switch s {
	case StateUnauthorized:
		return "unauthorized"
	case StateDisconnected:
		return "disconnected"
	case StateOffline:
		return "offline"
	case StateOnline:
		return "device"
	case StateRecovery:
		return "recovery"
	case StateBootloader:
		return "bootloader"
	default:
		return "invalid"
	}
}

// Device is one entry of "adb devices -l".
type Device struct {
	Serial      string
	State       DeviceState
	Product     string
	Model       string
	Name        string // the "device:" attribute
	USB         string // only set for devices attached over USB
	TransportID int
}

// Connected reports whether the device can be talked to.
func (d Device) Connected() bool {
	return d.State == StateOnline
}

// Address returns the address that selects this device. Network devices are
// addressed by host and port, others by transport id when known.
func (d Device) Address() Address {
	if ap, err := netip.ParseAddrPort(d.Serial); err == nil {
		return TCP(ap)
	}
	if d.TransportID > 0 {
		return Transport(d.TransportID)
	}
	return Serial(d.Serial)
}

// parseDevices parses the long listing produced by "adb devices -l".
func parseDevices(out string) ([]Device, error) {
	devices := []Device{}
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		device, err := parseDeviceLine(line)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	return devices, nil
}

func parseDeviceLine(line string) (Device, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Device{}, errors.Newf(errors.Parse,
			"malformed device line, expected at least 2 fields but found %d", len(fields)).WithOp("adb.Devices")
	}

	attrs := parseDeviceAttributes(fields[2:])
	d := Device{
		Serial:  fields[0],
		State:   parseDeviceState(fields[1]),
		Product: attrs["product"],
		Model:   attrs["model"],
		Name:    attrs["device"],
		USB:     attrs["usb"],
	}
	if id, ok := attrs["transport_id"]; ok {
		n, err := strconv.Atoi(id)
		if err != nil {
			return Device{}, errors.Wrapf(errors.Parse, err, "invalid transport id %q", id).WithOp("adb.Devices")
		}
		d.TransportID = n
	}
	return d, nil
}

func parseDeviceAttributes(fields []string) map[string]string {
	attrs := map[string]string{}
	for _, field := range fields {
		key, value, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		attrs[key] = value
	}
	return attrs
}
