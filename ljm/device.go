// Package ljm talks to LabJack T-series DAQs over their Modbus TCP
// register interface, addressing registers by name the way the LJM
// library does.
package ljm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	logger "github.com/d2r2/go-logger"
	"github.com/goburrow/modbus"
)

var lg = logger.NewPackageLogger("ljm", logger.InfoLevel)

// DefaultPort is the Modbus TCP port T-series devices listen on.
const DefaultPort = 502

var errUnknownRegister = errors.New("unknown register name")

// DeviceError wraps a failed register transaction with the operation
// and register it belonged to.
type DeviceError struct {
	Op       string
	Register string
	Err      error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("ljm: %s %s: %s", e.Op, e.Register, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Device is one T-series DAQ connection. A Device is not safe for
// concurrent use; callers driving several axes from different
// goroutines must serialize access to the shared handle.
type Device struct {
	addr    string
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// Open connects to a device given as host or host:port.
func Open(addr string) (*Device, error) {
	if !strings.Contains(addr, ":") {
		addr = fmt.Sprintf("%s:%d", addr, DefaultPort)
	}
	handler := modbus.NewTCPClientHandler(addr)
	handler.Timeout = 5 * time.Second
	if err := handler.Connect(); err != nil {
		return nil, &DeviceError{Op: "connect", Register: addr, Err: err}
	}
	lg.Infof("connected to %s", addr)
	return &Device{
		addr:    addr,
		handler: handler,
		client:  modbus.NewClient(handler),
	}, nil
}

func (d *Device) Close() error { return d.handler.Close() }

// ReadName reads a named register.
func (d *Device) ReadName(name string) (uint32, error) {
	reg, ok := registers[name]
	if !ok {
		return 0, &DeviceError{Op: "read", Register: name, Err: errUnknownRegister}
	}
	buf, err := d.client.ReadHoldingRegisters(reg.addr, reg.words)
	if err != nil {
		return 0, &DeviceError{Op: "read", Register: name, Err: err}
	}
	if len(buf) < int(reg.words)*2 {
		return 0, &DeviceError{Op: "read", Register: name,
			Err: fmt.Errorf("short response: %d bytes", len(buf))}
	}
	if reg.words == 1 {
		return uint32(binary.BigEndian.Uint16(buf)), nil
	}
	return binary.BigEndian.Uint32(buf), nil
}

// WriteName writes a named register.
func (d *Device) WriteName(name string, value uint32) error {
	reg, ok := registers[name]
	if !ok {
		return &DeviceError{Op: "write", Register: name, Err: errUnknownRegister}
	}
	var buf []byte
	if reg.words == 1 {
		buf = make([]byte, 2)
		binary.BigEndian.PutUint16(buf, uint16(value))
	} else {
		buf = make([]byte, 4)
		binary.BigEndian.PutUint32(buf, value)
	}
	if _, err := d.client.WriteMultipleRegisters(reg.addr, reg.words, buf); err != nil {
		return &DeviceError{Op: "write", Register: name, Err: err}
	}
	lg.Debugf("write %s = %d", name, value)
	return nil
}
