// Package serial owns the device link: transport framing, the offline
// batch synchronization on connect, and the background worker that reads
// live scans. Exactly one goroutine owns the open port for the lifetime
// of a connection.
package serial

import (
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/pontonfc/ponto-system/internal/core/ports"
)

const (
	// DefaultBaudRate matches the reader firmware.
	DefaultBaudRate = 9600
	// DefaultReadTimeout bounds every transport read; it is also the
	// worst-case latency for honoring a stop request.
	DefaultReadTimeout = time.Second
)

// Transport frames a serial port into trimmed UTF-8 text lines.
type Transport struct {
	port serial.Port
	buf  []byte // bytes past the last newline
}

// Open opens the named port and configures the read timeout.
func Open(name string, baud int, readTimeout time.Duration) (*Transport, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	return &Transport{port: port}, nil
}

// Opener returns a ports.TransportOpener bound to the given settings.
func Opener(baud int, readTimeout time.Duration) ports.TransportOpener {
	return func(portName string) (ports.LineTransport, error) {
		return Open(portName, baud, readTimeout)
	}
}

// ListPorts enumerates the serial ports available on the host.
func ListPorts() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return names, nil
}

// ReadLine returns the next newline-terminated line, trimmed, with invalid
// UTF-8 bytes discarded. A read timeout flushes whatever was buffered, so
// a tick with no data yields "" rather than blocking forever on a device
// that stopped mid-line.
func (t *Transport) ReadLine() (string, error) {
	for {
		if i := indexNewline(t.buf); i >= 0 {
			line := t.buf[:i]
			t.buf = append(t.buf[:0:0], t.buf[i+1:]...)
			return sanitizeLine(line), nil
		}

		chunk := make([]byte, 256)
		n, err := t.port.Read(chunk)
		if err != nil {
			return "", fmt.Errorf("serial read: %w", err)
		}
		if n == 0 { // timeout tick
			line := t.buf
			t.buf = nil
			return sanitizeLine(line), nil
		}
		t.buf = append(t.buf, chunk[:n]...)
	}
}

// WriteLine sends line followed by CRLF.
func (t *Transport) WriteLine(line string) error {
	if _, err := t.port.Write([]byte(line + "\r\n")); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

// ResetInput discards pending unread input. Best effort.
func (t *Transport) ResetInput() error {
	return t.port.ResetInputBuffer()
}

// Close releases the port.
func (t *Transport) Close() error {
	return t.port.Close()
}

func indexNewline(b []byte) int {
	for i, c := range b {
		if c == '\n' {
			return i
		}
	}
	return -1
}

func sanitizeLine(b []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(b), ""))
}
