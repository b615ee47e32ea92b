// Package hal provides the only contact point between the firmware and the
// outside world: display, flash, network, time and restart capabilities.
package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Flash provides raw access to non-volatile memory.
//
// It is intentionally low-level: addresses and erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined; higher-level timers live in the OS.
type Time interface {
	Ticks() <-chan uint64
}

// Network manages the wireless link.
type Network interface {
	Connect(ssid, passphrase string) bool
	Disconnect()
	IsConnected() bool
	SetHostname(name string) bool
	Hostname() string
	IP() string
}

// System provides device-level control.
type System interface {
	// Restart reboots the device. It does not return on real hardware.
	Restart()
}

// HAL provides the capabilities the firmware runs against.
type HAL interface {
	Logger() Logger
	Display() Display
	Flash() Flash
	Time() Time
	Network() Network
	System() System
}
