package update

import (
	"fmt"

	"glow/hal"
)

// Transfer stages an update image to its destination.
type Transfer interface {
	Open(target Target, size uint32) error
	Write(p []byte) error
	// Commit finalizes the image. Only valid after exactly size bytes.
	Commit() error
	// Abort discards a partially written image. Safe without an open session.
	Abort()
}

// Partition layout on the update flash.
const (
	firmwareOffset   = 0x000000
	firmwareMaxBytes = 0x180000
	filesysOffset    = 0x180000
)

// FlashTransfer stages images into raw flash partitions.
type FlashTransfer struct {
	flash hal.Flash

	open    bool
	base    uint32
	size    uint32
	written uint32
}

// NewFlashTransfer returns a transfer writing through fl.
func NewFlashTransfer(fl hal.Flash) *FlashTransfer {
	return &FlashTransfer{flash: fl}
}

func (t *FlashTransfer) Open(target Target, size uint32) error {
	if t.open {
		return fmt.Errorf("transfer already open")
	}
	if size == 0 {
		return fmt.Errorf("zero-length image")
	}

	base, limit := t.partition(target)
	if size > limit {
		return fmt.Errorf("image of %d bytes exceeds %s partition (%d bytes)", size, target, limit)
	}

	block := t.flash.EraseBlockBytes()
	eraseLen := (size + block - 1) / block * block
	if err := t.flash.Erase(base, eraseLen); err != nil {
		return fmt.Errorf("erase %s partition: %w", target, err)
	}

	t.open = true
	t.base = base
	t.size = size
	t.written = 0
	return nil
}

func (t *FlashTransfer) Write(p []byte) error {
	if !t.open {
		return fmt.Errorf("transfer not open")
	}
	if t.written+uint32(len(p)) > t.size {
		return fmt.Errorf("write beyond announced image size")
	}
	n, err := t.flash.WriteAt(p, t.base+t.written)
	if err != nil {
		return fmt.Errorf("flash write at %d: %w", t.base+t.written, err)
	}
	t.written += uint32(n)
	if n != len(p) {
		return fmt.Errorf("short flash write (%d of %d bytes)", n, len(p))
	}
	return nil
}

func (t *FlashTransfer) Commit() error {
	if !t.open {
		return fmt.Errorf("transfer not open")
	}
	defer func() { t.open = false }()
	if t.written != t.size {
		return fmt.Errorf("image incomplete (%d of %d bytes)", t.written, t.size)
	}
	return nil
}

func (t *FlashTransfer) Abort() {
	t.open = false
	t.written = 0
}

func (t *FlashTransfer) partition(target Target) (base, limit uint32) {
	switch target {
	case TargetFilesystem:
		return filesysOffset, t.flash.SizeBytes() - filesysOffset
	default:
		return firmwareOffset, firmwareMaxBytes
	}
}
