// Package update manages over-the-air update sessions: receiving an image,
// staging it to flash and coordinating the progress display and the restart
// that follows a successful transfer.
package update

import "strings"

// State is the lifecycle of one update session.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Target selects the destination partition of an image.
type Target uint8

const (
	TargetFirmware Target = iota
	TargetFilesystem
)

func (t Target) String() string {
	switch t {
	case TargetFirmware:
		return "firmware"
	case TargetFilesystem:
		return "filesystem"
	default:
		return "unknown"
	}
}

// TargetForName maps an uploaded file name to its destination partition.
// Filesystem images carry "filesystem" or the legacy "spiffs" in their name,
// everything else is treated as firmware.
func TargetForName(name string) Target {
	if strings.Contains(name, "filesystem") || strings.Contains(name, "spiffs") {
		return TargetFilesystem
	}
	return TargetFirmware
}

// ErrorCode classifies why a session failed.
type ErrorCode uint8

const (
	ErrNone ErrorCode = iota
	ErrBusy
	ErrNoSession
	ErrSize
	ErrErase
	ErrWrite
	ErrIncomplete
	ErrCommit
	ErrAborted
)

func (e ErrorCode) String() string {
	switch e {
	case ErrNone:
		return "no error"
	case ErrBusy:
		return "session already open"
	case ErrNoSession:
		return "no open session"
	case ErrSize:
		return "image too large"
	case ErrErase:
		return "flash erase failed"
	case ErrWrite:
		return "flash write failed"
	case ErrIncomplete:
		return "image incomplete"
	case ErrCommit:
		return "commit failed"
	case ErrAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
