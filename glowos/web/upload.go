package web

import (
	"glow/glowos/log"
	"glow/glowos/update"
)

// Updater is the slice of the update manager the upload path needs.
type Updater interface {
	// BeginUpdate opens an update session for size bytes. The file name
	// selects the destination partition.
	BeginUpdate(name string, size uint32) bool
	// WriteUpdate appends a chunk to the open session.
	WriteUpdate(p []byte) bool
	// EndUpdate closes the session. commit false discards it.
	EndUpdate(commit bool) bool
}

// Remounter cycles a filesystem mount. A failed upload can leave the
// backing store in a bad shape, remounting restores a known state.
type Remounter interface {
	Unmount()
	Mount() error
}

// Upload status responses.
const (
	statusOK       = 200
	statusTooLarge = 413
)

// FirmwareUpload consumes firmware image chunks on the main loop.
//
// The error flag is sticky for the whole session: once a chunk fails, the
// remaining chunks are drained without touching the updater and the final
// chunk discards the session instead of committing it.
type FirmwareUpload struct {
	log *log.Logger
	upd Updater
	fs  Remounter

	active bool
	failed bool
}

// NewFirmwareUpload wires the upload path. fs may be nil when no mounted
// filesystem needs recovering.
func NewFirmwareUpload(logger *log.Logger, upd Updater, fs Remounter) *FirmwareUpload {
	return &FirmwareUpload{log: logger, upd: upd, fs: fs}
}

// Chunk handles one deep-copied chunk. It matches UploadChunkHandler.
func (u *FirmwareUpload) Chunk(req Request, name string, offset uint32, data []byte, final bool, total uint32) {
	if offset == 0 {
		u.active = true
		u.failed = false
		u.log.Infof("upload of %s started, %d bytes", name, total)
		// A filesystem image replaces the mounted store, release it first.
		if update.TargetForName(name) == update.TargetFilesystem && u.fs != nil {
			u.fs.Unmount()
		}
		if !u.upd.BeginUpdate(name, total) {
			u.fail("update session rejected")
		}
	}
	if !u.active {
		return
	}

	if !u.failed && len(data) > 0 {
		if !u.upd.WriteUpdate(data) {
			u.fail("chunk write failed at offset %d", offset)
		}
	}

	if !final {
		return
	}
	u.active = false

	if u.failed {
		u.upd.EndUpdate(false)
		u.remount()
		req.Respond(statusTooLarge, "text/plain", []byte("upload failed"))
		return
	}
	if !u.upd.EndUpdate(true) {
		u.fail("commit failed")
		u.remount()
		req.Respond(statusTooLarge, "text/plain", []byte("upload failed"))
		return
	}
	u.log.Info("upload complete")
	req.Respond(statusOK, "text/plain", []byte("update stored, restarting"))
}

func (u *FirmwareUpload) fail(format string, args ...any) {
	u.failed = true
	u.log.Errorf("upload: "+format, args...)
}

func (u *FirmwareUpload) remount() {
	if u.fs == nil {
		return
	}
	u.fs.Unmount()
	if err := u.fs.Mount(); err != nil {
		u.log.Fatalf("remount after failed upload: %v", err)
	}
}
