package app

import (
	"encoding/json"
	"strconv"
	"strings"

	"glow/glowos/display"
	"glow/glowos/fsys"
	"glow/glowos/log"
	"glow/glowos/plugins/icontext"
	"glow/glowos/plugins/sunrise"
	"glow/glowos/settings"
	"glow/glowos/update"
	"glow/glowos/web"
	"glow/internal/buildinfo"
)

// routes bundles everything the REST API reaches into.
type routes struct {
	log  *log.Logger
	fs   fsys.FileSystem
	upd  *update.Manager
	disp *display.Manager
	text *icontext.Plugin
	sun  *sunrise.Plugin
	cfg  settings.Settings
}

// newServer builds the HTTP server with all routes registered. Handlers
// run on the main loop via the dispatcher.
func newServer(logger *log.Logger, disp *web.Dispatcher, r *routes) *web.Server {
	srv := web.NewServer(logger, disp)

	srv.RegisterPage("/rest/api/v1/status", r.status)
	srv.RegisterPage("/rest/api/v1/display/text", r.displayText)
	srv.RegisterPage("/rest/api/v1/display/icon", r.displayIcon)
	srv.RegisterPage("/rest/api/v1/display/slot", r.displaySlot)
	srv.RegisterPage("/rest/api/v1/sunrise/location", r.sunriseLocation)
	srv.RegisterPage("/rest/api/v1/restart", r.restart)
	srv.RegisterPage("/rest/api/v1/update/abort", r.updateAbort)

	upload := web.NewFirmwareUpload(logger.WithTag("upload"), r.upd, r.fs)
	srv.RegisterUpload("/rest/api/v1/update", upload.Chunk)

	srv.RegisterSocket("/ws", r.socket)

	return srv
}

func respondJSON(req web.Request, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		req.Respond(500, "text/plain", []byte("encode response"))
		return
	}
	req.Respond(status, "application/json", body)
}

func respondOK(req web.Request, data any) {
	respondJSON(req, 200, map[string]any{"status": "ok", "data": data})
}

func respondErr(req web.Request, status int, msg string) {
	respondJSON(req, status, map[string]any{"status": "error", "error": msg})
}

func (r *routes) status(req web.Request) {
	respondOK(req, map[string]any{
		"version":  buildinfo.Short(),
		"hostname": r.cfg.Hostname,
		"update":   r.upd.State().String(),
	})
}

func (r *routes) displayText(req web.Request) {
	if show := req.Arg("show"); show != "" {
		if err := r.text.SetText(show); err != nil {
			respondErr(req, 500, err.Error())
			return
		}
	}
	respondOK(req, map[string]any{"text": r.text.Text()})
}

func (r *routes) displayIcon(req web.Request) {
	path := req.Arg("path")
	if path == "" {
		respondErr(req, 400, "missing path argument")
		return
	}
	if err := r.text.SetIcon(path); err != nil {
		respondErr(req, 400, err.Error())
		return
	}
	respondOK(req, map[string]any{"path": path})
}

func (r *routes) displaySlot(req web.Request) {
	if arg := req.Arg("activate"); arg != "" {
		idx, err := strconv.Atoi(arg)
		if err != nil || !r.disp.Activate(idx) {
			respondErr(req, 400, "invalid slot")
			return
		}
	}
	respondOK(req, map[string]any{"active": r.disp.ActiveSlot()})
}

func (r *routes) sunriseLocation(req web.Request) {
	lat := req.Arg("latitude")
	lon := req.Arg("longitude")
	if lat != "" && lon != "" {
		if err := r.sun.SetLocation(lat, lon); err != nil {
			respondErr(req, 500, err.Error())
			return
		}
	}
	curLat, curLon := r.sun.Location()
	respondOK(req, map[string]any{"latitude": curLat, "longitude": curLon})
}

func (r *routes) restart(req web.Request) {
	if req.Method() != "POST" {
		respondErr(req, 405, "method not allowed")
		return
	}
	r.upd.RequestRestart()
	respondOK(req, map[string]any{"restart": "pending"})
}

// updateAbort cancels a running update session. The device reboots into
// the previous image afterwards.
func (r *routes) updateAbort(req web.Request) {
	if req.Method() != "POST" {
		respondErr(req, 405, "method not allowed")
		return
	}
	if r.upd.State() != update.StateRunning {
		respondErr(req, 409, "no running update")
		return
	}
	r.upd.OnError(update.ErrAborted)
	respondOK(req, map[string]any{"update": r.upd.State().String()})
}

// socket handles the text message protocol of the /ws endpoint:
// "TEXT;<text>", "SLOT;<n>" and "STATUS".
func (r *routes) socket(push web.Pusher, args []string) {
	if len(args) == 0 {
		return
	}
	switch strings.ToUpper(args[0]) {
	case "TEXT":
		if len(args) < 2 {
			push.Push("ERR;missing text")
			return
		}
		if err := r.text.SetText(args[1]); err != nil {
			push.Push("ERR;" + err.Error())
			return
		}
		push.Push("ACK")
	case "SLOT":
		if len(args) < 2 {
			push.Push("ERR;missing slot")
			return
		}
		idx, err := strconv.Atoi(args[1])
		if err != nil || !r.disp.Activate(idx) {
			push.Push("ERR;invalid slot")
			return
		}
		push.Push("ACK")
	case "STATUS":
		push.Push("STATUS;" + r.upd.State().String())
	default:
		push.Push("ERR;unknown command")
	}
}
