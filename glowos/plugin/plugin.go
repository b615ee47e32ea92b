// Package plugin defines the content plugin lifecycle. A plugin owns one
// slot's worth of screen content: it builds its widgets on Start, reacts to
// slot activation, does its periodic work in Process and draws in Update.
//
// Lifecycle methods are called from the main loop, but plugin state is also
// reachable from web handlers and background fetches. Every plugin guards
// its state with a mutex and keeps the locked work in *Locked helpers.
package plugin

import (
	"glow/glowos/gfx"
)

// Plugin is one installable content source.
type Plugin interface {
	// UID is unique per instance for the device lifetime.
	UID() uint16
	// Name is the plugin type name, shared by all instances.
	Name() string

	// Start prepares widgets for a w x h slot and loads configuration.
	Start(w, h int16)
	// Stop releases resources and persists state where needed.
	Stop()

	// Active is called when the plugin's slot becomes the visible one.
	Active(out gfx.Output)
	// Inactive is called when the slot rotates away.
	Inactive()

	// Process runs periodic work: timers, fetches, config reloads.
	Process()
	// Update draws the current content.
	Update(out gfx.Output)
}

// Enabler is implemented by plugins that can be switched off while staying
// installed.
type Enabler interface {
	IsEnabled() bool
	Enable()
	Disable()
}

// uidCounter hands out instance UIDs. Single goroutine, no lock needed.
var uidCounter uint16

// NextUID returns a fresh plugin instance UID.
func NextUID() uint16 {
	uidCounter++
	return uidCounter
}
