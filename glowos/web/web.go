// Package web decouples network-side request handling from the main task.
//
// HTTP exchanges arrive on their own goroutines but every registered handler
// runs on the main loop: the transport wraps each exchange into a Command,
// submits it to the Dispatcher and blocks until the main loop has processed
// it. Payloads are deep-copied at submit time so commands stay valid after
// the transport buffers are reused.
package web

import (
	"glow/glowos/log"
	"glow/glowos/queue"
)

// QueueCapacity bounds the number of commands waiting for the main loop.
const QueueCapacity = 10

// Request is a single HTTP exchange as seen by a handler.
//
// Respond must be called exactly once per exchange.
type Request interface {
	Method() string
	Path() string
	Arg(name string) string
	Header(name string) string
	Respond(status int, contentType string, body []byte)
}

// Handler processes one page request on the main loop.
type Handler func(req Request)

// Command is one unit of deferred work. Call runs on the main loop.
type Command interface {
	Call()
}

// Dispatcher carries commands from transport goroutines to the main loop.
type Dispatcher struct {
	log  *log.Logger
	cmds *queue.Queue[Command]
}

// NewDispatcher returns a dispatcher with the default queue capacity.
func NewDispatcher(logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		log:  logger,
		cmds: queue.New[Command](QueueCapacity),
	}
}

// Submit enqueues a command for the main loop. It returns false when the
// queue is full; the caller owns the overload response.
func (d *Dispatcher) Submit(cmd Command) bool {
	return d.cmds.Add(cmd)
}

// Pending reports the number of queued commands.
func (d *Dispatcher) Pending() int {
	return d.cmds.Len()
}

// Process runs at most one queued command. It never blocks; the main loop
// calls it once per tick.
func (d *Dispatcher) Process() {
	cmd, ok := d.cmds.TryGet()
	if !ok {
		return
	}
	cmd.Call()
}
