// Package httpc is a non-blocking HTTP fetch client for the main loop.
//
// A fetch runs on its own goroutine and delivers its result into a channel
// the client owns; the main loop picks it up by polling. Every fetch gets a
// sequence number and only the result of the newest fetch is ever handed
// out, responses overtaken by a newer request are dropped.
package httpc

import (
	"glow/glowos/log"
)

// resultBacklog bounds undelivered results. Stale entries get drained on
// poll, so a small buffer suffices.
const resultBacklog = 4

// Result is the outcome of one fetch.
type Result struct {
	Seq    uint32
	Status int
	Body   []byte
	Err    error
}

// Transport performs one blocking GET. It runs off the main loop.
type Transport func(url string) (status int, body []byte, err error)

// Client issues fetches and collects results. Get and Poll must be called
// from the same goroutine.
type Client struct {
	log       *log.Logger
	transport Transport
	results   chan Result
	seq       uint32
}

// New returns a client using transport, or the platform default when nil.
func New(logger *log.Logger, transport Transport) *Client {
	if transport == nil {
		transport = defaultTransport
	}
	return &Client{
		log:       logger,
		transport: transport,
		results:   make(chan Result, resultBacklog),
	}
}

// Get starts a background fetch and returns its sequence number.
func (c *Client) Get(url string) uint32 {
	c.seq++
	seq := c.seq
	go func() {
		status, body, err := c.transport(url)
		select {
		case c.results <- Result{Seq: seq, Status: status, Body: body, Err: err}:
		default:
			c.log.Warnf("dropping fetch result %d, backlog full", seq)
		}
	}()
	return seq
}

// Poll returns the result of the newest fetch if it has arrived. Results
// of superseded fetches are discarded.
func (c *Client) Poll() (Result, bool) {
	for {
		select {
		case r := <-c.results:
			if r.Seq != c.seq {
				continue
			}
			return r, true
		default:
			return Result{}, false
		}
	}
}
