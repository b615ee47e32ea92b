package web

// PageCommand defers a page request to the main loop. The request stays
// live for the duration, the handler just runs on the other side.
type PageCommand struct {
	req  Request
	h    Handler
	done chan struct{}
}

// NewPageCommand wraps a request and its handler. done is closed after the
// handler ran; pass nil if nobody waits.
func NewPageCommand(req Request, h Handler, done chan struct{}) *PageCommand {
	return &PageCommand{req: req, h: h, done: done}
}

func (c *PageCommand) Call() {
	if c.h != nil {
		c.h(c.req)
	}
	if c.done != nil {
		close(c.done)
	}
}

// Clone returns an independent copy sharing the live request but nothing
// else. The clone does not signal the original waiter.
func (c *PageCommand) Clone() *PageCommand {
	return &PageCommand{req: c.req, h: c.h}
}

// UploadChunkHandler consumes one deep-copied chunk of an upload. name is
// the uploaded file's name and stays constant across one upload.
type UploadChunkHandler func(req Request, name string, offset uint32, data []byte, final bool, total uint32)

// UploadCommand defers one chunk of a streamed upload to the main loop.
type UploadCommand struct {
	req    Request
	h      UploadChunkHandler
	name   string
	offset uint32
	data   []byte
	final  bool
	total  uint32
	done   chan struct{}
}

// NewUploadCommand deep-copies data; the caller may reuse its buffer
// immediately.
func NewUploadCommand(req Request, h UploadChunkHandler, name string, offset uint32, data []byte, final bool, total uint32, done chan struct{}) *UploadCommand {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &UploadCommand{
		req:    req,
		h:      h,
		name:   name,
		offset: offset,
		data:   cp,
		final:  final,
		total:  total,
		done:   done,
	}
}

func (c *UploadCommand) Call() {
	if c.h != nil {
		c.h(c.req, c.name, c.offset, c.data, c.final, c.total)
	}
	if c.done != nil {
		close(c.done)
	}
}

// Clone deep-copies the chunk payload.
func (c *UploadCommand) Clone() *UploadCommand {
	cp := make([]byte, len(c.data))
	copy(cp, c.data)
	return &UploadCommand{
		req:    c.req,
		h:      c.h,
		name:   c.name,
		offset: c.offset,
		data:   cp,
		final:  c.final,
		total:  c.total,
	}
}

// SocketHandler processes one websocket text command on the main loop.
type SocketHandler func(push Pusher, args []string)

// Pusher sends a message back over a live websocket connection.
type Pusher interface {
	Push(msg string) bool
}

// SocketCommand defers a parsed socket message to the main loop.
type SocketCommand struct {
	push Pusher
	h    SocketHandler
	args []string
	done chan struct{}
}

// NewSocketCommand deep-copies args. done is closed after the handler ran;
// pass nil if nobody waits.
func NewSocketCommand(push Pusher, h SocketHandler, args []string, done chan struct{}) *SocketCommand {
	cp := make([]string, len(args))
	copy(cp, args)
	return &SocketCommand{push: push, h: h, args: cp, done: done}
}

func (c *SocketCommand) Call() {
	if c.h != nil {
		c.h(c.push, c.args)
	}
	if c.done != nil {
		close(c.done)
	}
}
