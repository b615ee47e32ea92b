//go:build !tinygo

package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"glow/glowos/log"
)

// uploadChunkBytes is the read granularity for streamed uploads.
const uploadChunkBytes = 4096

// socketMsgBytes bounds one socket-style text message.
const socketMsgBytes = 512

// Server adapts net/http onto the dispatcher. Every exchange blocks its
// serving goroutine until the main loop has run the matching command.
type Server struct {
	log  *log.Logger
	disp *Dispatcher
	mux  *http.ServeMux
	srv  *http.Server
}

// NewServer returns an unstarted server routing into disp.
func NewServer(logger *log.Logger, disp *Dispatcher) *Server {
	return &Server{
		log:  logger,
		disp: disp,
		mux:  http.NewServeMux(),
	}
}

// RegisterPage routes path to a main-loop handler.
func (s *Server) RegisterPage(path string, h Handler) {
	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		req := newHTTPRequest(w, r)
		done := make(chan struct{})
		if !s.disp.Submit(NewPageCommand(req, h, done)) {
			s.log.Warnf("request queue full, rejecting %s %s", r.Method, r.URL.Path)
			http.Error(w, "server overloaded", http.StatusInsufficientStorage)
			return
		}
		<-done
	})
}

// RegisterUpload routes path to a chunked upload handler. The body is read
// in fixed-size chunks; each chunk waits for the main loop before the next
// read, so the transport cannot outrun the consumer.
func (s *Server) RegisterUpload(path string, h UploadChunkHandler) {
	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req := newHTTPRequest(w, r)
		name := req.Arg("file")
		if name == "" {
			name = "firmware.bin"
		}
		total := uint32(0)
		if r.ContentLength > 0 {
			total = uint32(r.ContentLength)
		}

		var offset uint32
		buf := make([]byte, uploadChunkBytes)
		for {
			n, err := io.ReadFull(r.Body, buf)
			final := err != nil
			if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				s.log.Errorf("upload body read: %v", err)
			}

			done := make(chan struct{})
			cmd := NewUploadCommand(req, h, name, offset, buf[:n], final, total, done)
			if !s.disp.Submit(cmd) {
				s.log.Warnf("request queue full, rejecting upload %s", r.URL.Path)
				http.Error(w, "server overloaded", http.StatusInsufficientStorage)
				return
			}
			<-done

			offset += uint32(n)
			if final {
				return
			}
		}
	})
}

// RegisterSocket routes path to a main-loop message handler. One
// semicolon-separated command per exchange, taken from the msg query
// argument or the body; replies pushed by the handler are returned as
// newline-delimited text.
func (s *Server) RegisterSocket(path string, h SocketHandler) {
	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		msg := r.URL.Query().Get("msg")
		if msg == "" {
			body, err := io.ReadAll(io.LimitReader(r.Body, socketMsgBytes))
			if err != nil {
				s.log.Errorf("socket message read: %v", err)
			}
			msg = strings.TrimSpace(string(body))
		}
		if msg == "" {
			http.Error(w, "empty message", http.StatusBadRequest)
			return
		}

		push := &bufferedPusher{}
		done := make(chan struct{})
		if !s.disp.Submit(NewSocketCommand(push, h, strings.Split(msg, ";"), done)) {
			s.log.Warnf("request queue full, rejecting message %s", r.URL.Path)
			http.Error(w, "server overloaded", http.StatusInsufficientStorage)
			return
		}
		<-done

		w.Header().Set("Content-Type", "text/plain")
		for _, line := range push.take() {
			fmt.Fprintln(w, line)
		}
	})
}

// bufferedPusher collects the replies of one socket exchange.
type bufferedPusher struct {
	mu   sync.Mutex
	msgs []string
}

func (p *bufferedPusher) Push(msg string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return true
}

func (p *bufferedPusher) take() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.msgs
}

// Start serves on addr until Stop is called.
func (s *Server) Start(addr string) {
	s.srv = &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("http server: %v", err)
		}
	}()
	s.log.Infof("http server listening on %s", addr)
}

// Stop shuts the server down, waiting briefly for in-flight exchanges.
func (s *Server) Stop() {
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
	s.srv = nil
}

// httpRequest adapts one net/http exchange to the Request interface.
// Method, path, arguments and headers are captured up front; the response
// writer stays live because the serving goroutine blocks until Respond.
type httpRequest struct {
	w       http.ResponseWriter
	method  string
	path    string
	args    map[string]string
	headers map[string]string
}

func newHTTPRequest(w http.ResponseWriter, r *http.Request) *httpRequest {
	args := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			args[k] = v[0]
		}
	}
	headers := make(map[string]string)
	for k, v := range r.Header {
		if len(v) > 0 {
			headers[http.CanonicalHeaderKey(k)] = v[0]
		}
	}
	return &httpRequest{
		w:       w,
		method:  r.Method,
		path:    r.URL.Path,
		args:    args,
		headers: headers,
	}
}

func (r *httpRequest) Method() string { return r.method }
func (r *httpRequest) Path() string   { return r.path }

func (r *httpRequest) Arg(name string) string { return r.args[name] }

func (r *httpRequest) Header(name string) string {
	return r.headers[http.CanonicalHeaderKey(name)]
}

func (r *httpRequest) Respond(status int, contentType string, body []byte) {
	r.w.Header().Set("Content-Type", contentType)
	r.w.WriteHeader(status)
	_, _ = r.w.Write(body)
}
