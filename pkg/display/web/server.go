// Package web streams rendered sprite frames to browsers over websockets.
package web

import (
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/youenchene/ACE/pkg/log"
)

// Server serves the frame stream on /ws and the last frame as a PNG on
// /frame.png.
type Server struct {
	addr   string
	hub    *hub
	stream *stream

	mu   sync.RWMutex
	last *image.RGBA

	log log.Logger
}

// Opt configures a Server.
type Opt func(s *Server)

// WithAddr sets the address the server listens on.
func WithAddr(addr string) Opt {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger sets the logger of the server.
func WithLogger(l log.Logger) Opt {
	return func(s *Server) {
		s.log = l
		s.hub.log = l
	}
}

// WithCompression enables brotli compression of the frames at the given
// quality, 0 to 11.
func WithCompression(quality int) Opt {
	return func(s *Server) {
		s.hub.settings.compression = true
		s.hub.settings.compressionLevel = quality
	}
}

// WithFramePatching sets the share of changed pixels, in percent, under
// which only the changed pixels are sent. 0 disables patching.
func WithFramePatching(ratio int) Opt {
	return func(s *Server) {
		s.hub.settings.framePatching = ratio > 0
		s.hub.settings.framePatchRatio = ratio
	}
}

// WithFrameSkipping selects whether unchanged frames are only counted.
func WithFrameSkipping(enabled bool) Opt {
	return func(s *Server) {
		s.hub.settings.frameSkipping = enabled
	}
}

// WithControl sets the function called when a client pauses or resumes the
// animation.
func WithControl(fn func(paused bool)) Opt {
	return func(s *Server) {
		s.hub.control = fn
	}
}

// WithFrameCounter sets the function the frame number reported to the
// clients is read from.
func WithFrameCounter(fn func() uint64) Opt {
	return func(s *Server) {
		s.hub.frames = fn
	}
}

// NewServer creates a preview server.
func NewServer(opts ...Opt) *Server {
	s := &Server{
		addr: ":8090",
		log:  log.NewNullLogger(),
	}
	s.hub = newHub(s.log)
	s.stream = newStream(s.hub)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push queues a rendered frame. Frames arriving faster than they can be
// encoded are dropped; Push reports whether f was queued.
func (s *Server) Push(f *image.RGBA) bool {
	s.mu.Lock()
	s.last = f
	s.mu.Unlock()

	select {
	case s.stream.frames <- f:
		return true
	default:
		return false
	}
}

// Start runs the hub and the frame encoder until ctx is done.
func (s *Server) Start(ctx context.Context) {
	go s.hub.run(ctx)
	go s.stream.run(ctx)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(wr http.ResponseWriter, r *http.Request) {
		wr.Header().Set("Access-Control-Allow-Origin", "*")

		// upgrade the connection to a websocket connection
		conn, err := upgrader.Upgrade(wr, r, nil)
		if err != nil {
			s.log.Errorf("web: upgrading connection: %v", err)
			return
		}

		// create new client
		c := s.hub.newClient(conn, r)

		// spawn read/write pumps
		go c.ReadPump()
		go c.WritePump()

		// send the current state to the new client
		s.stream.clientSync <- c
	})
	mux.HandleFunc("/frame.png", func(wr http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		last := s.last
		s.mu.RUnlock()
		if last == nil {
			http.Error(wr, "no frame yet", http.StatusServiceUnavailable)
			return
		}
		wr.Header().Set("Content-Type", "image/png")
		if err := png.Encode(wr, last); err != nil {
			s.log.Errorf("web: encoding frame: %v", err)
		}
	})
	return mux
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.Start(ctx)

	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	s.log.Infof("web: serving previews on %s", s.addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
