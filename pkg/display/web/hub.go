package web

import (
	"context"
	"encoding/binary"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/youenchene/ACE/internal/types"
	"github.com/youenchene/ACE/pkg/log"
)

type settings struct {
	compression      bool
	compressionLevel int
	framePatching    bool
	framePatchRatio  int
	frameSkipping    bool
	paused           bool
}

type hub struct {
	clients map[*Client]bool

	broadcast            chan []byte
	register, unregister chan *Client
	done                 chan struct{}

	settings  settings
	currentID uint8
	control   func(paused bool)
	frames    func() uint64

	log log.Logger
	mu  sync.Mutex
}

func newHub(logger log.Logger) *hub {
	return &hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		settings: settings{
			compressionLevel: 5,
			framePatching:    true,
			framePatchRatio:  10,
			frameSkipping:    true,
		},
		log: logger,
	}
}

func (w *hub) run(ctx context.Context) {
	defer close(w.done)

	// periodic info updates
	t := time.NewTicker(time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range w.clients {
				c.close()
				delete(w.clients, c)
			}
			return
		case c := <-w.register:
			w.clients[c] = true
			w.log.Debugf("web: client %d connected from %s", c.ID, c.Metadata.RemoteAddr)
		case c := <-w.unregister:
			// is this client still registered
			if _, ok := w.clients[c]; !ok {
				continue
			}
			delete(w.clients, c)
			c.close()
			w.log.Debugf("web: client %d disconnected", c.ID)

			// notify connected clients that this client has disconnected
			for other := range w.clients {
				other.send([]byte{ClientClosing, c.ID})
			}
		case msg := <-w.broadcast:
			w.sendAll(msg)
		case <-t.C:
			var frames uint64
			if w.frames != nil {
				frames = w.frames()
			}
			data := make([]byte, 1, 10)
			data[0] = ServerInfo
			data = append(data, uint8(len(w.clients)))
			data = binary.LittleEndian.AppendUint64(data, frames)
			w.sendAll(data)
		}
	}
}

// sendAll must only be called from run.
func (w *hub) sendAll(msg []byte) {
	for c := range w.clients {
		if !c.send(msg) {
			c.close()
			delete(w.clients, c)
		}
	}
}

// SendAll queues a message for every client.
func (w *hub) SendAll(msg []byte) {
	select {
	case w.broadcast <- msg:
	case <-w.done:
	}
}

// info returns a byte of information containing the various
// hub settings. The byte is constructed as follows:
//
//	Bit 0: Animation running
//	Bit 2: Compression enabled
//	Bit 3: Frame patching enabled
//	Bit 4: Frame skipping enabled
//	Bit 5: Animation paused
func (w *hub) info() []byte {
	s := w.snapshot()
	info := uint8(0)
	if s.paused {
		info |= types.Bit5
	} else {
		info |= types.Bit0
	}
	if s.compression {
		info |= types.Bit2
	}
	if s.framePatching {
		info |= types.Bit3
	}
	if s.frameSkipping {
		info |= types.Bit4
	}

	return []byte{ClientInfo, ClientStatus, info, uint8(s.compressionLevel), uint8(s.framePatchRatio)}
}

func (w *hub) snapshot() settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// apply changes a setting on behalf of a client.
func (w *hub) apply(setting Setting, value byte) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch setting {
	case Compression:
		w.settings.compression = value == 1
	case CompressionLevel:
		w.settings.compressionLevel = int(min(value, 11))
	case FramePatching:
		w.settings.framePatching = value == 1
	case FramePatchingRatio:
		w.settings.framePatchRatio = int(min(value, 100))
	case FrameSkipping:
		w.settings.frameSkipping = value == 1
	default:
		w.log.Debugf("web: unknown setting %d", setting)
	}
}

// pause pauses or resumes the animation driving the frames.
func (w *hub) pause(paused bool) {
	w.mu.Lock()
	w.settings.paused = paused
	control := w.control
	w.mu.Unlock()

	if control != nil {
		control(paused)
	}
}

// newClient creates a new client and registers it to the hub
func (w *hub) newClient(conn *websocket.Conn, r *http.Request) *Client {
	w.mu.Lock()
	w.currentID++
	id := w.currentID
	w.mu.Unlock()

	c := &Client{
		hub:  w,
		conn: conn,
		Send: make(chan []byte, 256),
		ID:   id,
		Metadata: struct {
			RemoteAddr string
			UserAgent  string
			Username   string
		}{RemoteAddr: r.RemoteAddr, UserAgent: r.Header.Get("User-Agent")},
		connectedAt: time.Now(),
	}
	select {
	case w.register <- c:
	case <-w.done:
		c.close()
	}
	return c
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
