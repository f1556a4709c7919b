package web

import (
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/youenchene/ACE/pkg/log"
)

func filled(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// drain returns the messages queued for broadcast.
func drain(h *hub) [][]byte {
	var msgs [][]byte
	for {
		select {
		case m := <-h.broadcast:
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

func msgTypes(msgs [][]byte) []Type {
	t := make([]Type, len(msgs))
	for i, m := range msgs {
		t[i] = m[0]
	}
	return t
}

func TestCache(t *testing.T) {
	c := newCache(2)
	if c.has(0) {
		t.Errorf("expected empty cache to miss the zero hash")
	}
	if i := c.add(1, []byte{1}); i != 0 {
		t.Errorf("got %d, want 0", i)
	}
	c.add(2, []byte{2})
	c.add(3, []byte{3})
	if c.has(1) || !c.has(2) || c.index(3) != 0 {
		t.Errorf("expected oldest entry to be replaced")
	}
	c.enabled = false
	if c.has(2) {
		t.Errorf("expected disabled cache to miss")
	}
}

func TestStreamProcess(t *testing.T) {
	h := newHub(log.NewNullLogger())
	p := newStream(h)
	red := filled(color.RGBA{R: 0xFF, A: 0xFF})
	moved := filled(color.RGBA{R: 0xFF, A: 0xFF})
	moved.SetRGBA(1, 1, color.RGBA{B: 0xFF, A: 0xFF})

	for _, step := range []struct {
		name     string
		frame    *image.RGBA
		patching bool
		want     []Type
	}{
		{"first", red, true, []Type{FrameSize, Frame}},
		{"unchanged", red, true, nil},
		{"patch", moved, true, []Type{FrameSkip, FramePatch}},
		{"revert", red, true, []Type{FramePatch}},
		{"cachedPatch", moved, true, []Type{PatchCache}},
		{"cachedFrame", red, false, []Type{FrameCache}},
	} {
		t.Run(step.name, func(t *testing.T) {
			h.settings.framePatching = step.patching
			p.process(step.frame)
			msgs := drain(h)
			got := msgTypes(msgs)
			if len(got) != len(step.want) {
				t.Fatalf("got %v, want %v", got, step.want)
			}
			for i := range got {
				if got[i] != step.want[i] {
					t.Errorf("got %v, want %v", got, step.want)
				}
			}

			switch step.name {
			case "first":
				if len(msgs[1]) != 3+4*4*4 {
					t.Errorf("got %d bytes, want %d", len(msgs[1]), 3+4*4*4)
				}
			case "patch":
				if msgs[0][1] != 1 {
					t.Errorf("got %d frames skipped, want 1", msgs[0][1])
				}
			}
		})
	}
}

func TestCompress(t *testing.T) {
	data := make([]byte, 4096)
	out, err := compress(data, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) >= len(data) {
		t.Errorf("got %d bytes, want less than %d", len(out), len(data))
	}
}

func TestServer(t *testing.T) {
	paused := make(chan bool, 1)
	s := NewServer(WithFrameSkipping(false), WithControl(func(p bool) { paused <- p }))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("got status %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	read := func(want Type) []byte {
		t.Helper()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("waiting for message %d: %v", want, err)
			}
			if len(msg) > 0 && msg[0] == want {
				return msg
			}
		}
	}

	info := read(ClientInfo)
	if len(info) != 5 || info[1] != ClientStatus {
		t.Errorf("got %v, want a status message", info)
	}

	s.Push(filled(color.RGBA{G: 0xFF, A: 0xFF}))
	if frame := read(Frame); len(frame) != 3+4*4*4 {
		t.Errorf("got %d bytes, want %d", len(frame), 3+4*4*4)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{Pause}); err != nil {
		t.Fatal(err)
	}
	select {
	case p := <-paused:
		if !p {
			t.Errorf("expected the animation to be paused")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("pause never reached the control function")
	}

	resp, err = http.Get(ts.URL + "/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Errorf("got status %d %s, want a png", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}
