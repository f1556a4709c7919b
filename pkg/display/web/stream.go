package web

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"

	"github.com/andybalholm/brotli"
	"github.com/cespare/xxhash"
)

// stream turns rendered frames into the smallest message that brings the
// clients up to date: nothing, a skip count, a patch of the changed pixels,
// a cached frame index or a full frame.
type stream struct {
	hub        *hub
	frames     chan *image.RGBA
	clientSync chan *Client

	frameCache, patchCache *cache
	width, height          int
	currentFrame           []byte
	dirtiedPixels          []byte
	framesSkipped          int
}

func newStream(h *hub) *stream {
	return &stream{
		hub:        h,
		frames:     make(chan *image.RGBA, 4),
		clientSync: make(chan *Client, 16),
		frameCache: newCache(64),
		patchCache: newCache(64),
	}
}

func (p *stream) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-p.frames:
			p.process(f)
		case c := <-p.clientSync:
			p.sync(c)
		}
	}
}

func (p *stream) resize(w, h int) {
	p.width, p.height = w, h
	p.currentFrame = make([]byte, w*h*4)
	p.dirtiedPixels = make([]byte, w*h*4)
	p.frameCache = newCache(p.frameCache.size)
	p.patchCache = newCache(p.patchCache.size)
	p.framesSkipped = 0
	p.hub.SendAll(p.sizeMessage())
}

func (p *stream) sizeMessage() []byte {
	msg := []byte{FrameSize}
	msg = binary.LittleEndian.AppendUint16(msg, uint16(p.width))
	return binary.LittleEndian.AppendUint16(msg, uint16(p.height))
}

func (p *stream) process(f *image.RGBA) {
	b := f.Bounds()
	if b.Dx() != p.width || b.Dy() != p.height {
		p.resize(b.Dx(), b.Dy())
	}
	s := p.hub.snapshot()

	// track dirty pixel count to determine appropriate update (patch vs full frame)
	clear(p.dirtiedPixels)
	dirtiedPixelCount := 0
	for y := 0; y < p.height; y++ {
		row := f.Pix[y*f.Stride : y*f.Stride+p.width*4]
		for x := 0; x < p.width; x++ {
			i := (y*p.width + x) * 4
			px := row[x*4 : x*4+4]
			if !bytes.Equal(p.currentFrame[i:i+4], px) {
				copy(p.dirtiedPixels[i:i+4], px)
				p.dirtiedPixels[i+3] = 0xFF
				copy(p.currentFrame[i:i+4], px)
				dirtiedPixelCount++
			}
		}
	}

	// was the framebuffer dirtied (or has the hub disabled frame skipping)
	if dirtiedPixelCount == 0 && s.frameSkipping {
		p.framesSkipped++
		return
	}
	if p.framesSkipped > 0 {
		p.hub.SendAll(binary.LittleEndian.AppendUint32([]byte{FrameSkip}, uint32(p.framesSkipped)))
		p.framesSkipped = 0
	}

	// determine if we should patch the framebuffer
	e, c, buffer := Frame, p.frameCache, p.currentFrame
	if s.framePatching && dirtiedPixelCount*100 < s.framePatchRatio*p.width*p.height {
		e, c, buffer = FramePatch, p.patchCache, p.dirtiedPixels
	}

	output := buffer
	if s.compression {
		var err error
		if output, err = compress(buffer, s.compressionLevel); err != nil {
			p.hub.log.Errorf("web: compressing frame: %v", err)
			return
		}
	} else {
		output = append([]byte(nil), buffer...)
	}

	hash := xxhash.Sum64(output)
	c.Lock()
	defer c.Unlock()

	// does this frame exist in the cache?
	if idx := c.index(hash); idx != -1 {
		cached := FrameCache
		if e == FramePatch {
			cached = PatchCache
		}
		p.hub.SendAll(binary.LittleEndian.AppendUint16([]byte{cached}, uint16(idx)))
		return
	}
	idx := c.add(hash, output)
	msg := binary.LittleEndian.AppendUint16([]byte{e}, uint16(idx))
	p.hub.SendAll(append(msg, output...))
}

// sync sends the current frame and the frame cache to a new client.
func (p *stream) sync(c *Client) {
	c.send(p.hub.info())
	if p.currentFrame == nil {
		return
	}
	c.send(p.sizeMessage())

	frameData, err := compress(p.currentFrame, 9)
	if err != nil {
		p.hub.log.Errorf("web: compressing frame: %v", err)
		return
	}
	c.send(append([]byte{FrameSync}, frameData...))

	// send caches
	p.frameCache.RLock()
	data := []byte{FrameCacheSync}
	for i, e := range p.frameCache.cache {
		if len(e.data) == 0 {
			continue
		}
		data = binary.LittleEndian.AppendUint32(data, uint32(len(e.data)))
		data = binary.LittleEndian.AppendUint16(data, uint16(i))
		data = append(data, e.data...)
	}
	p.frameCache.RUnlock()
	c.send(data)
}

func compress(data []byte, quality int) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, quality)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
