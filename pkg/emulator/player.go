package emulator

import (
	"context"
	"image"
	"sync/atomic"
	"time"

	"github.com/youenchene/ACE/internal/display"
	"github.com/youenchene/ACE/internal/scheduler"
	"github.com/youenchene/ACE/internal/sprite"
	"github.com/youenchene/ACE/internal/system"
	"github.com/youenchene/ACE/internal/view"
	"github.com/youenchene/ACE/pkg/log"
)

// FrameTime is the duration of one PAL frame.
const FrameTime = time.Second / 50

// spriteGap is the number of lines left between two sub-sprites, so the
// DMA has a free line to fetch the next header on.
const spriteGap = 2

var _ Controller = (*Player)(nil)

// Capture is a rendered frame handed to the capture callbacks.
type Capture struct {
	Frame   uint64
	Image   *image.RGBA
	Hash    uint64
	Changed bool // differs from the previous capture
}

type path struct {
	x, y int16
	dx   int16
}

// Player drives an advanced sprite multiplexer one display frame at a
// time. Sub-sprites are moved and animated by scheduled events, their
// chains are rebuilt and published, and the displayed copper buffer is
// rendered whenever a capture is due.
type Player struct {
	view     *view.View
	sprite   *sprite.Advanced
	sys      *system.System
	sched    *scheduler.Scheduler
	renderer *display.Renderer

	animRate    uint64
	moveRate    uint64
	captureRate uint64
	frameTime   time.Duration
	width       int

	paths      []path
	captureDue bool
	captures   []func(Capture)
	lastHash   uint64
	captured   bool

	status atomic.Int32
	frames atomic.Uint64

	log log.Logger
}

// Opt configures a Player.
type Opt func(p *Player)

// WithAnimationRate sets the number of frames every animation frame is
// shown for. 0 disables animation.
func WithAnimationRate(frames uint64) Opt {
	return func(p *Player) {
		p.animRate = frames
	}
}

// WithMoveRate sets the number of frames between two one pixel moves of
// the sub-sprites. 0 keeps them still.
func WithMoveRate(frames uint64) Opt {
	return func(p *Player) {
		p.moveRate = frames
	}
}

// WithCaptureRate sets the number of frames between two rendered frames.
func WithCaptureRate(frames uint64) Opt {
	return func(p *Player) {
		p.captureRate = frames
	}
}

// WithFrameTime sets the pace of Run. 0 steps as fast as possible.
func WithFrameTime(d time.Duration) Opt {
	return func(p *Player) {
		p.frameTime = d
	}
}

// WithWidth sets the width of the area the sub-sprites bounce in.
func WithWidth(width int) Opt {
	return func(p *Player) {
		p.width = width
	}
}

// OnCapture adds a function called with every rendered frame.
func OnCapture(fn func(Capture)) Opt {
	return func(p *Player) {
		p.captures = append(p.captures, fn)
	}
}

// WithLogger sets the logger of the player.
func WithLogger(l log.Logger) Opt {
	return func(p *Player) {
		p.log = l
	}
}

// NewPlayer creates a player of s, whose channels are registered in reg
// on view v, rendering with r. The sub-sprites are stacked from the top of
// the view with a staggered animation frame and alternating directions.
func NewPlayer(v *view.View, reg *sprite.Registry, s *sprite.Advanced, r *display.Renderer, opts ...Opt) *Player {
	p := &Player{
		view:        v,
		sprite:      s,
		sys:         reg.System(),
		sched:       scheduler.NewScheduler(),
		renderer:    r,
		animRate:    8,
		moveRate:    1,
		captureRate: 1,
		frameTime:   FrameTime,
		width:       display.ScreenWidth,
		log:         log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}

	maxX := p.maxX()
	p.paths = make([]path, s.Len())
	for i := range p.paths {
		pt := path{y: int16(i * (s.Height() + spriteGap + 1)), dx: 1}
		if i&1 == 1 {
			pt.dx = -1
		}
		if maxX > 0 {
			pt.x = int16(i*24) % (maxX + 1)
		}
		p.paths[i] = pt
		s.SetPos(i, pt.x, pt.y)
		if s.AnimCount() > 0 {
			s.SetFrame(i, uint16(i%s.AnimCount()))
		}
	}

	p.sched.RegisterEvent(scheduler.AnimationAdvance, p.advance)
	p.sched.RegisterEvent(scheduler.SpriteMove, p.move)
	p.sched.RegisterEvent(scheduler.PreviewCapture, p.capture)
	if p.animRate > 0 && s.AnimCount() > 1 {
		p.sched.ScheduleEvent(scheduler.AnimationAdvance, p.animRate)
	}
	if p.moveRate > 0 && maxX > 0 {
		p.sched.ScheduleEvent(scheduler.SpriteMove, p.moveRate)
	}
	if p.captureRate > 0 {
		// the first frame is always captured
		p.sched.ScheduleEvent(scheduler.PreviewCapture, 1)
	}
	return p
}

func (p *Player) maxX() int16 {
	return int16(p.width - p.sprite.ByteWidth()*8)
}

func (p *Player) advance() {
	anims := p.sprite.AnimCount()
	for i := 0; i < p.sprite.Len(); i++ {
		next := (int(p.sprite.Frame(i)) + 1) % anims
		if err := p.sprite.SetFrame(i, uint16(next)); err != nil {
			p.log.Errorf("player: %v", err)
		}
	}
	p.sched.ScheduleEvent(scheduler.AnimationAdvance, p.animRate)
}

func (p *Player) move() {
	maxX := p.maxX()
	for i := range p.paths {
		pt := &p.paths[i]
		pt.x += pt.dx
		if pt.x <= 0 || pt.x >= maxX {
			pt.dx = -pt.dx
			pt.x = min(max(pt.x, 0), maxX)
		}
		p.sprite.SetPos(i, pt.x, pt.y)
	}
	p.sched.ScheduleEvent(scheduler.SpriteMove, p.moveRate)
}

func (p *Player) capture() {
	p.captureDue = true
	p.sched.ScheduleEvent(scheduler.PreviewCapture, p.captureRate)
}

// Step advances the display by one frame. The rendered frame is returned
// when a capture was due, nil otherwise.
func (p *Player) Step() *image.RGBA {
	p.sys.Use()
	p.sched.Tick(1)
	p.sprite.Process()
	if err := p.sprite.ProcessChannel(); err != nil {
		p.log.Errorf("player: %v", err)
	}
	p.view.Process()
	p.sys.Unuse()

	frame := p.frames.Add(1)
	if !p.captureDue {
		return nil
	}
	p.captureDue = false

	img := p.renderer.Render()
	c := Capture{Frame: frame, Image: img, Hash: display.Hash(img)}
	c.Changed = !p.captured || c.Hash != p.lastHash
	p.lastHash, p.captured = c.Hash, true
	for _, fn := range p.captures {
		fn(c)
	}
	return img
}

// Run steps the player at its frame rate until ctx is done or, when
// frames is not zero, until that many frames have been stepped. A paused
// player keeps waiting without stepping.
func (p *Player) Run(ctx context.Context, frames uint64) error {
	defer p.status.Store(int32(Stopped))

	var tick <-chan time.Time
	if p.frameTime > 0 {
		ticker := time.NewTicker(p.frameTime)
		defer ticker.Stop()
		tick = ticker.C
	}

	for frames == 0 || p.Frame() < frames {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if p.Paused() {
			if tick == nil {
				time.Sleep(FrameTime)
			}
			continue
		}
		p.Step()
	}
	return nil
}

// Pause suspends stepping once the current frame is done.
func (p *Player) Pause() {
	p.sys.Background(func() {
		p.status.CompareAndSwap(int32(Running), int32(Paused))
	})
	p.log.Infof("player: paused at frame %d", p.Frame())
}

// Resume resumes stepping.
func (p *Player) Resume() {
	p.sys.Background(func() {
		p.status.CompareAndSwap(int32(Paused), int32(Running))
	})
	p.log.Infof("player: resumed at frame %d", p.Frame())
}

// Paused reports whether the player is paused.
func (p *Player) Paused() bool {
	return p.Status().IsPaused()
}

// Status returns the status of the player.
func (p *Player) Status() Status {
	return Status(p.status.Load())
}

// Frame returns the number of frames stepped.
func (p *Player) Frame() uint64 {
	return p.frames.Load()
}

// Position returns where sub-sprite i currently is.
func (p *Player) Position(i int) (x, y int16) {
	return p.paths[i].x, p.paths[i].y
}
