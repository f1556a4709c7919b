package view

import (
	"testing"

	"github.com/youenchene/ACE/internal/copper"
	"github.com/youenchene/ACE/internal/types"
)

func TestView(t *testing.T) {
	v := New()
	if v.X() != types.DefaultViewX || v.Y() != types.DefaultViewY {
		t.Errorf("got origin %02X,%02X, want %02X,%02X", v.X(), v.Y(), types.DefaultViewX, types.DefaultViewY)
	}
	if v.Copper().Mode() != copper.ModeBlock {
		t.Errorf("got %v, want block mode", v.Copper().Mode())
	}

	raw := New(WithOrigin(0x40, 0x30), WithCopperMode(copper.ModeRaw, 16))
	if raw.Copper().Back().Len() != 16 {
		t.Errorf("got %d cmds, want 16", raw.Copper().Back().Len())
	}

	back := raw.Copper().Back()
	raw.Process()
	if raw.Copper().Front() != back {
		t.Errorf("expected Process to swap buffers")
	}
	if raw.Frame() != 1 {
		t.Errorf("got frame %d, want 1", raw.Frame())
	}
}
