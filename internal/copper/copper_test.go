package copper

import (
	"errors"
	"testing"
)

func TestCmd(t *testing.T) {
	m := NewMove(0x120, 0x0001)
	if !m.IsMove() || m.Reg() != 0x120 || m.Value() != 0x0001 {
		t.Errorf("got %v, want MOVE $0001,$120", m)
	}
	m.SetValue(0xBEEF)
	if m.Value() != 0xBEEF {
		t.Errorf("got %04X, want %04X", m.Value(), 0xBEEF)
	}

	w := NewWait(0x41, 0x2C)
	if w.IsMove() {
		t.Errorf("expected wait, got move")
	}
	if x, y := w.WaitPos(); x != 0x40 || y != 0x2C {
		t.Errorf("got %d,%d, want 64,44", x, y)
	}
}

func TestBlockMode(t *testing.T) {
	l := NewList(ModeBlock, 0)
	late := l.CreateBlock(1, 0, 100)
	early := l.CreateBlock(2, 0, 0)

	if err := l.Move(late, 0x180, 0x0FFF); err != nil {
		t.Fatal(err)
	}
	if err := l.Move(late, 0x182, 0x0000); !errors.Is(err, ErrBlockFull) {
		t.Errorf("got %v, want %v", err, ErrBlockFull)
	}
	l.Move(early, 0x120, 0x0001)
	l.Move(early, 0x122, 0x0000)

	l.Process()
	l.Swap()
	l.Process()
	l.Swap()

	for _, buf := range []*Buffer{l.Front(), l.Back()} {
		if buf.Len() != 6 {
			t.Fatalf("got %d cmds, want 6", buf.Len())
		}
		if _, y := buf.At(0).WaitPos(); y != 0 {
			t.Errorf("expected early block first, got wait at line %d", y)
		}
		if buf.At(1).Reg() != 0x120 || buf.At(4).Reg() != 0x180 {
			t.Errorf("unexpected order: %v", buf.Cmds())
		}
	}

	// nothing pending, buffers stay untouched
	l.Back().Set(0, End())
	l.Process()
	if l.Back().At(0) != End() {
		t.Errorf("expected Process to be a no-op without changes")
	}

	l.DestroyBlock(early)
	if l.Blocks() != 1 {
		t.Errorf("got %d blocks, want 1", l.Blocks())
	}
}

func TestRawMode(t *testing.T) {
	l := NewList(ModeRaw, 4)
	l.Back().Set(0, NewMove(0x120, 0))
	l.Back().SetMoveValue(0, 0x1234)
	l.Process()

	if got := l.Back().At(0).Value(); got != 0x1234 {
		t.Errorf("got %04X, want %04X", got, 0x1234)
	}
	if l.Front().At(0) != End() {
		t.Errorf("expected front buffer untouched, got %v", l.Front().At(0))
	}
	l.Swap()
	if got := l.Front().At(0).Value(); got != 0x1234 {
		t.Errorf("got %04X, want %04X after swap", got, 0x1234)
	}
}
