package types

import "testing"

func TestSprChannel(t *testing.T) {
	for ch := uint8(0); ch < SpriteChannelCount; ch++ {
		got, high, ok := SprChannel(SprPtrH(ch))
		if !ok || !high || got != ch {
			t.Errorf("SPR%dPTH: got channel %d high %v ok %v", ch, got, high, ok)
		}
		got, high, ok = SprChannel(SprPtrL(ch))
		if !ok || high || got != ch {
			t.Errorf("SPR%dPTL: got channel %d high %v ok %v", ch, got, high, ok)
		}
	}
	if _, _, ok := SprChannel(SPR0POS); ok {
		t.Errorf("expected SPR0POS not to be a pointer register")
	}
	if got := Color(17); got != 0x1A2 {
		t.Errorf("got %03X, want %03X", got, 0x1A2)
	}
}
