package main

import (
	"strings"
	"testing"

	"github.com/youenchene/ACE/internal/sprite"
)

func TestChannelTable(t *testing.T) {
	infos := []sprite.ChannelInfo{
		{Channel: 0, Claimed: true, Enabled: true, Elements: 4, Address: 0x10008, HasBlock: true},
		{Channel: 1, Address: 0x10000, Regen: 2},
	}
	table := channelTable(infos)
	lines := strings.Split(table, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want a header and 2 rows:\n%s", len(lines), table)
	}
	for _, want := range []string{"POINTER", "$010008", "claimed"} {
		if !strings.Contains(table, want) {
			t.Errorf("expected %q in\n%s", want, table)
		}
	}
	if !strings.Contains(lines[2], "$010000") {
		t.Errorf("expected channel 1 to point at the blank sprite: %q", lines[2])
	}
}
