package ingest

import (
	"testing"
	"time"
)

func TestButton_PressAndRelease_ShouldToggleFlushGate(t *testing.T) {
	b := NewButton(false, &stepClock{})

	if !b.AllowFlush() {
		t.Fatal("released button must allow flushing")
	}
	b.Press()
	if b.AllowFlush() || !b.Pressed() {
		t.Error("held button must block flushing")
	}
	b.Release()
	if !b.AllowFlush() {
		t.Error("flush still blocked after release")
	}
}

func TestButton_RepeatedPress_ShouldCountOneEdge(t *testing.T) {
	b := NewButton(false, &stepClock{})

	b.Press()
	b.Press()
	b.Release()
	b.Release()
	b.Press()

	if got := b.Presses(); got != 2 {
		t.Errorf("Expected 2 press edges but got %d", got)
	}
	if got := len(b.Out); got != 3 {
		t.Errorf("Expected 3 events but got %d", got)
	}
}

func TestButton_Events_CarryUptime(t *testing.T) {
	clock := &stepClock{uptime: 1500 * time.Millisecond}
	b := NewButton(false, clock)

	b.Press()
	ev := <-b.Out

	if !ev.Pressed || ev.At != 1500*time.Millisecond {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestButton_FullChannel_ShouldDropEvents(t *testing.T) {
	b := NewButton(false, &stepClock{})
	for i := 0; i < cap(b.Out)+3; i++ {
		b.Press()
		b.Release()
	}
	presses, dropped := b.Stats()
	if presses != uint64(cap(b.Out)+3) {
		t.Errorf("Expected every press counted but got %d", presses)
	}
	if dropped == 0 {
		t.Error("Expected dropped events once the channel is full")
	}
}
