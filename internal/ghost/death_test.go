package ghost

import (
	"math"
	"testing"
)

func TestDeathAnimRunsOnce(t *testing.T) {
	d := NewDeathAnim(DefaultDeathConfig())

	d.Trigger(1, 0)
	if !d.Active() {
		t.Fatal("trigger should start the fall")
	}

	// A second trigger while active must not restart or redirect.
	d.Update(0.3)
	tBefore := d.t
	d.Trigger(0, 1)
	if d.t != tBefore || d.dirY != 0 {
		t.Error("re-trigger while active should be ignored")
	}

	for i := 0; i < 100; i++ {
		d.Update(0.05)
	}
	if d.Active() || !d.Done() {
		t.Error("fall should finish and stay done")
	}

	// Done is sticky: no replay without Reset.
	d.Trigger(1, 0)
	if d.Active() {
		t.Error("trigger after done should be ignored")
	}

	d.Reset()
	d.Trigger(1, 0)
	if !d.Active() {
		t.Error("reset should allow a fresh fall")
	}
}

func TestDeathAnimSlidesAlongHitDirection(t *testing.T) {
	cfg := DefaultDeathConfig()
	d := NewDeathAnim(cfg)
	d.Trigger(3, 4) // normalized to (0.6, 0.8)

	var offX, offY float64
	for !d.Done() {
		offX, offY, _, _ = d.Update(0.05)
	}

	if math.Abs(offX-0.6*cfg.SlideDistance) > 1e-9 {
		t.Errorf("offX = %f, want %f", offX, 0.6*cfg.SlideDistance)
	}
	if math.Abs(offY-0.8*cfg.SlideDistance) > 1e-9 {
		t.Errorf("offY = %f, want %f", offY, 0.8*cfg.SlideDistance)
	}
}

func TestDeathAnimZeroDirectionFallsDown(t *testing.T) {
	d := NewDeathAnim(DefaultDeathConfig())
	d.Trigger(0, 0)

	offX, offY, _, _ := d.Update(0.1)
	if offX != 0 || offY <= 0 {
		t.Errorf("zero hit direction should fall straight down, got (%f, %f)", offX, offY)
	}
}

func TestDeathAnimEaseOutMonotonic(t *testing.T) {
	d := NewDeathAnim(DefaultDeathConfig())
	d.Trigger(1, 0)

	prev := -1.0
	for i := 0; i < 20; i++ {
		offX, _, rot, _ := d.Update(0.05)
		if offX < prev {
			t.Fatalf("slide should be monotonic, %f < %f at step %d", offX, prev, i)
		}
		prev = offX
		if rot < 0 || rot > DefaultDeathConfig().MaxRotation {
			t.Errorf("rotation %f out of range", rot)
		}
	}
}

func TestDeathAnimTintFades(t *testing.T) {
	d := NewDeathAnim(DefaultDeathConfig())
	d.Trigger(1, 0)

	_, _, _, early := d.Update(0.01)
	for i := 0; i < 100; i++ {
		d.Update(0.05)
	}
	d2 := NewDeathAnim(DefaultDeathConfig())
	d2.Trigger(1, 0)
	var last Tint
	for i := 0; i < 100; i++ {
		_, _, _, last = d2.Update(0.05)
	}

	if early.A <= last.A {
		t.Errorf("alpha should fade: early %f, final %f", early.A, last.A)
	}
	if last.A != 0 {
		t.Errorf("final alpha = %f, want 0", last.A)
	}
}
