package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestApplyKeys(t *testing.T) {
	in := New()
	in.Apply(Event{Type: EventKeyDown, Key: sdl.SCANCODE_W})
	in.Apply(Event{Type: EventKeyDown, Key: sdl.SCANCODE_A, Repeat: true})

	if !in.IsKeyDown(sdl.SCANCODE_W) || !in.IsKeyPressed(sdl.SCANCODE_W) {
		t.Error("W should be held and pressed")
	}
	if in.IsKeyPressed(sdl.SCANCODE_A) {
		t.Error("a repeat is not a press")
	}

	in.Apply(Event{Type: EventKeyUp, Key: sdl.SCANCODE_W})
	if in.IsKeyDown(sdl.SCANCODE_W) {
		t.Error("W still held after key up")
	}
	if len(in.Events()) != 3 {
		t.Errorf("events = %d, want 3", len(in.Events()))
	}
}

func TestApplyMouse(t *testing.T) {
	in := New()
	in.Apply(Event{Type: EventMouseMove, MouseX: 10, MouseY: 20, RelX: 3, RelY: -1})
	in.Apply(Event{Type: EventMouseMove, MouseX: 12, MouseY: 18, RelX: 2, RelY: -2})
	in.Apply(Event{Type: EventMouseDown, MouseX: 12, MouseY: 18, Button: sdl.BUTTON_LEFT})

	if x, y := in.Mouse(); x != 12 || y != 18 {
		t.Errorf("mouse = %d,%d", x, y)
	}
	if dx, dy := in.MouseDelta(); dx != 5 || dy != -3 {
		t.Errorf("delta = %d,%d, want 5,-3", dx, dy)
	}
	if !in.IsButtonDown(sdl.BUTTON_LEFT) || !in.IsButtonPressed(sdl.BUTTON_LEFT) {
		t.Error("left button should be down and pressed")
	}
	if in.IsButtonDown(sdl.BUTTON_RIGHT) {
		t.Error("right button is not down")
	}

	in.Apply(Event{Type: EventMouseUp, Button: sdl.BUTTON_LEFT})
	if in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("left button still down")
	}
}
