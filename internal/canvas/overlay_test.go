package canvas

import "testing"

func TestOverlayRedrawsOnChange(t *testing.T) {
	s := &recordingSurface{}
	o := NewOverlay(nil, s)

	// 尺寸为零时不绘制
	if o.SetCommands(commands(t, "[DRAW:RECT x=10 y=10 w=10 h=10]")) {
		t.Error("rendered before dimensions were known")
	}

	if !o.Resize(Dimensions{Width: 100, Height: 50}) {
		t.Fatal("resize should trigger a render")
	}
	if o.Frames() != 1 || o.Drawn() != 1 {
		t.Errorf("frames=%d drawn=%d", o.Frames(), o.Drawn())
	}

	if o.Resize(Dimensions{Width: 100, Height: 50}) {
		t.Error("same dimensions should not re-render")
	}
	if o.SetCommands(commands(t, "[DRAW:RECT x=10 y=10 w=10 h=10]")) {
		t.Error("identical commands should not re-render")
	}

	if !o.SetCommands(commands(t, "[DRAW:RECT x=10 y=10 w=10 h=10][DRAW:LINE x1=1 y1=1 x2=2 y2=2]")) {
		t.Error("changed commands should re-render")
	}
	if o.Drawn() != 2 {
		t.Errorf("drawn = %d, want 2", o.Drawn())
	}

	if !o.Resize(Dimensions{Width: 200, Height: 50}) {
		t.Error("changed dimensions should re-render")
	}
	if o.Frames() != 3 {
		t.Errorf("frames = %d, want 3", o.Frames())
	}
}

func TestOverlaySuppressed(t *testing.T) {
	s := &recordingSurface{}
	o := NewOverlay(nil, s)
	o.Resize(Dimensions{Width: 100, Height: 100})
	o.SetCommands(commands(t, "[DRAW:CIRCLE x=50 y=50 r=10]"))

	s.ops = nil
	o.SetSuppressed(true)
	if o.Drawn() != 0 {
		t.Errorf("suppressed overlay drew %d shapes", o.Drawn())
	}
	if len(s.ops) != 1 || s.ops[0] != "clear" {
		t.Errorf("suppression should clear the surface, ops = %v", s.ops)
	}

	o.SetSuppressed(false)
	if o.Drawn() != 1 {
		t.Errorf("drawn = %d after unsuppress", o.Drawn())
	}
}

func TestOverlayDetach(t *testing.T) {
	s := &recordingSurface{}
	o := NewOverlay(nil, s)
	o.Resize(Dimensions{Width: 10, Height: 10})
	o.Detach()

	s.ops = nil
	o.Resize(Dimensions{Width: 20, Height: 20})
	o.SetCommands(commands(t, "[DRAW:RECT x=1 y=1 w=1 h=1]"))
	if len(s.ops) != 0 {
		t.Errorf("detached overlay still drew: %v", s.ops)
	}
}

func TestOverlayAttachLater(t *testing.T) {
	o := NewOverlay(nil, nil)
	o.Resize(Dimensions{Width: 40, Height: 10})
	o.SetCommands(commands(t, "[DRAW:LINE x1=10 y1=50 x2=90 y2=50]"))
	if o.Frames() != 0 {
		t.Fatal("rendered without a surface")
	}

	cells := NewCellSurface(1, 1)
	o.Attach(cells)
	if w, h := cells.Size(); w != 40 || h != 10 {
		t.Errorf("attached surface size = %dx%d, want 40x10", w, h)
	}
	if o.Drawn() != 1 || cells.Painted() == 0 {
		t.Errorf("drawn=%d painted=%d", o.Drawn(), cells.Painted())
	}
}
