package capture

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func testPad() *Pad {
	return NewPad(PadOptions{Bounds: image.Rect(10, 5, 50, 15), Scale: 4, PenWidth: 3})
}

// TestPadIgnoresEventsOutsideBounds verifies gestures outside the pad reach the host.
func TestPadIgnoresEventsOutsideBounds(t *testing.T) {
	pad := testPad()
	if pad.Press(image.Pt(0, 0)) {
		t.Fatalf("expected press outside bounds to pass through")
	}
	if pad.Drag(image.Pt(20, 10)) {
		t.Fatalf("expected drag without stroke to pass through")
	}
	if pad.Release() {
		t.Fatalf("expected release without stroke to pass through")
	}
	if !pad.IsEmpty() {
		t.Fatalf("expected pad to remain empty")
	}
}

// TestPadConsumesStrokeLeavingBounds verifies a stroke keeps the pointer once started inside.
func TestPadConsumesStrokeLeavingBounds(t *testing.T) {
	pad := testPad()
	if !pad.Press(image.Pt(12, 6)) {
		t.Fatalf("expected press inside bounds to be consumed")
	}
	if !pad.Drag(image.Pt(200, 200)) {
		t.Fatalf("expected drag during stroke to be consumed")
	}
	if !pad.Release() {
		t.Fatalf("expected release to be consumed")
	}
	if pad.IsEmpty() {
		t.Fatalf("expected ink after stroke")
	}
	ink := InkBounds(pad.Image())
	if ink.Empty() || ink.Max.X > pad.Image().Bounds().Max.X {
		t.Fatalf("unexpected ink bounds %v", ink)
	}
}

// TestPadEmitsSnapshotsAndNilOnClear verifies stroke-end notifications.
func TestPadEmitsSnapshotsAndNilOnClear(t *testing.T) {
	pad := testPad()
	var got [][]byte
	pad.OnStrokeEnd(func(data []byte) { got = append(got, data) })

	pad.DrawStroke([]image.Point{{X: 11, Y: 6}, {X: 30, Y: 12}})
	if len(got) != 1 || got[0] == nil {
		t.Fatalf("expected one snapshot, got %d", len(got))
	}
	img, err := png.Decode(bytes.NewReader(got[0]))
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if img.Bounds().Dx() != 160 || img.Bounds().Dy() != 40 {
		t.Fatalf("unexpected snapshot size %v", img.Bounds())
	}

	pad.Clear()
	if len(got) != 2 || got[1] != nil {
		t.Fatalf("expected nil after clear, got %v", got)
	}
	if !pad.IsEmpty() || pad.Snapshot() != nil {
		t.Fatalf("expected empty pad after clear")
	}
}

// TestInkBoundsBlank verifies a blank raster has no ink.
func TestInkBoundsBlank(t *testing.T) {
	if !InkBounds(testPad().Image()).Empty() {
		t.Fatalf("expected empty ink bounds")
	}
}
