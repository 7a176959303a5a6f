package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/darkdescent/internal/engine/spatial"
	"github.com/Faultbox/darkdescent/pkg/math"
)

func TestBoxEdgesAreAxisAligned(t *testing.T) {
	corners := BoxCorners(spatial.NewAABB(math.V3(-1, -2, -3), math.V3(1, 2, 3)))
	seen := make(map[[2]int]bool)
	for _, e := range BoxEdges {
		d := corners[e[1]].Sub(corners[e[0]])
		axes := 0
		for i := 0; i < 3; i++ {
			if d.Axis(i) != 0 {
				axes++
			}
		}
		if axes != 1 {
			t.Errorf("edge %v spans %d axes", e, axes)
		}
		key := e
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			t.Errorf("duplicate edge %v", e)
		}
		seen[key] = true
	}
}

func TestBoxWireframePadding(t *testing.T) {
	w := BoxWireframe(spatial.NewAABB(math.V3(0, 0, 0), math.V3(1, 1, 1)), 0.5)
	for _, p := range w {
		for i := 0; i < 3; i++ {
			if v := p.Axis(i); v != -0.5 && v != 1.5 {
				t.Fatalf("corner %v not on padded box", p)
			}
		}
	}
}

func TestOctreeBoxes(t *testing.T) {
	root := spatial.NewAABB(math.V3(0, 0, 0), math.V3(2, 2, 2))
	face := spatial.NewAABB(math.V3(0.1, 0.1, 0.1), math.V3(0.5, 0.5, 0.5))
	tree := spatial.Build(root, 1, []spatial.AABB{face})

	boxes := OctreeBoxes(tree)
	if len(boxes) != 1 {
		t.Fatalf("got %d boxes, want 1", len(boxes))
	}
	if boxes[0].Max != math.V3(1, 1, 1) {
		t.Errorf("box: got %+v", boxes[0])
	}
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		want           [4]float64
		ok             bool
	}{
		{"inside", 1, 1, 5, 5, [4]float64{1, 1, 5, 5}, true},
		{"crosses right", 5, 5, 15, 5, [4]float64{5, 5, 10, 5}, true},
		{"crosses both", -5, 5, 15, 5, [4]float64{0, 5, 10, 5}, true},
		{"above", 1, -5, 9, -1, [4]float64{}, false},
		{"vertical outside", 11, 0, 11, 10, [4]float64{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, y0, x1, y1, ok := clipSegment(tt.x0, tt.y0, tt.x1, tt.y1, 10, 10)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if ok && [4]float64{x0, y0, x1, y1} != tt.want {
				t.Errorf("got %v, want %v", [4]float64{x0, y0, x1, y1}, tt.want)
			}
		})
	}
}

func TestCanvas(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	c := NewCanvas(20, 20)
	if got := c.Image.RGBAAt(0, 0); got != c.Background {
		t.Fatalf("background: got %v", got)
	}

	c.DrawPoint(5, 5, 4, red)
	if got := c.Image.RGBAAt(4, 4); got != red {
		t.Errorf("point pixel: got %v", got)
	}
	if got := c.Image.RGBAAt(10, 10); got != c.Background {
		t.Errorf("point bled: got %v", got)
	}

	c.DrawLine(2, 15.5, 18, 15.5, white)
	if got := c.Image.RGBAAt(10, 15); got.R < 250 || got.G < 250 || got.B < 250 {
		t.Errorf("line pixel: got %v", got)
	}

	// Entirely off canvas.
	c.DrawLine(-50, -50, -10, -10, white)
	c.DrawPoint(-10, -10, 4, white)

	c.Clear()
	if got := c.Image.RGBAAt(4, 4); got != c.Background {
		t.Errorf("clear: got %v", got)
	}
}

func TestScreenshotCapture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "frame")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	c := NewCanvas(4, 3)
	c.DrawPoint(1, 1, 2, color.RGBA{G: 255, A: 255})

	name, err := sc.CaptureFromImage(c.Image)
	if err != nil {
		t.Fatalf("CaptureFromImage: %v", err)
	}
	if !strings.HasSuffix(name, "frame_2024-05-01_12-30-00.000.png") {
		t.Errorf("filename: %s", name)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds: %v", b)
	}

	if _, err := sc.CaptureFromPixels(make([]byte, 7), 2, 2); err == nil {
		t.Errorf("short pixel buffer accepted")
	}
}
