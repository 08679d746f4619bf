package popsheet

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func fillRect(w, h, radius float64, corners Corners) ([]ebiten.Vertex, []uint16) {
	return rectPath(w, h, radius, corners).AppendVerticesAndIndicesForFilling(nil, nil)
}

func TestRectPathStaysInBounds(t *testing.T) {
	tests := []struct {
		name    string
		w, h, r float64
		corners Corners
	}{
		{"square", 100, 50, 0, CornersAll},
		{"popup", 350, 510, 20, CornersTop},
		{"all rounded", 100, 100, 10, CornersAll},
		{"radius clamped", 40, 20, 100, CornersAll},
		{"negative radius", 40, 20, -5, CornersAll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verts, inds := fillRect(tt.w, tt.h, tt.r, tt.corners)
			if len(verts) == 0 || len(inds) == 0 {
				t.Fatal("expected geometry")
			}
			if len(inds)%3 != 0 {
				t.Errorf("index count %d is not a multiple of 3", len(inds))
			}
			const slack = 1e-3
			for i, v := range verts {
				if v.DstX < -slack || float64(v.DstX) > tt.w+slack ||
					v.DstY < -slack || float64(v.DstY) > tt.h+slack {
					t.Errorf("vertex %d (%v, %v) outside %vx%v", i, v.DstX, v.DstY, tt.w, tt.h)
				}
			}
		})
	}
}

func TestRectPathSquareCorners(t *testing.T) {
	// Only the top corners are rounded, so the bottom corners are vertices.
	verts, _ := fillRect(350, 510, 20, CornersTop)
	has := func(x, y float32) bool {
		for _, v := range verts {
			if math.Abs(float64(v.DstX-x)) < 1e-3 && math.Abs(float64(v.DstY-y)) < 1e-3 {
				return true
			}
		}
		return false
	}
	if !has(0, 510) || !has(350, 510) {
		t.Error("bottom corners should be square")
	}
	if has(0, 0) || has(350, 0) {
		t.Error("top corners should be rounded")
	}
}

func TestTransformVertices(t *testing.T) {
	src := []ebiten.Vertex{
		{DstX: 0, DstY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: 10, DstY: 20, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	dst := make([]ebiten.Vertex, len(src))
	m := [6]float64{2, 0, 0, 2, 100, 50}
	tint := Color{1, 0.5, 0, 0.5}

	transformVertices(src, dst, m, tint)

	if dst[0].DstX != 100 || dst[0].DstY != 50 {
		t.Errorf("dst[0] = (%v, %v), want (100, 50)", dst[0].DstX, dst[0].DstY)
	}
	if dst[1].DstX != 120 || dst[1].DstY != 90 {
		t.Errorf("dst[1] = (%v, %v), want (120, 90)", dst[1].DstX, dst[1].DstY)
	}
	// Premultiplied by alpha.
	v := dst[1]
	if v.ColorR != 0.5 || v.ColorG != 0.25 || v.ColorB != 0 || v.ColorA != 0.5 {
		t.Errorf("color = (%v, %v, %v, %v), want (0.5, 0.25, 0, 0.5)", v.ColorR, v.ColorG, v.ColorB, v.ColorA)
	}
	if v.SrcX != 0.5 || v.SrcY != 0.5 {
		t.Error("source should sample the white pixel centre")
	}
}

func TestColorToRGBA(t *testing.T) {
	c := Color{1, 0.5, 0, 0.5}.toRGBA()
	if c.R != 127 || c.G != 63 || c.B != 0 || c.A != 127 {
		t.Errorf("toRGBA = %+v, want premultiplied {127 63 0 127}", c)
	}
	if got := (Color{2, -1, 0, 1}).toRGBA(); got.R != 255 || got.G != 0 {
		t.Errorf("toRGBA should clamp, got %+v", got)
	}
}
