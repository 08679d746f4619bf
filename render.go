package popsheet

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// whitePixelImage is a 1x1 white image used as the source for solid fills.
// Created on first use so that the package can be imported without a GPU.
var whitePixelImage *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// drawBuffers holds vertex and index scratch space reused across frames.
type drawBuffers struct {
	verts []ebiten.Vertex
	inds  []uint16
	out   []ebiten.Vertex
}

// transformVertices applies an affine transform and color tint to src vertices,
// writing the result into dst. dst must be at least len(src) in length.
//
// Matrix layout: [0]=a, [1]=b, [2]=c, [3]=d, [4]=tx, [5]=ty
// newX = a*x + c*y + tx, newY = b*x + d*y + ty
//
// The tint's alpha already has worldAlpha baked in. Output colors are
// premultiplied.
func transformVertices(src, dst []ebiten.Vertex, transform [6]float64, tint Color) {
	a, b, c, d, tx, ty := transform[0], transform[1], transform[2], transform[3], transform[4], transform[5]
	cr := float32(tint.R)
	cg := float32(tint.G)
	cb := float32(tint.B)
	ca := float32(tint.A)

	for i := range src {
		s := &src[i]
		ox := float64(s.DstX)
		oy := float64(s.DstY)
		dst[i] = ebiten.Vertex{
			DstX:   float32(a*ox + c*oy + tx),
			DstY:   float32(b*ox + d*oy + ty),
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: s.ColorR * cr * ca,
			ColorG: s.ColorG * cg * ca,
			ColorB: s.ColorB * cb * ca,
			ColorA: s.ColorA * ca,
		}
	}
}

// rectPath builds the outline of a w x h rectangle in local space, rounding
// the selected corners. The radius is clamped to half the shorter side.
func rectPath(w, h, radius float64, corners Corners) *vector.Path {
	r := math.Min(radius, math.Min(w, h)/2)
	if r < 0 {
		r = 0
	}
	rad := func(c Corners) float32 {
		if corners&c != 0 {
			return float32(r)
		}
		return 0
	}
	tl, tr, br, bl := rad(CornerTopLeft), rad(CornerTopRight), rad(CornerBottomRight), rad(CornerBottomLeft)
	fw, fh := float32(w), float32(h)

	var p vector.Path
	p.MoveTo(tl, 0)
	p.LineTo(fw-tr, 0)
	if tr > 0 {
		p.Arc(fw-tr, tr, tr, -math.Pi/2, 0, vector.Clockwise)
	}
	p.LineTo(fw, fh-br)
	if br > 0 {
		p.Arc(fw-br, fh-br, br, 0, math.Pi/2, vector.Clockwise)
	}
	p.LineTo(bl, fh)
	if bl > 0 {
		p.Arc(bl, fh-bl, bl, math.Pi/2, math.Pi, vector.Clockwise)
	}
	p.LineTo(0, tl)
	if tl > 0 {
		p.Arc(tl, tl, tl, math.Pi, 3*math.Pi/2, vector.Clockwise)
	}
	p.Close()
	return &p
}

// drawNode renders n and its subtree depth-first in child order. World
// transforms must already be up to date.
func (s *Scene) drawNode(dst *ebiten.Image, n *Node) {
	if !n.Visible || n.worldAlpha <= 0 {
		return
	}
	switch n.Type {
	case NodeTypeRect:
		s.drawRect(dst, n)
	case NodeTypeText:
		drawText(dst, n)
	}
	for _, c := range n.children {
		s.drawNode(dst, c)
	}
}

func (s *Scene) drawRect(dst *ebiten.Image, n *Node) {
	if n.Width <= 0 || n.Height <= 0 {
		return
	}
	b := &s.draw
	path := rectPath(n.Width, n.Height, n.CornerRadius, n.Corners)
	b.verts, b.inds = path.AppendVerticesAndIndicesForFilling(b.verts[:0], b.inds[:0])
	if len(b.inds) == 0 {
		return
	}
	if cap(b.out) < len(b.verts) {
		b.out = make([]ebiten.Vertex, len(b.verts))
	}
	b.out = b.out[:len(b.verts)]

	tint := Color{n.Color.R, n.Color.G, n.Color.B, n.Color.A * n.worldAlpha}
	transformVertices(b.verts, b.out, n.worldTransform, tint)

	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(b.out, b.inds, ensureWhitePixel(), op)
}

func drawText(dst *ebiten.Image, n *Node) {
	if n.TextBlock == nil {
		return
	}
	img := n.TextBlock.render()
	if img == nil {
		return
	}
	m := n.worldTransform
	op := &ebiten.DrawImageOptions{}
	op.GeoM.SetElement(0, 0, m[0])
	op.GeoM.SetElement(1, 0, m[1])
	op.GeoM.SetElement(0, 1, m[2])
	op.GeoM.SetElement(1, 1, m[3])
	op.GeoM.SetElement(0, 2, m[4])
	op.GeoM.SetElement(1, 2, m[5])
	op.ColorScale.ScaleAlpha(float32(n.worldAlpha))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}
