package popsheet

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// --- TTFFont ---

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering.
type TTFFont struct {
	face   *text.GoTextFace
	source *text.GoTextFaceSource
	size   float64
	lh     float64 // cached line height
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	if size <= 0 {
		return nil, fmt.Errorf("popsheet: invalid font size %g", size)
	}
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("popsheet: failed to parse TTF data: %w", err)
	}

	face := &text.GoTextFace{
		Source: source,
		Size:   size,
	}

	m := face.Metrics()
	lh := m.HAscent + m.HDescent + m.HLineGap

	return &TTFFont{
		face:   face,
		source: source,
		size:   size,
		lh:     lh,
	}, nil
}

// MeasureString returns the pixel width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 {
	return f.lh
}

// Size returns the font size in pixels.
func (f *TTFFont) Size() float64 {
	return f.size
}

// Face returns the underlying text/v2 face.
func (f *TTFFont) Face() *text.GoTextFace {
	return f.face
}

// --- TextBlock ---

// TextBlock holds text content, its fill color and cached layout state.
type TextBlock struct {
	Content string
	Font    *TTFFont
	Color   Color

	layoutDirty bool
	measuredW   float64
	measuredH   float64

	// Rendered text, reused until content or color changes.
	image      *ebiten.Image
	imageDirty bool
	imageColor Color
}

// SetContent replaces the text and invalidates the cached layout.
func (tb *TextBlock) SetContent(s string) {
	if s == tb.Content {
		return
	}
	tb.Content = s
	tb.layoutDirty = true
}

// layout recomputes the measured size if dirty. A block without a font
// measures zero.
func (tb *TextBlock) layout() {
	if !tb.layoutDirty {
		return
	}
	tb.layoutDirty = false
	tb.imageDirty = true
	if tb.Font == nil {
		tb.measuredW = 0
		tb.measuredH = 0
		return
	}
	tb.measuredW, tb.measuredH = tb.Font.MeasureString(tb.Content)
}

// Size returns the measured width and height of the block.
func (tb *TextBlock) Size() (w, h float64) {
	tb.layout()
	return tb.measuredW, tb.measuredH
}

// render returns the cached image for the block, redrawing it when the
// content or color changed. Returns nil for empty text.
func (tb *TextBlock) render() *ebiten.Image {
	tb.layout()
	if tb.measuredW == 0 || tb.measuredH == 0 {
		return nil
	}
	if tb.image != nil && !tb.imageDirty && tb.imageColor == tb.Color {
		return tb.image
	}
	tb.imageDirty = false
	tb.imageColor = tb.Color

	w := int(tb.measuredW) + 1
	h := int(tb.measuredH) + 1
	if tb.image != nil {
		b := tb.image.Bounds()
		if b.Dx() != w || b.Dy() != h {
			tb.image.Deallocate()
			tb.image = ebiten.NewImage(w, h)
		} else {
			tb.image.Clear()
		}
	} else {
		tb.image = ebiten.NewImage(w, h)
	}

	op := &text.DrawOptions{}
	op.ColorScale.Scale(
		float32(tb.Color.R),
		float32(tb.Color.G),
		float32(tb.Color.B),
		float32(tb.Color.A),
	)
	op.LineSpacing = tb.Font.lh
	text.Draw(tb.image, tb.Content, tb.Font.face, op)
	return tb.image
}
