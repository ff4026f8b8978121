package render

import (
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"curvetopia/pkg/color"
	"curvetopia/pkg/geometry"
	"curvetopia/pkg/pathio"

	"golang.org/x/image/vector"
	"golang.org/x/xerrors"
)

// strokeWidth is the line width in pixels.
const strokeWidth = 2

// PNG rasterizes curves onto a white image whose longer side is size pixels.
func PNG(w io.Writer, curves []pathio.Curve, size int) error {
	img, err := Rasterize(curves, size)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return xerrors.Errorf("encode png: %w", err)
	}
	return nil
}

// Rasterize draws curves into a new RGBA image whose longer side is size
// pixels.
func Rasterize(curves []pathio.Curve, size int) (*image.RGBA, error) {
	if size < 1 {
		return nil, xerrors.Errorf("image size %d must be positive", size)
	}
	vp := newViewport(curves)
	scale := float64(size) / math.Max(vp.width, vp.height)
	width, height := size, size
	if vp.width > vp.height {
		height = max(1, int(math.Round(vp.height*scale)))
	} else if vp.height > vp.width {
		width = max(1, int(math.Round(vp.width*scale)))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.ColorToImageColor(color.White)), image.Point{}, draw.Src)

	toPixels := func(p geometry.Point) geometry.Point {
		return geometry.Point{X: (p.X - vp.minX) * scale, Y: (p.Y - vp.minY) * scale}
	}

	ras := vector.NewRasterizer(width, height)
	for _, c := range curves {
		ras.Reset(width, height)
		ras.DrawOp = draw.Over
		points := make(geometry.Polyline, len(c.Points))
		for i, p := range c.Points {
			points[i] = toPixels(p)
		}
		strokePolyline(ras, points)
		src := image.NewUniform(color.ColorToImageColor(color.ForGroup(c.Group)))
		ras.Draw(img, img.Bounds(), src, image.Point{})
	}
	return img, nil
}

// strokePolyline adds one quad per segment. Every quad winds the same way,
// so overlaps at the joins do not cancel out.
func strokePolyline(ras *vector.Rasterizer, points geometry.Polyline) {
	half := strokeWidth / 2.0
	if len(points) == 1 {
		points = geometry.Polyline{points[0], points[0].Add(geometry.Point{X: half})}
	}
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		dir, err := b.Minus(a).Normalize()
		if err != nil {
			continue
		}
		n := dir.Perpendicular().Scale(half)
		a = a.Minus(dir.Scale(half))
		b = b.Add(dir.Scale(half))

		quad := []geometry.Point{a.Add(n), b.Add(n), b.Minus(n), a.Minus(n)}
		ras.MoveTo(float32(quad[0].X), float32(quad[0].Y))
		for _, q := range quad[1:] {
			ras.LineTo(float32(q.X), float32(q.Y))
		}
		ras.ClosePath()
	}
}
