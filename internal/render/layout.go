package render

import (
	"github.com/akolanti/scanflow/internal/domain/exportModel"
)

const pointsPerInch = 72.0

var (
	SizeA4     = Size{W: 595.28, H: 841.89}
	SizeLetter = Size{W: 612, H: 792}
)

// Size is a page size in points.
type Size struct {
	W, H float64
}

// Placement is an image rectangle in points, origin bottom-left.
type Placement struct {
	X, Y, W, H float64
}

// PixelsToPoints converts a pixel length captured at dpi into points.
func PixelsToPoints(px, dpi int) float64 {
	if dpi <= 0 {
		dpi = int(pointsPerInch)
	}
	return float64(px) * pointsPerInch / float64(dpi)
}

// PageSizeFor resolves the template page size. Auto pages take the physical
// size of the first image.
func PageSizeFor(size exportModel.PageSize, firstW, firstH, dpi int) Size {
	switch size {
	case exportModel.PageSizeA4:
		return SizeA4
	case exportModel.PageSizeLetter:
		return SizeLetter
	}
	return Size{W: PixelsToPoints(firstW, dpi), H: PixelsToPoints(firstH, dpi)}
}

// ContentBox is the page minus the margins.
func ContentBox(page Size, m exportModel.Margins) Placement {
	return Placement{
		X: m.Left() * pointsPerInch,
		Y: m.Bottom() * pointsPerInch,
		W: page.W - (m.Left()+m.Right())*pointsPerInch,
		H: page.H - (m.Top()+m.Bottom())*pointsPerInch,
	}
}

// Place positions an imgW x imgH pixel image captured at dpi inside box.
// With fit the image fills the box, letterboxed and centered along the spare
// axis when keepAspect is set. Without fit it keeps its physical size and
// sits at the bottom-left corner of the box.
func Place(box Placement, imgW, imgH, dpi int, fit, keepAspect bool) Placement {
	if !fit {
		return Placement{X: box.X, Y: box.Y, W: PixelsToPoints(imgW, dpi), H: PixelsToPoints(imgH, dpi)}
	}
	p := box
	if !keepAspect || imgW <= 0 || imgH <= 0 || box.H <= 0 {
		return p
	}
	imgRatio := float64(imgW) / float64(imgH)
	boxRatio := box.W / box.H
	if imgRatio > boxRatio {
		p.H = p.W / imgRatio
		p.Y += (box.H - p.H) / 2
	} else {
		p.W = p.H * imgRatio
		p.X += (box.W - p.W) / 2
	}
	return p
}
