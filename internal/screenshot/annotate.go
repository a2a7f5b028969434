package screenshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mj1618/device-cli/internal/model"
)

// Annotate draws bounding boxes and "[index]" labels for each element onto
// the image, so an agent can cross-reference a screenshot against the
// indexed hierarchy from the same session. Element bounds are logical
// pixels; scale converts them to image pixels (HiDPI captures).
func Annotate(img image.Image, elements []model.UiElement, scale float64) image.Image {
	if scale <= 0 {
		scale = 1
	}
	rgba := toRGBA(img)

	boxColor := color.RGBA{R: 255, G: 0, B: 0, A: 100}
	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor := color.RGBA{R: 0, G: 0, B: 0, A: 200}

	for _, el := range elements {
		x := int(float64(el.Bounds.X) * scale)
		y := int(float64(el.Bounds.Y) * scale)
		w := int(float64(el.Bounds.Width) * scale)
		h := int(float64(el.Bounds.Height) * scale)

		drawRectangle(rgba, x, y, x+w, y+h, boxColor)
		label := fmt.Sprintf("[%d]", el.Index)
		drawTextWithOutline(rgba, label, x+w/2, y+h/2, textColor, outlineColor)
	}
	return rgba
}

func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

func inBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

// drawRectangle draws a one-pixel rectangle outline, clamped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}
	if y2 > bounds.Max.Y {
		y2 = bounds.Max.Y
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x < x2; x++ {
		if inBounds(bounds, x, y1) {
			img.Set(x, y1, c)
		}
		if inBounds(bounds, x, y2-1) {
			img.Set(x, y2-1, c)
		}
	}
	for y := y1; y < y2; y++ {
		if inBounds(bounds, x1, y) {
			img.Set(x1, y, c)
		}
		if inBounds(bounds, x2-1, y) {
			img.Set(x2-1, y, c)
		}
	}
}

// drawTextWithOutline draws text centered at (x, y) with a one-pixel black
// outline for legibility on any background.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	// basicfont.Face7x13: ~7px per glyph, 13px tall
	offsetX := x - len(text)*7/2
	offsetY := y - 13/2

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(outlineColor),
				Face: basicfont.Face7x13,
				Dot: fixed.Point26_6{
					X: fixed.Int26_6((offsetX + dx) * 64),
					Y: fixed.Int26_6((offsetY + dy) * 64),
				},
			}
			d.DrawString(text)
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(offsetX * 64),
			Y: fixed.Int26_6(offsetY * 64),
		},
	}
	d.DrawString(text)
}
