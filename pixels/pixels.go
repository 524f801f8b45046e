package pixels

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Value is one pixel sample: R, G, B, A (non-premultiplied), 0..255 each.
// It is comparable, so it can key a map directly.
type Value [4]uint8

func RGBA(r, g, b, a uint8) Value { return Value{r, g, b, a} }

// Less orders values lexicographically by channel (R first, A last)
func (v Value) Less(o Value) bool {
	for c := 0; c < 4; c++ {
		if v[c] != o[c] {
			return v[c] < o[c]
		}
	}
	return false
}

func (v Value) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%d)", v[0], v[1], v[2], v[3])
}

// FromImage flattens img into its pixel sequence, row-major, top-left first.
// Any colour model is accepted; everything goes through NRGBA first so that
// alpha is kept and colour channels are not premultiplied.
func FromImage(img image.Image) []Value {
	nrgba := imaging.Clone(img) // Bounds are rebased to (0,0)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	result := make([]Value, 0, w*h)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			result = append(result, Value{p[0], p[1], p[2], p[3]})
		}
	}
	return result
}
