package imageio

import (
	"image"
	"io"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
)

const DefaultQuality = 70

type PreviewOptions struct {
	Quality int // JPEG quality, clamped to 1..100
	MaxSize int // If > 0, shrink to fit a MaxSize x MaxSize box first
}

// SavePreview writes a lossy JPEG copy of img. It shares nothing with the
// Huffman stream; it is only there so a person can eyeball the input.
func SavePreview(img image.Image, path string, opts PreviewOptions) error {
	preview := opaque(img)
	if opts.MaxSize > 0 {
		g := gift.New(gift.ResizeToFit(opts.MaxSize, opts.MaxSize, gift.LanczosResampling))
		dst := image.NewNRGBA(g.Bounds(preview.Bounds()))
		g.Draw(dst, preview)
		preview = dst
	}
	quality := clampQuality(opts.Quality)
	return writeFileAtomic(path, func(w io.Writer) error {
		return imaging.Encode(w, preview, imaging.JPEG, imaging.JPEGQuality(quality))
	})
}

// JPEG has no alpha. Keep the colour channels as they are and drop alpha,
// rather than letting the encoder darken translucent pixels.
func opaque(img image.Image) *image.NRGBA {
	nrgba := imaging.Clone(img)
	for i := 3; i < len(nrgba.Pix); i += 4 {
		nrgba.Pix[i] = 0xFF
	}
	return nrgba
}

func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}
