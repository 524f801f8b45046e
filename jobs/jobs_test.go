package jobs_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/KitchenMishap/pudding-pixels/config"
	"github.com/KitchenMishap/pudding-pixels/huffman"
	"github.com/KitchenMishap/pudding-pixels/imageio"
	"github.com/KitchenMishap/pudding-pixels/jobs"
	"github.com/KitchenMishap/pudding-pixels/pixels"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, path string) *image.NRGBA {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x / 10 * 60), uint8(y / 10 * 80), 90, 255})
		}
	}
	img.SetNRGBA(3, 3, color.NRGBA{1, 2, 3, 4})
	require.NoError(t, imaging.Save(img, path))
	return img
}

func TestCompressImageToFiles(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, filepath.Join(dir, "in.png"))
	cfg := &config.Config{
		InputPath:   filepath.Join(dir, "in.png"),
		StreamPath:  filepath.Join(dir, "out.txt"),
		Format:      imageio.FormatText,
		TablePath:   filepath.Join(dir, "codes.txt"),
		PreviewPath: filepath.Join(dir, "preview.jpg"),
		Quality:     70,
		Workers:     2,
		Verify:      true,
	}

	result, err := jobs.CompressImageToFiles(cfg)
	require.NoError(t, err)
	require.Equal(t, uint64(1200), result.Stats.Pixels)
	require.Equal(t, uint64(13), result.Stats.DistinctValues)

	data, err := os.ReadFile(cfg.StreamPath)
	require.NoError(t, err)
	require.Equal(t, result.Stream.Text(), string(data))

	// The written stream decodes back to the image's pixels
	decoded, err := huffman.Decode(result.Stream, result.Codes)
	require.NoError(t, err)
	require.Equal(t, pixels.FromImage(src), decoded)

	require.FileExists(t, cfg.TablePath)
	require.FileExists(t, cfg.PreviewPath)
}

func TestCompressImageToFilesMissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		InputPath:   filepath.Join(dir, "nope.png"),
		StreamPath:  filepath.Join(dir, "out.bin"),
		Format:      imageio.FormatPacked,
		PreviewPath: filepath.Join(dir, "preview.jpg"),
		Quality:     70,
		Workers:     1,
	}
	_, err := jobs.CompressImageToFiles(cfg)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestShortestCodes(t *testing.T) {
	a := pixels.RGBA(1, 1, 1, 255)
	b := pixels.RGBA(2, 2, 2, 255)
	c := pixels.RGBA(3, 3, 3, 255)
	freqs := pixels.FrequencyTable{a: 1, b: 5, c: 2}
	codes, err := huffman.GenerateCodeTable(freqs)
	require.NoError(t, err)

	lines := jobs.ShortestCodes(freqs, codes, 2)
	require.Equal(t, []string{
		"rgba(2,2,2,255) x5 -> 1",
		"rgba(3,3,3,255) x2 -> 01",
	}, lines)
}
