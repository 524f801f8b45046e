package compress_test

import (
	"testing"

	"github.com/KitchenMishap/pudding-pixels/compress"
	"github.com/KitchenMishap/pudding-pixels/huffman"
	"github.com/KitchenMishap/pudding-pixels/pixels"
	"github.com/stretchr/testify/require"
)

func stripes(n int) []pixels.Value {
	px := make([]pixels.Value, n)
	for i := range px {
		switch {
		case i%10 < 6:
			px[i] = pixels.RGBA(0, 0, 0, 255)
		case i%10 < 9:
			px[i] = pixels.RGBA(255, 255, 255, 255)
		default:
			px[i] = pixels.RGBA(uint8(i/10), 0, 0, 128)
		}
	}
	return px
}

func TestCompressZeroPixels(t *testing.T) {
	result, err := compress.Compress(nil, compress.Options{Verify: true})
	require.ErrorIs(t, err, huffman.ErrEmptyFrequencyTable)
	require.Nil(t, result)
}

func TestCompressSingleValue(t *testing.T) {
	px := []pixels.Value{{9, 9, 9, 9}, {9, 9, 9, 9}, {9, 9, 9, 9}, {9, 9, 9, 9}}
	result, err := compress.Compress(px, compress.Options{Verify: true})
	require.NoError(t, err)
	require.Len(t, result.Codes, 1)
	require.Equal(t, uint64(4), result.Stream.Bits)
	require.Equal(t, uint64(4), result.Stats.TotalBits)
	require.Equal(t, 1.0, result.Stats.MeanCodeLength())
	require.Equal(t, 32.0, result.Stats.Ratio())
	require.Zero(t, result.Stats.EntropyBits)
}

func TestCompressStats(t *testing.T) {
	px := stripes(1000)
	result, err := compress.Compress(px, compress.Options{Verify: true})
	require.NoError(t, err)

	stats := result.Stats
	require.Equal(t, uint64(1000), stats.Pixels)
	require.Equal(t, uint64(len(result.Frequencies)), stats.DistinctValues)
	require.Equal(t, uint64(102), stats.DistinctValues)
	require.Equal(t, result.Stream.Bits, stats.TotalBits)
	require.Equal(t, (stats.TotalBits+7)/8, stats.TotalBytes)
	require.Equal(t, uint64(32_000), stats.RawBits())
	require.Equal(t, 1, stats.ShortestCode)
	require.GreaterOrEqual(t, float64(stats.TotalBits), stats.EntropyBits)
	require.Greater(t, stats.Ratio(), 1.0)
}

func TestCompressWorkersGiveSameResult(t *testing.T) {
	px := stripes(300_000)
	serial, err := compress.Compress(px, compress.Options{Workers: 1})
	require.NoError(t, err)
	parallel, err := compress.Compress(px, compress.Options{Workers: 6, Verify: true})
	require.NoError(t, err)

	require.Equal(t, serial.Frequencies, parallel.Frequencies)
	require.Equal(t, serial.Codes, parallel.Codes)
	require.Equal(t, serial.Stream, parallel.Stream)
	require.Equal(t, serial.Stats, parallel.Stats)
}
