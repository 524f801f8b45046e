package verify_test

import (
	"testing"

	"github.com/KitchenMishap/pudding-pixels/huffman"
	"github.com/KitchenMishap/pudding-pixels/pixels"
	"github.com/KitchenMishap/pudding-pixels/verify"
	"github.com/stretchr/testify/require"
)

var (
	A = pixels.RGBA(1, 1, 1, 255)
	B = pixels.RGBA(2, 2, 2, 255)
	C = pixels.RGBA(3, 3, 3, 255)
	D = pixels.RGBA(4, 4, 4, 255)
)

func TestCheckPrefixFree(t *testing.T) {
	good := huffman.CodeTable{
		A: {Bits: 0b1, Length: 1},
		B: {Bits: 0b00, Length: 2},
		C: {Bits: 0b010, Length: 3},
		D: {Bits: 0b011, Length: 3},
	}
	require.NoError(t, verify.CheckPrefixFree(good))
	require.Equal(t, 1.0, verify.KraftSum(good))

	bad := huffman.CodeTable{
		A: {Bits: 0b1, Length: 1},
		B: {Bits: 0b10, Length: 2},
	}
	require.ErrorIs(t, verify.CheckPrefixFree(bad), huffman.ErrNotPrefixFree)

	same := huffman.CodeTable{
		A: {Bits: 0b10, Length: 2},
		B: {Bits: 0b10, Length: 2},
	}
	require.ErrorIs(t, verify.CheckPrefixFree(same), huffman.ErrNotPrefixFree)

	empty := huffman.CodeTable{A: {}}
	require.ErrorIs(t, verify.CheckPrefixFree(empty), huffman.ErrNotPrefixFree)
}

func TestKraftSumIncomplete(t *testing.T) {
	require.Equal(t, 0.5, verify.KraftSum(huffman.CodeTable{A: {Bits: 0, Length: 1}}))
}

func TestOptimalCost(t *testing.T) {
	require.Equal(t, int64(15), verify.OptimalCost(pixels.FrequencyTable{A: 5, B: 2, C: 1, D: 1}))
	require.Equal(t, int64(4), verify.OptimalCost(pixels.FrequencyTable{A: 3, B: 1}))
	require.Equal(t, int64(4), verify.OptimalCost(pixels.FrequencyTable{A: 4}))
}

func TestEntropyBound(t *testing.T) {
	require.InDelta(t, 4.0, verify.EntropyBound(pixels.FrequencyTable{A: 2, B: 2}), 1e-12)
	require.InDelta(t, 0.0, verify.EntropyBound(pixels.FrequencyTable{A: 9}), 1e-12)
	require.InDelta(t, 8.0, verify.EntropyBound(pixels.FrequencyTable{A: 1, B: 1, C: 1, D: 1}), 1e-12)
}

func TestRoundTrips(t *testing.T) {
	px := []pixels.Value{A, B, A, C, D, A, A, B, C}
	freqs := pixels.CountFrequencies(px)
	root, err := huffman.BuildHuffmanTree(freqs)
	require.NoError(t, err)
	codes, err := huffman.GenerateCodeTable(freqs)
	require.NoError(t, err)
	stream, err := huffman.Encode(px, codes)
	require.NoError(t, err)

	require.NoError(t, verify.RoundTrip(px, codes, stream))
	require.NoError(t, verify.TreeRoundTrip(px, root, stream))

	// Same stream, different pixels
	other := append([]pixels.Value{}, px...)
	other[3] = D
	require.ErrorIs(t, verify.RoundTrip(other, codes, stream), verify.ErrMismatch)
	require.ErrorIs(t, verify.TreeRoundTrip(other, root, stream), verify.ErrMismatch)
	require.ErrorIs(t, verify.RoundTrip(px[:5], codes, stream), verify.ErrMismatch)
	require.ErrorIs(t, verify.TreeRoundTrip(px[:5], root, stream), verify.ErrMismatch)
}

func TestTreeRoundTripSingleValue(t *testing.T) {
	px := []pixels.Value{C, C, C}
	freqs := pixels.CountFrequencies(px)
	root, err := huffman.BuildHuffmanTree(freqs)
	require.NoError(t, err)
	codes, err := huffman.GenerateCodeTable(freqs)
	require.NoError(t, err)
	stream, err := huffman.Encode(px, codes)
	require.NoError(t, err)

	require.NoError(t, verify.TreeRoundTrip(px, root, stream))
	require.Error(t, verify.TreeRoundTrip(append(px, C), root, stream))
}

func TestTotalBits(t *testing.T) {
	freqs := pixels.FrequencyTable{A: 3, B: 1}
	codes := huffman.CodeTable{A: {Bits: 1, Length: 1}, B: {Bits: 0, Length: 1}}
	require.Equal(t, int64(4), verify.TotalBits(freqs, codes))
}
