package compress

import (
	"github.com/KitchenMishap/pudding-pixels/huffman"
	"github.com/KitchenMishap/pudding-pixels/pixels"
	"github.com/KitchenMishap/pudding-pixels/verify"
)

// Uncompressed, every pixel costs four 8-bit channels
const RawBitsPerPixel = 32

type CompressionStats struct {
	Pixels         uint64
	DistinctValues uint64
	TotalBits      uint64
	TotalBytes     uint64  // TotalBits rounded up to whole bytes
	EntropyBits    float64 // Shannon bound for the same frequencies
	LongestCode    int
	ShortestCode   int
}

func NewCompressionStats(freqs pixels.FrequencyTable, codes huffman.CodeTable, stream *huffman.EncodedStream) CompressionStats {
	stats := CompressionStats{
		Pixels:         uint64(freqs.Total()),
		DistinctValues: uint64(len(codes)),
		TotalBits:      stream.Bits,
		TotalBytes:     uint64(len(stream.Data)),
		EntropyBits:    verify.EntropyBound(freqs),
	}
	for _, code := range codes {
		if code.Length > stats.LongestCode {
			stats.LongestCode = code.Length
		}
		if stats.ShortestCode == 0 || code.Length < stats.ShortestCode {
			stats.ShortestCode = code.Length
		}
	}
	return stats
}

func (cs CompressionStats) RawBits() uint64 { return cs.Pixels * RawBitsPerPixel }

func (cs CompressionStats) MeanCodeLength() float64 {
	if cs.Pixels == 0 {
		return 0
	}
	return float64(cs.TotalBits) / float64(cs.Pixels)
}

// Ratio is raw size over compressed size; higher is better
func (cs CompressionStats) Ratio() float64 {
	if cs.TotalBits == 0 {
		return 0
	}
	return float64(cs.RawBits()) / float64(cs.TotalBits)
}
