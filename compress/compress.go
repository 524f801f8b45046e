package compress

import (
	"fmt"

	"github.com/KitchenMishap/pudding-pixels/huffman"
	"github.com/KitchenMishap/pudding-pixels/pixels"
	"github.com/KitchenMishap/pudding-pixels/verify"
)

type Options struct {
	Workers int  // 0 or 1 runs every stage on the calling goroutine
	Verify  bool // Decode the stream again and compare before returning
}

// Result holds one artifact per stage. Each is built once and not changed after.
type Result struct {
	Frequencies pixels.FrequencyTable
	Codes       huffman.CodeTable
	Stream      *huffman.EncodedStream
	Stats       CompressionStats
}

// Compress runs count -> tree -> codes -> stream over px, in that order.
// It stops at the first failing stage and then returns no partial result.
func Compress(px []pixels.Value, opts Options) (*Result, error) {
	var freqs pixels.FrequencyTable
	if opts.Workers > 1 {
		freqs = pixels.ParallelCountFrequencies(px, opts.Workers)
	} else {
		freqs = pixels.CountFrequencies(px)
	}

	root, err := huffman.BuildHuffmanTree(freqs)
	if err != nil {
		return nil, fmt.Errorf("building tree over %d pixels: %w", len(px), err)
	}
	codes := make(huffman.CodeTable, len(freqs))
	if err := huffman.GenerateBitCodes(root, 0, 0, codes); err != nil {
		return nil, fmt.Errorf("generating codes: %w", err)
	}

	var stream *huffman.EncodedStream
	if opts.Workers > 1 {
		stream, err = huffman.ParallelEncode(px, codes, opts.Workers)
	} else {
		stream, err = huffman.Encode(px, codes)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding stream: %w", err)
	}

	if opts.Verify {
		if err := verify.CheckPrefixFree(codes); err != nil {
			return nil, err
		}
		if err := verify.TreeRoundTrip(px, root, stream); err != nil {
			return nil, fmt.Errorf("tree round trip: %w", err)
		}
		if err := verify.RoundTrip(px, codes, stream); err != nil {
			return nil, fmt.Errorf("table round trip: %w", err)
		}
	}

	return &Result{
		Frequencies: freqs,
		Codes:       codes,
		Stream:      stream,
		Stats:       NewCompressionStats(freqs, codes, stream),
	}, nil
}
