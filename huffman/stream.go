package huffman

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KitchenMishap/pudding-pixels/pixels"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownPixelValue means the pixels being encoded are not the ones the
// code table was built from. That is a bug in the caller.
var ErrUnknownPixelValue = errors.New("huffman: pixel value not in code table")

// EncodedStream is the concatenation of every pixel's code, packed MSB first.
// The last byte is zero padded; Bits is the exact length.
type EncodedStream struct {
	Data []byte
	Bits uint64
}

// Text renders the stream one '0' or '1' character per bit
func (s *EncodedStream) Text() string {
	var sb strings.Builder
	sb.Grow(int(s.Bits))
	for i := uint64(0); i < s.Bits; i++ {
		if s.Data[i/8]>>(7-i%8)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func Encode(px []pixels.Value, table CodeTable) (*EncodedStream, error) {
	bw := BitWriter{}
	if err := encodeInto(&bw, px, 0, table); err != nil {
		return nil, err
	}
	return bw.Stream(), nil
}

func encodeInto(bw *BitWriter, px []pixels.Value, firstIndex int, table CodeTable) error {
	for i, v := range px {
		code, ok := table[v]
		if !ok {
			return fmt.Errorf("%w: %v at pixel %d", ErrUnknownPixelValue, v, firstIndex+i)
		}
		bw.WriteCode(code)
	}
	return nil
}

const minPixelsPerChunk = 1 << 14

// ParallelEncode gives the same stream as Encode. Contiguous chunks of px are
// encoded on up to numWorkers goroutines and then stitched together in order.
func ParallelEncode(px []pixels.Value, table CodeTable, numWorkers int) (*EncodedStream, error) {
	chunks := numWorkers
	if most := len(px) / minPixelsPerChunk; chunks > most {
		chunks = most
	}
	if chunks <= 1 {
		return Encode(px, table)
	}

	chunkSize := (len(px) + chunks - 1) / chunks
	results := make([]*EncodedStream, chunks)

	g, ctx := errgroup.WithContext(context.Background())
	for c := 0; c < chunks; c++ {
		start := c * chunkSize
		end := min(start+chunkSize, len(px))
		g.Go(func() error {
			// Check if another worker already failed
			if err := ctx.Err(); err != nil {
				return err
			}
			bw := BitWriter{}
			if err := encodeInto(&bw, px[start:end], start, table); err != nil {
				return err
			}
			results[c] = bw.Stream()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := uint64(0)
	for _, r := range results {
		total += r.Bits
	}
	bw := BitWriter{buffer: make([]byte, 0, (total+7)/8)}
	for _, r := range results {
		bw.WriteStream(r)
	}
	return bw.Stream(), nil
}
