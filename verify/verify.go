package verify

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/KitchenMishap/pudding-pixels/huffman"
	"github.com/KitchenMishap/pudding-pixels/pixels"
)

var ErrMismatch = errors.New("verify: decoded pixels differ from the originals")

// A simple in-memory bit reader over an encoded stream
type BitStream struct {
	stream  *huffman.EncodedStream
	ReadPos uint64 // Bits consumed so far
}

func NewBitStream(s *huffman.EncodedStream) *BitStream {
	return &BitStream{stream: s}
}

func (bs *BitStream) ReadBit() (uint64, error) {
	if bs.ReadPos >= bs.stream.Bits {
		return 0, errors.New("EOF")
	}
	// Extract MSB first
	b := bs.stream.Data[bs.ReadPos/8]
	bit := (b >> (7 - bs.ReadPos%8)) & 1
	bs.ReadPos++
	return uint64(bit), nil
}

func (bs *BitStream) Remaining() uint64 { return bs.stream.Bits - bs.ReadPos }

// The Decoder needs the Tree to walk
func (bs *BitStream) ReadValue(root *huffman.Node) (pixels.Value, error) {
	if root.IsLeaf() {
		// The lone value was given the one bit code "0"
		bit, err := bs.ReadBit()
		if err != nil {
			return pixels.Value{}, err
		}
		if bit != 0 {
			return pixels.Value{}, huffman.ErrInvalidCode
		}
		return root.Value, nil
	}
	current := root
	for !current.IsLeaf() {
		bit, err := bs.ReadBit()
		if err != nil {
			return pixels.Value{}, err
		}

		if bit == 0 {
			current = current.Left
		} else {
			current = current.Right
		}
	}
	return current.Value, nil
}

// TreeRoundTrip walks the builder's own tree over the stream and compares
// every decoded value against px.
func TreeRoundTrip(px []pixels.Value, root *huffman.Node, s *huffman.EncodedStream) error {
	bs := NewBitStream(s)
	for i, want := range px {
		got, err := bs.ReadValue(root)
		if err != nil {
			return fmt.Errorf("pixel %d: %w", i, err)
		}
		if got != want {
			return fmt.Errorf("%w: pixel %d is %v, want %v", ErrMismatch, i, got, want)
		}
	}
	if bs.Remaining() != 0 {
		return fmt.Errorf("%w: %d bits left over", ErrMismatch, bs.Remaining())
	}
	return nil
}

// RoundTrip decodes s by prefix matching against table and compares with px
func RoundTrip(px []pixels.Value, table huffman.CodeTable, s *huffman.EncodedStream) error {
	decoded, err := huffman.Decode(s, table)
	if err != nil {
		return err
	}
	if len(decoded) != len(px) {
		return fmt.Errorf("%w: %d pixels decoded, want %d", ErrMismatch, len(decoded), len(px))
	}
	for i := range px {
		if decoded[i] != px[i] {
			return fmt.Errorf("%w: pixel %d is %v, want %v", ErrMismatch, i, decoded[i], px[i])
		}
	}
	return nil
}

// CheckPrefixFree fails if any code is empty or a prefix of another
func CheckPrefixFree(table huffman.CodeTable) error {
	codes := make([]huffman.BitCode, 0, len(table))
	for v, c := range table {
		if c.Length < 1 {
			return fmt.Errorf("%w: %v has an empty code", huffman.ErrNotPrefixFree, v)
		}
		codes = append(codes, c)
	}
	// Sorted by code string, any prefix sits right before something it prefixes
	sort.Slice(codes, func(i, j int) bool { return codes[i].String() < codes[j].String() })
	for i := 1; i < len(codes); i++ {
		if codes[i-1].IsPrefixOf(codes[i]) {
			return fmt.Errorf("%w: %s prefixes %s", huffman.ErrNotPrefixFree, codes[i-1], codes[i])
		}
	}
	return nil
}

// KraftSum is sum(2^-length). A full Huffman code over 2+ values sums to exactly 1.
func KraftSum(table huffman.CodeTable) float64 {
	sum := 0.0
	for _, c := range table {
		sum += math.Ldexp(1, -c.Length)
	}
	return sum
}

// TotalBits is sum(count * code length), the stream length the table gives
func TotalBits(freqs pixels.FrequencyTable, table huffman.CodeTable) int64 {
	total := int64(0)
	for v, count := range freqs {
		total += count * int64(table[v].Length)
	}
	return total
}

type int64Heap []int64

func (h int64Heap) Len() int            { return len(h) }
func (h int64Heap) Less(i, j int) bool  { return h[i] < h[j] }
func (h int64Heap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *int64Heap) Push(x interface{}) { *h = append(*h, x.(int64)) }
func (h *int64Heap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// OptimalCost is the minimum possible TotalBits for freqs, worked out without
// building any tree: the sum of every merge weight. One value costs one bit per pixel.
func OptimalCost(freqs pixels.FrequencyTable) int64 {
	if len(freqs) == 1 {
		return freqs.Total()
	}
	h := make(int64Heap, 0, len(freqs))
	for _, c := range freqs {
		h = append(h, c)
	}
	heap.Init(&h)
	cost := int64(0)
	for h.Len() > 1 {
		merged := heap.Pop(&h).(int64) + heap.Pop(&h).(int64)
		cost += merged
		heap.Push(&h, merged)
	}
	return cost
}

// EntropyBound is the Shannon lower bound in bits for coding freqs symbol by symbol
func EntropyBound(freqs pixels.FrequencyTable) float64 {
	total := float64(freqs.Total())
	bits := 0.0
	// Fixed order, so the float sum comes out the same every time
	for _, e := range freqs.Entries() {
		p := float64(e.Count) / total
		bits -= float64(e.Count) * math.Log2(p)
	}
	return bits
}
