package huffman

import (
	"container/heap"
	"errors"
	"fmt"
	"strings"

	"github.com/KitchenMishap/pudding-pixels/pixels"
)

var ErrEmptyFrequencyTable = errors.New("huffman: empty frequency table")
var ErrCodeTooLong = errors.New("huffman: code longer than 64 bits")

type Node struct {
	Value       pixels.Value // Only meaningful for a leaf
	Freq        int64        // Leaf: how often it appeared. Internal: sum of children
	Left, Right *Node
	seq         int64 // Insertion order, the secondary key for equal Freq
}

func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// The compressed representation
type BitCode struct {
	Bits   uint64 // The actual bit pattern, right aligned
	Length int    // How many bits used
}

// String renders the code as '0' and '1' characters, first bit first
func (bc BitCode) String() string {
	var sb strings.Builder
	sb.Grow(bc.Length)
	for i := bc.Length - 1; i >= 0; i-- {
		if (bc.Bits>>uint(i))&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// IsPrefixOf reports whether bc is a prefix of (or equal to) other
func (bc BitCode) IsPrefixOf(other BitCode) bool {
	if bc.Length > other.Length {
		return false
	}
	return other.Bits>>uint(other.Length-bc.Length) == bc.Bits
}

type CodeTable map[pixels.Value]BitCode

type PriorityQueue []*Node

func (pq PriorityQueue) Len() int { return len(pq) }
func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].Freq != pq[j].Freq {
		return pq[i].Freq < pq[j].Freq
	}
	return pq[i].seq < pq[j].seq
}
func (pq PriorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *PriorityQueue) Push(x interface{}) { *pq = append(*pq, x.(*Node)) }
func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// BuildHuffmanTree merges the two lightest nodes until one is left.
// Ties on weight go to whichever node entered the queue first: leaves enter
// in freqs.Entries() order and each merged parent is numbered after them,
// so identical tables always give identical trees.
// With a single distinct value the root is that leaf.
func BuildHuffmanTree(freqs pixels.FrequencyTable) (*Node, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptyFrequencyTable
	}
	entries := freqs.Entries()
	pq := make(PriorityQueue, 0, len(entries))
	seq := int64(0)
	for _, e := range entries {
		pq = append(pq, &Node{Value: e.Value, Freq: e.Count, seq: seq})
		seq++
	}
	heap.Init(&pq)

	for pq.Len() > 1 {
		left := heap.Pop(&pq).(*Node)
		right := heap.Pop(&pq).(*Node)

		// Create a parent with sum of frequencies
		parent := &Node{
			Freq:  left.Freq + right.Freq,
			Left:  left,
			Right: right,
			seq:   seq,
		}
		seq++
		heap.Push(&pq, parent)
	}
	return heap.Pop(&pq).(*Node), nil
}

func GenerateBitCodes(node *Node, currentBits uint64, depth int, table CodeTable) error {
	if node.IsLeaf() {
		if depth == 0 {
			// Lone root: an empty code could not be found again in a stream
			table[node.Value] = BitCode{Bits: 0, Length: 1}
			return nil
		}
		// Leaf node - store the result
		table[node.Value] = BitCode{Bits: currentBits, Length: depth}
		return nil
	}
	if depth >= 64 {
		return ErrCodeTooLong
	}
	// Left = 0, Right = 1
	if node.Left != nil {
		if err := GenerateBitCodes(node.Left, currentBits<<1, depth+1, table); err != nil {
			return err
		}
	}
	if node.Right != nil {
		if err := GenerateBitCodes(node.Right, (currentBits<<1)|1, depth+1, table); err != nil {
			return err
		}
	}
	return nil
}

// GenerateCodeTable builds the tree for freqs and walks it once into a table
func GenerateCodeTable(freqs pixels.FrequencyTable) (CodeTable, error) {
	root, err := BuildHuffmanTree(freqs)
	if err != nil {
		return nil, err
	}
	table := make(CodeTable, len(freqs))
	if err := GenerateBitCodes(root, 0, 0, table); err != nil {
		return nil, fmt.Errorf("generating codes for %d values: %w", len(freqs), err)
	}
	return table, nil
}

type BitWriter struct {
	buffer []byte
	accum  uint64 // Temporary storage for bits
	nbits  uint   // Number of bits currently in accum
	total  uint64 // Bits written so far, padding excluded
}

func (bw *BitWriter) WriteBits(code uint64, length uint) {
	bw.total += uint64(length)
	// At most 32 bits per step keeps the shift below inside the accumulator
	for length > 0 {
		n := min(length, 32)
		chunk := (code >> (length - n)) & (1<<n - 1)
		length -= n

		// Add new bits to the accumulator
		bw.accum |= chunk << (64 - n - bw.nbits)
		bw.nbits += n

		// If we have 8 or more bits, flush the full bytes
		for bw.nbits >= 8 {
			bw.buffer = append(bw.buffer, byte(bw.accum>>56))
			bw.accum <<= 8
			bw.nbits -= 8
		}
	}
}

func (bw *BitWriter) WriteCode(bc BitCode) {
	bw.WriteBits(bc.Bits, uint(bc.Length))
}

// WriteStream appends every bit of s, without its padding
func (bw *BitWriter) WriteStream(s *EncodedStream) {
	full := s.Bits / 8
	if bw.nbits == 0 {
		bw.buffer = append(bw.buffer, s.Data[:full]...)
		bw.total += full * 8
	} else {
		for _, b := range s.Data[:full] {
			bw.WriteBits(uint64(b), 8)
		}
	}
	if rest := uint(s.Bits % 8); rest > 0 {
		bw.WriteBits(uint64(s.Data[full]>>(8-rest)), rest)
	}
}

func (bw *BitWriter) Flush() {
	if bw.nbits > 0 {
		bw.buffer = append(bw.buffer, byte(bw.accum>>56))
		bw.accum = 0
		bw.nbits = 0
	}
}

// Stream flushes and hands over what has been written
func (bw *BitWriter) Stream() *EncodedStream {
	bw.Flush()
	return &EncodedStream{Data: bw.buffer, Bits: bw.total}
}
