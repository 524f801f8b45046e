package huffman

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/KitchenMishap/pudding-pixels/pixels"
	"github.com/icza/bitio"
)

var ErrInvalidCode = errors.New("huffman: bit sequence matches no code")
var ErrTruncatedStream = errors.New("huffman: stream ends inside a code")
var ErrNotPrefixFree = errors.New("huffman: code table is not prefix free")

type decodeNode struct {
	child [2]*decodeNode
	leaf  bool
	value pixels.Value
}

// Rebuild a tree from the table alone, so any prefix-free table can be decoded
func newDecodeTree(table CodeTable) (*decodeNode, error) {
	root := &decodeNode{}
	for v, code := range table {
		if code.Length < 1 || code.Length > 64 {
			return nil, fmt.Errorf("%w: %v has length %d", ErrNotPrefixFree, v, code.Length)
		}
		current := root
		for i := code.Length - 1; i >= 0; i-- {
			if current.leaf {
				return nil, fmt.Errorf("%w: a shorter code prefixes %v", ErrNotPrefixFree, v)
			}
			bit := (code.Bits >> uint(i)) & 1
			if current.child[bit] == nil {
				current.child[bit] = &decodeNode{}
			}
			current = current.child[bit]
		}
		if current.leaf || current.child[0] != nil || current.child[1] != nil {
			return nil, fmt.Errorf("%w: %v collides with another code", ErrNotPrefixFree, v)
		}
		current.leaf = true
		current.value = v
	}
	return root, nil
}

// Decode undoes Encode by greedy prefix matching against table.
// Only used to check that an encoding round-trips.
func Decode(s *EncodedStream, table CodeTable) ([]pixels.Value, error) {
	root, err := newDecodeTree(table)
	if err != nil {
		return nil, err
	}
	if uint64(len(s.Data))*8 < s.Bits {
		return nil, fmt.Errorf("%w: %d bits claimed, %d bytes present", ErrTruncatedStream, s.Bits, len(s.Data))
	}

	r := bitio.NewReader(bytes.NewReader(s.Data))
	result := make([]pixels.Value, 0)
	current := root
	for pos := uint64(0); pos < s.Bits; pos++ {
		bit, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		next := current.child[0]
		if bit {
			next = current.child[1]
		}
		if next == nil {
			return nil, fmt.Errorf("%w: at bit %d", ErrInvalidCode, pos)
		}
		if next.leaf {
			result = append(result, next.value)
			current = root
		} else {
			current = next
		}
	}
	if current != root {
		return nil, ErrTruncatedStream
	}
	return result, nil
}
