package pixels

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// FrequencyTable maps each distinct pixel value to how often it appeared.
// Built once, read-only afterwards.
type FrequencyTable map[Value]int64

type Entry struct {
	Value Value
	Count int64
}

func (ft FrequencyTable) Total() int64 {
	total := int64(0)
	for _, count := range ft {
		total += count
	}
	return total
}

// Entries returns the table sorted by count ascending, then by value.
// This is the order the tree builder inserts leaves in, so it fixes tie-breaks.
func (ft FrequencyTable) Entries() []Entry {
	entries := make([]Entry, 0, len(ft))
	for v, c := range ft {
		entries = append(entries, Entry{Value: v, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count < entries[j].Count
		}
		return entries[i].Value.Less(entries[j].Value)
	})
	return entries
}

func CountFrequencies(px []Value) FrequencyTable {
	freqs := make(FrequencyTable)
	for _, v := range px {
		freqs[v]++
	}
	return freqs
}

// Below this many pixels per worker, spinning up goroutines costs more than it saves
const minPixelsPerWorker = 1 << 14

// ParallelCountFrequencies gives the same table as CountFrequencies, counting
// contiguous shards of px on up to numWorkers goroutines and merging the shards.
func ParallelCountFrequencies(px []Value, numWorkers int) FrequencyTable {
	shards := shardCount(len(px), numWorkers)
	if shards <= 1 {
		return CountFrequencies(px)
	}

	shardSize := (len(px) + shards - 1) / shards
	shardMaps := make([]FrequencyTable, shards)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(numWorkers)
	for s := 0; s < shards; s++ {
		start := s * shardSize
		end := min(start+shardSize, len(px))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Each shard writes only its own slot, so no lock needed
			shardMaps[s] = CountFrequencies(px[start:end])
			return nil
		})
	}
	// Nothing in the workers can fail
	_ = g.Wait()

	merged := make(FrequencyTable, len(shardMaps[0]))
	for _, m := range shardMaps {
		for v, c := range m {
			merged[v] += c
		}
	}
	return merged
}

func shardCount(pixels int, numWorkers int) int {
	if numWorkers <= 1 {
		return 1
	}
	shards := pixels / minPixelsPerWorker
	if shards > numWorkers {
		shards = numWorkers
	}
	return shards
}
