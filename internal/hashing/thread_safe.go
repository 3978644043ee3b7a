package hashing

import "sync"

const numShards = 16

type detectorShard struct {
	mu       sync.Mutex
	detector *DuplicateDetector
}

// ShardedDuplicateDetector is a DuplicateDetector safe for concurrent use.
// Keys are spread over independently locked shards by their low bits, so
// workers checking different positions rarely contend.
type ShardedDuplicateDetector struct {
	shards [numShards]detectorShard
}

// NewShardedDuplicateDetector creates a concurrent detector. maxCapacity is
// divided evenly between the shards, rounding up; 0 means unlimited.
func NewShardedDuplicateDetector(maxCapacity int) *ShardedDuplicateDetector {
	perShard := 0
	if maxCapacity > 0 {
		perShard = (maxCapacity + numShards - 1) / numShards
	}
	d := &ShardedDuplicateDetector{}
	for i := range d.shards {
		d.shards[i].detector = NewDuplicateDetector(perShard)
	}
	return d
}

func (d *ShardedDuplicateDetector) shard(key uint64) *detectorShard {
	return &d.shards[key%numShards]
}

// CheckAndAdd atomically checks whether key is a duplicate and records it.
func (d *ShardedDuplicateDetector) CheckAndAdd(key uint64, index int) (PositionSignature, bool) {
	s := d.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detector.CheckAndAdd(key, index)
}

// DuplicateCount returns the number of duplicates detected across all shards.
func (d *ShardedDuplicateDetector) DuplicateCount() int {
	return d.sum((*DuplicateDetector).DuplicateCount)
}

// UniqueCount returns the number of unique positions across all shards.
func (d *ShardedDuplicateDetector) UniqueCount() int {
	return d.sum((*DuplicateDetector).UniqueCount)
}

func (d *ShardedDuplicateDetector) sum(count func(*DuplicateDetector) int) int {
	total := 0
	for i := range d.shards {
		s := &d.shards[i]
		s.mu.Lock()
		total += count(s.detector)
		s.mu.Unlock()
	}
	return total
}
