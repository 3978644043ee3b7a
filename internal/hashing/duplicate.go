package hashing

// PositionSignature identifies a position seen by a DuplicateDetector.
type PositionSignature struct {
	// Key is the Zobrist key of the position
	Key uint64
	// Index is the input index where the position was first seen
	Index int
}

// DuplicateDetector tracks seen position keys, e.g. to skip repeated
// entries in a batch of positions.
type DuplicateDetector struct {
	seen           map[uint64]PositionSignature
	duplicateCount int
	maxCapacity    int
}

// NewDuplicateDetector creates a new duplicate detector.
// maxCapacity of 0 means unlimited capacity.
func NewDuplicateDetector(maxCapacity int) *DuplicateDetector {
	return &DuplicateDetector{
		seen:        make(map[uint64]PositionSignature),
		maxCapacity: maxCapacity,
	}
}

// CheckAndAdd reports whether key has been seen before, recording it otherwise.
// The returned signature is the first sighting when the key is a duplicate.
func (d *DuplicateDetector) CheckAndAdd(key uint64, index int) (PositionSignature, bool) {
	if first, ok := d.seen[key]; ok {
		d.duplicateCount++
		return first, true
	}
	sig := PositionSignature{Key: key, Index: index}
	if !d.IsFull() {
		d.seen[key] = sig
	}
	return sig, false
}

// DuplicateCount returns the number of duplicates detected.
func (d *DuplicateDetector) DuplicateCount() int {
	return d.duplicateCount
}

// UniqueCount returns the number of unique positions recorded.
func (d *DuplicateDetector) UniqueCount() int {
	return len(d.seen)
}

// IsFull returns true if the detector has reached its capacity limit.
func (d *DuplicateDetector) IsFull() bool {
	return d.maxCapacity > 0 && len(d.seen) >= d.maxCapacity
}

// Reset clears all recorded positions.
func (d *DuplicateDetector) Reset() {
	d.seen = make(map[uint64]PositionSignature)
	d.duplicateCount = 0
}
