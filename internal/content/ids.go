package content

import (
	"sync"
	"time"
)

// IDSource issues time-based ids: unix milliseconds plus the position within a batch.
// Ids never repeat or decrease for the lifetime of a source, even when batches land
// in the same millisecond.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDSource returns a source reading the wall clock. A nil clock means time.Now.
func NewIDSource(clock func() time.Time) *IDSource {
	if clock == nil {
		clock = time.Now
	}
	return &IDSource{now: clock}
}

// Next returns a single id.
func (s *IDSource) Next() int64 {
	return s.Batch(1)[0]
}

// Batch returns n strictly increasing ids.
func (s *IDSource) Batch(n int) []int64 {
	if n <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.now().UnixMilli()
	if base <= s.last {
		base = s.last + 1
	}

	ids := make([]int64, n)
	for i := range ids {
		ids[i] = base + int64(i)
	}
	s.last = ids[n-1]
	return ids
}
