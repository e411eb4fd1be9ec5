package fmindex

import "github.com/RoaringBitmap/roaring"

// NoCheckpoint marks an SA row whose offset was not sampled.
const NoCheckpoint = -1

// sampledSA keeps the suffix array entries whose offset is a multiple of step.
// rows holds the sampled rows; the value of a sampled row sits in values at the
// position given by its rank in rows.
type sampledSA struct {
	step   int
	rows   *roaring.Bitmap
	values []int
}

func newSampledSA(sa []int, step int) *sampledSA {
	s := &sampledSA{step: step, rows: roaring.New()}
	for row, off := range sa {
		if off%step == 0 {
			s.rows.Add(uint32(row))
			s.values = append(s.values, off)
		}
	}
	s.rows.RunOptimize()
	return s
}

func (s *sampledSA) get(row int) (int, bool) {
	r := uint32(row)
	if !s.rows.Contains(r) {
		return NoCheckpoint, false
	}
	// Rank counts the sampled rows <= r, r included.
	return s.values[s.rows.Rank(r)-1], true
}

func (s *sampledSA) expand(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = NoCheckpoint
	}
	it := s.rows.Iterator()
	for i := 0; it.HasNext(); i++ {
		out[it.Next()] = s.values[i]
	}
	return out
}

// locate recovers SA[row] by following LF until a sampled row is reached. Every hop moves
// one symbol to the left in the text, so the answer is the sample plus the hop count.
// Offset 0 is always sampled, which bounds the walk by step-1 hops.
func (s *sampledSA) locate(t *tally, row int) int {
	hops := 0
	for {
		if off, ok := s.get(row); ok {
			return off + hops
		}
		row = t.lf(row)
		hops++
	}
}
