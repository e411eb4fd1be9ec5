package fmindex

import (
	"cmp"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring"
)

// BuildSuffixArray returns the suffix array of text with the sentinel suffix included.
// The result has len(text)+1 entries: the first one is len(text), the empty suffix that
// only holds the sentinel, followed by the offsets of the real suffixes in lexicographic order.
//
// Prefix doubling: suffixes start grouped by their first symbol, and every round re-sorts each
// unresolved group by the group of the suffix step symbols further along, so the number of
// compared symbols doubles per round. Only unresolved groups are touched, O(n log n) overall.
func BuildSuffixArray(text []byte) ([]int, error) {
	if uint64(len(text)) >= math.MaxUint32 {
		return nil, ErrTextTooLong
	}
	sa, _ := sortSuffixes(text)
	return append([]int{len(text)}, sa...), nil
}

type doublingKey struct {
	next int // group of the suffix at off+step, -1 past the end
	off  int
}

func compareDoublingKeys(a, b doublingKey) int {
	if c := cmp.Compare(a.next, b.next); c != 0 {
		return c
	}
	return cmp.Compare(a.off, b.off)
}

// sortSuffixes sorts the suffixes of text (without the sentinel) and reports the number of
// doubling rounds it needed.
func sortSuffixes(text []byte) (sa []int, rounds int) {
	n := len(text)
	sa = make([]int, n)
	for i := range sa {
		sa[i] = i
	}
	// Stable, so equal first symbols keep ascending offsets.
	slices.SortStableFunc(sa, func(a, b int) int {
		return cmp.Compare(text[a], text[b])
	})

	// group[off] is the row where the group of the suffix at off starts. Groups are contiguous
	// in sa and ordered, so comparing group starts compares the prefixes sorted so far.
	group := make([]int, n)
	pending := roaring.New()
	for i := 0; i < n; {
		j := i + 1
		for j < n && text[sa[j]] == text[sa[i]] {
			j++
		}
		for _, off := range sa[i:j] {
			group[off] = i
		}
		if j-i > 1 {
			pending.Add(uint32(i))
		}
		i = j
	}

	var keys []doublingKey
	for step := 1; !pending.IsEmpty() && step < n; step *= 2 {
		next := slices.Clone(group)
		unresolved := roaring.New()

		it := pending.Iterator()
		for it.HasNext() {
			start := int(it.Next())
			end := start + 1
			for end < n && group[sa[end]] == start {
				end++
			}

			keys = keys[:0]
			for _, off := range sa[start:end] {
				k := -1
				if off+step < n {
					k = group[off+step]
				}
				keys = append(keys, doublingKey{next: k, off: off})
			}
			slices.SortFunc(keys, compareDoublingKeys)

			for i := 0; i < len(keys); {
				j := i + 1
				for j < len(keys) && keys[j].next == keys[i].next {
					j++
				}
				g := start + i
				for k := i; k < j; k++ {
					sa[start+k] = keys[k].off
					next[keys[k].off] = g
				}
				if j-i > 1 {
					unresolved.Add(uint32(g))
				}
				i = j
			}
		}

		group, pending = next, unresolved
		rounds++
	}
	return sa, rounds
}
