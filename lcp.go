package fmindex

import "github.com/viniciusth/rmq"

// Kasai's algorithm for building the LCP array in O(n) time.
// lcp[r] is the length of the common prefix of the suffixes in rows r and r+1.
// The sentinel suffix sits in row 0 and shares nothing with its neighbour.
func buildLCPArray(suffixArray []int, text []byte) (lcp, rank []int) {
	rank = make([]int, len(suffixArray))
	for i := range suffixArray {
		rank[suffixArray[i]] = i
	}

	lcp = make([]int, len(suffixArray)-1)
	l := 0
	for i := range suffixArray {
		if rank[i]+1 == len(suffixArray) {
			l = 0
			continue
		}
		j := suffixArray[rank[i]+1]
		for i+l < len(text) && j+l < len(text) && text[i+l] == text[j+l] {
			l++
		}
		lcp[rank[i]] = l
		if l > 0 {
			l--
		}
	}

	return lcp, rank
}

type lcpIndex struct {
	n    int
	lcp  []int
	rank []int // text offset -> SA row
	rmq  *rmq.RMQHybridNaive[int]
}

func newLCPIndex(sa []int, text []byte) *lcpIndex {
	lcp, rank := buildLCPArray(sa, text)
	x := &lcpIndex{
		n:    len(text),
		lcp:  lcp,
		rank: rank,
	}
	if len(lcp) > 0 {
		x.rmq = rmq.NewRMQHybridNaive(lcp)
	}
	return x
}

// commonPrefix is the minimum of the LCP values between the rows of the two suffixes.
func (x *lcpIndex) commonPrefix(i, j int) int {
	if i == j {
		return x.n - i
	}
	l, r := x.rank[i], x.rank[j]
	if l > r {
		l, r = r, l
	}
	return x.lcp[x.rmq.Query(l, r-1)]
}
