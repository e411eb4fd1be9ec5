package fmindex

// DefaultSentinel is the symbol that marks the end of the text in the BWT.
const DefaultSentinel byte = '$'

// Transform computes the Burrows-Wheeler transform of text from its suffix array.
// Row i holds the symbol preceding the suffix at sa[i], or the sentinel for the suffix
// that starts the text. sa must be the result of BuildSuffixArray(text).
func Transform(text []byte, sa []int, sentinel byte) []byte {
	bwt := make([]byte, len(sa))
	for i, off := range sa {
		if off == 0 {
			bwt[i] = sentinel
		} else {
			bwt[i] = text[off-1]
		}
	}
	return bwt
}

// rankBWT counts, for every row, how many times its symbol appeared in earlier rows.
// It also returns the total count of each symbol.
func rankBWT(bwt []byte) (ranks []int, counts [256]int) {
	ranks = make([]int, len(bwt))
	for i, c := range bwt {
		ranks[i] = counts[c]
		counts[c]++
	}
	return ranks, counts
}
