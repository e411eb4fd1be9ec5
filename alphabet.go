package fmindex

// Range is a half-open range of rows [First, End) in the sorted rotation matrix.
type Range struct {
	First, End int
}

func (r Range) Len() int {
	return r.End - r.First
}

// alphabet maps the symbols observed in a BWT to dense ids. Id 0 is the sentinel,
// the remaining symbols follow in ascending byte order.
type alphabet struct {
	sentinel byte
	ids      [256]int16 // -1 for symbols that never occur
	symbols  []byte     // dense id -> symbol
	counts   []int      // dense id -> occurrences in the BWT
	first    []Range    // dense id -> first-column rows
}

func newAlphabet(counts *[256]int, sentinel byte) *alphabet {
	a := &alphabet{sentinel: sentinel}
	for i := range a.ids {
		a.ids[i] = -1
	}
	a.add(sentinel, counts[sentinel])
	for c := 0; c < 256; c++ {
		if byte(c) != sentinel && counts[c] > 0 {
			a.add(byte(c), counts[c])
		}
	}

	// The sentinel row always sorts first.
	a.first = make([]Range, len(a.symbols))
	a.first[0] = Range{0, 1}
	offset := 1
	for id := 1; id < len(a.symbols); id++ {
		a.first[id] = Range{offset, offset + a.counts[id]}
		offset += a.counts[id]
	}
	return a
}

func (a *alphabet) add(c byte, count int) {
	a.ids[c] = int16(len(a.symbols))
	a.symbols = append(a.symbols, c)
	a.counts = append(a.counts, count)
}

func (a *alphabet) id(c byte) (int, bool) {
	id := a.ids[c]
	return int(id), id >= 0
}

func (a *alphabet) size() int {
	return len(a.symbols)
}
