package fmindex

// tally answers rank queries over a BWT from checkpoints taken every step rows.
//
// Row k of the table holds, for every symbol, the number of occurrences in bwt[0:k*step).
// Rows live in one arena of fixed width, so a row is never shared with the running counter
// it was copied from.
type tally struct {
	bwt   []byte
	alpha *alphabet
	step  int
	width int
	rows  []int32
}

func newTally(bwt []byte, alpha *alphabet, step int) *tally {
	t := &tally{
		bwt:   bwt,
		alpha: alpha,
		step:  step,
		width: alpha.size(),
	}
	t.rows = make([]int32, (len(bwt)/step+1)*t.width)

	running := make([]int32, t.width)
	for i, c := range bwt {
		if i%step == 0 {
			copy(t.row(i/step), running)
		}
		id, _ := alpha.id(c)
		running[id]++
	}
	if len(bwt)%step == 0 {
		copy(t.row(len(bwt)/step), running)
	}
	return t
}

func (t *tally) row(k int) []int32 {
	return t.rows[k*t.width : (k+1)*t.width]
}

func (t *tally) numRows() int {
	return len(t.rows) / t.width
}

// rank returns the number of occurrences of the symbol with dense id in bwt[0:index).
// Off-checkpoint queries walk from the nearest stored row, at most step/2 rows away
// (one full step when the nearest row would lie past the end).
func (t *tally) rank(id, index int) int {
	if index < 0 || index > len(t.bwt) {
		panic("fmindex: rank index out of range")
	}
	if index%t.step == 0 {
		return int(t.row(index / t.step)[id])
	}

	nearest := (index + t.step/2) / t.step * t.step
	if last := (t.numRows() - 1) * t.step; nearest > last {
		nearest -= t.step
	}

	count := int(t.row(nearest / t.step)[id])
	sym := t.alpha.symbols[id]
	for ; nearest > index; nearest-- {
		if t.bwt[nearest-1] == sym {
			count--
		}
	}
	for ; nearest < index; nearest++ {
		if t.bwt[nearest] == sym {
			count++
		}
	}
	return count
}

// lf maps a row to the row of the suffix that starts one symbol earlier.
func (t *tally) lf(row int) int {
	id, _ := t.alpha.id(t.bwt[row])
	return t.alpha.first[id].First + t.rank(id, row)
}
