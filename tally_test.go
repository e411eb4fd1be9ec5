package fmindex

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceTally(t *testing.T, step int) *tally {
	t.Helper()
	bwt := []byte("pbiirzirrbree$agi")
	_, counts := rankBWT(bwt)
	return newTally(bwt, newAlphabet(&counts, '$'), step)
}

func tallyRows(tl *tally) []map[byte]int {
	rows := make([]map[byte]int, tl.numRows())
	for k := range rows {
		rows[k] = make(map[byte]int)
		for id, v := range tl.row(k) {
			if v > 0 {
				rows[k][tl.alpha.symbols[id]] = int(v)
			}
		}
	}
	return rows
}

func TestTallyRows(t *testing.T) {
	rows := tallyRows(referenceTally(t, 1))
	require.Len(t, rows, 18)
	assert.Equal(t, map[byte]int{}, rows[0])
	assert.Equal(t, map[byte]int{'p': 1}, rows[1])
	assert.Equal(t, map[byte]int{'p': 1, 'b': 1, 'i': 2, 'r': 1, 'z': 1}, rows[6])
	assert.Equal(t, map[byte]int{'p': 1, 'b': 2, 'i': 3, 'r': 4, 'z': 1, 'e': 2, '$': 1}, rows[14])
	assert.Equal(t, map[byte]int{'p': 1, 'b': 2, 'i': 4, 'r': 4, 'z': 1, 'e': 2, '$': 1, 'a': 1, 'g': 1}, rows[17])

	assert.Equal(t, []map[byte]int{
		{},
		{'p': 1, 'b': 1, 'i': 1},
		{'p': 1, 'b': 1, 'i': 2, 'r': 1, 'z': 1},
		{'p': 1, 'b': 1, 'i': 3, 'r': 3, 'z': 1},
		{'p': 1, 'b': 2, 'i': 3, 'r': 4, 'z': 1, 'e': 1},
		{'p': 1, 'b': 2, 'i': 3, 'r': 4, 'z': 1, 'e': 2, '$': 1, 'a': 1},
	}, tallyRows(referenceTally(t, 3)))
}

func TestTallyTrailingRow(t *testing.T) {
	// 17 rows: a checkpoint at the end exists only when the step divides 17.
	assert.Equal(t, 18, referenceTally(t, 1).numRows())
	assert.Equal(t, 9, referenceTally(t, 2).numRows())
	assert.Equal(t, 2, referenceTally(t, 17).numRows())
	assert.Equal(t, 1, referenceTally(t, 20).numRows())
}

func TestTallyRankIndependentOfStep(t *testing.T) {
	for _, step := range []int{1, 3, 5, 7} {
		tl := referenceTally(t, step)
		id, ok := tl.alpha.id('i')
		require.True(t, ok)
		assert.Equal(t, 2, tl.rank(id, 5), "step %d", step)
	}
}

func TestTallyRankExhaustive(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 30; i++ {
		text := genRandText(r, r.Intn(120), "ACGT")
		sa, err := BuildSuffixArray(text)
		require.NoError(t, err)
		bwt := Transform(text, sa, '$')
		_, counts := rankBWT(bwt)
		alpha := newAlphabet(&counts, '$')

		for _, step := range []int{1, 2, 3, 4, 7, 16, 200} {
			tl := newTally(bwt, alpha, step)
			for id, c := range alpha.symbols {
				for index := 0; index <= len(bwt); index++ {
					want := bytes.Count(bwt[:index], []byte{c})
					if got := tl.rank(id, index); got != want {
						t.Fatalf("text %q step %d: rank(%q, %d) = %d, want %d", text, step, c, index, got, want)
					}
				}
			}
		}
	}
}

func TestTallyRankOutOfRange(t *testing.T) {
	tl := referenceTally(t, 3)
	assert.Panics(t, func() { tl.rank(0, -1) })
	assert.Panics(t, func() { tl.rank(0, 18) })
	assert.NotPanics(t, func() { tl.rank(0, 17) })
}

func TestTallyLF(t *testing.T) {
	// LF on the reference index moves to the row of the suffix one offset to the left.
	sa := []int{16, 3, 2, 6, 14, 12, 8, 1, 5, 7, 10, 15, 13, 0, 4, 9, 11}
	row := make(map[int]int, len(sa))
	for r, off := range sa {
		row[off] = r
	}
	tl := referenceTally(t, 4)
	for r, off := range sa {
		if off == 0 {
			continue
		}
		assert.Equal(t, row[off-1], tl.lf(r), "row %d", r)
	}
}
