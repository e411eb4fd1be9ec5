package fmindex

import (
	"bytes"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genRandText(r *rand.Rand, size int, alphabet string) []byte {
	text := make([]byte, size)
	for i := range text {
		text[i] = alphabet[r.Intn(len(alphabet))]
	}
	return text
}

func genRandBytes(r *rand.Rand, size int) []byte {
	text := make([]byte, size)
	r.Read(text)
	return text
}

// makeSA sorts every suffix directly; a shorter suffix sorts before its extensions,
// which is exactly where the sentinel puts it.
func makeSA(text []byte) []int {
	sa := make([]int, len(text)+1)
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(i, j int) bool {
		return bytes.Compare(text[sa[i]:], text[sa[j]:]) < 0
	})
	return sa
}

func TestBuildSuffixArray(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	tests := map[string]struct {
		input []byte
	}{
		"empty string":         {input: []byte{}},
		"single character":     {input: []byte("a")},
		"same characters":      {input: []byte("aaaaaaaaaaaaaaaaaaaaa")},
		"banana":               {input: []byte("banana")},
		"mississippi":          {input: []byte("mississippi")},
		"abracadabra":          {input: []byte("abracadabra")},
		"repeated pattern":     {input: []byte{1, 2, 1, 2, 1, 2, 1, 2}},
		"reverse sorted":       {input: []byte{5, 4, 3, 2, 1}},
		"min/max edges":        {input: []byte{0, 255, 0, 255}},
		"ACGTGCCTAGCCTACCGTGC": {input: []byte("ACGTGCCTAGCCTACCGTGCC")},
		"long random binary":   {input: genRandText(r, 2000, "ab")},
		"long random dna":      {input: genRandText(r, 2000, "ACGT")},
		"long random bytes":    {input: genRandBytes(r, 1000)},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			sa, err := BuildSuffixArray(tc.input)
			require.NoError(t, err)
			assert.Equal(t, makeSA(tc.input), sa)
		})
	}
}

func TestBuildSuffixArrayReference(t *testing.T) {
	sa, err := BuildSuffixArray([]byte("ribaribigrizerep"))
	require.NoError(t, err)
	assert.Equal(t, []int{16, 3, 2, 6, 14, 12, 8, 1, 5, 7, 10, 15, 13, 0, 4, 9, 11}, sa)

	sa, err = BuildSuffixArray(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, sa)

	sa, err = BuildSuffixArray([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, sa)
}

func TestSuffixArrayOrder(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		text := genRandText(r, r.Intn(64), "abc")
		sa, err := BuildSuffixArray(text)
		require.NoError(t, err)
		require.Len(t, sa, len(text)+1)

		seen := make([]bool, len(sa))
		for _, off := range sa {
			require.False(t, seen[off], "offset %d appears twice", off)
			seen[off] = true
		}
		for k := 0; k+1 < len(sa); k++ {
			assert.Negative(t, bytes.Compare(text[sa[k]:], text[sa[k+1]:]), "text %q rows %d,%d", text, k, k+1)
		}
	}
}

func TestSortSuffixesRounds(t *testing.T) {
	// A run of one symbol needs every doubling round; a text of distinct symbols needs none.
	_, rounds := sortSuffixes(bytes.Repeat([]byte("a"), 1000))
	assert.Equal(t, 10, rounds)

	_, rounds = sortSuffixes([]byte("abcdefgh"))
	assert.Equal(t, 0, rounds)
}
