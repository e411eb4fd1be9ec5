// Package fmindex implements an FM-index: a Burrows-Wheeler based full-text index that
// regenerates the indexed text and reports every occurrence of a pattern without scanning it.
package fmindex

import (
	"bytes"
	"cmp"
	"log/slog"
	"math"
	"slices"

	"github.com/pkg/errors"
)

type Builder struct {
	text      []byte
	saStep    int
	tallyStep int
	sentinel  byte
	prompter  Prompter
	logger    *slog.Logger
	useLCP    bool
}

func NewBuilder(text []byte) *Builder {
	return &Builder{
		text:     text,
		sentinel: DefaultSentinel,
	}
}

// Keeps only the suffix array entries whose offset is a multiple of n as checkpoints.
// Left unset, the step is asked from the prompter.
func (b *Builder) SAStep(n int) *Builder {
	b.saStep = n
	return b
}

// Stores a rank checkpoint every n BWT rows. Larger steps use less memory but every rank
// query walks up to n/2 rows from the nearest checkpoint.
// Left unset, the step is asked from the prompter.
func (b *Builder) TallyStep(n int) *Builder {
	b.tallyStep = n
	return b
}

// Uses c as the end-of-text marker. The text must not contain it.
func (b *Builder) Sentinel(c byte) *Builder {
	b.sentinel = c
	return b
}

func (b *Builder) WithPrompter(p Prompter) *Builder {
	b.prompter = p
	return b
}

func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// Builds the LCP array and its range-minimum index, enabling CommonPrefix.
// Costs O(|T|) extra memory.
func (b *Builder) WithLCP() *Builder {
	b.useLCP = true
	return b
}

func (b *Builder) Build() (*Index, error) {
	x := &Index{
		sentinel:    b.sentinel,
		sentinelSet: true,
		prompter:    b.prompter,
		logger:      b.logger,
		useLCP:      b.useLCP,
	}
	if _, _, err := x.Encode(b.text, b.saStep, b.tallyStep); err != nil {
		return nil, err
	}
	return x, nil
}

// Match is an occurrence of a pattern: text[Start:End].
type Match struct {
	Start, End int
}

// Index is an FM-index over one text. The zero value is an empty index that uses
// DefaultSentinel and has no prompter; call Encode before any other method.
//
// Encode must not run concurrently with other methods. Once it has returned, every read
// method is safe for concurrent use.
type Index struct {
	sentinel    byte
	sentinelSet bool
	prompter    Prompter
	logger      *slog.Logger
	useLCP      bool

	state *encoded
}

type encoded struct {
	n         int
	sentinel  byte
	saStep    int
	tallyStep int
	sa        []int
	samples   *sampledSA
	bwt       []byte
	alpha     *alphabet
	tally     *tally
	lcp       *lcpIndex
}

func (x *Index) log() *slog.Logger {
	if x.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return x.logger
}

func (x *Index) sentinelSymbol() byte {
	if !x.sentinelSet {
		return DefaultSentinel
	}
	return x.sentinel
}

// resolveStep returns step, asking the prompter when step is zero.
func (x *Index) resolveStep(step int, name string) (int, error) {
	if step == 0 {
		if x.prompter == nil {
			return 0, errors.Wrap(ErrMissingStep, name)
		}
		var err error
		if step, err = x.prompter.PromptStep(name); err != nil {
			return 0, errors.Wrapf(err, "reading %s", name)
		}
	}
	if step <= 0 {
		return 0, errors.Wrapf(ErrInvalidStep, "%s = %d", name, step)
	}
	return step, nil
}

// Encode indexes text and returns its BWT and suffix array. A step of zero is obtained from
// the prompter. Encoding again replaces the previous index; on error the previous index
// is left untouched.
//
// The returned slices are owned by the index and must not be modified.
func (x *Index) Encode(text []byte, saStep, tallyStep int) (bwt []byte, sa []int, err error) {
	tallyStep, err = x.resolveStep(tallyStep, TallyStepName)
	if err != nil {
		return nil, nil, err
	}
	saStep, err = x.resolveStep(saStep, SAStepName)
	if err != nil {
		return nil, nil, err
	}

	sentinel := x.sentinelSymbol()
	if i := bytes.IndexByte(text, sentinel); i >= 0 {
		return nil, nil, errors.Wrapf(ErrSentinelInText, "%q at offset %d", sentinel, i)
	}
	if uint64(len(text)) >= math.MaxUint32 {
		return nil, nil, ErrTextTooLong
	}

	logger := x.log()
	suffixes, rounds := sortSuffixes(text)
	sa = append([]int{len(text)}, suffixes...)
	logger.Debug("suffix array built", slog.Int("length", len(text)), slog.Int("rounds", rounds))

	bwt = Transform(text, sa, sentinel)
	_, counts := rankBWT(bwt)
	alpha := newAlphabet(&counts, sentinel)
	st := &encoded{
		n:         len(text),
		sentinel:  sentinel,
		saStep:    saStep,
		tallyStep: tallyStep,
		sa:        sa,
		samples:   newSampledSA(sa, saStep),
		bwt:       bwt,
		alpha:     alpha,
		tally:     newTally(bwt, alpha, tallyStep),
	}
	logger.Debug("tally built",
		slog.Int("alphabet", alpha.size()),
		slog.Int("tallyStep", tallyStep),
		slog.Int("checkpoints", st.tally.numRows()),
		slog.Int("saStep", saStep),
		slog.Uint64("saCheckpoints", st.samples.rows.GetCardinality()),
	)

	if x.useLCP {
		st.lcp = newLCPIndex(sa, text)
		logger.Debug("lcp built", slog.Int("length", len(st.lcp.lcp)))
	}

	x.state = st
	return bwt, sa, nil
}

func (x *Index) encoded() (*encoded, error) {
	if x.state == nil {
		return nil, ErrNotEncoded
	}
	return x.state, nil
}

// Len returns the length of the indexed text, 0 before Encode.
func (x *Index) Len() int {
	if x.state == nil {
		return 0
	}
	return x.state.n
}

func (x *Index) Sentinel() byte {
	return x.sentinelSymbol()
}

// BWT returns the transformed text, one symbol per suffix array row.
func (x *Index) BWT() []byte {
	if x.state == nil {
		return nil
	}
	return x.state.bwt
}

func (x *Index) SuffixArray() []int {
	if x.state == nil {
		return nil
	}
	return x.state.sa
}

// Steps returns the SA and tally checkpoint intervals used by Encode.
func (x *Index) Steps() (saStep, tallyStep int) {
	if x.state == nil {
		return 0, 0
	}
	return x.state.saStep, x.state.tallyStep
}

// CharCount returns the number of occurrences of every symbol in the BWT, sentinel included.
func (x *Index) CharCount() map[byte]int {
	if x.state == nil {
		return nil
	}
	a := x.state.alpha
	out := make(map[byte]int, a.size())
	for id, c := range a.symbols {
		out[c] = a.counts[id]
	}
	return out
}

// FirstColumn returns the rows each symbol occupies in the first column of the sorted
// rotations. The sentinel always occupies row 0.
func (x *Index) FirstColumn() map[byte]Range {
	if x.state == nil {
		return nil
	}
	a := x.state.alpha
	out := make(map[byte]Range, a.size())
	for id, c := range a.symbols {
		out[c] = a.first[id]
	}
	return out
}

// Rank returns the number of occurrences of c in BWT[0:i].
// It panics if i is outside [0, len(BWT)].
func (x *Index) Rank(c byte, i int) int {
	st := x.state
	if st == nil {
		panic(ErrNotEncoded)
	}
	id, ok := st.alpha.id(c)
	if !ok {
		if i < 0 || i > len(st.bwt) {
			panic("fmindex: rank index out of range")
		}
		return 0
	}
	return st.tally.rank(id, i)
}

// TallyRow returns checkpoint row k: the symbol counts of BWT[0:k*tallyStep].
// Symbols with a zero count are omitted.
func (x *Index) TallyRow(k int) (map[byte]int, bool) {
	if x.state == nil {
		return nil, false
	}
	t := x.state.tally
	if k < 0 || k >= t.numRows() {
		return nil, false
	}
	out := make(map[byte]int)
	for id, v := range t.row(k) {
		if v > 0 {
			out[t.alpha.symbols[id]] = int(v)
		}
	}
	return out, true
}

func (x *Index) TallyRows() int {
	if x.state == nil {
		return 0
	}
	return x.state.tally.numRows()
}

// SACheckpoint returns SA[row] if that entry was kept as a checkpoint.
func (x *Index) SACheckpoint(row int) (int, bool) {
	if x.state == nil || row < 0 || row >= len(x.state.sa) {
		return NoCheckpoint, false
	}
	return x.state.samples.get(row)
}

// SACheckpoints returns the sparse suffix array, NoCheckpoint where an entry was not kept.
func (x *Index) SACheckpoints() []int {
	if x.state == nil {
		return nil
	}
	return x.state.samples.expand(len(x.state.sa))
}

// Locate returns the text offset of the suffix in the given row using only the SA
// checkpoints and the tally.
func (x *Index) Locate(row int) (int, error) {
	st, err := x.encoded()
	if err != nil {
		return 0, err
	}
	if row < 0 || row >= len(st.bwt) {
		return 0, errors.Wrapf(ErrOutOfRange, "row %d", row)
	}
	return st.samples.locate(st.tally, row), nil
}

// Decode reconstructs the text from its BWT by walking the LF mapping backwards from
// the sentinel row. bwt must have been produced by Encode on this index.
func (x *Index) Decode(bwt []byte) ([]byte, error) {
	st, err := x.encoded()
	if err != nil {
		return nil, err
	}
	if len(bwt) != st.n+1 {
		return nil, errors.Wrapf(ErrCorrupt, "bwt has %d rows, want %d", len(bwt), st.n+1)
	}

	ranks, counts := rankBWT(bwt)
	if counts[st.sentinel] != 1 {
		return nil, errors.Wrapf(ErrCorrupt, "bwt has %d sentinels", counts[st.sentinel])
	}
	alpha := newAlphabet(&counts, st.sentinel)

	out := make([]byte, 0, st.n)
	// LF is a permutation and only the sentinel row maps to row 0, so the walk
	// always ends; a foreign BWT just ends early.
	for row := 0; bwt[row] != st.sentinel; {
		c := bwt[row]
		out = append(out, c)
		id, _ := alpha.id(c)
		row = alpha.first[id].First + ranks[row]
	}
	if len(out) != st.n {
		return nil, errors.Wrapf(ErrCorrupt, "decoded %d symbols, want %d", len(out), st.n)
	}
	slices.Reverse(out)
	return out, nil
}

// backwardSearch narrows [begin, end) one pattern symbol at a time from the right.
// ok is false as soon as the range empties or a symbol is not in the index.
func (st *encoded) backwardSearch(pattern []byte) (begin, end int, ok bool) {
	if len(pattern) == 0 {
		return 0, 0, false
	}
	begin, end = 0, len(st.bwt)
	for i := len(pattern) - 1; i >= 0; i-- {
		c := pattern[i]
		id, found := st.alpha.id(c)
		if !found || c == st.sentinel {
			return 0, 0, false
		}
		offset := st.alpha.first[id].First
		begin = offset + st.tally.rank(id, begin)
		end = offset + st.tally.rank(id, end)
		if begin >= end {
			return 0, 0, false
		}
	}
	return begin, end, true
}

// Search returns every occurrence of pattern in suffix array order. An absent pattern,
// and the empty pattern, yield no matches.
func (x *Index) Search(pattern []byte) ([]Match, error) {
	st, err := x.encoded()
	if err != nil {
		return nil, err
	}
	begin, end, ok := st.backwardSearch(pattern)
	if !ok {
		return nil, nil
	}
	matches := make([]Match, 0, end-begin)
	for _, off := range st.sa[begin:end] {
		matches = append(matches, Match{Start: off, End: off + len(pattern)})
	}
	return matches, nil
}

// SearchTextOrder is Search with the matches sorted by position in the text.
func (x *Index) SearchTextOrder(pattern []byte) ([]Match, error) {
	matches, err := x.Search(pattern)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(matches, func(a, b Match) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return matches, nil
}

// Count returns the number of occurrences of pattern without locating them.
func (x *Index) Count(pattern []byte) (int, error) {
	st, err := x.encoded()
	if err != nil {
		return 0, err
	}
	begin, end, ok := st.backwardSearch(pattern)
	if !ok {
		return 0, nil
	}
	return end - begin, nil
}

// CommonPrefix returns the length of the longest common prefix of the suffixes that start
// at text offsets i and j. Offsets range over [0, Len()]; Len() is the empty suffix.
func (x *Index) CommonPrefix(i, j int) (int, error) {
	st, err := x.encoded()
	if err != nil {
		return 0, err
	}
	if st.lcp == nil {
		return 0, ErrNoLCP
	}
	if i < 0 || i > st.n || j < 0 || j > st.n {
		return 0, errors.Wrapf(ErrOutOfRange, "offsets %d, %d", i, j)
	}
	return st.lcp.commonPrefix(i, j), nil
}
