package rangetrie

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihei9/rangetrie/utf8"
)

type cpRange struct {
	from rune
	to   rune
}

func (r cpRange) contains(c rune) bool {
	return r.from <= c && c <= r.to
}

func isSurrogate(c rune) bool {
	return c >= 0xd800 && c <= 0xdfff
}

// fakeCPRange returns a random code point range whose end points aren't surrogates. Narrow
// ranges are more likely so that the ranges overlap each other partially at every depth.
func fakeCPRange(f *gofakeit.Faker) cpRange {
	var from, width rune
	switch f.IntRange(0, 3) {
	case 0:
		from, width = rune(f.IntRange(0, 0x7f)), rune(f.IntRange(0, 0x40))
	case 1:
		from, width = rune(f.IntRange(0x80, 0x7ff)), rune(f.IntRange(0, 0x200))
	case 2:
		from, width = rune(f.IntRange(0x800, 0xffff)), rune(f.IntRange(0, 0x2000))
	default:
		from, width = rune(f.IntRange(0x10000, 0x10ffff)), rune(f.IntRange(0, 0x40000))
	}
	to := from + width
	if to > 0x10ffff {
		to = 0x10ffff
	}
	if isSurrogate(from) {
		from = 0xe000
	}
	if isSurrogate(to) {
		to = 0xd7ff
	}
	if from > to {
		from, to = to, from
	}
	return cpRange{
		from: from,
		to:   to,
	}
}

func buildTrie(t *testing.T, rs []cpRange) *Trie {
	t.Helper()

	trie := New()
	for _, cr := range rs {
		seqs, err := utf8.GenSequences(cr.from, cr.to)
		require.NoError(t, err)
		for _, s := range seqs {
			trie.Insert(s)
		}
	}
	return trie
}

// probes returns code points around the boundaries of the ranges and some random ones.
func probes(f *gofakeit.Faker, rs []cpRange) []rune {
	var cs []rune
	for _, cr := range rs {
		for _, c := range []rune{cr.from - 1, cr.from, cr.from + 1, (cr.from + cr.to) / 2, cr.to - 1, cr.to, cr.to + 1} {
			cs = append(cs, c)
		}
	}
	for i := 0; i < 200; i++ {
		cs = append(cs, rune(f.IntRange(0, 0x10ffff)))
	}

	var valid []rune
	for _, c := range cs {
		if c < 0 || c > 0x10ffff || isSurrogate(c) {
			continue
		}
		valid = append(valid, c)
	}
	return valid
}

func TestTrie_RandomClasses(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 50; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed %v", seed), func(t *testing.T) {
			t.Parallel()

			f := gofakeit.New(seed)
			rs := make([]cpRange, f.IntRange(1, 8))
			for i := range rs {
				rs[i] = fakeCPRange(f)
			}

			trie := buildTrie(t, rs)

			err := trie.Walk(func(id StateID, final bool, trans []Transition) error {
				for i, tr := range trans {
					if tr.Range.From > tr.Range.To {
						return fmt.Errorf("state %v: ill-formed range %v", id, tr.Range)
					}
					if i > 0 && trans[i-1].Range.To >= tr.Range.From {
						return fmt.Errorf("state %v: %v and %v overlap", id, trans[i-1], tr)
					}
				}
				return nil
			})
			require.NoError(t, err)

			for _, c := range probes(f, rs) {
				want := false
				for _, cr := range rs {
					if cr.contains(c) {
						want = true
						break
					}
				}
				assert.Equal(t, want, trie.Accepts([]byte(string(c))), "U+%X in %v", c, rs)
			}

			// Inserting the same sequences again changes nothing.
			before := trie.String()
			n := trie.Len()
			for _, cr := range rs {
				seqs, err := utf8.GenSequences(cr.from, cr.to)
				require.NoError(t, err)
				for _, s := range seqs {
					trie.Insert(s)
				}
			}
			assert.Equal(t, n, trie.Len())
			assert.Equal(t, before, trie.String())

			// The enumerated sequences rebuild a trie accepting the same strings.
			rebuilt := New()
			for _, s := range trie.Sequences() {
				rebuilt.Insert(s)
			}
			for _, c := range probes(f, rs) {
				b := []byte(string(c))
				assert.Equal(t, trie.Accepts(b), rebuilt.Accepts(b), "U+%X", c)
			}

			trie.Clear()
			assert.Equal(t, 1, trie.Len())
			assert.False(t, trie.IsFinal(Root))
			assert.Empty(t, trie.Transitions(Root))
		})
	}
}
