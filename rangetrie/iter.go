package rangetrie

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/rangetrie/utf8"
)

// Iter traverses the trie depth-first and calls fn for each state with the ranges on the
// path from the root to the state and whether the state is final. The root comes first
// with an empty sequence. Siblings are visited in ascending order, so the traversal is
// deterministic and can be repeated any number of times.
//
// seq is only valid until fn returns. When fn returns an error, Iter stops and returns it.
func (t *Trie) Iter(fn func(seq utf8.Sequence, final bool) error) error {
	return t.iter(Root, utf8.Sequence{}, fn)
}

func (t *Trie) iter(id StateID, path utf8.Sequence, fn func(seq utf8.Sequence, final bool) error) error {
	err := fn(path, t.states[id].final)
	if err != nil {
		return err
	}
	for _, tr := range t.states[id].trans {
		err := t.iter(tr.Next, append(path, tr.Range), fn)
		if err != nil {
			return err
		}
	}
	return nil
}

// Sequences returns the paths to all final states. Inserting them into an empty trie
// produces a trie recognizing the same byte strings.
func (t *Trie) Sequences() []utf8.Sequence {
	var seqs []utf8.Sequence
	t.Iter(func(seq utf8.Sequence, final bool) error {
		if final {
			seqs = append(seqs, append(utf8.Sequence{}, seq...))
		}
		return nil
	})
	return seqs
}

// Walk visits every state reachable from the root in depth-first preorder. fn receives
// the state's ID, whether it is final and its outgoing transitions, which are sorted and
// pairwise disjoint. The transitions must not be modified. When fn returns an error, Walk
// stops and returns it.
func (t *Trie) Walk(fn func(id StateID, final bool, trans []Transition) error) error {
	stack := []StateID{Root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s := t.states[id]
		err := fn(id, s.final, s.trans)
		if err != nil {
			return err
		}
		for i := len(s.trans) - 1; i >= 0; i-- {
			stack = append(stack, s.trans[i].Next)
		}
	}
	return nil
}

// Accepts returns true when the trie consumes all of b and stops in a final state.
func (t *Trie) Accepts(b []byte) bool {
	id := Root
	for _, v := range b {
		next, ok := t.next(id, v)
		if !ok {
			return false
		}
		id = next
	}
	return t.states[id].final
}

func (t *Trie) next(id StateID, v byte) (StateID, bool) {
	trans := t.states[id].trans
	i := sort.Search(len(trans), func(i int) bool {
		return trans[i].Range.To >= v
	})
	if i >= len(trans) || !trans[i].Range.Contains(v) {
		return 0, false
	}
	return trans[i].Next, true
}

func (t *Trie) String() string {
	var b strings.Builder
	t.Walk(func(id StateID, final bool, trans []Transition) error {
		mark := " "
		if final {
			mark = "*"
		}
		fmt.Fprintf(&b, "%v%06d:", mark, id)
		for i, tr := range trans {
			if i > 0 {
				fmt.Fprint(&b, ",")
			}
			fmt.Fprintf(&b, " %v", tr)
		}
		fmt.Fprintln(&b)
		return nil
	})
	return b.String()
}
