// Package rangetrie implements a trie of byte ranges used to compress a set of UTF-8 byte
// range sequences into disjoint transitions.
//
// A character class like [\u0000-\U0010FFFF] expands into several byte range sequences, one per
// UTF-8 block. Emitting one automaton path per sequence produces redundant states whenever
// sequences share a prefix or their ranges at some depth overlap only partially. The trie
// merges the sequences so that the outgoing ranges of every state are pairwise disjoint,
// which lets a caller turn each transition into exactly one automaton edge.
//
// A Trie is not safe for concurrent use.
package rangetrie

import (
	"fmt"

	"github.com/nihei9/rangetrie/utf8"
)

// StateID is an index of a state in the arena of a trie.
type StateID int

// Root is the ID of the root state. The root always exists.
const Root = StateID(0)

func (id StateID) Int() int {
	return int(id)
}

// Transition is an edge from a state to the state Next on the byte values of Range.
type Transition struct {
	Range utf8.ByteRange
	Next  StateID
}

func (t Transition) String() string {
	return fmt.Sprintf("%v => %06d", t.Range, t.Next)
}

type state struct {
	final bool

	// trans is kept sorted by Range.From and its ranges don't overlap each other.
	trans []Transition
}

type Trie struct {
	states []state
}

// New returns a trie that has only a non-final root.
func New() *Trie {
	t := &Trie{}
	t.add()
	return t
}

// Clear discards all states and transitions. Memory held by the trie is reused by later
// insertions.
func (t *Trie) Clear() {
	t.states = t.states[:0]
	t.add()
}

// Len returns the number of states the trie holds.
func (t *Trie) Len() int {
	return len(t.states)
}

// IsFinal returns true when some sequence inserted into the trie ends at the state.
func (t *Trie) IsFinal(id StateID) bool {
	return t.states[id].final
}

// Transitions returns the outgoing transitions of a state in ascending order.
func (t *Trie) Transitions(id StateID) []Transition {
	trans := t.states[id].trans
	if len(trans) == 0 {
		return nil
	}
	return append([]Transition{}, trans...)
}

// Insert adds a byte range sequence to the trie. Inserting an empty sequence makes the
// root final.
func (t *Trie) Insert(seq utf8.Sequence) {
	t.insert(Root, seq)
}

func (t *Trie) insert(id StateID, seq utf8.Sequence) {
	if len(seq) == 0 {
		t.states[id].final = true
		return
	}
	if len(t.states[id].trans) == 0 {
		// newPath grows the arena, so it must run before the state is looked up again.
		tr := t.newPath(seq[0], seq[1:])
		t.states[id].trans = append(t.states[id].trans, tr)
		return
	}

	// Walk the existing transitions in ascending order with the part of the new range that
	// no transition has covered yet. Since transitions are disjoint and sorted, a part of
	// the new range left of the current transition overlaps nothing.
	old := t.states[id].trans
	rest := seq[1:]
	cur := seq[0]
	pending := true
	trans := make([]Transition, 0, len(old)+2)
	for _, tr := range old {
		if !pending {
			trans = append(trans, tr)
			continue
		}

		o := classify(tr.Range, cur)
		switch o.kind {
		case overlapEqual:
			t.insert(tr.Next, rest)
			trans = append(trans, tr)
			pending = false
		case overlapDisjoint:
			if cur.To < tr.Range.From {
				trans = append(trans, t.newPath(cur, rest))
				pending = false
			}
			trans = append(trans, tr)
		case overlapPartial:
			pending = false
			trans = t.split(trans, tr, o.parts(), rest, &cur, &pending)
		}
	}
	if pending {
		trans = append(trans, t.newPath(cur, rest))
	}
	t.states[id].trans = trans

	t.check(id)
}

// split replaces an existing transition tr that partially overlaps the new range with
// transitions on the pieces of their union and appends them to trans.
//
// The first piece tr alone contains keeps the original destination and any other gets a
// copy of it. The shared piece gets a copy of the original destination into which the rest
// of the new sequence is inserted, so that the sequences arriving through tr still reach
// the same subtree. When tr is covered by the new range entirely, nothing else reaches the
// original destination anymore and the rest is inserted into it directly. A piece only the
// new range contains gets a fresh path when it lies left of tr. When it lies right of tr,
// it may still overlap the following transitions, so it is passed back via cur.
func (t *Trie) split(trans []Transition, tr Transition, pieces []piece, rest utf8.Sequence, cur *utf8.ByteRange, pending *bool) []Transition {
	kept := false
	keep := func() StateID {
		if !kept {
			kept = true
			return tr.Next
		}
		return t.clone(tr.Next)
	}

	for _, p := range pieces {
		switch p.owner {
		case ownerOld:
			trans = append(trans, Transition{
				Range: p.r,
				Next:  keep(),
			})
		case ownerShared:
			var next StateID
			if p.r == tr.Range {
				next = keep()
			} else {
				next = t.clone(tr.Next)
			}
			t.insert(next, rest)
			trans = append(trans, Transition{
				Range: p.r,
				Next:  next,
			})
		case ownerNew:
			if p.r.From > tr.Range.To {
				*cur = p.r
				*pending = true
				continue
			}
			trans = append(trans, t.newPath(p.r, rest))
		}
	}
	return trans
}

// newPath builds a chain of fresh states consuming r and then seq and returns the
// transition leading to it. The last state of the chain is final.
func (t *Trie) newPath(r utf8.ByteRange, seq utf8.Sequence) Transition {
	head := Transition{
		Range: r,
		Next:  t.add(),
	}
	id := head.Next
	for _, br := range seq {
		next := t.add()
		t.states[id].trans = append(t.states[id].trans, Transition{
			Range: br,
			Next:  next,
		})
		id = next
	}
	t.states[id].final = true
	return head
}

// clone makes a deep copy of the subtree rooted at a state and returns the ID of the copy.
func (t *Trie) clone(id StateID) StateID {
	src := t.states[id]
	dup := t.add()
	t.states[dup].final = src.final
	if len(src.trans) == 0 {
		return dup
	}
	trans := make([]Transition, len(src.trans))
	for i, tr := range src.trans {
		trans[i] = Transition{
			Range: tr.Range,
			Next:  t.clone(tr.Next),
		}
	}
	t.states[dup].trans = trans
	return dup
}

// add allocates an empty state. A slot left by Clear is reused together with its
// transition storage.
func (t *Trie) add() StateID {
	id := StateID(len(t.states))
	if len(t.states) < cap(t.states) {
		t.states = t.states[:id+1]
		t.states[id] = state{
			trans: t.states[id].trans[:0],
		}
		return id
	}
	t.states = append(t.states, state{})
	return id
}

// check panics when the transitions of a state are not sorted or overlap each other. Such a
// state can only come from a bug in the insertion.
func (t *Trie) check(id StateID) {
	trans := t.states[id].trans
	for i, tr := range trans {
		if tr.Range.From > tr.Range.To {
			panic(fmt.Errorf("state %v has an ill-formed range: %v", id, tr))
		}
		if i == 0 {
			continue
		}
		if trans[i-1].Range.To >= tr.Range.From {
			panic(fmt.Errorf("state %v has overlapping or unsorted transitions: %v, %v", id, trans[i-1], tr))
		}
	}
}
