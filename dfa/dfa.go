// Package dfa turns a range trie into a byte-indexed transition table.
//
// Since the outgoing ranges of every trie state are disjoint, the trie is already
// deterministic. Each transition fills the columns of its range in the row of its source
// state, and each final state becomes an accepting state.
package dfa

import (
	"fmt"

	"github.com/nihei9/rangetrie/compressor"
	"github.com/nihei9/rangetrie/rangetrie"
)

// StateID represents an ID of a state of a transition table.
type StateID int

const (
	// StateIDNil represents an empty entry of a transition table.
	// When a matcher reads this value, the input is rejected.
	StateIDNil = StateID(0)

	// StateIDMin is the minimum value of the state ID. All valid state IDs are represented as
	// sequential numbers starting from this value.
	StateIDMin = StateID(1)
)

func (id StateID) Int() int {
	return int(id)
}

func (id StateID) IsNil() bool {
	return id == StateIDNil
}

type RowDisplacementTable struct {
	OriginalRowCount int       `json:"original_row_count"`
	OriginalColCount int       `json:"original_col_count"`
	EmptyValue       StateID   `json:"empty_value"`
	Entries          []StateID `json:"entries"`
	Bounds           []int     `json:"bounds"`
	RowDisplacement  []int     `json:"row_displacement"`
}

type UniqueEntriesTable struct {
	UniqueEntries             *RowDisplacementTable `json:"unique_entries,omitempty"`
	UncompressedUniqueEntries []StateID             `json:"uncompressed_unique_entries,omitempty"`
	RowNums                   []int                 `json:"row_nums"`
	OriginalRowCount          int                   `json:"original_row_count"`
	OriginalColCount          int                   `json:"original_col_count"`
}

type TransitionTable struct {
	InitialStateID         StateID             `json:"initial_state_id"`
	AcceptingStates        []bool              `json:"accepting_states"`
	RowCount               int                 `json:"row_count"`
	ColCount               int                 `json:"col_count"`
	CompressionLevel       int                 `json:"compression_level"`
	Transition             *UniqueEntriesTable `json:"transition,omitempty"`
	UncompressedTransition []StateID           `json:"uncompressed_transition,omitempty"`
}

type trieState struct {
	id    rangetrie.StateID
	final bool
	trans []rangetrie.Transition
}

// GenTransitionTable generates an uncompressed transition table from a trie. The states
// reachable from the root are numbered in depth-first preorder, so the root becomes
// StateIDMin.
func GenTransitionTable(t *rangetrie.Trie) (*TransitionTable, error) {
	if t == nil {
		return nil, fmt.Errorf("trie is nil")
	}

	var states []*trieState
	trie2ID := map[rangetrie.StateID]StateID{}
	err := t.Walk(func(id rangetrie.StateID, final bool, trans []rangetrie.Transition) error {
		trie2ID[id] = StateID(len(states) + StateIDMin.Int())
		states = append(states, &trieState{
			id:    id,
			final: final,
			trans: trans,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	rowCount := len(states) + 1
	colCount := 256
	acc := make([]bool, rowCount)
	tran := make([]StateID, rowCount*colCount)
	for _, s := range states {
		from := trie2ID[s.id]
		acc[from] = s.final
		for _, tr := range s.trans {
			to, ok := trie2ID[tr.Next]
			if !ok {
				return nil, fmt.Errorf("state %v has a transition to an unreachable state %v", s.id, tr.Next)
			}
			for v := int(tr.Range.From); v <= int(tr.Range.To); v++ {
				if tran[from.Int()*colCount+v] != StateIDNil {
					return nil, fmt.Errorf("state %v has overlapping transitions on %02X", s.id, v)
				}
				tran[from.Int()*colCount+v] = to
			}
		}
	}

	return &TransitionTable{
		InitialStateID:         trie2ID[rangetrie.Root],
		AcceptingStates:        acc,
		UncompressedTransition: tran,
		RowCount:               rowCount,
		ColCount:               colCount,
	}, nil
}

const (
	CompressionLevelMin = 0
	CompressionLevelMax = 2
)

// Compress compresses an uncompressed transition table. Level 0 leaves it as it is, level 1
// removes duplicate rows and level 2 additionally overlays the unique rows with row
// displacement.
func Compress(tranTab *TransitionTable, compLv int) (*TransitionTable, error) {
	if compLv < CompressionLevelMin || compLv > CompressionLevelMax {
		return nil, fmt.Errorf("compression level must be %v..%v: %v", CompressionLevelMin, CompressionLevelMax, compLv)
	}
	if tranTab.UncompressedTransition == nil {
		return nil, fmt.Errorf("transition table is already compressed")
	}

	switch compLv {
	case 2:
		return compressTransitionTableLv2(tranTab)
	case 1:
		return compressTransitionTableLv1(tranTab)
	}
	return tranTab, nil
}

func compressTransitionTableLv2(tranTab *TransitionTable) (*TransitionTable, error) {
	ueTab := compressor.NewUniqueEntriesTable()
	{
		orig, err := compressor.NewOriginalTable(convertStateIDSliceToIntSlice(tranTab.UncompressedTransition), tranTab.ColCount)
		if err != nil {
			return nil, err
		}
		err = ueTab.Compress(orig)
		if err != nil {
			return nil, err
		}
	}

	rdTab := compressor.NewRowDisplacementTable(StateIDNil.Int())
	{
		orig, err := compressor.NewOriginalTable(ueTab.UniqueEntries, ueTab.OriginalColCount)
		if err != nil {
			return nil, err
		}
		err = rdTab.Compress(orig)
		if err != nil {
			return nil, err
		}
	}

	tranTab.Transition = &UniqueEntriesTable{
		UniqueEntries: &RowDisplacementTable{
			OriginalRowCount: rdTab.OriginalRowCount,
			OriginalColCount: rdTab.OriginalColCount,
			EmptyValue:       StateIDNil,
			Entries:          convertIntSliceToStateIDSlice(rdTab.Entries),
			Bounds:           rdTab.Bounds,
			RowDisplacement:  rdTab.RowDisplacement,
		},
		RowNums:          ueTab.RowNums,
		OriginalRowCount: ueTab.OriginalRowCount,
		OriginalColCount: ueTab.OriginalColCount,
	}
	tranTab.UncompressedTransition = nil
	tranTab.CompressionLevel = 2

	return tranTab, nil
}

func compressTransitionTableLv1(tranTab *TransitionTable) (*TransitionTable, error) {
	ueTab := compressor.NewUniqueEntriesTable()
	{
		orig, err := compressor.NewOriginalTable(convertStateIDSliceToIntSlice(tranTab.UncompressedTransition), tranTab.ColCount)
		if err != nil {
			return nil, err
		}
		err = ueTab.Compress(orig)
		if err != nil {
			return nil, err
		}
	}

	tranTab.Transition = &UniqueEntriesTable{
		UncompressedUniqueEntries: convertIntSliceToStateIDSlice(ueTab.UniqueEntries),
		RowNums:                   ueTab.RowNums,
		OriginalRowCount:          ueTab.OriginalRowCount,
		OriginalColCount:          ueTab.OriginalColCount,
	}
	tranTab.UncompressedTransition = nil
	tranTab.CompressionLevel = 1

	return tranTab, nil
}

// NextState returns the state the table moves to from a state on a byte value. It returns
// false when the table has no such transition.
func (tab *TransitionTable) NextState(state StateID, v byte) (StateID, bool) {
	if state.Int() <= StateIDNil.Int() || state.Int() >= tab.RowCount {
		return StateIDNil, false
	}

	var next StateID
	switch tab.CompressionLevel {
	case 2:
		tran := tab.Transition
		rowNum := tran.RowNums[state]
		d := tran.UniqueEntries.RowDisplacement[rowNum]
		if tran.UniqueEntries.Bounds[d+int(v)] != rowNum {
			return tran.UniqueEntries.EmptyValue, false
		}
		next = tran.UniqueEntries.Entries[d+int(v)]
	case 1:
		tran := tab.Transition
		next = tran.UncompressedUniqueEntries[tran.RowNums[state]*tran.OriginalColCount+int(v)]
	default:
		next = tab.UncompressedTransition[state.Int()*tab.ColCount+int(v)]
	}
	return next, !next.IsNil()
}

// Match returns true when the table consumes all of input and stops in an accepting state.
func (tab *TransitionTable) Match(input []byte) bool {
	state := tab.InitialStateID
	for _, v := range input {
		next, ok := tab.NextState(state, v)
		if !ok {
			return false
		}
		state = next
	}
	return tab.AcceptingStates[state]
}

// Size returns the number of entries the transition part of the table holds. It is a
// measure of how well the table is compressed.
func (tab *TransitionTable) Size() int {
	if tab.UncompressedTransition != nil {
		return len(tab.UncompressedTransition)
	}
	tran := tab.Transition
	n := len(tran.RowNums)
	if tran.UniqueEntries != nil {
		n += len(tran.UniqueEntries.Entries) + len(tran.UniqueEntries.Bounds) + len(tran.UniqueEntries.RowDisplacement)
	} else {
		n += len(tran.UncompressedUniqueEntries)
	}
	return n
}

func convertStateIDSliceToIntSlice(s []StateID) []int {
	is := make([]int, len(s))
	for i, v := range s {
		is[i] = v.Int()
	}
	return is
}

func convertIntSliceToStateIDSlice(s []int) []StateID {
	ss := make([]StateID, len(s))
	for i, v := range s {
		ss[i] = StateID(v)
	}
	return ss
}
