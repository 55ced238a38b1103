package rangetrie

import (
	"github.com/nihei9/rangetrie/utf8"
)

// intersect returns the byte values that both r1 and r2 contain.
func intersect(r1, r2 utf8.ByteRange) (utf8.ByteRange, bool) {
	from := r1.From
	if r2.From > from {
		from = r2.From
	}
	to := r1.To
	if r2.To < to {
		to = r2.To
	}
	if from > to {
		return utf8.ByteRange{}, false
	}
	return utf8.ByteRange{
		From: from,
		To:   to,
	}, true
}

// covers returns true when r1 contains every byte value of r2.
func covers(r1, r2 utf8.ByteRange) bool {
	return r1.From <= r2.From && r1.To >= r2.To
}

type overlapKind int

const (
	overlapEqual overlapKind = iota
	overlapDisjoint
	overlapPartial
)

func (k overlapKind) String() string {
	switch k {
	case overlapEqual:
		return "equal"
	case overlapDisjoint:
		return "disjoint"
	case overlapPartial:
		return "partial"
	}
	return "unknown"
}

type owner int

const (
	ownerOld owner = iota
	ownerShared
	ownerNew
)

func (o owner) String() string {
	switch o {
	case ownerOld:
		return "old"
	case ownerShared:
		return "shared"
	case ownerNew:
		return "new"
	}
	return "unknown"
}

// piece is a part of the union of an old range and a new range.
type piece struct {
	r     utf8.ByteRange
	owner owner
}

type overlap struct {
	kind overlapKind

	// pieces are disjoint and ascending. They are set only when kind is overlapPartial.
	pieces [3]piece
	n      int
}

func (o *overlap) parts() []piece {
	return o.pieces[:o.n]
}

func (o *overlap) add(from, to byte, w owner) {
	o.pieces[o.n] = piece{
		r: utf8.ByteRange{
			From: from,
			To:   to,
		},
		owner: w,
	}
	o.n++
}

// classify compares an existing range old with a range in being inserted. When they
// partially overlap, the union is split into the part only old contains, the shared part
// and the part only in contains. The parts of one side can lie on both sides of the
// shared part, so there are at most three pieces.
func classify(old, in utf8.ByteRange) overlap {
	if old == in {
		return overlap{
			kind: overlapEqual,
		}
	}
	shared, ok := intersect(old, in)
	if !ok {
		return overlap{
			kind: overlapDisjoint,
		}
	}

	o := overlap{
		kind: overlapPartial,
	}
	switch {
	case old.From < shared.From:
		o.add(old.From, shared.From-1, ownerOld)
	case in.From < shared.From:
		o.add(in.From, shared.From-1, ownerNew)
	}
	o.add(shared.From, shared.To, ownerShared)
	switch {
	case old.To > shared.To:
		o.add(shared.To+1, old.To, ownerOld)
	case in.To > shared.To:
		o.add(shared.To+1, in.To, ownerNew)
	}
	return o
}
