package rangetrie

import (
	"fmt"
	"testing"

	"github.com/nihei9/rangetrie/utf8"
)

func r(from, to byte) utf8.ByteRange {
	return utf8.ByteRange{
		From: from,
		To:   to,
	}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		r1     utf8.ByteRange
		r2     utf8.ByteRange
		result utf8.ByteRange
		ok     bool
	}{
		{r1: r(0, 0), r2: r(0, 0), result: r(0, 0), ok: true},
		{r1: r(1, 1), r2: r(1, 1), result: r(1, 1), ok: true},
		{r1: r(5, 10), r2: r(5, 10), result: r(5, 10), ok: true},
		{r1: r(0, 0), r2: r(0, 1), result: r(0, 0), ok: true},
		{r1: r(0, 0), r2: r(0, 2), result: r(0, 0), ok: true},
		{r1: r(0, 9), r2: r(5, 14), result: r(5, 9), ok: true},
		{r1: r(3, 5), r2: r(0, 9), result: r(3, 5), ok: true},
		{r1: r(0, 255), r2: r(255, 255), result: r(255, 255), ok: true},
		{r1: r(0, 0), r2: r(1, 1), ok: false},
		{r1: r(1, 1), r2: r(0, 0), ok: false},
		{r1: r(0, 4), r2: r(5, 9), ok: false},
		{r1: r(0, 254), r2: r(255, 255), ok: false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v %v", tt.r1, tt.r2), func(t *testing.T) {
			for _, args := range [][2]utf8.ByteRange{{tt.r1, tt.r2}, {tt.r2, tt.r1}} {
				result, ok := intersect(args[0], args[1])
				if ok != tt.ok {
					t.Fatalf("unexpected result of intersect(%v, %v); want: %v, got: %v", args[0], args[1], tt.ok, ok)
				}
				if ok && result != tt.result {
					t.Fatalf("unexpected intersection of %v and %v; want: %v, got: %v", args[0], args[1], tt.result, result)
				}
			}
		})
	}
}

func TestIntersect_Exhaustive(t *testing.T) {
	// Check every pair on a reduced alphabet against a byte-by-byte comparison.
	const max = 12
	for f1 := 0; f1 <= max; f1++ {
		for t1 := f1; t1 <= max; t1++ {
			for f2 := 0; f2 <= max; f2++ {
				for t2 := f2; t2 <= max; t2++ {
					r1 := r(byte(f1), byte(t1))
					r2 := r(byte(f2), byte(t2))

					shared := false
					for v := f1; v <= t1; v++ {
						if v >= f2 && v <= t2 {
							shared = true
							break
						}
					}

					_, ok := intersect(r1, r2)
					if ok != shared {
						t.Fatalf("unexpected result of intersect(%v, %v); want: %v, got: %v", r1, r2, shared, ok)
					}
					if got, _ := intersect(r1, r1); got != r1 {
						t.Fatalf("intersect(%v, %v) must be %v; got: %v", r1, r1, r1, got)
					}
					if covers(r1, r2) && covers(r2, r1) && r1 != r2 {
						t.Fatalf("%v and %v cover each other but differ", r1, r2)
					}
				}
			}
		}
	}
}

func TestCovers(t *testing.T) {
	tests := []struct {
		r1     utf8.ByteRange
		r2     utf8.ByteRange
		covers bool
	}{
		{r1: r(0, 0), r2: r(0, 0), covers: true},
		{r1: r(0, 3), r2: r(1, 2), covers: true},
		{r1: r(1, 3), r2: r(1, 2), covers: true},
		{r1: r(0, 2), r2: r(1, 2), covers: true},
		{r1: r(5, 10), r2: r(5, 10), covers: true},
		{r1: r(5, 10), r2: r(6, 10), covers: true},
		{r1: r(5, 10), r2: r(5, 9), covers: true},
		{r1: r(5, 10), r2: r(6, 9), covers: true},
		{r1: r(5, 10), r2: r(7, 9), covers: true},
		{r1: r(5, 10), r2: r(7, 8), covers: true},
		{r1: r(5, 10), r2: r(7, 7), covers: true},

		{r1: r(0, 0), r2: r(0, 1), covers: false},
		{r1: r(1, 2), r2: r(0, 3), covers: false},
		{r1: r(1, 2), r2: r(1, 3), covers: false},
		{r1: r(1, 2), r2: r(0, 2), covers: false},
		{r1: r(6, 10), r2: r(5, 10), covers: false},
		{r1: r(5, 9), r2: r(5, 10), covers: false},
		{r1: r(6, 9), r2: r(5, 10), covers: false},
		{r1: r(7, 9), r2: r(5, 10), covers: false},
		{r1: r(7, 8), r2: r(5, 10), covers: false},
		{r1: r(7, 7), r2: r(5, 10), covers: false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v %v", tt.r1, tt.r2), func(t *testing.T) {
			c := covers(tt.r1, tt.r2)
			if c != tt.covers {
				t.Fatalf("unexpected result of covers(%v, %v); want: %v, got: %v", tt.r1, tt.r2, tt.covers, c)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	p := func(from, to byte, w owner) piece {
		return piece{
			r:     r(from, to),
			owner: w,
		}
	}

	tests := []struct {
		old    utf8.ByteRange
		in     utf8.ByteRange
		kind   overlapKind
		pieces []piece
	}{
		{
			old:  r(0, 9),
			in:   r(0, 9),
			kind: overlapEqual,
		},
		{
			old:  r(0, 4),
			in:   r(5, 9),
			kind: overlapDisjoint,
		},
		{
			old:  r(5, 9),
			in:   r(0, 4),
			kind: overlapDisjoint,
		},
		{
			old:  r(0, 9),
			in:   r(5, 14),
			kind: overlapPartial,
			pieces: []piece{
				p(0, 4, ownerOld),
				p(5, 9, ownerShared),
				p(10, 14, ownerNew),
			},
		},
		{
			old:  r(5, 14),
			in:   r(0, 9),
			kind: overlapPartial,
			pieces: []piece{
				p(0, 4, ownerNew),
				p(5, 9, ownerShared),
				p(10, 14, ownerOld),
			},
		},
		{
			old:  r(0, 9),
			in:   r(3, 5),
			kind: overlapPartial,
			pieces: []piece{
				p(0, 2, ownerOld),
				p(3, 5, ownerShared),
				p(6, 9, ownerOld),
			},
		},
		{
			old:  r(3, 5),
			in:   r(0, 9),
			kind: overlapPartial,
			pieces: []piece{
				p(0, 2, ownerNew),
				p(3, 5, ownerShared),
				p(6, 9, ownerNew),
			},
		},
		{
			old:  r(0, 9),
			in:   r(0, 5),
			kind: overlapPartial,
			pieces: []piece{
				p(0, 5, ownerShared),
				p(6, 9, ownerOld),
			},
		},
		{
			old:  r(0, 5),
			in:   r(0, 9),
			kind: overlapPartial,
			pieces: []piece{
				p(0, 5, ownerShared),
				p(6, 9, ownerNew),
			},
		},
		{
			old:  r(0, 255),
			in:   r(255, 255),
			kind: overlapPartial,
			pieces: []piece{
				p(0, 254, ownerOld),
				p(255, 255, ownerShared),
			},
		},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v %v", tt.old, tt.in), func(t *testing.T) {
			o := classify(tt.old, tt.in)
			if o.kind != tt.kind {
				t.Fatalf("unexpected kind; want: %v, got: %v", tt.kind, o.kind)
			}
			ps := o.parts()
			if len(ps) != len(tt.pieces) {
				t.Fatalf("unexpected pieces; want: %+v, got: %+v", tt.pieces, ps)
			}
			for i, p := range ps {
				if p != tt.pieces[i] {
					t.Fatalf("unexpected pieces; want: %+v, got: %+v", tt.pieces, ps)
				}
			}
		})
	}
}
