package utf8

import (
	"fmt"
	"strings"
)

// ByteRange is an inclusive range of byte values <From..To>.
type ByteRange struct {
	From byte
	To   byte
}

func (r ByteRange) String() string {
	if r.From == r.To {
		return fmt.Sprintf("[%02X]", r.From)
	}
	return fmt.Sprintf("[%02X-%02X]", r.From, r.To)
}

// Contains returns true when b is inside the range.
func (r ByteRange) Contains(b byte) bool {
	return r.From <= b && b <= r.To
}

// Sequence is a sequence of byte ranges, one per byte position. A sequence matches a
// byte string when each byte of the string is inside the range at the same position.
type Sequence []ByteRange

func (s Sequence) String() string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(r.String())
	}
	return b.String()
}

// Matches returns true when bs has the same length as the sequence and each byte is
// inside the corresponding range.
func (s Sequence) Matches(bs []byte) bool {
	if len(bs) != len(s) {
		return false
	}
	for i, r := range s {
		if !r.Contains(bs[i]) {
			return false
		}
	}
	return true
}

// GenSequences converts a code point range <from..to> into byte range sequences. The union
// of the byte strings that the sequences match is exactly the UTF-8 encodings of the code
// points in the range, and the sequences are returned in ascending order.
//
// The conversion has two phases. First, the range is split into blocks not straddling a
// boundary of the encoded length (see splitCodePoint). Second, each block is split further
// until the encodings of its first and last code points differ only in a way that a
// product of per-byte ranges can express. For instance, <U+0100..U+0200> is encoded
// <C4 80..C8 80>, and [C4-C8][80-BF] would wrongly match C8 81, so the block is split into
// <U+0100..U+01FF> = [C4-C7][80-BF] and <U+0200..U+0200> = [C8][80].
func GenSequences(from, to rune) ([]Sequence, error) {
	blks, err := splitCodePoint(from, to)
	if err != nil {
		return nil, err
	}

	var seqs []Sequence
	for _, blk := range blks {
		seqs = append(seqs, splitContinuation(blk)...)
	}

	return seqs, nil
}

type cpRange struct {
	from rune
	to   rune
}

// maxContinuation[i] is a mask of the payload bits carried by the last i continuation bytes.
var maxContinuation = [...]rune{
	0,
	1<<6 - 1,
	1<<12 - 1,
	1<<18 - 1,
}

func splitContinuation(blk *cpRange) []Sequence {
	var seqs []Sequence
	stack := []*cpRange{blk}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// A single byte has no continuation bytes.
		if r.to <= 0x007f {
			seqs = append(seqs, Sequence{
				{
					From: byte(r.from),
					To:   byte(r.to),
				},
			})
			continue
		}

	SPLIT:
		for {
			for i := 1; i < len(maxContinuation); i++ {
				m := maxContinuation[i]
				if r.from&^m == r.to&^m {
					continue
				}
				if r.from&m != 0 {
					stack = append(stack, &cpRange{
						from: (r.from | m) + 1,
						to:   r.to,
					})
					r = &cpRange{
						from: r.from,
						to:   r.from | m,
					}
					continue SPLIT
				}
				if r.to&m != m {
					stack = append(stack, &cpRange{
						from: r.to &^ m,
						to:   r.to,
					})
					r = &cpRange{
						from: r.from,
						to:   r.to&^m - 1,
					}
					continue SPLIT
				}
			}
			break
		}

		f := []byte(string(r.from))
		t := []byte(string(r.to))
		seq := make(Sequence, len(f))
		for i := range f {
			seq[i] = ByteRange{
				From: f[i],
				To:   t[i],
			}
		}
		seqs = append(seqs, seq)
	}
	return seqs
}

// splitCodePoint splits a code point range represented by <from..to> into some blocks. The code points that
// the block contains will be a continuous byte sequence when encoded into UTF-8. For instance, this function
// splits <U+0000..U+07FF> into <U+0000..U+007F> and <U+0080..U+07FF> because <U+0000..U+07FF> is continuous on
// the code point but non-continuous in the UTF-8 byte sequence (In UTF-8, <U+0000..U+007F> is encoded <00..7F>,
// and <U+0080..U+07FF> is encoded <C2 80..DF BF>).
//
// The blocks don't contain surrogate code points <U+D800..U+DFFF> because byte sequences encoding them are
// ill-formed in UTF-8. For instance, <U+D000..U+FFFF> is split into <U+D000..U+D7FF> and <U+E000..U+FFFF>.
// However, when `from` or `to` itself is the surrogate code point, this function returns an error.
func splitCodePoint(from, to rune) ([]*cpRange, error) {
	if from > to {
		return nil, fmt.Errorf("code point range must be from <= to: U+%X..U+%X", from, to)
	}
	if from < 0x0000 || from > 0x10ffff || to < 0x0000 || to > 0x10ffff {
		return nil, fmt.Errorf("code point must be >=U+0000 and <=U+10FFFF: U+%X..U+%X", from, to)
	}
	// https://www.unicode.org/versions/Unicode13.0.0/ch03.pdf > 3.9 Unicode Encoding Forms > UTF-8 D92
	// > Because surrogate code points are not Unicode scalar values, any UTF-8 byte sequence that would otherwise
	// > map to code points U+D800..U+DFFF is ill-formed.
	if from >= 0xd800 && from <= 0xdfff || to >= 0xd800 && to <= 0xdfff {
		return nil, fmt.Errorf("surrogate code points U+D800..U+DFFF are not allowed in UTF-8: U+%X..U+%X", from, to)
	}

	var rs []*cpRange
	for from <= to {
		r := &cpRange{
			from: from,
			to:   to,
		}
		switch {
		case from <= 0x007f && to > 0x007f:
			r.to = 0x007f
		case from <= 0x07ff && to > 0x07ff:
			r.to = 0x07ff
		case from <= 0xd7ff && to > 0xd7ff:
			r.to = 0xd7ff
		case from <= 0xffff && to > 0xffff:
			r.to = 0xffff
		}
		rs = append(rs, r)
		from = r.to + 1

		// Skip surrogate code points U+D800..U+DFFF.
		if from >= 0xd800 && from <= 0xdfff {
			from = 0xe000
		}
	}
	return rs, nil
}
