// Package charclass parses textual character classes and compiles them into range tries.
//
// A class expression is a list of items separated by white spaces or commas:
//
//	a          a character
//	a-z        a character range
//	U+3042     a code point
//	U+0..U+7F  a code point range
//	\p{Greek}  a general category, script or property of the unicode package
//	\,         an escaped character
//
// When the first item is `!`, the class is negated.
package charclass

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	verr "github.com/nihei9/rangetrie/error"
	"github.com/nihei9/rangetrie/rangetrie"
	"github.com/nihei9/rangetrie/utf8"
)

const (
	surrogateMin = 0xd800
	surrogateMax = 0xdfff
)

// CPRange is an inclusive range of code points <From..To>.
type CPRange struct {
	From rune
	To   rune
}

func (r CPRange) String() string {
	if r.From == r.To {
		return fmt.Sprintf("U+%04X", r.From)
	}
	return fmt.Sprintf("U+%04X..U+%04X", r.From, r.To)
}

// Class is a set of Unicode scalar values.
type Class struct {
	// Source is the expression the class was parsed from.
	Source string
	// Row is the line number of Source when the class comes from ParseFile.
	Row int

	table *unicode.RangeTable
}

// Table returns the class as a range table.
func (c *Class) Table() *unicode.RangeTable {
	return c.table
}

// Contains returns true when the class contains the code point.
func (c *Class) Contains(r rune) bool {
	if r >= surrogateMin && r <= surrogateMax {
		return false
	}
	return unicode.Is(c.table, r)
}

// Ranges returns the maximal ranges of scalar values the class contains in ascending order.
// Surrogate code points are never included.
func (c *Class) Ranges() []CPRange {
	var rs []CPRange
	push := func(from, to rune) {
		if n := len(rs); n > 0 && rs[n-1].To+1 >= from {
			if to > rs[n-1].To {
				rs[n-1].To = to
			}
			return
		}
		rs = append(rs, CPRange{
			From: from,
			To:   to,
		})
	}
	expand := func(lo, hi, stride uint32) {
		if stride == 1 {
			push(rune(lo), rune(hi))
			return
		}
		for v := lo; v <= hi; v += stride {
			push(rune(v), rune(v))
		}
	}
	for _, r16 := range c.table.R16 {
		expand(uint32(r16.Lo), uint32(r16.Hi), uint32(r16.Stride))
	}
	for _, r32 := range c.table.R32 {
		expand(r32.Lo, r32.Hi, r32.Stride)
	}
	return clipSurrogates(rs)
}

func clipSurrogates(rs []CPRange) []CPRange {
	var clipped []CPRange
	for _, r := range rs {
		if r.To < surrogateMin || r.From > surrogateMax {
			clipped = append(clipped, r)
			continue
		}
		if r.From < surrogateMin {
			clipped = append(clipped, CPRange{
				From: r.From,
				To:   surrogateMin - 1,
			})
		}
		if r.To > surrogateMax {
			clipped = append(clipped, CPRange{
				From: surrogateMax + 1,
				To:   r.To,
			})
		}
	}
	return clipped
}

// Negate returns the complement of the class over U+0000..U+10FFFF excluding surrogates.
func (c *Class) Negate() *Class {
	var rs []CPRange
	from := rune(0)
	for _, r := range c.Ranges() {
		if r.From > from {
			rs = append(rs, CPRange{
				From: from,
				To:   r.From - 1,
			})
		}
		from = r.To + 1
	}
	if from <= unicode.MaxRune {
		rs = append(rs, CPRange{
			From: from,
			To:   unicode.MaxRune,
		})
	}
	return &Class{
		Source: c.Source,
		Row:    c.Row,
		table:  newTable(clipSurrogates(rs)),
	}
}

func (c *Class) String() string {
	rs := c.Ranges()
	ss := make([]string, len(rs))
	for i, r := range rs {
		ss[i] = r.String()
	}
	return strings.Join(ss, " ")
}

// newTable builds a range table from sorted and disjoint ranges.
func newTable(rs []CPRange) *unicode.RangeTable {
	t := &unicode.RangeTable{}
	for _, r := range rs {
		if r.From <= 0xffff {
			hi := r.To
			if hi > 0xffff {
				hi = 0xffff
			}
			t.R16 = append(t.R16, unicode.Range16{
				Lo:     uint16(r.From),
				Hi:     uint16(hi),
				Stride: 1,
			})
			if hi <= unicode.MaxLatin1 {
				t.LatinOffset++
			}
			if r.To <= 0xffff {
				continue
			}
			r.From = 0x10000
		}
		t.R32 = append(t.R32, unicode.Range32{
			Lo:     uint32(r.From),
			Hi:     uint32(r.To),
			Stride: 1,
		})
	}
	return t
}

// Compile clears a trie and inserts the UTF-8 byte range sequences of every range of the
// class into it.
func Compile(c *Class, t *rangetrie.Trie) error {
	t.Clear()
	for _, r := range c.Ranges() {
		seqs, err := utf8.GenSequences(r.From, r.To)
		if err != nil {
			return err
		}
		for _, s := range seqs {
			t.Insert(s)
		}
	}
	return nil
}

// Parse parses a class expression. A syntax error is returned as *verr.ClassError whose Col
// points at the offending item.
func Parse(src string) (*Class, error) {
	items, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	negate := false
	if len(items) > 0 && items[0].text == "!" && !items[0].escaped {
		negate = true
		items = items[1:]
	}

	var tables []*unicode.RangeTable
	for _, it := range items {
		t, err := it.table()
		if err != nil {
			return nil, &verr.ClassError{
				Cause: err,
				Col:   it.col,
			}
		}
		tables = append(tables, t)
	}

	c := &Class{
		Source: src,
		table:  rangetable.Merge(tables...),
	}
	if negate {
		c = c.Negate()
	}
	return c, nil
}

type item struct {
	text    string
	escaped bool
	col     int
}

// tokenize splits an expression into items. A backslash escapes the next character except
// in `\p{...}`, which is kept as it is.
func tokenize(src string) ([]*item, error) {
	var items []*item
	var cur *item
	rs := []rune(src)
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		if c == ' ' || c == '\t' || c == ',' {
			cur = nil
			continue
		}
		if cur == nil {
			cur = &item{
				col: i + 1,
			}
			items = append(items, cur)
		}
		if c != '\\' {
			cur.text += string(c)
			continue
		}
		if i+1 >= len(rs) {
			return nil, &verr.ClassError{
				Cause: fmt.Errorf("incomplete escape sequence"),
				Col:   i + 1,
			}
		}
		if rs[i+1] == 'p' {
			end := i + 2
			for end < len(rs) && rs[end] != '}' {
				end++
			}
			if i+2 >= len(rs) || rs[i+2] != '{' || end >= len(rs) {
				return nil, &verr.ClassError{
					Cause: fmt.Errorf("\\p must be followed by {name}"),
					Col:   i + 1,
				}
			}
			cur.text += string(rs[i : end+1])
			i = end
			continue
		}
		cur.text += string(rs[i+1])
		cur.escaped = true
		i++
	}
	return items, nil
}

func (it *item) table() (*unicode.RangeTable, error) {
	if strings.HasPrefix(it.text, `\p{`) {
		name := strings.TrimSuffix(strings.TrimPrefix(it.text, `\p{`), "}")
		return lookupProperty(name)
	}

	var r CPRange
	if strings.HasPrefix(it.text, "U+") {
		from, to, hasTo := strings.Cut(it.text, "..")
		f, err := parseCodePoint(from)
		if err != nil {
			return nil, err
		}
		r = CPRange{
			From: f,
			To:   f,
		}
		if hasTo {
			t, err := parseCodePoint(to)
			if err != nil {
				return nil, err
			}
			r.To = t
		}
	} else {
		cs := []rune(it.text)
		switch {
		case len(cs) == 1:
			r = CPRange{
				From: cs[0],
				To:   cs[0],
			}
		case len(cs) == 3 && cs[1] == '-':
			r = CPRange{
				From: cs[0],
				To:   cs[2],
			}
		default:
			return nil, fmt.Errorf("invalid item: %v", it.text)
		}
	}
	if r.From > r.To {
		return nil, fmt.Errorf("range must be from <= to: %v", it.text)
	}
	if isSurrogate(r.From) || isSurrogate(r.To) {
		return nil, fmt.Errorf("surrogate code points U+D800..U+DFFF are not allowed: %v", it.text)
	}
	return newTable([]CPRange{r}), nil
}

func isSurrogate(r rune) bool {
	return r >= surrogateMin && r <= surrogateMax
}

func parseCodePoint(s string) (rune, error) {
	hex := strings.TrimPrefix(s, "U+")
	if hex == s || len(hex) == 0 || len(hex) > 6 {
		return 0, fmt.Errorf("invalid code point: %v", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid code point: %v", s)
	}
	if v > unicode.MaxRune {
		return 0, fmt.Errorf("code point must be <=U+10FFFF: %v", s)
	}
	return rune(v), nil
}
