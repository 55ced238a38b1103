// Package compressor compresses the row-major transition tables that package dfa generates.
package compressor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *OriginalTable) row(r int) []int {
	return t.entries[r*t.colCount : (r+1)*t.colCount]
}

type Compressor interface {
	Compress(orig *OriginalTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)
	// Size returns the number of integers the compressed table holds.
	Size() int
}

var (
	_ Compressor = &UniqueEntriesTable{}
	_ Compressor = &RowDisplacementTable{}
)

// UniqueEntriesTable stores each distinct row once. RowNums maps an original row to its
// row in UniqueEntries.
type UniqueEntriesTable struct {
	UniqueEntries    []int
	RowNums          []int
	OriginalRowCount int
	OriginalColCount int
}

func NewUniqueEntriesTable() *UniqueEntriesTable {
	return &UniqueEntriesTable{}
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueEntriesTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *UniqueEntriesTable) Size() int {
	return len(tab.UniqueEntries) + len(tab.RowNums)
}

func (tab *UniqueEntriesTable) Compress(orig *OriginalTable) error {
	var unique []int
	rowNums := make([]int, orig.rowCount)
	key2RowNum := map[string]int{}
	for r := 0; r < orig.rowCount; r++ {
		row := orig.row(r)
		k := rowKey(row)
		num, ok := key2RowNum[k]
		if !ok {
			num = len(key2RowNum)
			key2RowNum[k] = num
			unique = append(unique, row...)
		}
		rowNums[r] = num
	}

	tab.UniqueEntries = unique
	tab.RowNums = rowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

func rowKey(row []int) string {
	var b strings.Builder
	for _, v := range row {
		b.WriteString(strconv.Itoa(v))
		b.WriteByte(',')
	}
	return b.String()
}

// ForbiddenValue marks an entry of Bounds no row owns.
const ForbiddenValue = -1

// RowDisplacementTable overlays the rows of a sparse table on one array. Row r starts at
// RowDisplacement[r] in Entries, and an entry belongs to r only when Bounds holds r at the
// same position. Any other position reads as EmptyValue.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	Entries          []int
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if d+col >= len(tab.Bounds) || tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *RowDisplacementTable) Size() int {
	return len(tab.Entries) + len(tab.Bounds) + len(tab.RowDisplacement)
}

type sparseRow struct {
	num  int
	cols []int
}

func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	rows := make([]*sparseRow, orig.rowCount)
	for r := range rows {
		sr := &sparseRow{
			num: r,
		}
		for c, v := range orig.row(r) {
			if v != tab.EmptyValue {
				sr.cols = append(sr.cols, c)
			}
		}
		rows[r] = sr
	}
	// Placing dense rows first leaves the gaps for sparse ones.
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].cols) > len(rows[j].cols)
	})

	size := len(orig.entries)
	entries := make([]int, size)
	bounds := make([]int, size)
	for i := range entries {
		entries[i] = tab.EmptyValue
		bounds[i] = ForbiddenValue
	}
	disp := make([]int, orig.rowCount)
	bottom := 0
	next := 0
	for _, sr := range rows {
		if len(sr.cols) == 0 {
			continue
		}

		d := next
		for !fits(bounds, d, sr.cols) {
			d++
		}
		disp[sr.num] = d
		for _, c := range sr.cols {
			entries[d+c] = orig.entries[sr.num*orig.colCount+c]
			bounds[d+c] = sr.num
		}
		if d+orig.colCount > bottom {
			bottom = d + orig.colCount
		}
		// Two rows never share a displacement, otherwise an empty entry of one row could
		// be read as an entry of the other.
		next = d + 1
	}
	if bottom == 0 {
		bottom = orig.colCount
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:bottom]
	tab.Bounds = bounds[:bottom]
	tab.RowDisplacement = disp

	return nil
}

func fits(bounds []int, d int, cols []int) bool {
	for _, c := range cols {
		if bounds[d+c] != ForbiddenValue {
			return false
		}
	}
	return true
}
