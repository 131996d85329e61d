package hidl

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

const eof = -1

// Range is a half-open byte-offset span within a single file's
// source text. It is cheap to pass around while lexing and is
// converted to a line/column Location only when a diagnostic needs
// to be rendered.
type Range struct{ Start, End int }

func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Location is a 1-indexed line/column position within a named file,
// the unit every diagnostic in the error taxonomy is rendered from.
type Location struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// LineIndex converts byte offsets within a source file into
// Locations. It stores the start byte offset of each line and
// binary-searches for the enclosing one, so repeated lookups during
// diagnostic rendering stay O(log lines) after one O(n) pass over the
// input.
type LineIndex struct {
	file      string
	input     []byte
	lineStart []int
}

func NewLineIndex(file string, input []byte) *LineIndex {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range input {
		if b == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &LineIndex{file: file, input: input, lineStart: lineStart}
}

func (li *LineIndex) LocationAt(offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.input) {
		offset = len(li.input)
	}

	lineIdx := sort.Search(len(li.lineStart), func(i int) bool {
		return li.lineStart[i] > offset
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}

	lineStart := li.lineStart[lineIdx]
	col := utf8.RuneCount(li.input[lineStart:offset]) + 1

	return Location{
		File:   li.file,
		Line:   lineIdx + 1,
		Column: col,
		Offset: offset,
	}
}
