package span

import (
	"fmt"
	"os"
	"sort"
)

// File holds one loaded source's text together with a precomputed table of
// line-start byte offsets, so byte positions can be resolved to line/column
// without rescanning the text on every lookup.
type File struct {
	Path       string
	Src        string
	StartPos   uint32 // absolute offset of this file's first byte in the map
	lineStarts []uint32
}

// EndPos returns the absolute offset one past this file's last byte.
func (f *File) EndPos() uint32 {
	return f.StartPos + uint32(len(f.Src))
}

func computeLineStarts(src string) []uint32 {
	starts := []uint32{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return starts
}

// lineCol resolves a byte offset relative to this file's start into a
// zero-based (line, column) pair. Column counts bytes, not runes or display
// width — display width is computed separately where it matters (see the
// diag package), because column here is used for array indexing into the
// source text, not for rendering.
func (f *File) lineCol(localPos uint32) (line, col int) {
	// binary search for the last line start <= localPos
	i := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > localPos
	})
	line = i - 1
	if line < 0 {
		line = 0
	}
	col = int(localPos - f.lineStarts[line])
	return line, col
}

// Line returns the full text of the zero-based line index, without its
// trailing newline.
func (f *File) Line(line int) string {
	if line < 0 || line >= len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[line]
	var end uint32
	if line+1 < len(f.lineStarts) {
		end = f.lineStarts[line+1] - 1 // exclude the newline
	} else {
		end = uint32(len(f.Src))
	}
	if end < start {
		end = start
	}
	if int(end) > len(f.Src) {
		end = uint32(len(f.Src))
	}
	return f.Src[start:end]
}

// SourceMap is the byte-addressable, multi-file text store the core
// consumes. Byte positions are global across concatenated files; every
// loaded file occupies a disjoint, contiguous range of the global address
// space starting right after the previous file.
type SourceMap struct {
	files []*File
}

// NewSourceMap creates an empty source map.
func NewSourceMap() *SourceMap {
	return &SourceMap{}
}

// NewSourceFile registers src under path at the next available global
// offset and returns the File recording that mapping.
func (m *SourceMap) NewSourceFile(path, src string) *File {
	start := uint32(0)
	if len(m.files) > 0 {
		last := m.files[len(m.files)-1]
		start = last.EndPos()
	}
	f := &File{
		Path:       path,
		Src:        src,
		StartPos:   start,
		lineStarts: computeLineStarts(src),
	}
	m.files = append(m.files, f)
	return f
}

// LoadFile reads path from disk and registers it via NewSourceFile.
func (m *SourceMap) LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source map: failed to load %q: %w", path, err)
	}
	return m.NewSourceFile(path, string(data)), nil
}

// LookupSourceFile returns the File containing the global byte position pos,
// or nil if pos falls outside every loaded file.
func (m *SourceMap) LookupSourceFile(pos uint32) *File {
	// files are stored in ascending StartPos order; binary search the last
	// file whose StartPos <= pos.
	i := sort.Search(len(m.files), func(i int) bool {
		return m.files[i].StartPos > pos
	})
	idx := i - 1
	if idx < 0 || idx >= len(m.files) {
		return nil
	}
	f := m.files[idx]
	if pos > f.EndPos() {
		return nil
	}
	return f
}

// Location is a resolved, human-facing position: 1-based line/column for
// display, matching editor conventions per §6.
type Location struct {
	Path string
	Line int // 1-based
	Col  int // 1-based
}

// SpanToLocation resolves a span's start position to a file path plus
// 1-based line/column.
func (m *SourceMap) SpanToLocation(s Span) (Location, bool) {
	f := m.LookupSourceFile(s.Lo)
	if f == nil {
		return Location{}, false
	}
	line0, col0 := f.lineCol(s.Lo - f.StartPos)
	return Location{Path: f.Path, Line: line0 + 1, Col: col0 + 1}, true
}

// SpanToSnippet returns the full text of the line containing the span's
// start, for rendering under a "-->" location line.
func (m *SourceMap) SpanToSnippet(s Span) (string, bool) {
	f := m.LookupSourceFile(s.Lo)
	if f == nil {
		return "", false
	}
	line0, _ := f.lineCol(s.Lo - f.StartPos)
	return f.Line(line0), true
}

// SpanText returns the literal source text covered by the span.
func (m *SourceMap) SpanText(s Span) string {
	f := m.LookupSourceFile(s.Lo)
	if f == nil {
		return ""
	}
	lo := s.Lo - f.StartPos
	hi := s.Hi - f.StartPos
	if int(hi) > len(f.Src) {
		hi = uint32(len(f.Src))
	}
	if lo > hi {
		return ""
	}
	return f.Src[lo:hi]
}
