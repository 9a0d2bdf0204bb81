package buffer

import (
	"iter"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Reader is the read-only view of buffer text shared by Buffer and Snapshot.
// Motions and text objects are evaluated against a Reader so they never see
// a half-applied edit.
type Reader interface {
	Len() ByteOffset
	TextRange(start, end ByteOffset) string
	RuneAt(offset ByteOffset) (rune, int)
	CharsAt(offset ByteOffset) iter.Seq2[rune, ByteOffset]
	CharsBefore(offset ByteOffset) iter.Seq2[rune, ByteOffset]
	LineCount() uint32
	LineOf(offset ByteOffset) uint32
	LineStartOffset(line uint32) ByteOffset
	LineEndOffset(line uint32) ByteOffset
	ClipOffset(offset ByteOffset, bias Bias) ByteOffset
	NextGrapheme(offset ByteOffset) ByteOffset
	PrevGrapheme(offset ByteOffset) ByteOffset
}

// Snapshot is an immutable, point-in-time view of buffer content.
// Snapshots can be safely read from multiple goroutines.
type Snapshot struct {
	text       string
	lineStarts []ByteOffset
	revisionID RevisionID
}

var _ Reader = (*Snapshot)(nil)

// NewSnapshot builds a snapshot over text. Line endings are normalized to \n.
func NewSnapshot(text string) *Snapshot {
	return newSnapshot(normalizeLineEndings(text), NewRevisionID())
}

func newSnapshot(text string, rev RevisionID) *Snapshot {
	starts := make([]ByteOffset, 1, strings.Count(text, "\n")+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	return &Snapshot{text: text, lineStarts: starts, revisionID: rev}
}

// Text returns the full text content.
func (s *Snapshot) Text() string {
	return s.text
}

// TextRange returns text in the given byte range. Out-of-range bounds are
// clamped to the text.
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	start = s.clamp(start)
	end = s.clamp(end)
	if start >= end {
		return ""
	}
	return s.text[start:end]
}

// Len returns the total byte length.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(len(s.text))
}

// IsEmpty returns true if the snapshot has no content.
func (s *Snapshot) IsEmpty() bool {
	return len(s.text) == 0
}

// LineCount returns the number of lines. An empty text has one line.
func (s *Snapshot) LineCount() uint32 {
	return uint32(len(s.lineStarts))
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line uint32) string {
	return s.TextRange(s.LineStartOffset(line), s.LineEndOffset(line))
}

// LineLen returns the length of a specific line in bytes (without newline).
func (s *Snapshot) LineLen(line uint32) int {
	return int(s.LineEndOffset(line) - s.LineStartOffset(line))
}

// LineStartOffset returns the byte offset of the start of a line.
// Lines past the end map to the end of the text.
func (s *Snapshot) LineStartOffset(line uint32) ByteOffset {
	if int(line) >= len(s.lineStarts) {
		return s.Len()
	}
	return s.lineStarts[line]
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (s *Snapshot) LineEndOffset(line uint32) ByteOffset {
	if int(line)+1 >= len(s.lineStarts) {
		return s.Len()
	}
	return s.lineStarts[line+1] - 1
}

// LineOf returns the line containing offset. A newline belongs to the line
// it terminates.
func (s *Snapshot) LineOf(offset ByteOffset) uint32 {
	offset = s.clamp(offset)
	idx := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	})
	return uint32(idx - 1)
}

// ByteAt returns the byte at the given offset.
func (s *Snapshot) ByteAt(offset ByteOffset) (byte, bool) {
	if offset < 0 || offset >= s.Len() {
		return 0, false
	}
	return s.text[offset], true
}

// RuneAt returns the rune at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (s *Snapshot) RuneAt(offset ByteOffset) (rune, int) {
	if offset < 0 || offset >= s.Len() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(s.text[offset:])
}

// CharsAt iterates runes forward starting at offset, yielding each rune with
// its start offset.
func (s *Snapshot) CharsAt(offset ByteOffset) iter.Seq2[rune, ByteOffset] {
	return func(yield func(rune, ByteOffset) bool) {
		for pos := max(offset, 0); pos < s.Len(); {
			r, size := utf8.DecodeRuneInString(s.text[pos:])
			if !yield(r, pos) {
				return
			}
			pos += ByteOffset(size)
		}
	}
}

// CharsBefore iterates runes backward from offset, yielding each rune that
// ends at or before offset together with its start offset.
func (s *Snapshot) CharsBefore(offset ByteOffset) iter.Seq2[rune, ByteOffset] {
	return func(yield func(rune, ByteOffset) bool) {
		for pos := min(offset, s.Len()); pos > 0; {
			r, size := utf8.DecodeLastRuneInString(s.text[:pos])
			pos -= ByteOffset(size)
			if !yield(r, pos) {
				return
			}
		}
	}
}

// NextGrapheme returns the offset just past the grapheme cluster that starts
// at (or contains) offset.
func (s *Snapshot) NextGrapheme(offset ByteOffset) ByteOffset {
	offset = s.ClipOffset(offset, BiasLeft)
	if offset >= s.Len() {
		return s.Len()
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s.text[offset:], -1)
	if cluster == "" {
		return offset + 1
	}
	return offset + ByteOffset(len(cluster))
}

// PrevGrapheme returns the start of the grapheme cluster that ends at offset.
func (s *Snapshot) PrevGrapheme(offset ByteOffset) ByteOffset {
	offset = s.ClipOffset(offset, BiasLeft)
	if offset <= 0 {
		return 0
	}
	start, _ := s.clusterAround(offset - 1)
	return start
}

// ClipOffset clamps offset into [0, Len] and snaps it to a grapheme cluster
// boundary on the side selected by bias.
func (s *Snapshot) ClipOffset(offset ByteOffset, bias Bias) ByteOffset {
	offset = s.clamp(offset)
	if offset == 0 || offset == s.Len() {
		return offset
	}
	start, end := s.clusterAround(offset)
	if start == offset {
		return offset
	}
	if bias == BiasRight {
		return end
	}
	return start
}

// clusterAround returns the grapheme cluster containing the byte at offset.
// Clusters never span a \n, so the scan starts at the line start.
func (s *Snapshot) clusterAround(offset ByteOffset) (ByteOffset, ByteOffset) {
	pos := s.LineStartOffset(s.LineOf(offset))
	rest := s.text[pos:]
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		next := pos + ByteOffset(len(cluster))
		if next > offset {
			return pos, next
		}
		pos = next
	}
	return pos, pos
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point {
	offset = s.clamp(offset)
	line := s.LineOf(offset)
	return Point{Line: line, Column: uint32(offset - s.lineStarts[line])}
}

// PointToOffset converts line/column to byte offset. Columns past the end of
// the line clamp to the line end.
func (s *Snapshot) PointToOffset(point Point) ByteOffset {
	if int(point.Line) >= len(s.lineStarts) {
		return s.Len()
	}
	start := s.LineStartOffset(point.Line)
	return min(start+ByteOffset(point.Column), s.LineEndOffset(point.Line))
}

// RevisionID returns the revision ID at the time of the snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

func (s *Snapshot) clamp(offset ByteOffset) ByteOffset {
	return min(max(offset, 0), s.Len())
}

// normalizeLineEndings converts CRLF and lone CR to LF.
func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
