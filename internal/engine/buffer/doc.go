// Package buffer provides the thread-safe text buffer that change operators
// edit.
//
// The buffer stores its content as an immutable Snapshot (the text plus a
// line-start index). Writes build a new snapshot and swap it in under a
// write lock, so a Snapshot taken before an edit stays valid and can be read
// from any goroutine.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
//	snap := buf.Snapshot()
//	for r, off := range snap.CharsAt(0) {
//	    ...
//	}
//
// Position Types:
//
//   - ByteOffset: raw byte position in the buffer
//   - Point: line and column (0-indexed, column in bytes)
//   - Range: half-open byte interval [Start, End)
//
// Offsets handed to motions are clipped with ClipOffset so they never split
// a grapheme cluster; NextGrapheme and PrevGrapheme step whole clusters.
//
// Multiple edits are applied with ApplyEdits in reverse offset order, which
// keeps every edit's offsets valid against the original text.
package buffer
