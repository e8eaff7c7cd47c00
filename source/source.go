// ==============================================================================================
// FILE: source/source.go
// ==============================================================================================
// PACKAGE: source
// PURPOSE: Owns source file contents as a byte buffer and tracks the
//          (file, row, column) location of every byte the lexer consumes.
//          No I/O beyond the initial load; everything else is pure bookkeeping.
// ==============================================================================================

package source

import "github.com/google/uuid"

// FileID identifies a registered source file independent of load order.
type FileID string

// Location is the (file, row, column) triple every token and diagnostic
// carries. Rows and columns are one-indexed per spec §3.
type Location struct {
	File   FileID
	Row    int
	Column int
}

// File owns the raw bytes of one source unit plus the metadata needed to
// turn byte offsets into Locations.
type File struct {
	ID   FileID
	Path string // canonical absolute path
	Text string // file contents, sentinel-terminated by the Buffer cursor
}

// NewFile registers file contents under a fresh FileID. The ID is a random
// UUID rather than a sequence number, so it does not depend on
// registration order; each call issues a new ID, so the same path loaded
// in two runs (or twice in one run) gets two different IDs.
func NewFile(path, text string) *File {
	return &File{ID: FileID(uuid.NewString()), Path: path, Text: text}
}

// Buffer is a mutable cursor over a File's contents. The lexer is the sole
// writer; NextToken call sites read Location() to stamp tokens.
type Buffer struct {
	file   *File
	offset int
	row    int
	column int
}

// NewBuffer creates a cursor positioned at the start of file.
func NewBuffer(file *File) *Buffer {
	return &Buffer{file: file, row: 1, column: 1}
}

// File returns the buffer's backing File.
func (b *Buffer) File() *File { return b.file }

// Location returns the cursor's current position.
func (b *Buffer) Location() Location {
	return Location{File: b.file.ID, Row: b.row, Column: b.column}
}

// AtEOF reports whether the cursor has consumed the entire buffer.
func (b *Buffer) AtEOF() bool {
	return b.offset >= len(b.file.Text)
}

// Peek returns the byte at the cursor without advancing it, or 0 at EOF.
func (b *Buffer) Peek() byte {
	if b.AtEOF() {
		return 0
	}
	return b.file.Text[b.offset]
}

// PeekAt returns the byte offset bytes ahead of the cursor, or 0 past EOF.
func (b *Buffer) PeekAt(offset int) byte {
	i := b.offset + offset
	if i < 0 || i >= len(b.file.Text) {
		return 0
	}
	return b.file.Text[i]
}

// Advance consumes one byte and updates row/column. Newlines advance the
// row and reset the column to one; every other byte advances the column.
func (b *Buffer) Advance() byte {
	ch := b.Peek()
	if b.AtEOF() {
		return 0
	}
	b.offset++
	if ch == '\n' {
		b.row++
		b.column = 1
	} else {
		b.column++
	}
	return ch
}
