// ==============================================================================================
// FILE: source/source_test.go
// ==============================================================================================
// PURPOSE: Exercises the Buffer cursor's Peek/PeekAt/Advance/AtEOF
//          semantics and row/column tracking across newlines, plus
//          NewFile's identity guarantees.
// ==============================================================================================

package source

import "testing"

func TestNewFileAssignsAUniqueID(t *testing.T) {
	a := NewFile("a.fox", "begin; end;")
	b := NewFile("b.fox", "begin; end;")
	if a.ID == "" {
		t.Fatal("expected a non-empty FileID")
	}
	if a.ID == b.ID {
		t.Fatal("expected distinct files to receive distinct FileIDs")
	}
}

func TestBufferStartsAtRowOneColumnOne(t *testing.T) {
	buf := NewBuffer(NewFile("f.fox", "ab"))
	loc := buf.Location()
	if loc.Row != 1 || loc.Column != 1 {
		t.Fatalf("got Row=%d Column=%d, want 1,1", loc.Row, loc.Column)
	}
}

func TestPeekDoesNotAdvanceTheCursor(t *testing.T) {
	buf := NewBuffer(NewFile("f.fox", "ab"))
	if got := buf.Peek(); got != 'a' {
		t.Fatalf("got %q, want 'a'", got)
	}
	if got := buf.Peek(); got != 'a' {
		t.Fatalf("second Peek got %q, want 'a' (Peek must not advance)", got)
	}
}

func TestPeekAtLooksAheadWithoutAdvancing(t *testing.T) {
	buf := NewBuffer(NewFile("f.fox", "abc"))
	if got := buf.PeekAt(2); got != 'c' {
		t.Fatalf("got %q, want 'c'", got)
	}
	if got := buf.Peek(); got != 'a' {
		t.Fatalf("PeekAt must not move the cursor, Peek() got %q", got)
	}
}

func TestPeekAtOutOfRangeReturnsZero(t *testing.T) {
	buf := NewBuffer(NewFile("f.fox", "a"))
	if got := buf.PeekAt(5); got != 0 {
		t.Fatalf("got %q, want 0", got)
	}
	if got := buf.PeekAt(-1); got != 0 {
		t.Fatalf("got %q, want 0 for negative offset", got)
	}
}

func TestAdvanceConsumesAndTracksColumn(t *testing.T) {
	buf := NewBuffer(NewFile("f.fox", "ab"))
	buf.Advance()
	loc := buf.Location()
	if loc.Row != 1 || loc.Column != 2 {
		t.Fatalf("got Row=%d Column=%d after one Advance, want 1,2", loc.Row, loc.Column)
	}
}

func TestAdvanceAcrossNewlineResetsColumnAndBumpsRow(t *testing.T) {
	buf := NewBuffer(NewFile("f.fox", "a\nb"))
	buf.Advance() // 'a'
	buf.Advance() // '\n'
	loc := buf.Location()
	if loc.Row != 2 || loc.Column != 1 {
		t.Fatalf("got Row=%d Column=%d after newline, want 2,1", loc.Row, loc.Column)
	}
}

func TestAtEOFBecomesTrueOnlyAfterLastByteConsumed(t *testing.T) {
	buf := NewBuffer(NewFile("f.fox", "a"))
	if buf.AtEOF() {
		t.Fatal("expected AtEOF() false before consuming the only byte")
	}
	buf.Advance()
	if !buf.AtEOF() {
		t.Fatal("expected AtEOF() true after consuming the only byte")
	}
}

func TestAdvancePastEOFReturnsZeroAndDoesNotPanic(t *testing.T) {
	buf := NewBuffer(NewFile("f.fox", ""))
	if got := buf.Advance(); got != 0 {
		t.Fatalf("got %q, want 0 on an empty buffer", got)
	}
	if !buf.AtEOF() {
		t.Fatal("expected AtEOF() true on an empty buffer")
	}
}

func TestBufferFileReturnsTheBackingFile(t *testing.T) {
	f := NewFile("f.fox", "x")
	buf := NewBuffer(f)
	if buf.File() != f {
		t.Fatal("expected File() to return the exact backing File pointer")
	}
}
