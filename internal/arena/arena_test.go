package arena

import "testing"

func TestDuplicateStringIndependentOfSource(t *testing.T) {
	a := New()
	src := []byte("hello")
	dup := a.DuplicateString(string(src))
	src[0] = 'X'
	if dup != "hello" {
		t.Fatalf("dup = %q, want %q (mutation of source leaked in)", dup, "hello")
	}
}

func TestDuplicateRange(t *testing.T) {
	a := New()
	if got := a.DuplicateRange("hello world", 6, 11); got != "world" {
		t.Errorf("DuplicateRange = %q, want %q", got, "world")
	}
}

func TestMarkRewindDiscardsSpeculativeAllocations(t *testing.T) {
	a := New()
	a.DuplicateString("kept")
	m := a.Mark()
	a.DuplicateString("speculative one")
	a.DuplicateString("speculative two")
	a.Rewind(m)
	// A fresh allocation after rewind must succeed and not panic, proving
	// the chunk was truncated rather than left in an inconsistent state.
	got := a.DuplicateString("after-rewind")
	if got != "after-rewind" {
		t.Errorf("got %q, want %q", got, "after-rewind")
	}
}

func TestAllocGrowsAcrossChunks(t *testing.T) {
	a := New()
	big := make([]byte, defaultChunkSize+100)
	for i := range big {
		big[i] = 'a'
	}
	got := a.DuplicateString(string(big))
	if len(got) != len(big) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(big))
	}
	// A second, smaller allocation must land in a fresh chunk without error.
	small := a.DuplicateString("tail")
	if small != "tail" {
		t.Errorf("small = %q, want %q", small, "tail")
	}
}

func TestFormat(t *testing.T) {
	a := New()
	if got := a.Format("__bsw%d_case%d", 3, 7); got != "__bsw3_case7" {
		t.Errorf("Format = %q, want %q", got, "__bsw3_case7")
	}
}
