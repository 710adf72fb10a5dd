package ringbuf

import "testing"

func TestPushPop(t *testing.T) {
	b := New(4)
	if !b.IsEmpty() {
		t.Fatal("expected empty buffer")
	}
	b.Push(1)
	b.Push(2)
	b.Push(3)
	if b.Size() != 3 {
		t.Fatalf("size = %d, want 3", b.Size())
	}
	if got := b.Pop(); got != 1 {
		t.Fatalf("pop = %d, want 1", got)
	}
	if got := b.Peek(0); got != 2 {
		t.Fatalf("peek(0) = %d, want 2", got)
	}
	if got := b.Peek(1); got != 3 {
		t.Fatalf("peek(1) = %d, want 3", got)
	}
}

func TestOverflowDropsSilently(t *testing.T) {
	b := New(2)
	b.Push(1)
	b.Push(2)
	b.Push(3) // dropped, no panic, no signal
	if b.Size() != 2 {
		t.Fatalf("size = %d, want 2", b.Size())
	}
	if got := b.Pop(); got != 1 {
		t.Fatalf("pop = %d, want 1", got)
	}
	if got := b.Pop(); got != 2 {
		t.Fatalf("pop = %d, want 2", got)
	}
}

func TestWrapAround(t *testing.T) {
	b := New(3)
	b.Push(1)
	b.Push(2)
	b.Pop()
	b.Push(3)
	b.Push(4)
	if b.Size() != 3 {
		t.Fatalf("size = %d, want 3", b.Size())
	}
	want := []byte{2, 3, 4}
	for i, w := range want {
		if got := b.Pop(); got != w {
			t.Fatalf("pop[%d] = %d, want %d", i, got, w)
		}
	}
}

func TestClear(t *testing.T) {
	b := New(4)
	b.Push(1)
	b.Push(2)
	b.Clear()
	if !b.IsEmpty() {
		t.Fatal("expected empty after clear")
	}
	b.Push(9)
	if got := b.Pop(); got != 9 {
		t.Fatalf("pop = %d, want 9", got)
	}
}
