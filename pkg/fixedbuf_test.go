package pkg

import (
	"bytes"
	"strings"
	"testing"
)

func TestFixedVecPushFull(t *testing.T) {
	v := NewFixedVec[int](4)
	for i := 0; i < 4; i++ {
		if !v.TryPush(i) {
			t.Fatalf("push %d rejected below capacity", i)
		}
	}
	// The 5th push fails; the value stays with the caller and the vector
	// is untouched.
	if v.TryPush(99) {
		t.Error("push into full vector succeeded")
	}
	if v.Len() != 4 {
		t.Errorf("length changed by rejected push: %d", v.Len())
	}
	for i, x := range v.Slice() {
		if x != i {
			t.Errorf("element %d clobbered: %d", i, x)
		}
	}
}

func TestFixedVecPop(t *testing.T) {
	v := NewFixedVec[string](2)
	if _, ok := v.Pop(); ok {
		t.Error("pop from empty vector succeeded")
	}
	v.TryPush("a")
	v.TryPush("b")
	if x, ok := v.Pop(); !ok || x != "b" {
		t.Errorf("expected (b, true), got (%q, %t)", x, ok)
	}
	if v.Len() != 1 {
		t.Errorf("expected length 1 after pop, got %d", v.Len())
	}
}

func TestFixedVecExtendTruncates(t *testing.T) {
	v := NewFixedVec[byte](4)
	v.TryPush(0xaa)
	n := v.Extend([]byte{1, 2, 3, 4, 5})
	if n != 3 {
		t.Errorf("expected 3 copied, got %d", n)
	}
	want := []byte{0xaa, 1, 2, 3}
	if !bytes.Equal(v.Slice(), want) {
		t.Errorf("expected %v, got %v", want, v.Slice())
	}
}

func TestFixedVecGrowDiscards(t *testing.T) {
	v := NewFixedVec[int](2)
	v.TryPush(1)
	v.TryPush(2)
	v.Grow()
	if v.Cap() != 4 {
		t.Errorf("expected capacity 4 after grow, got %d", v.Cap())
	}
	if v.Len() != 0 {
		t.Errorf("grow must discard contents, length is %d", v.Len())
	}
}

func TestFixedBufReadFrom(t *testing.T) {
	b := NewFixedBuf(8)
	n, err := b.ReadFrom(strings.NewReader("0x8086\n"))
	if err != nil {
		t.Fatalf("ReadFrom returned error: %v", err)
	}
	if n != 7 || string(b.Bytes()) != "0x8086\n" {
		t.Errorf("expected 7 bytes %q, got %d %q", "0x8086\n", n, b.Bytes())
	}
}

func TestFixedBufReadFromTruncates(t *testing.T) {
	b := NewFixedBuf(4)
	if _, err := b.ReadFrom(strings.NewReader("0123456789")); err != nil {
		t.Fatalf("ReadFrom returned error: %v", err)
	}
	if string(b.Bytes()) != "0123" {
		t.Errorf("expected truncation to %q, got %q", "0123", b.Bytes())
	}
	if !b.IsFull() {
		t.Error("buffer should be full after truncating read")
	}
}
