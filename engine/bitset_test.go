package engine

import "testing"

func TestBitsetSimple(t *testing.T) {
	b := newBitset(130)
	if b.isMember(10) {
		t.Fatalf("b.isMember(10) returned true; want false")
	}
	b.insert(10)
	if !b.isMember(10) {
		t.Fatalf("b.isMember(10) returned false; want true")
	}
	if b.isMember(11) {
		t.Fatalf("b.isMember(11) returned true; want false")
	}

	b.insert(129)
	if !b.isMember(129) {
		t.Fatalf("b.isMember(129) returned false; want true")
	}
}
