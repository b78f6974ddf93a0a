package engine

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"sort"
	"testing"
)

// naiveSuffixArray sorts every suffix of t directly with bytes.Compare,
// used as an independent oracle the doubling-based engine's output is
// checked against.
func naiveSuffixArray(t []byte) []int32 {
	sa := make([]int32, len(t))
	for i := range sa {
		sa[i] = int32(i)
	}
	sort.Slice(sa, func(i, j int) bool {
		return bytes.Compare(t[sa[i]:], t[sa[j]:]) < 0
	})
	return sa
}

func verifyPermutation(sa []int32) error {
	seen := newBitset(len(sa))
	for _, v := range sa {
		if int(v) < 0 || int(v) >= len(sa) {
			return fmt.Errorf("sa value %d out of range [0,%d)", v, len(sa))
		}
		if seen.isMember(int(v)) {
			return fmt.Errorf("sa value %d repeated", v)
		}
		seen.insert(int(v))
	}
	return nil
}

func TestTqsortAgainstNaiveSuffixArray(t *testing.T) {
	texts := []string{
		"banana\x00",
		"mississippi\x00",
		"abracadabra\x00",
		"aaaaaaaaaaaa\x00",
		"zyxwvutsrqponmlkjihgfedcba\x00",
		"abbaabbaabbaabba\x00",
		"cdcdcdcdccdd\x00",
	}
	for _, jobs := range []int{1, 2, 6} {
		for _, tc := range texts {
			t.Run(fmt.Sprintf("jobs=%d/%s", jobs, tc), func(t *testing.T) {
				text := []byte(tc)
				e, err := New(text, jobs)
				if err != nil {
					t.Fatalf("New: %v", err)
				}
				if err := e.BuildSA(context.Background()); err != nil {
					t.Fatalf("BuildSA: %v", err)
				}
				sa, _ := e.SA()
				if err := verifyPermutation(sa); err != nil {
					t.Fatal(err)
				}
				want := naiveSuffixArray(text)
				for i := range want {
					if sa[i] != want[i] {
						t.Fatalf("sa[%d]=%d, naive wants %d\nsa:   %v\nnaive: %v",
							i, sa[i], want[i], sa, want)
					}
				}
			})
		}
	}
}

func TestTqsortRandomTexts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 40; trial++ {
		n := rng.Intn(300) + 1
		alphabet := []byte("ab")
		if trial%3 == 0 {
			alphabet = []byte("abc")
		}
		buf := make([]byte, n+1)
		for i := 0; i < n; i++ {
			buf[i] = alphabet[rng.Intn(len(alphabet))]
		}
		buf[n] = 0

		jobs := 1 + trial%4
		e, err := New(buf, jobs)
		if err != nil {
			t.Fatalf("trial %d: New: %v", trial, err)
		}
		if err := e.BuildSA(context.Background()); err != nil {
			t.Fatalf("trial %d: BuildSA: %v", trial, err)
		}
		sa, _ := e.SA()
		if err := verifyPermutation(sa); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		want := naiveSuffixArray(buf)
		for i := range want {
			if sa[i] != want[i] {
				t.Fatalf("trial %d (jobs=%d, n=%d): sa diverges from naive at %d: got %d want %d",
					trial, jobs, n, i, sa[i], want[i])
			}
		}
	}
}

func TestBingoSortDistinctRanksAreAllSingletons(t *testing.T) {
	text := []byte("aaa\x00")
	// bingoSort compares the low 32 bits of c.k. With h=1 those are
	// isa[sa[p]+1] (zero for the sentinel suffix): 0, 2, 1, 3 here, all
	// distinct, so every position becomes its own group. isaNext stages
	// the new ranks as a parallel round does, keeping the keys stable;
	// each singleton's sa slot now holds a sorted-run marker, so the new
	// ranks are what must form a permutation.
	c := &core{text: text, sa: i32(3, 1, 0, 2), isa: i32(0, 1, 2, 3), isaNext: make([]int32, 4), h: 1}
	s := &sorter{c: c}
	n := s.bingoSort(0, 4)
	if n != 4 {
		t.Fatalf("bingoSort reported %d new singletons, want 4", n)
	}
	if err := verifyPermutation(c.isaNext); err != nil {
		t.Fatal(err)
	}
}

// TestHeapSortByKeyMatchesByteOrder checks the worst-case fallback
// sorts by the low 32 bits of c.k: with h=0 and isa seeded to each
// position's own byte value, those reduce to a byte comparison, so the
// result must match a sort.Slice ordering by first byte.
func TestHeapSortByKeyMatchesByteOrder(t *testing.T) {
	text := []byte("thequickbrownfoxjumpsoverthelazydog\x00")
	n := len(text)
	sa1 := make([]int32, n)
	isa1 := make([]int32, n)
	for i := range sa1 {
		sa1[i] = int32(i)
		isa1[i] = int32(text[i])
	}
	c1 := &core{text: text, sa: sa1, isa: isa1, h: 0}
	heapSortByKey(c1, 0, n)

	sa2 := naiveFirstByteOrder(text)
	if err := verifyPermutation(sa1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if text[sa1[i]] != text[sa2[i]] {
			t.Fatalf("heapSortByKey order mismatch at %d: got byte %q want %q",
				i, text[sa1[i]], text[sa2[i]])
		}
	}
}

func naiveFirstByteOrder(text []byte) []int32 {
	sa := make([]int32, len(text))
	for i := range sa {
		sa[i] = int32(i)
	}
	sort.Slice(sa, func(i, j int) bool { return text[sa[i]] < text[sa[j]] })
	return sa
}
