// Command tuplagrep performs exact-match substring lookups against a
// text and a previously built .rank file using binary search over the
// suffix array. It is a thin external collaborator: spec.md names it
// but treats it as out of scope, and original_source/src/supgrep.cpp
// is itself only a stub, so this implements just the minimal query
// that stub suggests, nothing more.
package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/exp/slices"
)

type CLI struct {
	Input   string `arg:"" help:"path to the original input file" type:"existingfile"`
	Rank    string `arg:"" help:"path to the .rank file built by tupla" type:"existingfile"`
	Pattern string `arg:"" help:"exact substring to search for"`
}

func main() {
	var cli CLI
	kong.Parse(&cli)

	text, err := os.ReadFile(cli.Input)
	if err != nil {
		fatal(err)
	}
	sa, err := readRank(cli.Rank)
	if err != nil {
		fatal(err)
	}

	lo, hi := searchRange(text, sa, []byte(cli.Pattern))
	for _, p := range sa[lo:hi] {
		fmt.Printf("%d\n", p)
	}
}

func readRank(path string) ([]int32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("tuplagrep: %s: length %d not a multiple of 4", path, len(raw))
	}
	sa := make([]int32, len(raw)/4)
	for i := range sa {
		sa[i] = int32(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return sa, nil
}

// searchRange finds [lo, hi) within sa whose suffixes all carry
// pattern as a prefix, via two binary searches over SA order using
// golang.org/x/exp/slices.BinarySearchFunc with a suffix-vs-pattern
// comparator.
func searchRange(text []byte, sa []int32, pattern []byte) (int, int) {
	lo, _ := slices.BinarySearchFunc(sa, pattern, func(p int32, pat []byte) int {
		suffix := text[p:]
		n := len(pat)
		if n > len(suffix) {
			n = len(suffix)
		}
		if c := bytes.Compare(suffix[:n], pat); c < 0 {
			return -1
		}
		return 0
	})
	hi, _ := slices.BinarySearchFunc(sa, pattern, func(p int32, pat []byte) int {
		suffix := text[p:]
		n := len(pat)
		if n > len(suffix) {
			n = len(suffix)
		}
		if bytes.Compare(suffix[:n], pat) <= 0 {
			return -1
		}
		return 1
	})
	return lo, hi
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
