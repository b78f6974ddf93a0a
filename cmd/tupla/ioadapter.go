package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/jkataja/tupla/engine"
)

// readInput memory-maps path with unix.Mmap, falling back to a plain
// os.ReadFile on platforms or filesystems where mmap is unavailable.
// It returns the file's bytes as-is; the engine's own sentinel check
// in BuildSA is what decides whether the content qualifies, the same
// division of responsibility sup.cpp's read_byte_string had from
// suffixsort's init.
//
// Grounded on sup.cpp's read_byte_string (boost mapped_file_source),
// ported to golang.org/x/sys/unix the way the example pack's
// downloader code memory-maps segment files.
func readInput(path string, maxBytes int64) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, &engine.Error{Kind: engine.KindIO, Op: "stat", Err: err}
	}
	size := fi.Size()
	if maxBytes > 0 && maxBytes < size {
		size = maxBytes
	}
	if size == 0 {
		return []byte{}, nil
	}

	data, err := mmapRead(path, size)
	if err != nil {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, &engine.Error{Kind: engine.KindIO, Op: "read", Err: err}
		}
		if int64(len(data)) > size {
			data = data[:size]
		}
	}
	return data, nil
}

func mmapRead(path string, size int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &engine.Error{Kind: engine.KindIO, Op: "open", Err: err}
	}
	defer f.Close()

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, &engine.Error{Kind: engine.KindIO, Op: "mmap", Err: err}
	}
	out := make([]byte, len(data))
	copy(out, data)
	unix.Munmap(data)
	return out, nil
}

// writeRankFile writes a raw little-endian sequence of uint32 words,
// one per element of a, to path. It refuses to overwrite an existing
// file unless force is set, matching spec.md §6's file-layout contract.
func writeRankFile(path string, a []int32, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return &engine.Error{Kind: engine.KindIO, Op: "write",
				Err: fmt.Errorf("%s already exists (use -f to overwrite)", path)}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &engine.Error{Kind: engine.KindIO, Op: "write", Err: err}
	}
	defer f.Close()

	buf := make([]byte, 4*len(a))
	for i, v := range a {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}
	if _, err := f.Write(buf); err != nil {
		return &engine.Error{Kind: engine.KindIO, Op: "write", Err: err}
	}
	return nil
}
