//go:build !unix

package mmap

import (
	"io"
	"os"
)

// Without mmap the file is read into the heap. Data semantics are the
// same; unmapFile is never called because mapped is false.
func mapFile(f *os.File, size int) ([]byte, bool, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, false, err
	}
	return data, false, nil
}

func unmapFile([]byte) error {
	return nil
}
