// Package mmap provides read-only memory mapping of event files.
//
// The codec decodes whole files; mapping them avoids a second copy of
// large binary event sets. On platforms without mmap support the file is
// read into the heap instead, with identical semantics.
package mmap

import (
	"errors"
	"os"
)

// ErrInvalidSize is returned when the file size cannot be mapped.
var ErrInvalidSize = errors.New("mmap: invalid file size")

// File is a read-only view of a file's contents.
//
// Data remains valid until Close. Callers must not retain slices of Data
// past Close.
type File struct {
	Data []byte

	f      *os.File
	mapped bool
}

// Open maps the file at path into memory as read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	size := fi.Size()
	if size < 0 || size != int64(int(size)) {
		f.Close()
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return &File{f: f}, nil
	}

	data, mapped, err := mapFile(f, int(size))
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{Data: data, f: f, mapped: mapped}, nil
}

// Close unmaps the memory and closes the underlying file.
func (m *File) Close() error {
	if m == nil {
		return nil
	}
	var err error
	if m.mapped && m.Data != nil {
		err = unmapFile(m.Data)
	}
	m.Data = nil
	if m.f != nil {
		if closeErr := m.f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		m.f = nil
	}
	return err
}
