// Package mmap maps PSF files into memory read-only.
//
// Open maps the file where the platform supports it; Load reads it into the
// heap instead. Both return a File whose Bytes stay valid until Close.
package mmap

import (
	"errors"
	"os"
)

var (
	ErrTooLarge = errors.New("mmap: file too large to map")
)

// AccessPattern is a hint about how the mapping will be read.
type AccessPattern int

const (
	AccessDefault AccessPattern = iota
	AccessSequential
	AccessRandom
	AccessWillNeed
)

// File is a read-only file image.
type File struct {
	data   []byte
	f      *os.File
	mapped bool
}

// Open maps the file at path. Empty files are not mapped.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &File{f: f}, nil
	}
	if int64(int(size)) != size {
		_ = f.Close()
		return nil, ErrTooLarge
	}

	data, mapped, err := mapFile(f, int(size))
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &File{data: data, f: f, mapped: mapped}, nil
}

// Load reads the file at path into memory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &File{data: data}, nil
}

// Bytes returns the file image. It must not be used after Close.
func (m *File) Bytes() []byte {
	return m.data
}

func (m *File) Size() int {
	return len(m.data)
}

// Mapped reports whether the image is backed by a mapping.
func (m *File) Mapped() bool {
	return m.mapped
}

// Advise passes an access hint to the kernel. It is a no-op for heap images.
func (m *File) Advise(pattern AccessPattern) error {
	if !m.mapped {
		return nil
	}

	return advise(m.data, pattern)
}

// Close unmaps the image and closes the file. Calling it again is a no-op.
func (m *File) Close() error {
	if m == nil {
		return nil
	}

	var err error
	if m.mapped && m.data != nil {
		err = unmap(m.data)
	}
	m.data = nil
	m.mapped = false

	if m.f != nil {
		if cerr := m.f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		m.f = nil
	}

	return err
}
