//go:build gozstd && cgo

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// Compress encodes data as one complete stream.
func (ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress restores a complete stream.
func (ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}

// NewReader returns a reader that decompresses r as it is read.
func (ZstdCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReadCloser{Reader: gozstd.NewReader(r)}, nil
}

type gozstdReadCloser struct {
	*gozstd.Reader
}

func (r *gozstdReadCloser) Close() error {
	if r.Reader != nil {
		r.Reader.Release()
		r.Reader = nil
	}

	return nil
}
