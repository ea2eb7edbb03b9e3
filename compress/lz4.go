package compress

import (
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/henjo/libpsf/format"
)

// lz4ReaderPool pools frame readers; Reset rebinds them to a new source.
var lz4ReaderPool = sync.Pool{
	New: func() any {
		return lz4.NewReader(nil)
	},
}

// LZ4Compressor reads LZ4 frames.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a codec for LZ4 frames.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Type returns format.CompressionLZ4.
func (LZ4Compressor) Type() format.CompressionType {
	return format.CompressionLZ4
}

// Compress encodes data as one complete stream.
func (LZ4Compressor) Compress(data []byte) ([]byte, error) {
	return compressAll(data, func(w io.Writer) io.WriteCloser {
		return lz4.NewWriter(w)
	})
}

// Decompress restores a complete stream.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	return decompressAll(c, data)
}

// NewReader returns a reader that decompresses r as it is read.
func (LZ4Compressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr, _ := lz4ReaderPool.Get().(*lz4.Reader)
	zr.Reset(r)

	return &lz4ReadCloser{Reader: zr}, nil
}

type lz4ReadCloser struct {
	*lz4.Reader
}

func (r *lz4ReadCloser) Close() error {
	if r.Reader != nil {
		r.Reader.Reset(nil)
		lz4ReaderPool.Put(r.Reader)
		r.Reader = nil
	}

	return nil
}
