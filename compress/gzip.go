package compress

import (
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/henjo/libpsf/format"
)

// GzipCompressor reads gzip archives, the usual way simulator results are
// shipped around.
type GzipCompressor struct{}

var _ Codec = (*GzipCompressor)(nil)

func NewGzipCompressor() GzipCompressor {
	return GzipCompressor{}
}

// Type returns format.CompressionGzip.
func (GzipCompressor) Type() format.CompressionType {
	return format.CompressionGzip
}

// Compress encodes data as one complete stream.
func (GzipCompressor) Compress(data []byte) ([]byte, error) {
	return compressAll(data, func(w io.Writer) io.WriteCloser {
		return gzip.NewWriter(w)
	})
}

// Decompress restores a complete stream.
func (c GzipCompressor) Decompress(data []byte) ([]byte, error) {
	return decompressAll(c, data)
}

// NewReader returns a reader that decompresses r as it is read.
func (GzipCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}
