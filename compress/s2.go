package compress

import (
	"io"

	"github.com/klauspost/compress/s2"

	"github.com/henjo/libpsf/format"
)

// S2Compressor reads S2 framed streams, including Snappy framed streams.
type S2Compressor struct {
	snappy bool
}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a codec that writes S2 streams.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// NewSnappyCompressor creates a codec that writes Snappy-compatible streams.
func NewSnappyCompressor() S2Compressor {
	return S2Compressor{snappy: true}
}

// Type returns format.CompressionS2.
func (S2Compressor) Type() format.CompressionType {
	return format.CompressionS2
}

// Compress encodes data as one complete stream.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	return compressAll(data, func(w io.Writer) io.WriteCloser {
		if c.snappy {
			return s2.NewWriter(w, s2.WriterSnappyCompat())
		}

		return s2.NewWriter(w)
	})
}

// Decompress restores a complete stream.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	return decompressAll(c, data)
}

// NewReader returns a reader that decompresses r as it is read.
func (S2Compressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}
