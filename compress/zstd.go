package compress

import "github.com/henjo/libpsf/format"

// ZstdCompressor reads Zstandard frames. The pure-Go decoder from
// klauspost/compress is used unless the module is built with the gozstd tag
// and cgo enabled.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Type returns format.CompressionZstd.
func (ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}
