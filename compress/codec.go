package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/internal/pool"
)

// DefaultMaxSize bounds a decompressed image when no limit is configured.
const DefaultMaxSize int64 = 4 << 30

// Compressor compresses a complete PSF image into an archive.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a complete PSF image from an archive.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec handles one archive format.
type Codec interface {
	Compressor
	Decompressor

	// Type identifies the archive format.
	Type() format.CompressionType

	// NewReader returns a reader that decompresses r. Closing it releases
	// decoder state; it does not close r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
	format.CompressionGzip: NewGzipCompressor(),
}

// GetCodec returns the built-in codec for an archive format.
func GetCodec(kind format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[kind]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, kind)
}

var magics = []struct {
	kind  format.CompressionType
	magic []byte
}{
	{format.CompressionZstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{format.CompressionLZ4, []byte{0x04, 0x22, 0x4d, 0x18}},
	{format.CompressionGzip, []byte{0x1f, 0x8b}},
	{format.CompressionS2, []byte("\xff\x06\x00\x00S2sTwO")},
	{format.CompressionS2, []byte("\xff\x06\x00\x00sNaPpY")},
}

// Detect identifies the archive format of data from its leading magic bytes.
// Data without a known magic is reported as CompressionNone.
func Detect(data []byte) format.CompressionType {
	for _, m := range magics {
		if bytes.HasPrefix(data, m.magic) {
			return m.kind
		}
	}

	return format.CompressionNone
}

// Image is a file image, decompressed into a pooled buffer when it came
// from an archive.
type Image struct {
	data []byte
	buf  *pool.ByteBuffer
	kind format.CompressionType
}

// Bytes returns the image. It is valid until Release.
func (i *Image) Bytes() []byte {
	return i.data
}

// Type returns the archive format the image was restored from.
func (i *Image) Type() format.CompressionType {
	return i.kind
}

// Release returns the image memory to the pool. It is safe to call twice.
func (i *Image) Release() {
	if i.buf != nil {
		pool.PutImageBuffer(i.buf)
		i.buf = nil
	}
	i.data = nil
}

// Open detects the archive format of data and decompresses it. Plain images
// are returned as is. The decompressed size is bounded by maxSize, or by
// DefaultMaxSize when maxSize is not positive.
func Open(data []byte, maxSize int64) (*Image, error) {
	kind := Detect(data)
	if kind == format.CompressionNone {
		return &Image{data: data, kind: kind}, nil
	}

	codec, err := GetCodec(kind)
	if err != nil {
		return nil, err
	}

	buf := pool.GetImageBuffer()
	if err := decompressInto(buf, codec, data, maxSize); err != nil {
		pool.PutImageBuffer(buf)
		return nil, err
	}

	return &Image{data: buf.Bytes(), buf: buf, kind: kind}, nil
}

func decompressInto(buf *pool.ByteBuffer, codec Codec, data []byte, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	r, err := codec.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrInvalidFile, codec.Type(), err)
	}
	defer r.Close()

	n, err := buf.ReadFrom(io.LimitReader(r, maxSize+1))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrInvalidFile, codec.Type(), err)
	}
	if n > maxSize {
		return fmt.Errorf("%w: %s archive expands past %d bytes", errs.ErrImageTooLarge, codec.Type(), maxSize)
	}

	return nil
}

// decompressAll restores a whole archive into a new slice.
func decompressAll(codec Codec, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	buf := pool.NewByteBuffer(len(data) * 4)
	if err := decompressInto(buf, codec, data, DefaultMaxSize); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// compressAll runs data through a stream writer.
func compressAll(data []byte, newWriter func(w io.Writer) io.WriteCloser) ([]byte, error) {
	var out bytes.Buffer
	w := newWriter(&out)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
