// Package compress restores PSF files that were archived with a general
// purpose compressor.
//
// Simulation result directories are often compressed before they are stored
// or shipped. Open sniffs the leading magic bytes of a file image and, when
// it recognizes an archive, decompresses it into a pooled buffer:
//
//	Format        Magic                 Library
//	Zstandard     28 B5 2F FD           klauspost/compress/zstd (valyala/gozstd with -tags gozstd)
//	LZ4 frame     04 22 4D 18           pierrec/lz4/v4
//	gzip          1F 8B                 klauspost/compress/gzip
//	S2 / Snappy   FF 06 00 00 S2sTwO    klauspost/compress/s2
//	              FF 06 00 00 sNaPpY
//
// Images without a known magic are returned unchanged. A PSF file starts
// with a small big-endian word, so it never matches one of the magics above.
//
// Usage:
//
//	img, err := compress.Open(data, 0)
//	if err != nil {
//		return err
//	}
//	defer img.Release()
//	decode(img.Bytes())
//
// The decompressed size is bounded; an archive that expands past the limit
// fails with errs.ErrImageTooLarge. Every codec also compresses, which
// tests and tools use to produce archives.
package compress
