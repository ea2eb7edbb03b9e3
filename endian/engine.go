// Package endian provides the byte order used to decode PSF files.
//
// Every multi-byte numeric in a PSF file is stored big-endian regardless of the
// host that wrote it. The decoder never reinterprets raw memory; it always goes
// through an EndianEngine so values decode identically on any host.
//
//	engine := endian.PSF()
//	id := int32(engine.Uint32(buf[0:4]))
//
// The test builder uses the Append side of the same engine to produce
// byte-exact synthetic files:
//
//	buf = engine.AppendUint32(buf, uint32(tag))
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface, so one value serves both decoding and test-fixture encoding.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// PSF returns the engine for the PSF wire format.
func PSF() EndianEngine {
	return binary.BigEndian
}
