// Package encoding decodes the fixed-width scalars of the PSF wire format.
//
// PSF stores every multi-byte numeric big-endian. The scalar encodings are:
//
//   - int8: a 4-byte word whose last byte holds the value, sign-extended
//   - int32: a 4-byte signed integer
//   - double: an 8-byte IEEE 754 value
//   - complex double: two doubles, real part first
//   - string: an int32 length, the bytes, then zero padding to a 4-byte boundary
//
// All decoding goes through a Cursor, which tracks an absolute position within
// the file image and checks bounds on every read. Malformed or truncated input
// produces errs.ErrTruncated rather than a panic:
//
//	c := encoding.NewCursor(image)
//	if err := c.Seek(section.Offset); err != nil {
//	    return err
//	}
//	tag, err := c.ReadTag()
//
// Values decoded by a Cursor never alias the image except for Bytes, so they
// remain valid after the mapping backing the image is released.
package encoding
