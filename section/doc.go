// Package section locates the top-level sections of a PSF file and decodes
// its header.
//
// # Sections
//
// A PSF file has up to five sections, in this order:
//
//	0 Header  named properties (point counts, window size, ...)
//	1 Type    type definitions
//	2 Sweep   swept parameters
//	3 Trace   traces and groups
//	4 Value   values, swept or not
//
// Files without a sweep have only Header, Type and Value.
//
// # Revisions
//
// Two framing revisions exist. Files that end with the 8-byte magic
// "Clarissa", 12 bytes before EOF, carry a table of contents:
//
//	+----------------+------------------------+----------+-----------+
//	| section data   | {kind, offset} * n     | Clarissa | data size |
//	+----------------+------------------------+----------+-----------+
//	0                data size                            EOF-4
//
// The entry count is (file size - data size - 12) / 8. Each section ends
// where the next begins; the last ends at the data size.
//
// All other files are self-describing. Starting at byte 4, each section opens
// with tag 21 and its absolute end offset, and the next section starts at that
// offset. The walk stops at the first other tag. Fewer than three sections
// make the file invalid. When the header declares zero sweep points, the
// third section holds the values.
//
// # Header
//
// The header is a simple container of property chunks. The decoder reads
// these keys:
//
//	"PSF sweeps"        > 0 selects swept values
//	"PSF sweep points"  number of points per sweep
//	"PSF window size"   its presence selects the windowed layout
//	"PSF traces"        number of traces
package section
