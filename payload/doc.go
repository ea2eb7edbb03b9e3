// Package payload decodes the value section of a PSF file.
//
// Non-swept files store one value per signal in an indexed container; see
// NonSwept.
//
// Swept files store the primary sweep parameter and every trace for each
// point. Two layouts exist.
//
// Simple layout, one record per point:
//
//	tag | param id | param value | {tag | trace id | value} per trace
//
// A group contributes one {tag, id} header followed by its members packed
// back to back.
//
// Windowed layout, selected by the "PSF window size" header property. Each
// window holds up to window size / element size points:
//
//	tag | remaining<<16 | n | n param values | one W-byte block per signal
//
// Inside a block the n values are right-aligned: value k of n starts at
// block + W - n*E + k*E for element size E. The next window starts right
// after the last block.
//
// In both layouts the record geometry comes from every declared trace, so a
// Filter only selects what is materialized, never what is skipped.
package payload
