// Package libpsf decodes PSF files, the binary result format written by
// circuit simulators such as Spectre.
//
// A PSF file holds either one value per signal (DC operating points,
// model parameters) or a sweep: a parameter such as time or frequency and,
// for every point, one value per signal. Signals may be plain doubles,
// complex numbers, integers, strings or structs of those.
//
// # Core Features
//
//   - Both section table revisions: trailing table of contents and scanned sections
//   - Simple and windowed sweep layouts, including grouped traces
//   - Read-only memory mapping of the input file
//   - Transparent opening of zstd, S2/Snappy, LZ4 and gzip archives
//   - Hash-based signal identification (64-bit xxHash64)
//   - Struct-typed signals as vectors of structs or as columns
//
// # Basic Usage
//
// Reading a transient result:
//
//	import "github.com/henjo/libpsf"
//
//	ds, err := libpsf.Open("tran.tran")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ds.Close()
//
//	time, _ := ds.SweepValues()
//	vout, _ := ds.SignalVector("vout")
//	for i := range vout.Len() {
//	    fmt.Println(time.At(i), vout.At(i))
//	}
//
// Reading an operating point:
//
//	ds, _ := libpsf.Open("dcOp.dc")
//	vin, _ := ds.SignalScalar("vin")
//
// Reading several signals in one pass over the file:
//
//	values, _ := ds.Signals("vout", "vin")
//	for name, vec := range values.All() {
//	    fmt.Println(name, vec.Len())
//	}
//
// # Package Structure
//
// This package wraps the dataset package for the common case. The lower
// level packages expose each layer of the format: section locates the
// top-level sections, catalog decodes types and traces, payload decodes
// values, and compress restores archived files.
package libpsf

import (
	"github.com/henjo/libpsf/dataset"
	"github.com/henjo/libpsf/internal/hash"
	"github.com/henjo/libpsf/value"
)

// Open opens the PSF file at path.
//
// Available options:
//   - dataset.WithLogger(*slog.Logger)
//   - dataset.WithMmap(true|false)
//   - dataset.WithDecompression(true|false)
//   - dataset.WithMaxDecompressedSize(n)
//   - dataset.WithInvertStruct(true|false)
//   - dataset.WithStrictRecords(true|false)
//
// The caller must Close the returned dataset.
//
// Example:
//
//	ds, err := libpsf.Open("ac.ac", dataset.WithInvertStruct(true))
func Open(path string, opts ...dataset.Option) (*dataset.Dataset, error) {
	ds, err := dataset.New(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := ds.Open(); err != nil {
		return nil, err
	}

	return ds, nil
}

// ReadSignal opens path, decodes one signal and closes the file.
//
// The result is a value.Scalar for non-swept files and a value.Vector, or
// *value.Columns with dataset.WithInvertStruct, for swept files.
func ReadSignal(path, name string, opts ...dataset.Option) (value.Value, error) {
	ds, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}

	v, err := ds.Signal(name)
	if cerr := ds.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	return v, nil
}

// SignalID returns the 64-bit id of a signal name, as accepted by
// Dataset.LookupID.
func SignalID(name string) uint64 {
	return hash.ID(name)
}
