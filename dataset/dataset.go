package dataset

import (
	"fmt"

	"github.com/henjo/libpsf/catalog"
	"github.com/henjo/libpsf/compress"
	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/internal/hash"
	"github.com/henjo/libpsf/internal/logger"
	"github.com/henjo/libpsf/internal/mmap"
	"github.com/henjo/libpsf/internal/options"
	"github.com/henjo/libpsf/payload"
	"github.com/henjo/libpsf/section"
	"github.com/henjo/libpsf/value"
)

// Dataset is an opened PSF file.
//
// A Dataset owns its file mapping between Open and Close. Decoded values
// are copies, so they stay valid after Close. A Dataset is not safe for
// concurrent use.
type Dataset struct {
	path string
	cfg  *Config
	log  *logger.Logger

	open  bool
	file  *mmap.File
	image *compress.Image
	kind  format.CompressionType

	table    *section.Table
	header   *section.Header
	types    *catalog.Types
	sweeps   *catalog.Sweeps
	traces   *catalog.Traces
	nonSwept *payload.NonSwept
	swept    *payload.Swept
}

// New creates a closed Dataset for path.
func New(path string, opts ...Option) (*Dataset, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Dataset{
		path: path,
		cfg:  cfg,
		log:  cfg.logger.WithFile(path),
	}, nil
}

// Path returns the file path.
func (d *Dataset) Path() string {
	return d.path
}

// IsOpen reports whether the dataset is open.
func (d *Dataset) IsOpen() bool {
	return d.open
}

// Open maps the file and decodes its sections. Opening an open dataset is a
// no-op. On failure every resource is released and the dataset stays closed.
func (d *Dataset) Open() error {
	if d.open {
		return nil
	}

	err := d.load()
	if err != nil {
		_ = d.release()
		d.log.LogOpen(d.path, false, 0, err)

		return err
	}

	d.open = true
	d.log.LogOpen(d.path, d.header.IsSwept(), d.signalCount(), nil)

	return nil
}

// Close releases the file. Closing a closed dataset is a no-op.
func (d *Dataset) Close() error {
	if !d.open {
		return nil
	}

	err := d.release()
	d.open = false
	d.log.LogClose(d.path, err)

	return err
}

func (d *Dataset) load() error {
	var err error
	if d.cfg.mmap {
		d.file, err = mmap.Open(d.path)
	} else {
		d.file, err = mmap.Load(d.path)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrFileOpen, d.path, err)
	}

	data := d.file.Bytes()
	d.kind = format.CompressionNone
	if d.cfg.decompress {
		d.image, err = compress.Open(data, d.cfg.maxDecompressedSize)
		if err != nil {
			return err
		}
		d.kind = d.image.Type()
		data = d.image.Bytes()
	}

	if d.kind == format.CompressionNone {
		// Sequential forward scan over the mapping.
		_ = d.file.Advise(mmap.AccessSequential)
	}

	return d.decode(encoding.NewCursor(data))
}

func (d *Dataset) decode(c *encoding.Cursor) error {
	table, header, err := section.Locate(c)
	if err != nil {
		return err
	}
	d.table, d.header = table, header

	d.log.Debug("section table read", "revision", table.Revision(), "compression", d.kind)
	for _, s := range table.Sections() {
		d.log.LogSection(s.Kind.String(), s.Offset, s.Size)
	}

	d.types = catalog.NewTypes()
	if s, ok := table.Get(format.SectionType); ok {
		if d.types, err = catalog.DecodeTypes(c.At(s.Offset)); err != nil {
			return fmt.Errorf("type section: %w", err)
		}
	}

	vs, ok := table.Get(format.SectionValue)
	if !ok {
		return fmt.Errorf("%w: no value section", errs.ErrInvalidFile)
	}

	if !header.IsSwept() {
		if d.nonSwept, err = payload.DecodeNonSwept(c.At(vs.Offset), d.types); err != nil {
			return fmt.Errorf("value section: %w", err)
		}
		d.log.Debug("non-swept values decoded", "types", d.types.Len(), "values", d.nonSwept.Len())

		return nil
	}

	ss, ok := table.Get(format.SectionSweep)
	if !ok {
		return fmt.Errorf("%w: swept file without sweep section", errs.ErrInvalidFile)
	}
	if d.sweeps, err = catalog.DecodeSweeps(c.At(ss.Offset), d.types); err != nil {
		return fmt.Errorf("sweep section: %w", err)
	}

	d.traces = catalog.NewTraces()
	if ts, ok := table.Get(format.SectionTrace); ok {
		if d.traces, err = catalog.DecodeTraces(c.At(ts.Offset), d.types); err != nil {
			return fmt.Errorf("trace section: %w", err)
		}
	}

	shape := payload.ShapeOf(header, d.cfg.strictRecords)
	if d.swept, err = payload.DecodeSwept(c.At(vs.Offset), shape, d.sweeps, d.traces); err != nil {
		return fmt.Errorf("value section: %w", err)
	}

	d.log.Debug("swept values located",
		"types", d.types.Len(),
		"traces", d.traces.Signals(),
		"points", shape.Points,
		"layout", shape.Layout,
		"stride", d.swept.Stride(),
	)

	return nil
}

func (d *Dataset) release() error {
	if d.image != nil {
		d.image.Release()
	}

	var err error
	if d.file != nil {
		if cerr := d.file.Close(); cerr != nil {
			err = fmt.Errorf("%w: %s: %w", errs.ErrFileClose, d.path, cerr)
		}
	}

	d.file, d.image = nil, nil
	d.table, d.header, d.types = nil, nil, nil
	d.sweeps, d.traces, d.nonSwept, d.swept = nil, nil, nil, nil

	return err
}

func (d *Dataset) signalCount() int {
	if d.swept != nil {
		return d.traces.Signals()
	}

	return d.nonSwept.Len()
}

func (d *Dataset) checkOpen() error {
	if !d.open {
		return errs.ErrDataSetNotOpen
	}

	return nil
}

func (d *Dataset) checkSwept() error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if d.swept == nil {
		return errs.ErrNotSwept
	}

	return nil
}

// Compression returns the archive format the file was stored in.
func (d *Dataset) Compression() (format.CompressionType, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}

	return d.kind, nil
}

// Sections returns the located sections in file order.
func (d *Dataset) Sections() ([]section.Section, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}

	return d.table.Sections(), nil
}

// Revision returns the section table revision of the file.
func (d *Dataset) Revision() (format.Revision, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}

	return d.table.Revision(), nil
}

// HeaderProperties returns a copy of every header property.
func (d *Dataset) HeaderProperties() (map[string]value.Scalar, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}

	return d.header.Properties().Map(), nil
}

// HeaderProperty returns one header property.
func (d *Dataset) HeaderProperty(name string) (value.Scalar, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}

	return d.header.Property(name)
}

// IsSwept reports whether the file declares at least one sweep.
func (d *Dataset) IsSwept() (bool, error) {
	if err := d.checkOpen(); err != nil {
		return false, err
	}

	return d.header.IsSwept(), nil
}

// NumSweeps returns the "PSF sweeps" header value.
func (d *Dataset) NumSweeps() (int, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}

	return d.header.Sweeps(), nil
}

// SweepPointCount returns the "PSF sweep points" header value.
func (d *Dataset) SweepPointCount() (int, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}

	n, ok := d.header.SweepPoints()
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrPropertyNotFound, format.PropSweepPoints)
	}

	return n, nil
}

// SweepParamNames returns the sweep parameter names.
func (d *Dataset) SweepParamNames() ([]string, error) {
	if err := d.checkSwept(); err != nil {
		return nil, err
	}

	return d.sweeps.Names(), nil
}

// SweepValues decodes the values of the primary sweep parameter.
func (d *Dataset) SweepValues() (value.Vector, error) {
	if err := d.checkSwept(); err != nil {
		return nil, err
	}

	v, err := d.swept.Read(&payload.Filter{})
	d.log.LogQuery("sweep values", nil, lenOf(v), err)
	if err != nil {
		return nil, err
	}

	return v.Params(), nil
}

// SignalNames returns every signal name in declaration order. Group members
// are listed individually.
func (d *Dataset) SignalNames() ([]string, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}

	if d.swept != nil {
		return d.traces.Names(), nil
	}

	return d.nonSwept.Names(), nil
}

// LookupID resolves a signal id produced by libpsf.SignalID back to its name.
func (d *Dataset) LookupID(id uint64) (string, error) {
	if err := d.checkOpen(); err != nil {
		return "", err
	}

	if d.swept != nil {
		ref, err := d.traces.LookupID(id)
		if err != nil {
			return "", err
		}

		return ref.Name(), nil
	}

	for _, name := range d.nonSwept.Names() {
		if hash.ID(name) == id {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: signal id %#x", errs.ErrNotFound, id)
}

// SignalProperties returns a copy of the properties attached to a signal.
func (d *Dataset) SignalProperties(name string) (map[string]value.Scalar, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}

	if d.swept != nil {
		ref, err := d.traces.Lookup(name)
		if err != nil {
			return nil, err
		}

		return ref.Properties().Map(), nil
	}

	v, err := d.nonSwept.Get(name)
	if err != nil {
		return nil, err
	}

	return v.Properties().Map(), nil
}

// Signal returns a value.Scalar for non-swept files and a value.Vector for
// swept files. With WithInvertStruct, struct-typed swept signals come back
// as *value.Columns.
func (d *Dataset) Signal(name string) (value.Value, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}

	if d.swept == nil {
		return d.SignalScalar(name)
	}

	vec, err := d.SignalVector(name)
	if err != nil {
		return nil, err
	}
	if d.cfg.invertStruct && vec.Kind() == format.TypeStruct {
		return d.invert(name, vec)
	}

	return vec, nil
}

// SignalScalar returns the value of a signal in a non-swept file.
func (d *Dataset) SignalScalar(name string) (value.Scalar, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if d.swept != nil {
		return nil, errs.ErrSwept
	}

	v, err := d.nonSwept.Get(name)
	if err != nil {
		return nil, err
	}

	return value.Clone(v.Value()), nil
}

// SignalVector decodes one signal of a swept file across all points.
func (d *Dataset) SignalVector(name string) (value.Vector, error) {
	v, err := d.Signals(name)
	if err != nil {
		return nil, err
	}

	return v.Signal(name)
}

// SignalColumns decodes a struct-typed swept signal into one vector per
// field.
func (d *Dataset) SignalColumns(name string) (*value.Columns, error) {
	vec, err := d.SignalVector(name)
	if err != nil {
		return nil, err
	}

	return d.invert(name, vec)
}

func (d *Dataset) invert(name string, vec value.Vector) (*value.Columns, error) {
	if vec.Len() == 0 && vec.Kind() == format.TypeStruct {
		ref, err := d.traces.Lookup(name)
		if err != nil {
			return nil, err
		}

		return ref.Type().NewColumns(0)
	}

	cols, err := value.Invert(vec)
	if err != nil {
		return nil, fmt.Errorf("signal %q: %w", name, err)
	}

	return cols, nil
}

// Signals decodes several signals of a swept file in one pass over the
// value section. No names selects every signal.
func (d *Dataset) Signals(names ...string) (*payload.SweepValue, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if d.swept == nil {
		return nil, errs.ErrNotSwept
	}

	f, err := d.swept.Filter(names...)
	if err != nil {
		d.log.LogQuery("signals", names, 0, err)
		return nil, err
	}

	v, err := d.swept.Read(f)
	d.log.LogQuery("signals", f.Names(), lenOf(v), err)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func lenOf(v *payload.SweepValue) int {
	if v == nil {
		return 0
	}

	return v.Len()
}
