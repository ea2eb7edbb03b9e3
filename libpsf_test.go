package libpsf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/henjo/libpsf/dataset"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/internal/psftest"
	"github.com/henjo/libpsf/value"
)

func writeDC(t *testing.T) string {
	t.Helper()

	f := &psftest.File{
		Header: []psftest.Prop{{Name: format.PropSweeps, Value: 0}},
		Types:  []psftest.Type{{ID: 1, Name: "V", Kind: format.TypeDouble}},
		Values: []psftest.NonSweep{
			{ID: 5, Name: "vin", TypeID: 1, Write: psftest.DoubleValue(1.5)},
			{ID: 6, Name: "vout", TypeID: 1, Write: psftest.DoubleValue(0.9)},
		},
		TOC: true,
	}
	data, _ := f.Build()

	path := filepath.Join(t.TempDir(), "dcOp.dc")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestOpen(t *testing.T) {
	ds, err := Open(writeDC(t), dataset.WithMmap(false))
	require.NoError(t, err)
	defer ds.Close()

	require.True(t, ds.IsOpen())
	names, err := ds.SignalNames()
	require.NoError(t, err)
	require.Equal(t, []string{"vin", "vout"}, names)

	name, err := ds.LookupID(SignalID("vout"))
	require.NoError(t, err)
	require.Equal(t, "vout", name)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.psf"))
	require.ErrorIs(t, err, errs.ErrFileOpen)

	_, err = Open(writeDC(t), dataset.WithMaxDecompressedSize(-1))
	require.Error(t, err)
}

func TestReadSignal(t *testing.T) {
	path := writeDC(t)

	v, err := ReadSignal(path, "vin")
	require.NoError(t, err)
	require.Equal(t, value.Double(1.5), v)

	_, err = ReadSignal(path, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSignalID(t *testing.T) {
	require.Equal(t, SignalID("vout"), SignalID("vout"))
	require.NotEqual(t, SignalID("vout"), SignalID("vin"))
}
