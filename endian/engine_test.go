package endian

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPSFIsBigEndian(t *testing.T) {
	require := require.New(t)

	engine := PSF()
	require.Equal(binary.BigEndian, engine)

	buf := engine.AppendUint32(nil, 0x00000015)
	require.Equal([]byte{0x00, 0x00, 0x00, 0x15}, buf)
	require.Equal(uint32(21), engine.Uint32(buf))
}

func TestPSFDouble(t *testing.T) {
	engine := PSF()

	buf := engine.AppendUint64(nil, math.Float64bits(1.5))
	require.Equal(t, []byte{0x3f, 0xf8, 0, 0, 0, 0, 0, 0}, buf)
	require.Equal(t, 1.5, math.Float64frombits(engine.Uint64(buf)))
}
