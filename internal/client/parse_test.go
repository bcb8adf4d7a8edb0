package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodLine = "2025/06/30 10:47:00.000 40.821 14.139 120.5 1 12 0.001 -0.002 0.003 0.1 0.2 0.3 1.2 21.5"

func TestParseRecordsSingleLine(t *testing.T) {
	d := ParseRecords(goodLine + "\n")
	require.Equal(t, 1, d.Len())
	assert.Equal(t, time.Date(2025, 6, 30, 10, 47, 0, 0, time.UTC), d.Time[0])
	assert.Equal(t, 40.821, d.Lat[0])
	assert.Equal(t, 14.139, d.Lon[0])
	assert.Equal(t, 120.5, d.H[0])
	assert.Equal(t, 1, d.Fix[0])
	assert.Equal(t, 12, d.Nsat[0])
	assert.Equal(t, 0.001, d.Dx[0])
	assert.Equal(t, -0.002, d.Dy[0])
	assert.Equal(t, 0.003, d.Dz[0])
	assert.Equal(t, 0.1, d.Vx[0])
	assert.Equal(t, 0.2, d.Vy[0])
	assert.Equal(t, 0.3, d.Vz[0])
	assert.Equal(t, 1.2, d.Pdop[0])
	assert.Equal(t, 21.5, d.Temp[0])
}

// A short line must not leave partial rows in any column.
func TestParseRecordsDropsShortLine(t *testing.T) {
	short := "2025/06/30 10:48:00 40.821 14.139 120.5 1 12 0.001 0.002 0.003"
	d := ParseRecords(goodLine + "\n" + short + "\n")
	require.Equal(t, 1, d.Len())
	for _, name := range d.Fields() {
		col, ok := d.Field(name)
		require.True(t, ok)
		switch v := col.(type) {
		case []time.Time:
			assert.Len(t, v, 1, name)
		case []int:
			assert.Len(t, v, 1, name)
		case []float64:
			assert.Len(t, v, 1, name)
		}
	}
}

func TestParseRecordsDropsNonNumericField(t *testing.T) {
	bad := "2025/06/30 10:48:00 40.821 xx 120.5 1 12 0.001 0.002 0.003 0.1 0.2 0.3 1.2 21.5"
	d := ParseRecords(goodLine + "\n" + bad + "\n")
	assert.Equal(t, 1, d.Len())
}

func TestParseRecordsSkipsErrorAndEmptyLines(t *testing.T) {
	d := ParseRecords("ERROR: Unknown command FROB.\n")
	assert.Equal(t, 0, d.Len())

	d = ParseRecords("\n")
	assert.Equal(t, 0, d.Len())

	d = ParseRecords("\n" + goodLine + "\n\n")
	assert.Equal(t, 1, d.Len())
}

func TestDataSetFieldAccessors(t *testing.T) {
	d := ParseRecords(goodLine + "\n")
	assert.Len(t, d.Fields(), 14)

	col, ok := d.Field("pdop")
	require.True(t, ok)
	assert.Equal(t, []float64{1.2}, col)

	col, ok = d.Field("nsat")
	require.True(t, ok)
	assert.Equal(t, []int{12}, col)

	_, ok = d.Field("bogus")
	assert.False(t, ok)
}
