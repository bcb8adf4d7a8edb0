package client

import (
	"strconv"
	"strings"
	"time"

	"frednet.dev/lzero/internal/protocol"
)

// fieldNames are the 14 named columns of a parsed data set, in record order.
var fieldNames = []string{
	"datetime", "lat", "lon", "h", "fix", "nsat",
	"dx", "dy", "dz", "vx", "vy", "vz", "pdop", "temp",
}

// DataSet holds one column per POS record field. All columns have the same
// length, ordered by input line order, which is assumed chronological.
type DataSet struct {
	Time []time.Time
	Lat  []float64
	Lon  []float64
	H    []float64
	Fix  []int
	Nsat []int
	Dx   []float64
	Dy   []float64
	Dz   []float64
	Vx   []float64
	Vy   []float64
	Vz   []float64
	Pdop []float64
	Temp []float64
}

func (d *DataSet) Len() int {
	return len(d.Time)
}

// Fields lists the available field names.
func (d *DataSet) Fields() []string {
	names := make([]string, len(fieldNames))
	copy(names, fieldNames)
	return names
}

// Field returns the column for a field name: []time.Time for "datetime",
// []int for "fix" and "nsat", []float64 otherwise. The second return is
// false for an unknown name.
func (d *DataSet) Field(name string) (interface{}, bool) {
	switch name {
	case "datetime":
		return d.Time, true
	case "lat":
		return d.Lat, true
	case "lon":
		return d.Lon, true
	case "h":
		return d.H, true
	case "fix":
		return d.Fix, true
	case "nsat":
		return d.Nsat, true
	case "dx":
		return d.Dx, true
	case "dy":
		return d.Dy, true
	case "dz":
		return d.Dz, true
	case "vx":
		return d.Vx, true
	case "vy":
		return d.Vy, true
	case "vz":
		return d.Vz, true
	case "pdop":
		return d.Pdop, true
	case "temp":
		return d.Temp, true
	default:
		return nil, false
	}
}

// ParseRecords walks each non-empty response line that does not begin with
// "ERROR" and appends it to the data set. A line with the wrong field count
// or a non-numeric field is dropped whole; no column ever receives a
// partial row.
func ParseRecords(response string) *DataSet {
	d := &DataSet{}
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "ERROR") {
			continue
		}
		parseLine(d, line)
	}
	return d
}

func parseLine(d *DataSet, line string) {
	fields := strings.Fields(line)
	if len(fields) < 15 {
		return
	}
	date := strings.ReplaceAll(fields[0], "/", "-")
	t, err := protocol.ParseTimestamp(date + "T" + fields[1])
	if err != nil {
		return
	}
	var f [11]float64
	for i, idx := range []int{2, 3, 4, 7, 8, 9, 10, 11, 12, 13, 14} {
		f[i], err = strconv.ParseFloat(fields[idx], 64)
		if err != nil {
			return
		}
	}
	fix, err := strconv.Atoi(fields[5])
	if err != nil {
		return
	}
	nsat, err := strconv.Atoi(fields[6])
	if err != nil {
		return
	}

	d.Time = append(d.Time, t)
	d.Lat = append(d.Lat, f[0])
	d.Lon = append(d.Lon, f[1])
	d.H = append(d.H, f[2])
	d.Fix = append(d.Fix, fix)
	d.Nsat = append(d.Nsat, nsat)
	d.Dx = append(d.Dx, f[3])
	d.Dy = append(d.Dy, f[4])
	d.Dz = append(d.Dz, f[5])
	d.Vx = append(d.Vx, f[6])
	d.Vy = append(d.Vy, f[7])
	d.Vz = append(d.Vz, f[8])
	d.Pdop = append(d.Pdop, f[9])
	d.Temp = append(d.Temp, f[10])
}
