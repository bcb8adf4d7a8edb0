package stream

import (
	"time"

	"github.com/rs/zerolog"

	"frednet.dev/lzero/internal/client"
	"frednet.dev/lzero/internal/geodesy"
)

// Channel codes for the three displacement axes.
const (
	ChanEast  = "LGE"
	ChanNorth = "LGN"
	ChanUp    = "LGU"
)

// Record is one continuous waveform for a single channel.
type Record struct {
	SID   string
	Time  time.Time
	Delta float64
	Data  []float64
}

// Collection gathers the records produced from one query.
type Collection struct {
	Records []Record
}

func (sc *Collection) Append(r Record) {
	sc.Records = append(sc.Records, r)
}

// SID builds the stream identifier for a station and channel code, e.g.
// ".FLEE..LGE".
func SID(station, channel string) string {
	return "." + station + ".." + channel
}

// Convert reprojects a parsed data set into the local UTM frame and splits
// it into continuous displacement chunks. East displacement is the UTM
// easting, north the northing, up the ellipsoidal height.
func Convert(d *client.DataSet) ([]Chunk, error) {
	coords := geodesy.ToUTMBatch(d.Lon, d.Lat)
	x := make([]float64, len(coords))
	y := make([]float64, len(coords))
	for i, c := range coords {
		x[i] = c.Easting
		y[i] = c.Northing
	}
	return Split(d.Time, x, y, d.H)
}

// ToCollection emits one record per chunk and channel, east/north/up.
func ToCollection(station string, chunks []Chunk) *Collection {
	sc := &Collection{}
	for _, c := range chunks {
		sc.Append(Record{SID: SID(station, ChanEast), Time: c.Start, Delta: c.Delta, Data: c.X})
		sc.Append(Record{SID: SID(station, ChanNorth), Time: c.Start, Delta: c.Delta, Data: c.Y})
		sc.Append(Record{SID: SID(station, ChanUp), Time: c.Start, Delta: c.Delta, Data: c.Z})
	}
	return sc
}

// WaveformClient runs the whole retrieval pipeline: transport, record
// parsing, projection, chunking, collection assembly.
type WaveformClient struct {
	client *client.Client
}

func NewWaveformClient(config *client.Config, logger zerolog.Logger) (*WaveformClient, error) {
	c, err := client.New(config, logger)
	if err != nil {
		return nil, err
	}
	return &WaveformClient{client: c}, nil
}

// GetWaveform retrieves POS records for the interval and returns them as a
// collection of displacement waveforms.
func (w *WaveformClient) GetWaveform(station string, start, end time.Time) (*Collection, error) {
	data, err := w.client.GetData(station, start, end)
	if err != nil {
		return nil, err
	}
	chunks, err := Convert(data)
	if err != nil {
		return nil, err
	}
	return ToCollection(station, chunks), nil
}
