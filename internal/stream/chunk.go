// Package stream segments displacement series into continuous chunks and
// assembles them into per-channel waveform records.
package stream

import (
	"errors"
	"math"
	"sort"
	"time"
)

var (
	ErrTooFewSamples  = errors.New("at least two samples required")
	ErrLengthMismatch = errors.New("series length mismatch")
)

// Chunk is a contiguous run of displacement samples with one nominal
// sampling interval, bounded by detected timing discontinuities.
type Chunk struct {
	Start time.Time
	// Delta is the nominal sampling interval in seconds, shared by all
	// chunks of one series.
	Delta float64
	X     []float64
	Y     []float64
	Z     []float64
}

func (c Chunk) Len() int {
	return len(c.X)
}

// Split detects the dominant sampling interval as the median of consecutive
// time deltas and cuts the series wherever a delta deviates from it by more
// than 50 percent in either direction. Samples are walked in input order,
// which is assumed chronological; chunks partition the index range with no
// overlap and no gap.
func Split(times []time.Time, x, y, z []float64) ([]Chunk, error) {
	n := len(times)
	if n < 2 {
		return nil, ErrTooFewSamples
	}
	if len(x) != n || len(y) != n || len(z) != n {
		return nil, ErrLengthMismatch
	}

	deltas := make([]float64, n-1)
	for i := 1; i < n; i++ {
		deltas[i-1] = times[i].Sub(times[i-1]).Seconds()
	}
	median := medianDelta(deltas)

	var chunks []Chunk
	begin := 0
	for i := 1; i < n; i++ {
		if math.Abs(deltas[i-1]-median) > median*0.5 {
			chunks = append(chunks, extract(times, x, y, z, begin, i, median))
			begin = i
		}
	}
	return append(chunks, extract(times, x, y, z, begin, n, median)), nil
}

// medianDelta is the middle element of the sorted deltas, upper of the two
// for an even count.
func medianDelta(deltas []float64) float64 {
	s := make([]float64, len(deltas))
	copy(s, deltas)
	sort.Float64s(s)
	return s[len(s)/2]
}

func extract(times []time.Time, x, y, z []float64, begin, end int, delta float64) Chunk {
	c := Chunk{Start: times[begin], Delta: delta}
	c.X = append(c.X, x[begin:end]...)
	c.Y = append(c.Y, y[begin:end]...)
	c.Z = append(c.Z, z[begin:end]...)
	return c
}
