package archive

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

const intervalFormat = "2006-01-02T15:04:05.000"

// Interval is a maximal run of contiguous existing hour-buckets. Coverage
// is defined by directory presence, not by file content.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) String() string {
	return "From " + iv.Start.Format(intervalFormat) + " To " + iv.End.Format(intervalFormat)
}

// ListStations returns the station directories under the archive root. A
// missing or unreadable root yields an empty list.
func ListStations(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var stations []string
	for _, e := range entries {
		if e.IsDir() {
			stations = append(stations, e.Name())
		}
	}
	return stations
}

// AvailableIntervals walks the station's year/doy/letter tree and merges
// contiguous hour-buckets into coverage intervals. Directory names that are
// not a numeric year, a day-of-year in [1,366] or a valid hour letter are
// skipped. Year and day-of-year names are parsed numerically rather than
// trusting listing order; bucket timestamps are sorted before merging.
func AvailableIntervals(root, station string) []Interval {
	stationPath := filepath.Join(root, station)

	var times []time.Time
	for _, yearEntry := range readDirs(stationPath) {
		year, err := strconv.Atoi(yearEntry)
		if err != nil {
			continue
		}
		yearPath := filepath.Join(stationPath, yearEntry)
		for _, doyEntry := range readDirs(yearPath) {
			doy, err := strconv.Atoi(doyEntry)
			if err != nil || doy < 1 || doy > 366 {
				continue
			}
			doyPath := filepath.Join(yearPath, doyEntry)
			for _, letter := range readDirs(doyPath) {
				hour, err := LetterToHour(letter)
				if err != nil {
					continue
				}
				times = append(times, DoyDate(year, doy).Add(time.Duration(hour)*time.Hour))
			}
		}
	}

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	var intervals []Interval
	if len(times) == 0 {
		return intervals
	}
	run := Interval{Start: times[0], End: times[0]}
	for _, t := range times[1:] {
		if t.Equal(run.End.Add(time.Hour)) {
			run.End = t
		} else {
			intervals = append(intervals, run)
			run = Interval{Start: t, End: t}
		}
	}
	return append(intervals, run)
}

// readDirs lists subdirectory names of path, skipping plain files. Errors
// are treated as an empty directory.
func readDirs(path string) []string {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
