package archive

import (
	"os"
	"strings"
	"time"

	"frednet.dev/lzero/internal/protocol"
)

// ReadHourFile reads one archive file and returns its lines without
// terminators. A missing or unreadable file yields no lines; partial
// archives are the expected steady state, not a failure.
func ReadHourFile(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ParseLineTime extracts the timestamp from a POS record line. The date
// token accepts both YYYY/MM/DD and YYYY-MM-DD. Returns false for any line
// that does not carry a parsable date+time pair.
func ParseLineTime(line string) (time.Time, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return time.Time{}, false
	}
	date := strings.ReplaceAll(fields[0], "/", "-")
	t, err := protocol.ParseTimestamp(date + "T" + fields[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// QueryRange returns every record line for station whose timestamp lies in
// [start, end] inclusive. Buckets are visited from the start's hour
// truncation to the end's hour truncation, one hour at a time, so a bucket
// is read even when only its boundary touches the interval. Missing files
// are skipped, unparsable lines dropped. Output order is bucket order, then
// in-file order; file content is assumed chronological and never re-sorted.
func QueryRange(root, station string, start, end time.Time) []string {
	var result []string
	cur := start.Truncate(time.Hour)
	last := end.Truncate(time.Hour)
	for !cur.After(last) {
		path, err := FilePath(root, station, cur.Year(), cur.YearDay(), cur.Hour())
		if err == nil {
			for _, line := range ReadHourFile(path) {
				t, ok := ParseLineTime(line)
				if ok && !t.Before(start) && !t.After(end) {
					result = append(result, line)
				}
			}
		}
		cur = cur.Add(time.Hour)
	}
	return result
}
