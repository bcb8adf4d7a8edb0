// Package archive resolves and reads the date/hour-sharded POS file tree.
//
// Layout: <root>/<station>/<year>/<doy>/<letter>/<station>.<year>.<MM.DD>.<doy>.<letter>.pos
// where doy is zero-padded to three digits and letter encodes the hour of day.
package archive

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"
)

// hourLetters maps hour 0..23 to a single lowercase letter, 'a' for hour 0
// through 'x' for hour 23.
const hourLetters = "abcdefghijklmnopqrstuvwx"

var ErrInvalidHour = errors.New("hour must be between 0 and 23")

// HourToLetter returns the single-letter code for an hour of day.
func HourToLetter(hour int) (string, error) {
	if hour < 0 || hour > 23 {
		return "", ErrInvalidHour
	}
	return string(hourLetters[hour]), nil
}

// LetterToHour is the inverse of HourToLetter.
func LetterToHour(letter string) (int, error) {
	if len(letter) != 1 {
		return 0, ErrInvalidHour
	}
	for i := 0; i < len(hourLetters); i++ {
		if hourLetters[i] == letter[0] {
			return i, nil
		}
	}
	return 0, ErrInvalidHour
}

// DoyDate converts a (year, day-of-year) pair to the midnight timestamp of
// that day. Leap years are handled by calendar arithmetic from January 1st.
func DoyDate(year, doy int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, doy-1)
}

// FilePath builds the canonical POS file path for one archive coordinate.
func FilePath(root, station string, year, doy, hour int) (string, error) {
	letter, err := HourToLetter(hour)
	if err != nil {
		return "", err
	}
	d := DoyDate(year, doy)
	dir := filepath.Join(root, station, strconv.Itoa(year), fmt.Sprintf("%03d", doy), letter)
	name := fmt.Sprintf("%s.%d.%02d.%02d.%03d.%s.pos",
		station, year, int(d.Month()), d.Day(), doy, letter)
	return filepath.Join(dir, name), nil
}
