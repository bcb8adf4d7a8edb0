// Package protocol implements the LZERO wire format: one comma-separated
// ASCII request line, a newline-joined response terminated by connection
// close. Protocol faults are answered in-band with a single "ERROR: ..."
// line, the connection is never torn down abnormally.
package protocol

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Command string

const (
	CmdListStations Command = "LIST_STATIONS"
	CmdListTime     Command = "LIST_TIME"
	CmdGetData      Command = "GET_DATA"
)

// Request is one decoded command line. Station is set for LIST_TIME and
// GET_DATA, Start/End only for GET_DATA.
type Request struct {
	Command Command
	Station string
	Start   time.Time
	End     time.Time
}

var (
	errGetDataArgs  = errors.New("GET_DATA requires station,start,end.")
	errListTimeArgs = errors.New("LIST_TIME requires station.")
	errBadDatetime  = errors.New("Invalid datetime format.")
)

// timestampLayouts are the accepted request timestamp shapes. Fractional
// seconds after a full layout are accepted by time.Parse without being
// spelled out in the layout.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp without zone, as produced by
// clients and found in POS record lines.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errBadDatetime
}

// ParseRequest decodes a raw request line. On failure the returned error
// text is the exact message to send back on the wire via ErrorResponse.
// Argument counts are strict for LIST_TIME and GET_DATA; extra fields after
// LIST_STATIONS are ignored.
func ParseRequest(raw string) (Request, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	cmd := strings.ToUpper(parts[0])

	switch Command(cmd) {
	case CmdListStations:
		return Request{Command: CmdListStations}, nil

	case CmdListTime:
		if len(parts) != 2 {
			return Request{}, errListTimeArgs
		}
		return Request{Command: CmdListTime, Station: parts[1]}, nil

	case CmdGetData:
		if len(parts) != 4 {
			return Request{}, errGetDataArgs
		}
		start, err := ParseTimestamp(parts[2])
		if err != nil {
			return Request{}, errBadDatetime
		}
		end, err := ParseTimestamp(parts[3])
		if err != nil {
			return Request{}, errBadDatetime
		}
		return Request{Command: CmdGetData, Station: parts[1], Start: start, End: end}, nil

	default:
		return Request{}, fmt.Errorf("Unknown command %s.", cmd)
	}
}

// EncodeLines serializes payload lines. Every response carries a trailing
// newline; an empty result set is exactly one newline.
func EncodeLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

// ErrorResponse serializes a protocol fault as an in-band error line.
func ErrorResponse(err error) string {
	return "ERROR: " + err.Error() + "\n"
}
