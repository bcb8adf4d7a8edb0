// Package client implements the LZERO request/response transport and the
// record parser turning response bodies into column-ordered data sets.
package client

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const timestampFormat = "2006-01-02T15:04:05"

// ErrConnection wraps any dial, send or receive failure, including the
// connect timeout. Transport faults are never silently swallowed.
var ErrConnection = errors.New("connection error")

type Config struct {
	// Addr is the server address as host:port.
	Addr string `validate:"required,hostname_port"`
	// Timeout bounds the whole request/response exchange. Zero means the
	// default of ten seconds.
	Timeout time.Duration `validate:"min=0"`
}

type Client struct {
	config *Config
	logger zerolog.Logger
}

func New(config *Config, logger zerolog.Logger) (*Client, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, err
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	c := &Client{config: config}
	c.logger = logger.With().Str("module", "client").Logger()
	return c, nil
}

// ListStations returns the station codes available on the server.
func (c *Client) ListStations() ([]string, error) {
	response, err := c.send("LIST_STATIONS")
	if err != nil {
		return nil, err
	}
	return splitLines(response), nil
}

// ListAvailableTime returns the coverage interval lines for a station.
func (c *Client) ListAvailableTime(station string) ([]string, error) {
	response, err := c.send("LIST_TIME," + station)
	if err != nil {
		return nil, err
	}
	return splitLines(response), nil
}

// GetData requests POS records for a station over [start, end] and parses
// the response into a DataSet. Malformed response lines are dropped.
func (c *Client) GetData(station string, start, end time.Time) (*DataSet, error) {
	request := fmt.Sprintf("GET_DATA,%s,%s,%s",
		station, start.Format(timestampFormat), end.Format(timestampFormat))
	response, err := c.send(request)
	if err != nil {
		return nil, err
	}
	return ParseRecords(response), nil
}

// send writes one request line and reads the response until the server
// closes the connection; end-of-data is signaled only by connection close.
func (c *Client) send(request string) (string, error) {
	conn, err := net.DialTimeout("tcp", c.config.Addr, c.config.Timeout)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(c.config.Timeout)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	c.logger.Debug().Str("request", request).Msg("sending request")

	if _, err := conn.Write([]byte(request)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	data, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return string(data), nil
}

// splitLines deserializes a list response. A response whose only content is
// the trailing newline is an empty list, not a list of one empty string.
func splitLines(response string) []string {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
