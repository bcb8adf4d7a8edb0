package server

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// wconn wraps one accepted client connection with a connection id, byte
// counters and its own logger.
type wconn struct {
	conn    net.Conn
	cid     uint64
	raddr   string
	created time.Time
	byteIn  uint64
	byteOut uint64
	logger  zerolog.Logger
}

func newWconn(conn net.Conn, cid uint64, logger zerolog.Logger) *wconn {
	c := &wconn{conn: conn, cid: cid, raddr: conn.RemoteAddr().String()}
	c.created = time.Now()
	c.logger = logger.With().Str("module", "wconn").Uint64("cid", cid).Logger()
	c.logger.Debug().Str("remote_address", c.raddr).Msg("connection created")
	return c
}

func (c *wconn) Read(p []byte) (int, error) {
	n, err := c.conn.Read(p)
	atomic.AddUint64(&c.byteIn, uint64(n))
	return n, err
}

func (c *wconn) Write(p []byte) (int, error) {
	n, err := c.conn.Write(p)
	atomic.AddUint64(&c.byteOut, uint64(n))
	return n, err
}

func (c *wconn) Close() {
	c.conn.Close()
	c.logger.Debug().Uint64("byte_in", atomic.LoadUint64(&c.byteIn)).
		Uint64("byte_out", atomic.LoadUint64(&c.byteOut)).Msg("connection closed")
}

func (c *wconn) RemoteAddr() string {
	return c.raddr
}
