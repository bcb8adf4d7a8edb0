package server_test

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frednet.dev/lzero/internal/archive"
	"frednet.dev/lzero/internal/client"
	"frednet.dev/lzero/internal/observability"
	"frednet.dev/lzero/internal/server"
)

const posTail = "40.821 14.139 120.5 1 12 0.001 -0.002 0.003 0.0 0.0 0.0 1.2 21.5"

func startServer(t *testing.T, root string) *server.Server {
	t.Helper()
	srv, err := server.New(&server.Config{Root: root, ListenAddr: "127.0.0.1:0"},
		observability.NewMetricsForTesting(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })
	return srv
}

// rawRequest speaks the wire protocol directly: write one line, read to EOF.
func rawRequest(t *testing.T, addr, request string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte(request))
	require.NoError(t, err)
	data, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(data)
}

func writeBucket(t *testing.T, root, station string, ts time.Time, lines string) {
	t.Helper()
	path, err := archive.FilePath(root, station, ts.Year(), ts.YearDay(), ts.Hour())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
}

func TestListStationsEmptyArchive(t *testing.T) {
	srv := startServer(t, t.TempDir())
	got := rawRequest(t, srv.Addr().String(), "LIST_STATIONS")
	assert.Equal(t, "\n", got)
}

func TestGetDataRoundTrip(t *testing.T) {
	root := t.TempDir()
	line := "2025/06/30 10:47:00.000 " + posTail
	writeBucket(t, root, "FLEE", time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC), line+"\n")
	srv := startServer(t, root)

	got := rawRequest(t, srv.Addr().String(),
		"GET_DATA,FLEE,2025-06-30T10:45:11,2025-06-30T10:49:11")
	assert.Equal(t, line+"\n", got)
}

func TestGetDataNoMatches(t *testing.T) {
	srv := startServer(t, t.TempDir())
	got := rawRequest(t, srv.Addr().String(),
		"GET_DATA,FLEE,2025-06-30T10:45:11,2025-06-30T10:49:11")
	assert.Equal(t, "\n", got)
}

func TestProtocolErrorsAreInBand(t *testing.T) {
	srv := startServer(t, t.TempDir())
	addr := srv.Addr().String()

	assert.Equal(t, "ERROR: Unknown command FROB.\n", rawRequest(t, addr, "FROB"))
	assert.Equal(t, "ERROR: LIST_TIME requires station.\n", rawRequest(t, addr, "LIST_TIME"))
	assert.Equal(t, "ERROR: Invalid datetime format.\n",
		rawRequest(t, addr, "GET_DATA,FLEE,nope,2025-06-30T10:49:11"))
}

func TestListTimeIntervals(t *testing.T) {
	root := t.TempDir()
	for _, hour := range []int{7, 8, 14} {
		ts := time.Date(2025, 7, 3, hour, 0, 0, 0, time.UTC)
		writeBucket(t, root, "ST01", ts, "")
	}
	srv := startServer(t, root)

	got := rawRequest(t, srv.Addr().String(), "LIST_TIME,ST01")
	want := "From 2025-07-03T07:00:00.000 To 2025-07-03T08:00:00.000\n" +
		"From 2025-07-03T14:00:00.000 To 2025-07-03T14:00:00.000\n"
	assert.Equal(t, want, got)
}

func TestClientAgainstServer(t *testing.T) {
	root := t.TempDir()
	line := "2025-06-30 10:47:00 " + posTail
	writeBucket(t, root, "FLEE", time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC), line+"\n")
	srv := startServer(t, root)

	c, err := client.New(&client.Config{Addr: srv.Addr().String()}, zerolog.Nop())
	require.NoError(t, err)

	stations, err := c.ListStations()
	require.NoError(t, err)
	assert.Equal(t, []string{"FLEE"}, stations)

	data, err := c.GetData("FLEE",
		time.Date(2025, 6, 30, 10, 45, 11, 0, time.UTC),
		time.Date(2025, 6, 30, 10, 49, 11, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 1, data.Len())
	assert.Equal(t, 40.821, data.Lat[0])
	assert.Equal(t, 14.139, data.Lon[0])
}

func TestStatusAndRestart(t *testing.T) {
	root := t.TempDir()
	srv := startServer(t, root)

	st := srv.Status()
	assert.True(t, st.Running)
	assert.Equal(t, root, st.Root)

	require.NoError(t, srv.Restart())
	assert.True(t, srv.Status().Running)

	require.NoError(t, srv.Stop())
	assert.False(t, srv.Status().Running)
	assert.ErrorIs(t, srv.Stop(), server.ErrNotRunning)

	// restart from stopped works too
	require.NoError(t, srv.Restart())
	assert.ErrorIs(t, srv.Start(), server.ErrAlreadyRunning)
}

func TestInvalidConfig(t *testing.T) {
	_, err := server.New(&server.Config{ListenAddr: ":5000"},
		observability.NewMetricsForTesting(), zerolog.Nop())
	assert.Error(t, err)
}
