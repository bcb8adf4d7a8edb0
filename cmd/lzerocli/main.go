// Command lzerocli queries a running POS server.
//
//	lzerocli -addr localhost:5000 stations
//	lzerocli -addr localhost:5000 time FLEE
//	lzerocli -addr localhost:5000 data FLEE 2025-06-30T10:45:11 2025-06-30T10:49:11
//	lzerocli -addr localhost:5000 -streams data FLEE 2025-06-30T10:45:11 2025-06-30T10:49:11
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"frednet.dev/lzero/internal/client"
	"frednet.dev/lzero/internal/protocol"
	"frednet.dev/lzero/internal/stream"
)

func main() {
	addr := flag.String("addr", "localhost:5000", "server address")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	debug := flag.Bool("debug", false, "sets log level to debug")
	streams := flag.Bool("streams", false, "convert data to displacement streams")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	args := flag.Args()
	if len(args) == 0 {
		fail("usage: lzerocli [flags] stations | time <station> | data <station> <start> <end>")
	}

	c, err := client.New(&client.Config{Addr: *addr, Timeout: *timeout}, log.Logger)
	if err != nil {
		fail(err.Error())
	}

	switch args[0] {
	case "stations":
		stations, err := c.ListStations()
		if err != nil {
			fail(err.Error())
		}
		for _, s := range stations {
			fmt.Println(s)
		}

	case "time":
		if len(args) != 2 {
			fail("time requires a station code")
		}
		intervals, err := c.ListAvailableTime(args[1])
		if err != nil {
			fail(err.Error())
		}
		for _, iv := range intervals {
			fmt.Println(iv)
		}

	case "data":
		if len(args) != 4 {
			fail("data requires station, start and end")
		}
		start, err := protocol.ParseTimestamp(args[2])
		if err != nil {
			fail("invalid start time")
		}
		end, err := protocol.ParseTimestamp(args[3])
		if err != nil {
			fail("invalid end time")
		}
		if *streams {
			printStreams(c, args[1], start, end)
			return
		}
		data, err := c.GetData(args[1], start, end)
		if err != nil {
			fail(err.Error())
		}
		fmt.Printf("%d records, fields: %v\n", data.Len(), data.Fields())

	default:
		fail("unknown command " + args[0])
	}
}

func printStreams(c *client.Client, station string, start, end time.Time) {
	data, err := c.GetData(station, start, end)
	if err != nil {
		fail(err.Error())
	}
	chunks, err := stream.Convert(data)
	if err != nil {
		fail(err.Error())
	}
	for _, r := range stream.ToCollection(station, chunks).Records {
		fmt.Printf("%s start=%s delta=%gs samples=%d\n",
			r.SID, r.Time.Format("2006-01-02T15:04:05.000"), r.Delta, len(r.Data))
	}
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
