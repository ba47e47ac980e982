package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/dougfinl/osckit/osc"
)

func main() {
	long := flag.Bool("long", false, "send integer arguments as 64 bit integers")
	double := flag.Bool("double", false, "send decimal arguments as 64 bit floats")
	symbol := flag.Bool("symbol", false, "send string arguments as OSC symbols")
	bundle := flag.Bool("bundle", false, "wrap the message in a bundle")
	at := flag.Duration("at", 0, "schedule the bundle this far in the future (implies -bundle)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: oscsend [flags] <host:port> <address> [arg...]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Integer arguments become int32, decimals float32, and the words")
		fmt.Fprintln(os.Stderr, "true, false, nil and impulse map to their OSC types. Anything else")
		fmt.Fprintln(os.Stderr, "is sent as a string.")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	msg := osc.NewMessage(flag.Arg(1))
	for _, raw := range flag.Args()[2:] {
		if err := msg.Append(parseArg(raw, *long, *double, *symbol)); err != nil {
			fmt.Fprintf(os.Stderr, "oscsend: argument %q: %v\n", raw, err)
			os.Exit(1)
		}
	}

	var packet osc.Packet = msg
	if *bundle || *at != 0 {
		packet = osc.NewBundleWithTime(time.Now().Add(*at), msg)
	}

	client, err := osc.Dial(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "oscsend: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := client.Send(packet); err != nil {
		fmt.Fprintf(os.Stderr, "oscsend: %v\n", err)
		os.Exit(1)
	}
}

// parseArg infers the OSC type of one command line argument.
func parseArg(s string, long, double, symbol bool) interface{} {
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "nil":
		return nil
	case "impulse":
		return osc.Impulse{}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		if long || i > math.MaxInt32 || i < math.MinInt32 {
			return i
		}
		return int32(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if double {
			return f
		}
		return float32(f)
	}
	if symbol {
		return osc.Symbol(s)
	}
	return s
}
