// Command sigfilter filters row-per-pixel signal datasets held in a
// directory store.
//
// Usage:
//
//	sigfilter <command> [flags]
//
// Commands:
//
//	synth  write a synthetic main dataset
//	run    filter a main dataset
//	ls     list the groups and datasets of a store
//
// Examples:
//
//	sigfilter synth -store data -rows 64 -len 1024 -rate 1e6 -tone 5e4 -noise 0.3
//	sigfilter run -store data -dataset /Measurement_000/Raw_Data -lowpass 1e5 -noise-threshold 1e-4
//	sigfilter run -store data -dataset /Measurement_000/Raw_Data -harmonic 5e4:2e3:4 -condensed
//	sigfilter run -store data -dataset /Measurement_000/Raw_Data -lowpass 1e5 \
//	    -resume /Measurement_000/Raw_Data-FFT_Filtering_000
//	sigfilter ls -store data
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string, stdout io.Writer) error
}

var commands = []command{
	{"synth", "write a synthetic main dataset", runSynth},
	{"run", "filter a main dataset", runFilter},
	{"ls", "list the groups and datasets of a store", runList},
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: sigfilter <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-6s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(os.Stderr, "\nRun 'sigfilter <command> -h' for the flags of a command.\n")
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name := os.Args[1]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(ctx, os.Args[2:], os.Stdout)
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", name)
	usage()
	os.Exit(2)
}
