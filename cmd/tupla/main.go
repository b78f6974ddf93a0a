// Command tupla builds the suffix array (and optionally the LCP
// array) of a byte string read from a file, writing the result as
// little-endian uint32 words to sibling .rank/.lcp files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/alecthomas/kong"

	"github.com/jkataja/tupla/engine"
)

// CLI mirrors the original tool's flag table (see SPEC_FULL.md §6.2):
// jobs, lcp, force, bench, print, validate, max-bytes, and a required
// positional input file.
type CLI struct {
	Jobs     int    `help:"concurrency level (0 selects runtime.NumCPU())" short:"j" default:"0"`
	LCP      bool   `help:"also compute the LCP array" short:"l"`
	Force    bool   `help:"overwrite output files if present" short:"f"`
	Bench    bool   `help:"benchmark mode: skip writing output" short:"b"`
	Print    bool   `help:"print SA/LCP to stderr" short:"o"`
	Validate bool   `help:"run the post-build validator" short:"v"`
	MaxBytes int64  `help:"read at most this many bytes of input" name:"max-bytes" short:"n" default:"0"`
	Input    string `arg:"" help:"path to the input file" type:"existingfile"`
}

func main() {
	var cli CLI
	kong.Parse(&cli)
	if err := run(&cli); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func run(cli *CLI) error {
	jobs := cli.Jobs
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}

	text, err := readInput(cli.Input, cli.MaxBytes)
	if err != nil {
		return fmt.Errorf("tupla: read %s: %w", cli.Input, err)
	}

	log := &stderrLogger{}
	e, err := engine.New(text, jobs, engine.WithLogger(log))
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := e.BuildSA(ctx); err != nil {
		return err
	}
	if cli.LCP {
		if err := e.BuildLCP(ctx); err != nil {
			return err
		}
	}

	if cli.Validate {
		report, err := e.Validate()
		if err != nil {
			return err
		}
		log.Infof("%s", report)
		if !report.OK() {
			return fmt.Errorf("tupla: validation failed: %s", report)
		}
	}

	sa, _ := e.SA()
	if cli.Print {
		printArray(os.Stderr, "sa", sa)
		if cli.LCP {
			if lcp, ok := e.LCP(); ok {
				printArray(os.Stderr, "lcp", lcp)
			}
		}
	}

	if cli.Bench {
		return nil
	}

	if err := writeRankFile(cli.Input+".rank", sa, cli.Force); err != nil {
		return err
	}
	if cli.LCP {
		lcp, _ := e.LCP()
		if err := writeRankFile(cli.Input+".lcp", lcp, cli.Force); err != nil {
			return err
		}
	}

	stats := e.Stats()
	log.Infof("done: length=%d jobs=%d rounds=%d final-h=%d alphabet=%d",
		stats.Length, stats.Jobs, stats.Rounds, stats.FinalH, stats.AlphabetSize)
	return nil
}

func printArray(w *os.File, name string, a []int32) {
	for i, v := range a {
		fmt.Fprintf(w, "%s[%d] = %d\n", name, i, v)
	}
}

func exitCode(err error) int {
	var e *engine.Error
	if !errors.As(err, &e) {
		return 1
	}
	switch e.Kind {
	case engine.KindInputDomain:
		return 2
	case engine.KindResource:
		return 3
	case engine.KindProtocol:
		return 4
	case engine.KindIO:
		return 5
	default:
		return 1
	}
}
