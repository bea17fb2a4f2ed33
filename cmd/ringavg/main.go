package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	log "github.com/golang/glog"

	"github.com/lozord/ringavg"
)

var (
	configPath = flag.String("config", "", "Path to a TOML config file.")
	capacity   = flag.Int("capacity", ringavg.DefaultCapacity, "Number of most recent values to average over.")
	precision  = flag.String("precision", "", "Precision preset: decimal32, decimal64 or decimal128.")
	rounding   = flag.String("rounding", "", "Rounding mode, e.g. half_even, half_up, down.")
	kind       = flag.String("kind", "", "Value kind: float or decimal.")
	dump       = flag.Bool("dump", false, "Print the retained values after the input ends.")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		log.Exitf("failed to load config: %v", err)
	}

	log.Info("starting up and reading from stdin")
	if err := doMain(ctx, cfg, os.Stdin, os.Stdout, *dump); err != nil {
		log.Exitf("failed to run: %v", err)
	}
}

// loadConfig reads -config if given and applies any flags set on the command line over it.
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if *configPath != "" {
		var err error
		if cfg, err = ParseFromFile(*configPath); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "capacity":
			cfg.Capacity = capacity
		case "precision":
			cfg.Precision = *precision
		case "rounding":
			cfg.Rounding = *rounding
		case "kind":
			cfg.Kind = *kind
		}
	})
	return cfg, nil
}

func doMain(ctx context.Context, cfg *Config, input io.Reader, output io.Writer, dump bool) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	k, err := cfg.kind()
	if err != nil {
		return err
	}

	switch k {
	case kindDecimal:
		b, err := ringavg.NewDecimals(opts...)
		if err != nil {
			return err
		}
		return stream(ctx, b, parseDecimal, input, output, dump)
	default:
		b, err := ringavg.NewFloats[float64](opts...)
		if err != nil {
			return err
		}
		return stream(ctx, b, parseFloat, input, output, dump)
	}
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseDecimal(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	return d, err
}

// stream adds every whitespace separated token of input to b and writes the
// running average after each one, or "-" while b is empty.
func stream[T any](ctx context.Context, b *ringavg.Buffer[T], parse func(string) (T, error), input io.Reader, output io.Writer, dump bool) error {
	w := bufio.NewWriter(output)
	defer w.Flush()

	s := bufio.NewScanner(input)
	line := 0
	for s.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, tok := range strings.Fields(s.Text()) {
			v, err := parse(tok)
			if err != nil {
				return fmt.Errorf("line %d: bad number %q: %w", line, tok, err)
			}
			b.Add(v)

			avg, err := b.Average()
			switch {
			case err == nil:
				fmt.Fprintln(w, avg.String())
			case b.Len() == 0:
				fmt.Fprintln(w, "-")
			default:
				return fmt.Errorf("line %d: %w", line, err)
			}
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if dump {
		for i, v := range b.AllElements() {
			fmt.Fprintf(w, "%d: %v\n", i+1, v)
		}
	}
	log.V(1).Infof("processed %d lines, %d values retained", line, b.Len())
	return w.Flush()
}
