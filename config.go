package sds

import (
	"errors"
	"flag"
	"io"
)

const USAGE = "optional command-line arguments are:" +
	" --clear --dump --miles --no-ts --no-zeros --raw --wait-remove"

var ErrUsage = errors.New(USAGE)

// Config holds the options of a single run.
type Config struct {
	Clear      bool // reset the unit's counters after a successful read
	Dump       bool // hex dump identification and data replies
	Miles      bool // convert kilometers to miles
	TS         bool // print trip-section fields
	Zeros      bool // print zero-valued fields
	Raw        bool // print comma-separated values only
	WaitRemove bool // after printing, wait until the unit leaves the cradle
}

func DefaultConfig() Config {
	return Config{
		TS:    true,
		Zeros: true,
	}
}

// ParseArgs parses command-line arguments, program name excluded. Any
// argument that is not one of the known flags fails the whole set with
// ErrUsage.
func ParseArgs(args []string) (Config, error) {
	c := DefaultConfig()
	var noTS, noZeros bool

	fs := flag.NewFlagSet("sds-data", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&c.Clear, "clear", false, "reset counters after read")
	fs.BoolVar(&c.Dump, "dump", false, "dump raw replies")
	fs.BoolVar(&c.Miles, "miles", false, "use miles")
	fs.BoolVar(&noTS, "no-ts", false, "omit trip-section fields")
	fs.BoolVar(&noZeros, "no-zeros", false, "omit zero-valued fields")
	fs.BoolVar(&c.Raw, "raw", false, "comma-separated values")
	fs.BoolVar(&c.WaitRemove, "wait-remove", false, "wait for unit removal")

	for _, a := range args {
		if len(a) < 3 || a[:2] != "--" || fs.Lookup(a[2:]) == nil {
			return c, ErrUsage
		}
	}
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return c, ErrUsage
	}
	c.TS = !noTS
	c.Zeros = !noZeros
	return c, nil
}

func (c Config) Units() Units {
	if c.Miles {
		return Imperial
	}
	return Metric
}
